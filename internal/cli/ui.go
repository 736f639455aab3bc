package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleMuted   = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// printer writes the human-readable result lines of a command. Logs and
// the spinner go to stderr; printer output goes to the command's stdout.
type printer struct {
	w io.Writer
}

// print returns a printer for the current command's output.
func (c *CLI) print() printer {
	return printer{w: c.out}
}

func (p printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

// success prints "✓ message".
func (p printer) success(format string, args ...any) {
	p.line(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// warn prints "! message" in amber.
func (p printer) warn(format string, args ...any) {
	p.line(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleMuted.Render("›") + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line under the previous one.
func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints "  → path" for a written file or directory.
func (p printer) file(path string) {
	p.line("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// nextStep suggests a command to run next.
func (p printer) nextStep(description, command string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(command))
}

// stats prints "  12 cards · 48 frames · cached" with zero counts left out.
func (p printer) stats(cards, frames int, cached bool) {
	var parts []string
	if cards > 0 {
		parts = append(parts, fmt.Sprintf("%d cards", cards))
	}
	if frames > 0 {
		parts = append(parts, fmt.Sprintf("%d frames", frames))
	}
	status := styleMuted.Render("fresh")
	if cached {
		status = styleOK.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	if len(parts) == 0 {
		p.line("  " + status)
		return
	}
	p.line("  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + status)
}
