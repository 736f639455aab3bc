package cli

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/pipeline"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/source"
	"github.com/matzehuels/deckview/pkg/transition"
	"github.com/matzehuels/deckview/pkg/tween"
)

// Camera steps per key press or mouse event.
const (
	panStep   = 25.0  // arrow keys, screen pixels
	zoomStep  = 100.0 // +/- keys
	wheelStep = 50.0  // mouse wheel

	// Approximate pixel size of a terminal cell, for mouse drags.
	cellWidth  = 8.0
	cellHeight = 16.0
)

const cardGlyph = "█"

// layoutKeys maps keys to layouts: digits in display order, or initials.
var layoutKeys = map[string]layout.Name{
	"1": layout.Table,
	"2": layout.Sphere,
	"3": layout.Helix,
	"4": layout.Grid,
	"5": layout.Tetrahedron,
	"t": layout.Table,
	"s": layout.Sphere,
	"h": layout.Helix,
	"g": layout.Grid,
	"p": layout.Tetrahedron,
}

func (c *CLI) playCommand() *cobra.Command {
	var (
		src     sourceFlags
		anim    animFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate the cards in the terminal",
		Long: `Animate the cards in the terminal.

Keys:
  1-5 or t s h g p   table, sphere, helix, grid, pyramid
  arrows             pan
  + / -              zoom in / out (the mouse wheel zooms, dragging pans)
  q                  quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			setCLIDefaults(&opts, c.config)
			src.apply(&opts, c.config)
			anim.apply(cmd, &opts)
			return c.runPlay(cmd.Context(), opts, noCache)
		},
	}

	src.register(cmd)
	anim.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, noCache bool) error {
	sess, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, sess, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	items, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	c.Logger.Debug("starting player", "items", len(items), "initial", opts.InitialLayout)

	m, err := newPlayModel(items, opts, time.Now)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// playModel - terminal render and input adapter
// =============================================================================

// tickMsg drives the tween scheduler once per frame.
type tickMsg time.Time

// playModel renders the scene on every tick and turns keys and mouse events
// into transitions and camera moves.
type playModel struct {
	ctrl     *transition.Controller
	camera   *render.Camera
	items    []source.Item
	duration time.Duration
	frame    time.Duration

	width, height int

	dragging     bool
	dragX, dragY int

	err error
}

// newPlayModel builds the scene and starts the transition into the initial
// layout.
func newPlayModel(items []source.Item, opts pipeline.Options, now func() time.Time) (playModel, error) {
	easing, ok := tween.ByName(opts.Easing)
	if !ok {
		easing = tween.ExponentialInOut
	}
	sc := scene.New(items, opts.Seed)
	ctrl := transition.New(sc, tween.NewScheduler(),
		transition.WithClock(now),
		transition.WithEasing(easing),
	)

	initial, err := layout.ParseName(opts.InitialLayout)
	if err != nil {
		return playModel{}, err
	}
	if err := ctrl.TransitionTo(initial, opts.Duration); err != nil {
		return playModel{}, err
	}

	fps := max(opts.FPS, 1)
	return playModel{
		ctrl:     ctrl,
		camera:   render.NewCamera(),
		items:    items,
		duration: opts.Duration,
		frame:    time.Second / time.Duration(fps),
	}, nil
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.TickAt(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		key := msg.String()
		if name, ok := layoutKeys[key]; ok {
			m.err = m.ctrl.TransitionTo(name, m.duration)
			return m, nil
		}
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.camera.Pan(-panStep, 0)
		case "right":
			m.camera.Pan(panStep, 0)
		case "up":
			m.camera.Pan(0, -panStep)
		case "down":
			m.camera.Pan(0, panStep)
		case "+", "=":
			m.camera.Zoom(-zoomStep)
		case "-":
			m.camera.Zoom(zoomStep)
		}

	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

// mouse applies wheel zoom and drag pan.
func (m *playModel) mouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.camera.Zoom(-wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.camera.Zoom(wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging, m.dragX, m.dragY = true, msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		m.camera.Pan(float64(dx)*cellWidth, float64(dy)*cellHeight)
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m playModel) View() string {
	if m.width <= 0 || m.height < 2 {
		return ""
	}
	cards := render.Cards(m.items, m.ctrl.Scene().Snapshot(), nil)

	var b strings.Builder
	b.WriteString(renderASCII(cards, m.camera, m.width, m.height-1))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m playModel) statusLine() string {
	if m.err != nil {
		return StyleWarning.Render(errors.UserMessage(m.err))
	}
	active := string(m.ctrl.Active())
	if m.ctrl.Running() {
		active += "…"
	}
	rest := []string{
		fmt.Sprintf("%d cards", len(m.items)),
		fmt.Sprintf("z=%.0f", m.camera.Position[2]),
		"1-5 layout  ←↑↓→ pan  +/- zoom  q quit",
	}
	return StyleHighlight.Render(active) + StyleDim.Render(" · "+strings.Join(rest, " · "))
}

// =============================================================================
// Terminal rasterization
// =============================================================================

// cardCells projects cards onto a width×height grid of terminal cells and
// returns each cell's tier, "" where no card covers it. Cells are treated
// as twice as tall as wide. Cards are drawn facing the camera, far first.
func cardCells(cards []render.Card, cam *render.Camera, width, height int) [][]source.Tier {
	grid := make([][]source.Tier, height)
	for y := range grid {
		grid[y] = make([]source.Tier, width)
	}

	type placed struct {
		x, y, depth float64
		tier        source.Tier
	}
	p := cam.Projector(width, height*2)
	visible := make([]placed, 0, len(cards))
	for _, c := range cards {
		x, y, depth, ok := p.Project(c.Transform.Position)
		if !ok {
			continue
		}
		visible = append(visible, placed{x: x, y: y / 2, depth: depth, tier: c.Tier})
	}
	slices.SortStableFunc(visible, func(a, b placed) int {
		return cmp.Compare(b.depth, a.depth)
	})

	for _, c := range visible {
		s := p.Scale(c.depth)
		x0, x1 := span(c.x, render.CardWidth*s/2, width)
		y0, y1 := span(c.y, render.CardHeight*s/4, height)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = c.tier
			}
		}
	}
	return grid
}

// span returns the cell range [lo, hi) covering center±half, at least one
// cell wide, clipped to [0, limit).
func span(center, half float64, limit int) (lo, hi int) {
	lo = int(math.Round(center - half))
	hi = int(math.Round(center + half))
	if hi <= lo {
		lo = int(math.Floor(center))
		hi = lo + 1
	}
	return max(lo, 0), min(hi, limit)
}

// renderASCII draws cards as tier-coloured blocks.
func renderASCII(cards []render.Card, cam *render.Camera, width, height int) string {
	cells := cardCells(cards, cam, width, height)
	styles := make(map[source.Tier]lipgloss.Style)

	var b strings.Builder
	for y, row := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < len(row); {
			tier := row[x]
			n := 1
			for x+n < len(row) && row[x+n] == tier {
				n++
			}
			if tier == "" {
				b.WriteString(strings.Repeat(" ", n))
			} else {
				st, ok := styles[tier]
				if !ok {
					col := render.TierColor(tier)
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B)))
					styles[tier] = st
				}
				b.WriteString(st.Render(strings.Repeat(cardGlyph, n)))
			}
			x += n
		}
	}
	return b.String()
}
