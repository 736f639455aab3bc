package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/pipeline"
	"github.com/matzehuels/deckview/pkg/render"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/source"
)

var playStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestPlayModel(t *testing.T) playModel {
	t.Helper()
	opts := pipeline.Options{
		InitialLayout: "table",
		Duration:      time.Second,
		Easing:        "linear",
		FPS:           30,
		Seed:          1,
	}
	m, err := newPlayModel(scene.Placeholder(4), opts, func() time.Time { return playStart })
	if err != nil {
		t.Fatalf("newPlayModel() error: %v", err)
	}
	return m
}

func update(t *testing.T, m playModel, msg tea.Msg) (playModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(playModel)
	if !ok {
		t.Fatalf("Update returned %T, want playModel", next)
	}
	return pm, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayStartsInitialTransition(t *testing.T) {
	m := newTestPlayModel(t)
	if m.ctrl.Active() != layout.Table {
		t.Errorf("Active() = %s, want table", m.ctrl.Active())
	}
	if !m.ctrl.Running() {
		t.Error("initial transition should be running")
	}
	if m.frame != time.Second/30 {
		t.Errorf("frame = %v, want %v", m.frame, time.Second/30)
	}
}

func TestPlayTickSettles(t *testing.T) {
	m := newTestPlayModel(t)

	m, cmd := update(t, m, tickMsg(playStart.Add(5*time.Second)))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.ctrl.Running() {
		t.Error("transition should be done after 5s")
	}

	want := layout.Build(layout.TableAt, 4)
	got := m.ctrl.Scene().Snapshot()
	for i := range want {
		if got[i].Position != want[i].Position {
			t.Errorf("card %d at %v, want %v", i, got[i].Position, want[i].Position)
		}
	}
}

func TestPlayLayoutKeys(t *testing.T) {
	tests := []struct {
		key  string
		want layout.Name
	}{
		{"1", layout.Table},
		{"2", layout.Sphere},
		{"3", layout.Helix},
		{"4", layout.Grid},
		{"5", layout.Tetrahedron},
		{"s", layout.Sphere},
		{"h", layout.Helix},
		{"g", layout.Grid},
		{"p", layout.Tetrahedron},
		{"t", layout.Table},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newTestPlayModel(t)
			m, _ = update(t, m, key(tt.key))
			if m.err != nil {
				t.Fatalf("transition error: %v", m.err)
			}
			if m.ctrl.Active() != tt.want {
				t.Errorf("key %q: Active() = %s, want %s", tt.key, m.ctrl.Active(), tt.want)
			}
		})
	}
}

func TestPlayCamera(t *testing.T) {
	m := newTestPlayModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.camera.Position[1]; got != 2*panStep {
		t.Errorf("after up, camera y = %v, want %v", got, 2*panStep)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.camera.Position[0]; got != -2*panStep {
		t.Errorf("after left, camera x = %v, want %v", got, -2*panStep)
	}
	m, _ = update(t, m, key("+"))
	if got, want := m.camera.Position[2], render.DefaultDistance-2*zoomStep; got != want {
		t.Errorf("after +, camera z = %v, want %v", got, want)
	}
	m, _ = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got, want := m.camera.Position[2], render.DefaultDistance-2*zoomStep+2*wheelStep; got != want {
		t.Errorf("after wheel down, camera z = %v, want %v", got, want)
	}

	for i := 0; i < 100; i++ {
		m, _ = update(t, m, key("-"))
	}
	if got := m.camera.Position[2]; got != render.MaxDistance {
		t.Errorf("zoom out should clamp at %v, got %v", render.MaxDistance, got)
	}
}

func TestPlayMouseDrag(t *testing.T) {
	m := newTestPlayModel(t)
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m, _ = update(t, m, tea.MouseMsg{X: 12, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m, _ = update(t, m, tea.MouseMsg{X: 12, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	if got, want := m.camera.Position[0], 2*2*cellWidth; got != want {
		t.Errorf("camera x after drag = %v, want %v", got, want)
	}
	m, _ = update(t, m, tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionMotion})
	if got, want := m.camera.Position[0], 2*2*cellWidth; got != want {
		t.Errorf("motion without a pressed button moved the camera to x = %v", got)
	}
}

func TestPlayDragMatchesArrows(t *testing.T) {
	drag := newTestPlayModel(t)
	drag, _ = update(t, drag, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	drag, _ = update(t, drag, tea.MouseMsg{X: 9, Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})

	arrows := newTestPlayModel(t)
	arrows, _ = update(t, arrows, tea.KeyMsg{Type: tea.KeyLeft})
	arrows, _ = update(t, arrows, tea.KeyMsg{Type: tea.KeyUp})

	// Dragging left and up moves the camera the same way as the arrows.
	for i, axis := range []string{"x", "y"} {
		d, a := drag.camera.Position[i], arrows.camera.Position[i]
		if d == 0 || (d < 0) != (a < 0) {
			t.Errorf("camera %s: drag = %v, arrows = %v; want the same sign", axis, d, a)
		}
	}
}

func TestPlayQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newTestPlayModel(t)
		_, cmd := update(t, m, k)
		if cmd == nil {
			t.Fatalf("%q: expected quit command", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: command did not quit", k.String())
		}
	}
}

func TestPlayView(t *testing.T) {
	m := newTestPlayModel(t)
	if m.View() != "" {
		t.Error("View() before the first WindowSizeMsg should be empty")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = update(t, m, tickMsg(playStart.Add(5*time.Second)))
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 20 {
		t.Errorf("View() has %d lines, want 20", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "table") {
		t.Errorf("status line %q should name the active layout", lines[len(lines)-1])
	}
	if !strings.Contains(view, cardGlyph) {
		t.Error("View() should draw cards")
	}
}

func card(z float64, tier source.Tier) render.Card {
	return render.Card{Transform: geom.Transform{Position: geom.Vec3{0, 0, z}}, Tier: tier}
}

func TestCardCells(t *testing.T) {
	cam := render.NewCamera()

	cells := cardCells([]render.Card{card(0, source.TierHigh)}, cam, 80, 24)
	if len(cells) != 24 || len(cells[0]) != 80 {
		t.Fatalf("grid is %dx%d, want 80x24", len(cells[0]), len(cells))
	}
	if cells[12][40] != source.TierHigh {
		t.Errorf("centre cell = %q, want high", cells[12][40])
	}
	if cells[0][0] != "" || cells[23][79] != "" {
		t.Error("corner cells should be empty")
	}
}

func TestCardCellsPainterOrder(t *testing.T) {
	cam := render.NewCamera()
	cards := []render.Card{card(500, source.TierHigh), card(-500, source.TierLow)}

	cells := cardCells(cards, cam, 80, 24)
	if cells[12][40] != source.TierHigh {
		t.Errorf("centre cell = %q, want the nearer card (high)", cells[12][40])
	}
}

func TestCardCellsClipped(t *testing.T) {
	cam := render.NewCamera()
	cells := cardCells([]render.Card{card(4000, source.TierHigh)}, cam, 20, 10)
	for y, row := range cells {
		for x, tier := range row {
			if tier != "" {
				t.Fatalf("cell (%d,%d) = %q for a card behind the camera", x, y, tier)
			}
		}
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		center, half float64
		limit        int
		lo, hi       int
	}{
		{10, 2, 80, 8, 12},
		{10.2, 0.1, 80, 10, 11},
		{-5, 2, 80, 0, -3},
		{79.5, 3, 80, 77, 80},
	}
	for _, tt := range tests {
		lo, hi := span(tt.center, tt.half, tt.limit)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("span(%v, %v, %d) = [%d, %d), want [%d, %d)", tt.center, tt.half, tt.limit, lo, hi, tt.lo, tt.hi)
		}
	}
}
