package viz

import (
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/sim"
)

func newTestLive(t *testing.T, presets ...string) *Live {
	t.Helper()
	cards := make([]config.Simulation, len(presets))
	for i, name := range presets {
		c, err := config.GetPreset(name)
		if err != nil {
			t.Fatal(err)
		}
		cards[i] = c
	}
	grid, err := sim.NewGrid(cards, 400, 400, 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewLive(grid, LiveOptions{Width: 400, Height: 400, GIFPath: filepath.Join(t.TempDir(), "out.gif")})
}

func TestLiveTickRecordsEnergy(t *testing.T) {
	m := newTestLive(t, "box-spin", "sst-hydrogen")

	for i := 0; i < 5; i++ {
		m.Update(TickMsg{})
	}
	for i := range m.energy {
		if len(m.energy[i]) != 5 {
			t.Errorf("card %d history = %d, want 5", i, len(m.energy[i]))
		}
		if m.grid.At(i).Frame() != 5 {
			t.Errorf("card %d frame = %d", i, m.grid.At(i).Frame())
		}
	}
}

func TestLivePause(t *testing.T) {
	m := newTestLive(t, "box-spin")
	m.Update(TickMsg{})
	before := m.grid.At(0).State()

	m.handleKey(" ")
	m.Update(TickMsg{})

	after := m.grid.At(0).State()
	for i := range before.Bodies {
		if before.Bodies[i].Pos != after.Bodies[i].Pos {
			t.Fatal("paused grid should not move bodies")
		}
	}
	if len(m.energy[0]) != 1 {
		t.Errorf("paused frames should not extend history, got %d", len(m.energy[0]))
	}
}

func TestLiveFocusAndParams(t *testing.T) {
	m := newTestLive(t, "box-spin", "triangle")

	m.handleKey("tab")
	if m.focus != 1 {
		t.Fatalf("focus = %d", m.focus)
	}
	m.handleKey("shift+tab")
	m.handleKey("shift+tab")
	if m.focus != 1 {
		t.Fatalf("focus should wrap, got %d", m.focus)
	}

	// gravity is the first parameter and does not re-spawn
	m.param = 0
	g := m.grid.At(1).Config().Gravity
	m.handleKey("up")
	if got := m.grid.At(1).Config().Gravity; got <= g {
		t.Errorf("gravity %f should have increased from %f", got, g)
	}
	if !strings.Contains(m.message, "gravity") || strings.Contains(m.message, "re-spawned") {
		t.Errorf("message = %q", m.message)
	}

	// ball_count is a count and re-spawns
	m.param = 6
	n := m.grid.At(1).Config().BallCount
	m.handleKey("down")
	if got := len(m.grid.At(1).State().Bodies); got != n-1 {
		t.Errorf("expected %d bodies after edit, got %d", n-1, got)
	}
	if !strings.Contains(m.message, "re-spawned") {
		t.Errorf("message = %q", m.message)
	}

	m.handleKey("[")
	card := m.grid.At(1).Config()
	if m.selectedParam(card.Params()) != 5 {
		t.Errorf("param cursor = %d", m.param)
	}
}

func TestLiveRejectsInvalidEdit(t *testing.T) {
	m := newTestLive(t, "box-spin")
	m.param = 1 // friction
	for i := 0; i < 200; i++ {
		m.handleKey("up")
	}
	if f := m.grid.At(0).Config().Friction; f > 1 {
		t.Errorf("friction %f escaped validation", f)
	}
	if m.message == "" {
		t.Error("expected the validation error to be shown")
	}
}

func TestLiveTimeScaleAndTheme(t *testing.T) {
	m := newTestLive(t, "box-spin")
	m.handleKey("+")
	if got := m.grid.Global().TimeScale; got != timeScaleStep {
		t.Errorf("time scale = %f", got)
	}
	m.handleKey("-")
	if got := m.grid.Global().TimeScale; got != 1 {
		t.Errorf("time scale = %f", got)
	}

	m.handleKey("t")
	if m.theme.Name != NextTheme(ThemeTags.Name).Name {
		t.Errorf("theme = %s", m.theme.Name)
	}
}

func TestLiveView(t *testing.T) {
	m := newTestLive(t, "box-spin", "dual-ring-swarm")
	m.Update(TickMsg{})
	m.Update(TickMsg{})

	out := m.View()
	if !strings.Contains(out, "gravity") || !strings.Contains(out, "PARAMETERS") {
		t.Error("focus view missing the card panel")
	}

	m.handleKey("m")
	out = m.View()
	if !strings.Contains(out, "dual ring swarm") {
		t.Error("grid view should list every card")
	}

	m.handleKey("?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestLiveRecordGIF(t *testing.T) {
	m := newTestLive(t, "box-spin")
	m.View()

	m.handleKey("g")
	for i := 0; i < 3; i++ {
		m.Update(TickMsg{})
	}
	m.handleKey("g")

	f, err := os.Open(m.opts.GIFPath)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
}

func TestLiveQuit(t *testing.T) {
	m := newTestLive(t, "box-spin")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPickerStartsGrid(t *testing.T) {
	p := NewPicker(LiveOptions{Width: 400, Height: 400}, 3, nil)

	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if len(p.selection()) != len(config.Presets) {
		t.Fatalf("select all chose %d", len(p.selection()))
	}
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if len(p.selection()) != 0 {
		t.Fatal("second press should clear the selection")
	}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.live == nil {
		t.Fatalf("enter should start the live view: %v", p.err)
	}
	if p.live.grid.Len() != 1 || p.live.grid.At(0).Config().Name != config.Presets[p.presets[1]].Name {
		t.Error("expected the preset under the cursor")
	}
}
