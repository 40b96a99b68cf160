package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/sim"
)

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	chosenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	hotkeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickerErrors = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Picker lets the user choose presets and then hands them to a Live grid.
type Picker struct {
	presets []string
	cursor  int
	chosen  map[int]bool

	opts LiveOptions
	seed int64
	log  *slog.Logger

	live *Live
	err  error
}

func NewPicker(opts LiveOptions, seed int64, log *slog.Logger) *Picker {
	return &Picker{
		presets: config.ListPresets(),
		chosen:  make(map[int]bool),
		opts:    opts,
		seed:    seed,
		log:     log,
	}
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		_, cmd := p.live.Update(msg)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case " ":
		p.chosen[p.cursor] = !p.chosen[p.cursor]
	case "a":
		all := len(p.selection()) < len(p.presets)
		for i := range p.presets {
			p.chosen[i] = all
		}
	case "enter":
		return p, p.start()
	}
	return p, nil
}

// selection returns the chosen presets in list order, or the one under the
// cursor when nothing is chosen.
func (p *Picker) selection() []string {
	var names []string
	for i, name := range p.presets {
		if p.chosen[i] {
			names = append(names, name)
		}
	}
	return names
}

func (p *Picker) start() tea.Cmd {
	names := p.selection()
	if len(names) == 0 {
		names = []string{p.presets[p.cursor]}
	}

	cards := make([]config.Simulation, 0, len(names))
	for _, name := range names {
		card, err := config.GetPreset(name)
		if err != nil {
			p.err = err
			return nil
		}
		cards = append(cards, card)
	}

	grid, err := sim.NewGrid(cards, p.opts.Width, p.opts.Height, p.seed, p.log)
	if err != nil {
		p.err = err
		return nil
	}
	p.live = NewLive(grid, p.opts)
	return p.live.Init()
}

func (p *Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("PARTICLEBOX") + "\n    " + Subtle.Render("rotating containers, bouncing balls") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		mark := "[ ]"
		if p.chosen[i] {
			mark = "[x]"
		}
		desc := config.Presets[name].Description
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s  %s\n", cursorStyle.Render("▸"), mark, chosenStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s  %s\n", mark, idleStyle.Render(fmt.Sprintf("%-16s", name)), idleDesc.Render(desc)))
		}
	}

	if p.err != nil {
		b.WriteString("\n    " + pickerErrors.Render(p.err.Error()) + "\n")
	}
	hint := func(key, what string) string { return hotkeyStyle.Render(key) + idleStyle.Render(" "+what+"  ") }
	b.WriteString("\n    " + hint("j/k", "navigate") + hint("space", "choose") + hint("a", "all") + hint("enter", "start") + hint("q", "quit") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive(opts LiveOptions, seed int64, log *slog.Logger) error {
	_, err := tea.NewProgram(NewPicker(opts, seed, log), tea.WithAltScreen()).Run()
	return err
}
