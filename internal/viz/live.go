package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/sim"
)

const (
	canvasCols      = 60
	canvasRows      = 24
	thumbCols       = 28
	thumbRows       = 10
	thumbsPerRow    = 3
	historyCapacity = 600
	frameRate       = 60
	timeScaleStep   = 1.25
)

type TickMsg time.Time

// LiveOptions configures the live view.
type LiveOptions struct {
	// Width and Height are the simulation canvas in pixels.
	Width, Height float64
	// GIFPath is where a recording is written when it stops.
	GIFPath string
	Theme   string
}

// Live is the bubbletea model for a grid of running cards. One card has focus;
// parameter edits and resets apply to it, pause and time scale to all.
type Live struct {
	grid  *sim.Grid
	opts  LiveOptions
	theme Theme

	canvas *Canvas
	thumbs []*Canvas

	focus    int
	param    int
	multi    bool
	showHelp bool
	message  string

	energy [][]float64
	stats  []sim.FrameStats

	recording bool
	frames    []*image.Paletted
}

func NewLive(grid *sim.Grid, opts LiveOptions) *Live {
	if opts.Width <= 0 {
		opts.Width = config.DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = config.DefaultHeight
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "particlebox.gif"
	}

	m := &Live{
		grid:   grid,
		opts:   opts,
		theme:  GetTheme(opts.Theme),
		canvas: NewCanvas(canvasCols, canvasRows),
		thumbs: make([]*Canvas, grid.Len()),
		energy: make([][]float64, grid.Len()),
		stats:  make([]sim.FrameStats, grid.Len()),
	}
	for i := range m.thumbs {
		m.thumbs[i] = NewCanvas(thumbCols, thumbRows)
		m.energy[i] = make([]float64, 0, historyCapacity)
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Live) Init() tea.Cmd { return tick() }

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case TickMsg:
		m.step()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return tea.Quit
	case " ":
		m.grid.TogglePause()
	case "r":
		if err := m.grid.Reset(m.focus); err != nil {
			m.message = err.Error()
		} else {
			m.energy[m.focus] = m.energy[m.focus][:0]
			m.message = "reset " + m.grid.At(m.focus).Config().Name
		}
	case "tab":
		m.focus = (m.focus + 1) % m.grid.Len()
		m.param = 0
	case "shift+tab":
		m.focus = (m.focus + m.grid.Len() - 1) % m.grid.Len()
		m.param = 0
	case "]":
		m.param++
	case "[":
		m.param--
	case "up", "k":
		m.adjustParam(1)
	case "down", "j":
		m.adjustParam(-1)
	case "+", "=":
		m.scaleTime(timeScaleStep)
	case "-", "_":
		m.scaleTime(1 / timeScaleStep)
	case "m":
		m.multi = !m.multi
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
			m.message = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// selectedParam wraps the cursor into the focused card's parameter list.
func (m *Live) selectedParam(ps []config.Param) int {
	if len(ps) == 0 {
		return -1
	}
	m.param = ((m.param % len(ps)) + len(ps)) % len(ps)
	return m.param
}

// adjustParam nudges the selected parameter by one step: one unit for counts,
// ten percent otherwise.
func (m *Live) adjustParam(dir float64) {
	cfg := m.grid.At(m.focus).Config()
	ps := cfg.Params()
	i := m.selectedParam(ps)
	if i < 0 {
		return
	}
	p := ps[i]

	v := p.Value + dir
	if !p.Whole {
		step := math.Abs(p.Value) * 0.1
		if step == 0 {
			step = 0.01
		}
		v = p.Value + dir*step
	}
	if err := cfg.SetParam(p.Name, v); err != nil {
		m.message = err.Error()
		return
	}

	respawned, err := m.grid.Edit(m.focus, cfg)
	switch {
	case err != nil:
		m.message = err.Error()
	case respawned:
		m.energy[m.focus] = m.energy[m.focus][:0]
		m.message = fmt.Sprintf("%s = %.3g (re-spawned)", p.Name, v)
	default:
		m.message = fmt.Sprintf("%s = %.3g", p.Name, v)
	}
}

func (m *Live) scaleTime(f float64) {
	g := m.grid.Global()
	g.TimeScale *= f
	if err := m.grid.SetGlobal(g); err != nil {
		m.message = err.Error()
	}
}

// step advances every card one frame and records kinetic energy history.
func (m *Live) step() {
	copy(m.stats, m.grid.Tick(m.opts.Width, m.opts.Height))
	if m.grid.Paused() {
		return
	}
	for i := range m.energy {
		st := m.grid.At(i).State()
		m.energy[i] = append(m.energy[i], st.KineticEnergy())
		if len(m.energy[i]) > historyCapacity {
			m.energy[i] = m.energy[i][1:]
		}
	}
}

func (m *Live) status() string {
	switch {
	case m.recording:
		return StatusRecording.Render("● REC")
	case m.grid.Paused():
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m *Live) View() string {
	var view string
	if m.multi {
		view = m.viewGrid()
	} else {
		view = m.viewFocus()
	}
	if m.showHelp {
		return helpText + "\n\n" + view
	}
	return view
}

func (m *Live) viewFocus() string {
	s := m.grid.At(m.focus)
	st, cfg := s.State(), s.Config()
	DrawState(m.canvas, &st, &cfg, m.opts.Width, m.opts.Height, m.theme)
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.Render(m.theme.Muted))

	var b strings.Builder
	b.WriteString(GradientText(strings.ToUpper(cfg.Name), m.theme.Accent, m.theme.Wall) + "\n")
	b.WriteString(Subtle.Render(cfg.Description) + "\n\n")
	b.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	stats := m.stats[m.focus]
	row("Card", fmt.Sprintf("%d/%d", m.focus+1, m.grid.Len()))
	row("Model", string(s.Model().Kind()))
	row("Shape", string(cfg.Shape))
	row("Frame", fmt.Sprintf("%d", s.Frame()))
	row("Bodies", fmt.Sprintf("%d", len(st.Bodies)))
	row("Energy", fmt.Sprintf("%.2f", st.KineticEnergy()))
	row("Momentum", fmt.Sprintf("%.2f", st.Momentum().Len()))
	row("Contacts", fmt.Sprintf("%d", stats.Contacts))
	row("Overlaps", fmt.Sprintf("%d", s.Overlaps()))
	row("Time", fmt.Sprintf("x%.2f", m.grid.Global().TimeScale))

	if hist := m.energy[m.focus]; len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		b.WriteString(GraphStyle.Render(chart) + "\n")
	}

	b.WriteString("\nPARAMETERS\n")
	ps := cfg.Params()
	sel := m.selectedParam(ps)
	for i, p := range ps {
		line := fmt.Sprintf("%-20s %8.3f", p.Name, p.Value)
		if i == sel {
			b.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.message) + "\n")
	}
	b.WriteString("\n" + KeyHint.Render("SP:pause R:reset TAB:card M:grid ?:help Q:quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, PanelStyle.Render(b.String()))
}

func (m *Live) viewGrid() string {
	cells := make([]string, m.grid.Len())
	for i := range cells {
		s := m.grid.At(i)
		st, cfg := s.State(), s.Config()
		DrawState(m.thumbs[i], &st, &cfg, m.opts.Width, m.opts.Height, m.theme)

		style := CardStyle
		if i == m.focus {
			style = FocusedCardStyle
		}
		body := cfg.Name + "\n" + m.thumbs[i].Render(m.theme.Muted) + SparklineChart(m.energy[i], thumbCols)
		cells[i] = style.Render(body)
	}

	rows := make([]string, 0, (len(cells)+thumbsPerRow-1)/thumbsPerRow)
	for i := 0; i < len(cells); i += thumbsPerRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:min(i+thumbsPerRow, len(cells))]...))
	}
	header := m.status() + "  " + Subtle.Render(fmt.Sprintf("time x%.2f  theme %s", m.grid.Global().TimeScale, m.theme.Name))
	return header + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume all cards   ║
║  R        - Re-spawn focused card    ║
║  Tab      - Focus next card          ║
║  M        - Toggle grid view         ║
║  [ ]      - Select parameter         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  + -      - Time scale               ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// captureFrame rasterizes the focused canvas, one 4×4 block per braille dot.
func (m *Live) captureFrame() {
	const dotSize = 4
	c := m.canvas
	dw, dh := c.Dots()
	img := image.NewPaletted(image.Rect(0, 0, dw*dotSize, dh*dotSize), color.Palette{color.Black, color.White})

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			cell := c.Grid[row][col]
			if cell == brailleBase {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if cell&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := (col*2+dx)*dotSize, (row*4+dy)*dotSize
					for py := 0; py < dotSize; py++ {
						for px := 0; px < dotSize; px++ {
							img.SetColorIndex(x0+px, y0+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Live) stopRecording() {
	m.recording = false
	if err := saveGIF(m.opts.GIFPath, m.frames); err != nil {
		m.message = err.Error()
	} else if len(m.frames) > 0 {
		m.message = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunLive shows grid until the user quits.
func RunLive(grid *sim.Grid, opts LiveOptions) error {
	_, err := tea.NewProgram(NewLive(grid, opts), tea.WithAltScreen()).Run()
	return err
}
