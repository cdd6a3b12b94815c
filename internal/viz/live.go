package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/experiment"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/metrics"
	"github.com/san-kum/boidsim/internal/sim"
	"github.com/san-kum/boidsim/internal/target"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	targetStep      = 10.0
	gifPath         = "boidsim.gif"
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(1, 2).Width(44)
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model hosts one flock: every tick it reads the target, steps the flock
// once and applies contact damage, as a game loop would.
type Model struct {
	cfg       *config.Config
	flock     *flock.Flock
	initial   flock.Snapshot
	path      target.Path
	engage    *sim.Engagement
	target    flock.Vec2
	frame     int
	running   bool
	autopilot bool
	canvas    *Canvas
	view      Viewport
	spread    []float64
	polarity  []float64
	paramKeys []string
	selected  int
	recorder  *Recorder
	recording bool
	lastEvent string
	showHelp  bool
}

// NewModel spawns the flock described by cfg and places the target at the
// start of its configured path.
func NewModel(cfg *config.Config) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	f, path, err := experiment.NewFlock(cfg, cfg.Seed)
	if err != nil {
		return Model{}, err
	}
	lo, hi := cfg.Spawn.Bounds()
	hits := experiment.SimConfig(cfg).Hits

	return Model{
		cfg:       cfg,
		flock:     f,
		initial:   f.Snapshot(),
		path:      path,
		engage:    sim.NewEngagement(hits),
		target:    path.At(0),
		running:   true,
		canvas:    NewCanvas(width, height),
		view:      FitViewport(lo, hi, 0.2),
		spread:    make([]float64, 0, historyCapacity),
		polarity:  make([]float64, 0, historyCapacity),
		paramKeys: flock.ParamNames(),
		recorder:  &Recorder{},
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k":
			m.moveTarget(flock.Vec2{Y: -targetStep})
		case "down", "j":
			m.moveTarget(flock.Vec2{Y: targetStep})
		case "left", "h":
			m.moveTarget(flock.Vec2{X: -targetStep})
		case "right", "l":
			m.moveTarget(flock.Vec2{X: targetStep})
		case "x":
			m.shoot()
		case "a":
			m.autopilot = !m.autopilot
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "+", "=":
			m.adjustParam(1.05)
		case "-", "_":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.Advance()
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// Advance runs one frame of the host loop.
func (m *Model) Advance() {
	if m.autopilot {
		m.target = m.path.At(m.frame)
	}
	m.flock.Step(m.target)
	m.engage.Contact(m.flock, m.target)
	m.spread = pushHistory(m.spread, metrics.SpreadOf(m.flock))
	m.polarity = pushHistory(m.polarity, metrics.PolarizationOf(m.flock))
	m.frame++
}

// pushHistory appends v and keeps the newest historyCapacity samples.
func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func (m *Model) moveTarget(d flock.Vec2) {
	m.autopilot = false
	m.target = m.target.Add(d)
}

// shoot removes the agent nearest the target through the flock's removal
// contract.
func (m *Model) shoot() {
	id, err := m.engage.Shoot(m.flock, m.target)
	switch {
	case errors.Is(err, sim.ErrNoTarget):
		m.lastEvent = "miss"
	case err != nil:
		m.lastEvent = err.Error()
	default:
		m.lastEvent = fmt.Sprintf("hit #%d", id)
	}
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	p := m.flock.Params()
	v, err := p.Get(key)
	if err != nil {
		return
	}
	if v == 0 {
		v = 1e-3
	}
	_ = p.Set(key, v*factor)
	m.flock.SetParams(p)
}

// reset restores the spawned flock, its parameters and the player.
func (m *Model) reset() {
	f, err := flock.Restore(m.initial)
	if err != nil {
		m.lastEvent = err.Error()
		return
	}
	m.flock = f
	m.frame = 0
	m.target = m.path.At(0)
	m.engage = sim.NewEngagement(experiment.SimConfig(m.cfg).Hits)
	m.spread = m.spread[:0]
	m.polarity = m.polarity[:0]
	m.lastEvent = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		return
	}
	m.recording = false
	if err := m.recorder.Save(gifPath); err != nil {
		m.lastEvent = err.Error()
		return
	}
	m.lastEvent = "saved " + gifPath
}

// Flock returns the hosted flock.
func (m Model) Flock() *flock.Flock { return m.flock }

// Target returns the current target position.
func (m Model) Target() flock.Vec2 { return m.target }

// Engagement returns the player score and health.
func (m Model) Engagement() *sim.Engagement { return m.engage }

// draw renders agents as dots with a short heading tick and the target as
// a cross.
func (m *Model) draw() {
	m.canvas.Clear()
	for i := 0; i < m.flock.Len(); i++ {
		p := m.flock.Position(i)
		x, y := m.view.Project(m.canvas, p)
		hx, hy := m.view.Project(m.canvas, p.Add(m.flock.Velocity(i).Scale(2)))
		m.canvas.Fill(x, y, 0)
		m.canvas.DrawLine(x, y, hx, hy)
	}
	tx, ty := m.view.Project(m.canvas, m.target)
	m.canvas.Cross(tx, ty, 3)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.
		Foreground(CurrentTheme.Flock).
		Render(m.canvas.String())

	var s strings.Builder
	title := strings.ToUpper("boidsim · " + m.cfg.Profile)
	s.WriteString(GradientText(title, CurrentTheme.Title[0], CurrentTheme.Title[1]) + "\n\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len()))
	}
	if m.autopilot {
		status += " " + Subtle.Render("autopilot")
	}
	s.WriteString(status + "\n\n")

	if len(m.spread) > 1 {
		s.WriteString(graphStyle.Render(PlotSeries("spread", m.spread, 30, 4)) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Agents", fmt.Sprintf("%d / %d", m.flock.Len(), len(m.initial.IDs)))
	row("Score", fmt.Sprintf("%d", m.engage.Score))
	row("Target", fmt.Sprintf("%.0f, %.0f", m.target.X, m.target.Y))
	if n := len(m.polarity); n > 0 {
		row("Polarity", fmt.Sprintf("%.2f %s", m.polarity[n-1], Sparkline(m.polarity, 16)))
	}
	health := 1.0
	if m.cfg.Hits.Health > 0 {
		health = m.engage.Health / m.cfg.Hits.Health
	}
	s.WriteString(MetricLabel.Render("Health") + ProgressBar(health, 20) + "\n")
	if m.lastEvent != "" {
		row("Last", m.lastEvent)
	}

	s.WriteString("\n" + Separator(36) + "\n" + HeaderStyle.Render("PARAMETERS") + "\n")
	params := m.flock.Params()
	for i, k := range m.paramKeys {
		v, _ := params.Get(k)
		line := fmt.Sprintf("%-22s %10.4g", k, v)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("←↑↓→:Target X:Shoot SP:Pause\nA:Auto Tab/+-:Tune R:Reset ?:Help"))

	statsView := statsStyle.BorderForeground(CurrentTheme.Border).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return KeyHint.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows   - Move target              ║
║  Space    - Pause/Resume             ║
║  X        - Shoot nearest agent      ║
║  A        - Toggle autopilot         ║
║  Tab      - Cycle parameters         ║
║  +/-      - Scale parameter (5%)     ║
║  R        - Reset flock              ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive starts the live view for cfg.
func RunLive(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
