package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/metrics"
)

const (
	plotWidth       = 60
	plotHeight      = 14
	historyCapacity = 120
	maxSpeed        = 1 << 14
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type screen int

const (
	screenMenu screen = iota
	screenSim
)

// Model is the live diffusion view. It opens on a preset menu unless built
// with NewSimModel.
type Model struct {
	screen  screen
	cursor  int
	presets []string

	name     string
	stepper  *diffusion.Stepper
	metrics  []metrics.Metric
	speed    int
	running  bool
	done     bool
	history  []float64
	fromMenu bool
	err      error
}

func NewMenuModel() Model {
	return Model{screen: screenMenu, presets: config.ListPresets("diffusion"), speed: 100}
}

// NewSimModel starts straight in the simulation, advancing speed iterations
// per frame.
func NewSimModel(name string, cfg diffusion.Config, speed int) (Model, error) {
	m := Model{speed: max(1, speed)}
	if err := m.load(name, cfg); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) load(name string, cfg diffusion.Config) error {
	st, err := diffusion.New(cfg)
	if err != nil {
		return err
	}
	m.screen = screenSim
	m.name = name
	m.stepper = st
	m.metrics = metrics.Defaults(cfg.SpatialStep)
	m.running = true
	m.done = false
	m.history = m.history[:0]
	m.observe()
	return nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.screen == screenMenu {
			m.menuKey(msg)
		} else {
			m.simKey(msg)
		}
	case TickMsg:
		if m.screen == screenSim && m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) menuKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return
		}
		name := m.presets[m.cursor]
		cfg, err := config.GetPreset("diffusion", name)
		if err != nil {
			m.err = err
			return
		}
		d, err := cfg.Diffusion.Build()
		if err != nil {
			m.err = err
			return
		}
		m.err = m.load(name, d)
		m.fromMenu = true
	}
}

func (m *Model) simKey(msg tea.KeyMsg) {
	switch msg.String() {
	case " ":
		if !m.done {
			m.running = !m.running
		}
	case "r":
		m.stepper.Reset()
		m.history = m.history[:0]
		m.running = true
		m.done = false
		m.observe()
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "m", "esc":
		if m.fromMenu {
			m.screen = screenMenu
			m.running = false
		}
	}
}

// advance runs one frame worth of iterations, stopping at the configured
// total when there is one.
func (m *Model) advance() {
	n := m.speed
	if total := m.stepper.Config().TotalSteps; total > 0 {
		n = min(n, total-m.stepper.Iteration())
		if n <= 0 {
			m.running = false
			m.done = true
			return
		}
	}
	for i := 0; i < n; i++ {
		m.stepper.Step()
	}
	m.observe()
}

func (m *Model) observe() {
	snap := m.stepper.Snapshot()
	for _, mt := range m.metrics {
		mt.Observe(snap)
	}
	m.history = append(m.history, m.metrics[0].Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	if m.screen == screenMenu {
		return m.viewMenu()
	}
	return m.viewSim()
}

func (m Model) viewMenu() string {
	var s strings.Builder
	s.WriteString(Title.Render("DIFFUSION PRESETS") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			s.WriteString(Selected.Render("> "+name) + "\n")
		} else {
			s.WriteString("  " + name + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + StatusError.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("↑↓ select  enter run  q quit"))
	return Panel.Render(s.String())
}

func (m Model) viewSim() string {
	snap := m.stepper.Snapshot()

	plot := asciigraph.Plot(snap.Values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.Caption("concentration vs position index"),
	)

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.done:
		status = StatusPaused.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.name)) + "  " + status + "\n\n")
	s.WriteString(Metric("Iteration", fmt.Sprintf("%d", snap.Iteration)) + "\n")
	s.WriteString(Metric("Time", fmt.Sprintf("%.2f", snap.Time)) + "\n")
	s.WriteString(Metric("Speed", fmt.Sprintf("%d it/frame", m.speed)) + "\n")
	for _, mt := range m.metrics {
		s.WriteString(Metric(mt.Name(), fmt.Sprintf("%.5g", mt.Value())) + "\n")
	}
	s.WriteString(Metric("Neumann res.", fmt.Sprintf("%.2e", snap.NeumannResidual())) + "\n\n")
	s.WriteString(MetricLabel.Render("Mass") + Sparkline(m.history, 30) + "\n")
	if total := m.stepper.Config().TotalSteps; total > 0 {
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(float64(snap.Iteration)/float64(total), 30) + "\n")
	}

	hint := "space pause  r reset  +/- speed  q quit"
	if m.fromMenu {
		hint += "  m menu"
	}
	s.WriteString("\n" + KeyHint.Render(hint))

	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(plot), Panel.Render(s.String()))
}

func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
