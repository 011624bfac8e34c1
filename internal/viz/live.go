// Package viz hosts the terminal front end of the particle sandbox.
// It consumes only positions and radii from the engine; all rendering
// concerns live on this side of the boundary.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkoval/verlab/internal/config"
	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/spawn"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model owns the live simulation and its terminal presentation.
type Model struct {
	solver    *engine.Solver
	bounds    engine.Bounds
	emitter   *spawn.Emitter
	particles []*engine.Particle
	initial   []*engine.Particle

	t, dt   float64
	canvas  *Canvas
	running bool

	kineticHistory []float64
	paramKeys      []string
	selected       int
	showHelp       bool
	maxParticles   int
}

// NewModel builds a live view from a scene configuration.
func NewModel(cfg *config.Config) Model {
	initial := cfg.InitialParticles()
	particles := make([]*engine.Particle, len(initial))
	for i, p := range initial {
		particles[i] = p.Clone()
	}

	return Model{
		solver:         cfg.Solver(),
		bounds:         cfg.EngineBounds(),
		emitter:        cfg.Emitter(),
		particles:      particles,
		initial:        initial,
		dt:             cfg.Dt,
		canvas:         NewCanvas(canvasWidth, canvasHeight),
		running:        true,
		kineticHistory: make([]float64, 0, historyCapacity),
		paramKeys:      []string{"gravity", "friction", "bounce"},
		maxParticles:   cfg.MaxParticles,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "s":
			if m.emitter != nil {
				m.emitter.Enabled = !m.emitter.Enabled
			}
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step admits due spawns, then advances one frame.
func (m *Model) step() {
	if m.emitter != nil {
		for _, p := range m.emitter.Tick(m.dt) {
			if m.maxParticles > 0 && len(m.particles) >= m.maxParticles {
				break
			}
			m.particles = append(m.particles, p)
		}
	}

	m.solver.Step(m.particles, m.bounds, m.dt)
	m.t += m.dt

	m.kineticHistory = append(m.kineticHistory, engine.Kinetic(m.particles))
	if len(m.kineticHistory) > historyCapacity {
		m.kineticHistory = m.kineticHistory[1:]
	}
}

func (m *Model) reset() {
	m.t = 0
	m.particles = make([]*engine.Particle, len(m.initial))
	for i, p := range m.initial {
		m.particles[i] = p.Clone()
	}
	if m.emitter != nil {
		m.emitter.Reset(len(m.initial))
	}
	m.kineticHistory = m.kineticHistory[:0]
}

func (m *Model) cycleParam() {
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	val := m.solver.GetParams()[key]
	// out-of-range adjustments are simply refused
	_ = m.solver.SetParam(key, val*factor)
}

// draw projects the particle set onto the braille canvas.
func (m *Model) draw() {
	m.canvas.Clear()

	subW := float64(m.canvas.SubWidth() - 1)
	subH := float64(m.canvas.SubHeight() - 1)
	scaleX := subW / m.bounds.Width()
	scaleY := subH / m.bounds.Height()

	m.canvas.DrawRect(0, 0, int(subW), int(subH))

	rScale := scaleX
	if scaleY < rScale {
		rScale = scaleY
	}

	for _, p := range m.particles {
		px := int((p.X - m.bounds.MinX) * scaleX)
		py := int(subH - (p.Y-m.bounds.MinY)*scaleY)
		m.canvas.FillCircle(px, py, int(p.Radius*rScale))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("VERLET SANDBOX") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.kineticHistory) > 1 {
		chart := asciigraph.Plot(m.kineticHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("Kinetic Energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(m.particles))) + "\n")

	kinetic := 0.0
	if len(m.kineticHistory) > 0 {
		kinetic = m.kineticHistory[len(m.kineticHistory)-1]
	}
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", kinetic)) + "\n")

	spawning := "off"
	if m.emitter != nil && m.emitter.Enabled {
		spawning = fmt.Sprintf("every %.2fs", m.emitter.Interval)
	}
	s.WriteString(labelStyle.Render("Spawning") + valueStyle.Render(spawning) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := m.solver.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-10s %8.3f", k, params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nS:Spawn Tab/↑↓:Tune ?:Help"))
	statsView := statsStyle.Render(s.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  S        - Toggle particle spawner  ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}

	return mainView
}
