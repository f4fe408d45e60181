package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/metrics"
	"github.com/san-kum/motionsim/internal/sim"
	"github.com/san-kum/motionsim/internal/vmath"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	trailCapacity   = 60
	frameRate       = 60
	pointerNudge    = 10.0
)

type TickMsg time.Time

// Builder creates a fresh ticker and its input script. The live view calls
// it again on reset.
type Builder func() (dynamo.Ticker, sim.Script, error)

// Model steps a ticker once per frame and draws every entity.
type Model struct {
	name    string
	build   Builder
	ticker  dynamo.Ticker
	script  sim.Script
	next    int
	t, dt   float64
	snap    dynamo.Snapshot
	canvas  *Canvas
	view    Viewport
	trails  map[string][]vmath.Vec2
	running bool

	pointer    vmath.Vec2
	hasPointer bool

	params    []string
	selected  int
	energy    []float64
	showHelp  bool
	lastError error
}

// NewModel builds the scenario once and returns a ready model.
func NewModel(name string, build Builder) (Model, error) {
	m := Model{
		name:    name,
		build:   build,
		dt:      1.0 / frameRate,
		canvas:  NewCanvas(width, height),
		running: true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) reset() error {
	ticker, script, err := m.build()
	if err != nil {
		return err
	}
	m.ticker = ticker
	m.script = append(sim.Script(nil), script...)
	sort.SliceStable(m.script, func(i, j int) bool { return m.script[i].At < m.script[j].At })
	m.next = 0
	m.t = 0
	m.snap = dynamo.Snapshot{}
	m.view = DefaultViewport()
	m.trails = make(map[string][]vmath.Vec2)
	m.energy = make([]float64, 0, historyCapacity)
	m.hasPointer = false
	m.params = nil
	if c, ok := ticker.(dynamo.Configurable); ok {
		for k := range c.GetParams() {
			m.params = append(m.params, k)
		}
		sort.Strings(m.params)
	}
	m.selected = 0
	return nil
}

// Update handles input and steps the scenario on every TickMsg.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.lastError = m.reset()
		case "tab":
			if len(m.params) > 0 {
				m.selected = (m.selected + 1) % len(m.params)
			}
		case "up":
			m.adjustParam(1.05)
		case "down":
			m.adjustParam(0.95)
		case "w":
			m.nudgePointer(vmath.V2(0, pointerNudge))
		case "s":
			m.nudgePointer(vmath.V2(0, -pointerNudge))
		case "a":
			m.nudgePointer(vmath.V2(-pointerNudge, 0))
		case "d":
			m.nudgePointer(vmath.V2(pointerNudge, 0))
		case "c":
			m.clearPointer()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			col, row := msg.X-canvasPadX, msg.Y-canvasPadY
			if col >= 0 && row >= 0 && col < m.canvas.Width && row < m.canvas.Height {
				m.setPointer(m.view.Unproject(m.canvas, col*2, row*4))
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	for m.next < len(m.script) && m.script[m.next].At <= m.t+1e-12 {
		m.script[m.next].Do()
		m.next++
	}
	m.snap = m.ticker.Tick(m.dt)
	m.t += m.dt

	for _, e := range m.snap.Entities {
		m.view.Include(e.Position)
		tr := append(m.trails[e.ID], e.Position)
		if len(tr) > trailCapacity {
			tr = tr[len(tr)-trailCapacity:]
		}
		m.trails[e.ID] = tr
	}

	m.energy = append(m.energy, metrics.FrameEnergy(m.snap, 1))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[len(m.energy)-historyCapacity:]
	}
}

func (m *Model) adjustParam(factor float64) {
	c, ok := m.ticker.(dynamo.Configurable)
	if !ok || len(m.params) == 0 {
		return
	}
	key := m.params[m.selected]
	v := c.GetParams()[key]
	if v == 0 {
		v = 1e-3
	}
	m.lastError = c.SetParam(key, v*factor)
}

func (m *Model) setPointer(p vmath.Vec2) {
	pt, ok := m.ticker.(dynamo.Pointer)
	if !ok {
		return
	}
	m.pointer, m.hasPointer = p, true
	pt.SetPointer(p)
}

func (m *Model) nudgePointer(d vmath.Vec2) {
	p := m.pointer
	if !m.hasPointer {
		p = m.view.Min.Add(m.view.Max).Scale(0.5)
	}
	m.setPointer(p.Add(d))
}

func (m *Model) clearPointer() {
	if pt, ok := m.ticker.(dynamo.Pointer); ok {
		pt.ClearPointer()
	}
	m.hasPointer = false
}

func (m *Model) draw() {
	m.canvas.Clear()
	scale := m.view.Scale(m.canvas)
	for _, tr := range m.trails {
		for i := 1; i < len(tr); i++ {
			x0, y0 := m.view.Project(m.canvas, tr[i-1])
			x1, y1 := m.view.Project(m.canvas, tr[i])
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, e := range m.snap.Entities {
		x, y := m.view.Project(m.canvas, e.Position)
		r := 2
		if e.AtRest {
			r = 1
		}
		m.canvas.DrawCircle(x, y, r)
		if f := e.Force.Scale(scale); f.Len() >= 1 {
			m.canvas.DrawLine(x, y, x+int(f.X), y-int(f.Y))
		}
	}
	if m.hasPointer {
		x, y := m.view.Project(m.canvas, m.pointer)
		m.canvas.DrawLine(x-3, y, x+3, y)
		m.canvas.DrawLine(x, y-3, x, y+3)
	}
}

// View renders the canvas and the stats panel side by side.
func (m Model) View() string {
	m.draw()
	dots := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.canvas.String())
	canvasView := canvasStyle.Render(dots)

	label, value := labelStyle(), valueStyle()
	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")

	status := lipgloss.NewStyle().Foreground(CurrentTheme.Active).Bold(true).Render("RUNNING")
	switch {
	case !m.running:
		status = lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Bold(true).Render("PAUSED")
	case len(m.snap.Entities) > 0 && m.snap.AtRest():
		status = lipgloss.NewStyle().Foreground(CurrentTheme.Rest).Bold(true).Render("AT REST")
	}
	s.WriteString(status + "\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	moving := 0
	for _, e := range m.snap.Entities {
		if !e.AtRest {
			moving++
		}
	}
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(label.Render("Entities") + value.Render(fmt.Sprintf("%d (%d moving)", len(m.snap.Entities), moving)) + "\n")
	if n := len(m.snap.Entities); n > 0 {
		s.WriteString(label.Render("Rest") + value.Render(ProgressBar(float64(n-moving)/float64(n), 20)) + "\n")
	}
	if m.hasPointer {
		s.WriteString(label.Render("Pointer") + value.Render(fmt.Sprintf("%.0f, %.0f", m.pointer.X, m.pointer.Y)) + "\n")
	}

	if c, ok := m.ticker.(dynamo.Configurable); ok && len(m.params) > 0 {
		s.WriteString("\nPARAMETERS\n")
		vals := c.GetParams()
		for i, k := range m.params {
			line := fmt.Sprintf("%-10s %8.2f", k, vals[k])
			if i == m.selected {
				s.WriteString(selectedStyle().Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + label.Render(line) + "\n")
			}
		}
	}
	if m.lastError != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.lastError.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
  Space    pause / resume       .      step while paused
  R        rebuild scenario     Q      quit
  Tab      next parameter       Up/Dn  adjust parameter 5%
  WASD     move pointer         Mouse  pointer follows cursor
  C        clear pointer        T      next theme`

// Run starts a full-screen live view.
func Run(name string, build Builder) error {
	m, err := NewModel(name, build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
