package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/models"
	"github.com/san-kum/dronesim/internal/sim"
)

const (
	width           = 40
	height          = 18
	historyCapacity = 600
	maxSpeed        = 512
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(56)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model flies one drone in real time. Each tick advances speed steps of
// the simulation.
type Model struct {
	drone   *models.Drone
	cfg     sim.Config
	name    string
	canvas  *Canvas
	t       float64
	step    int
	speed   int
	running bool
	reason  sim.StopReason
	last    dynamo.Record
	charge  []float64
	power   []float64
}

func NewModel(d *models.Drone, cfg sim.Config, name string) Model {
	m := Model{
		drone:   d,
		cfg:     cfg,
		name:    name,
		canvas:  NewCanvas(width, height),
		speed:   16,
		running: true,
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

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
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running && m.reason == "" {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to n steps, stopping on the same conditions as
// sim.Simulator.Run.
func (m *Model) advance(n int) {
	for i := 0; i < n && m.reason == ""; i++ {
		res := m.drone.RunStep(m.cfg.Dt)
		if m.cfg.ValidateState && !res.IsValid() {
			m.reason = sim.StopInvalid
			return
		}
		rec := sim.Snapshot(m.drone, res, m.step, m.t, m.cfg.Dt)
		m.t += m.cfg.Dt
		m.step++
		m.last = rec
		m.charge = pushCapped(m.charge, rec.ChargePercentage*100)
		m.power = pushCapped(m.power, rec.TotalPowerDraw)

		switch {
		case rec.ChargePercentage <= m.cfg.MinCharge:
			m.reason = sim.StopDepleted
		case m.step >= m.cfg.MaxSteps():
			m.reason = sim.StopDuration
		}
	}
}

func pushCapped(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		h = h[1:]
	}
	return append(h, v)
}

func (m *Model) reset() {
	m.drone.Reset()
	m.t, m.step, m.reason = 0, 0, ""
	m.last = dynamo.Record{
		ChargePercentage:  m.drone.ChargePercentage(),
		RemainingCapacity: m.drone.RemainingCapacity(),
		BankVoltage:       m.drone.BankVoltage(),
		RemainingFuel:     m.drone.RemainingFuel(),
		Weight:            m.drone.Weight(),
	}
	m.charge = make([]float64, 0, historyCapacity)
	m.power = make([]float64, 0, historyCapacity)
}

// draw renders a top view of the airframe. Rotor discs grow with the thrust
// each motor is producing relative to its bench maximum.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.DotSize()
	cx, cy := cw/2, ch/2
	arm := float64(min(cw, ch))/2 - 8

	m.canvas.DrawCircle(cx, cy, 4)

	train := m.drone.Powertrain()
	n := train.NumberOfMotors()
	_, maxThrust := train.Motor().Curve.Range()
	load := 0.0
	if maxThrust > 0 {
		load = math.Min(1, m.last.Thrust/float64(n)/maxThrust)
	}
	r := 2 + int(load*5)

	for k := 0; k < n; k++ {
		a := 2*math.Pi*float64(k)/float64(n) - math.Pi/2
		x := cx + int(arm*math.Cos(a))
		y := cy + int(arm*math.Sin(a))
		m.canvas.DrawLine(cx, cy, x, y)
		m.canvas.DrawCircle(x, y, r)
	}
}

func (m Model) status() string {
	switch {
	case m.reason != "":
		return StatusLanded.Render("LANDED (" + string(m.reason) + ")")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(fmt.Sprintf("FLYING x%d", m.speed))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	header := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)
	chartStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Chart).Padding(1, 0)

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.charge) > 1 {
		chart := asciigraph.Plot(m.charge, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("Charge %"))
		s.WriteString(chartStyle.Render(chart) + "\n")
	}

	r := m.last
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", FormatClock(m.t))
	s.WriteString(labelStyle.Render("Charge") + ProgressBar(r.ChargePercentage, 20) +
		chargeStyle(r.ChargePercentage, m.cfg.MinCharge).Render(fmt.Sprintf(" %.1f%%", r.ChargePercentage*100)) + "\n")
	if gen := m.drone.Generator(); gen != nil {
		s.WriteString(labelStyle.Render("Fuel") + ProgressBar(gen.FuelFraction(), 20) +
			valueStyle.Render(fmt.Sprintf(" %.2f L", r.RemainingFuel)) + "\n")
	}
	row("Capacity", fmt.Sprintf("%.2f Ah @ %.1f V", r.RemainingCapacity, r.BankVoltage))
	row("Power", fmt.Sprintf("%.0f W (%.0f battery, %.0f generator)", r.TotalPowerDraw, r.BatteryPowerDraw, r.GeneratorPowerDraw))
	row("Weight", fmt.Sprintf("%.2f kg", r.Weight/1000))
	row("Thrust", fmt.Sprintf("%.2f kg", r.Thrust/1000))
	s.WriteString(labelStyle.Render("Draw") + SparklineChart(m.power, 30) + "\n")

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Restart Q:Quit\n+/-:Speed T:Theme (" + CurrentTheme.Name + ")"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
