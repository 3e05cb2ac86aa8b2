package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sailsim/internal/aero"
	"github.com/san-kum/sailsim/internal/control"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
)

const (
	frameRate       = 60
	historyCapacity = 600
	graphWidth      = 60

	sheetStep   = 2.0 // deg
	headingStep = 5.0 // deg
	windStep    = 0.5 // m/s
	maxCatchUp  = 10  // ticks per frame
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live trim trainer. It owns the simulator; bubbletea calls
// Update from one goroutine so no locking is needed.
type Model struct {
	sim    *sim.Simulator
	target *polar.Interpolator
	auto   *control.AutoTrim
	acc    *sim.Accumulator

	name     string
	autoOn   bool
	running  bool
	showHelp bool
	last     time.Time

	history  []dynamo.State
	speed    []float64 // kn
	goal     []float64 // kn
	playHead int

	theme  Theme
	styles styles
	scene  *Scene
	width  int
}

// Option configures a Model.
type Option func(*Model)

// WithPolar shows the polar target speed next to the boat speed.
func WithPolar(ip *polar.Interpolator) Option {
	return func(m *Model) { m.target = ip }
}

// WithAutoTrim hands the sheet to a, switched on when enabled is set.
func WithAutoTrim(a *control.AutoTrim, enabled bool) Option {
	return func(m *Model) { m.auto, m.autoOn = a, enabled && a != nil }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

func NewModel(s *sim.Simulator, name string, opts ...Option) Model {
	m := Model{
		sim:      s,
		acc:      sim.NewAccumulator(s.Constants().DT, maxCatchUp),
		name:     name,
		running:  true,
		playHead: -1,
		theme:    Themes[0],
		scene:    NewScene(28, 11),
		width:    80,
		history:  make([]dynamo.State, 0, historyCapacity),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = newStyles(m.theme)
	m.scene.Draw(s.State())
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles keys and advances the simulation on each frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		now := time.Time(msg)
		frame := 1.0 / frameRate
		if !m.last.IsZero() {
			frame = now.Sub(m.last).Seconds()
		}
		m.last = now
		if m.running && m.playHead == -1 {
			m.advance(frame)
		}
		m.scene.Draw(m.current())
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.sim.State().Inputs
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		m.theme = m.theme.next()
		m.styles = newStyles(m.theme)
	case "a":
		if m.auto != nil {
			m.autoOn = !m.autoOn
			m.auto.Reset()
		}
	case "left", "h":
		m.sheet(-sheetStep)
	case "right", "l":
		m.sheet(sheetStep)
	case "up", "k":
		m.sim.SetHeading(dynamo.Wrap360(in.Heading + headingStep))
	case "down", "j":
		m.sim.SetHeading(dynamo.Wrap360(in.Heading - headingStep))
	case "w":
		m.sim.SetWindSpeed(dynamo.Clamp(in.WindSpeed+windStep, 0, aero.MaxWindSpeed))
	case "s":
		m.sim.SetWindSpeed(dynamo.Clamp(in.WindSpeed-windStep, 0, aero.MaxWindSpeed))
	case ",":
		m.sim.SetWindDirection(dynamo.Wrap360(in.WindDirection - headingStep))
	case ".":
		m.sim.SetWindDirection(dynamo.Wrap360(in.WindDirection + headingStep))
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	}
	m.scene.Draw(m.current())
	return m, nil
}

// sheet moves the sail by hand, which takes it off auto.
func (m *Model) sheet(delta float64) {
	m.autoOn = false
	sail := math.Abs(m.sim.State().SailAngle)
	m.sim.SetSailAngle(dynamo.Clamp(sail+delta, 0, control.MaxSailAngle))
}

func (m *Model) advance(frame float64) {
	n := m.acc.Advance(frame)
	if n == 0 {
		return
	}
	var st dynamo.State
	for i := 0; i < n; i++ {
		if m.autoOn {
			cur := m.sim.State()
			m.sim.SetSailAngle(m.auto.Trim(cur, cur.Time))
		}
		st = m.sim.Tick()
	}
	m.record(st)
}

func (m *Model) record(st dynamo.State) {
	m.history = appendCapped(m.history, st)
	m.speed = appendCapped(m.speed, dynamo.Knots(st.BoatSpeed))
	m.goal = appendCapped(m.goal, m.targetKnots(st))
}

func appendCapped[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// targetKnots is the polar speed for the current wind, or 0 without a table.
func (m *Model) targetKnots(st dynamo.State) float64 {
	if m.target == nil {
		return 0
	}
	return m.target.SpeedFor(dynamo.Knots(st.WindSpeed), math.Abs(st.TrueWindAngle))
}

// scrub moves through recorded history. Stepping past the newest sample
// returns to live.
func (m *Model) scrub(dir int) {
	if len(m.history) == 0 {
		return
	}
	if m.playHead == -1 {
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	if m.auto != nil {
		m.auto.Reset()
	}
	m.acc = sim.NewAccumulator(m.sim.Constants().DT, maxCatchUp)
	m.history = m.history[:0]
	m.speed = m.speed[:0]
	m.goal = m.goal[:0]
	m.playHead = -1
	m.last = time.Time{}
}

// current is the snapshot on screen: live, or the replayed one.
func (m Model) current() dynamo.State {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.sim.State()
}

func (m Model) View() string {
	st := m.current()
	s := m.styles

	status := s.running.Render("● RUNNING")
	switch {
	case m.playHead >= 0:
		status = s.paused.Render(fmt.Sprintf("◀ REPLAY %d/%d", m.playHead+1, len(m.history)))
	case !m.running:
		status = s.paused.Render("❚❚ PAUSED")
	}
	header := s.title.Render("SAILSIM") + "  " + s.hint.Render(m.name) + "  " + status
	if m.autoOn {
		header += "  " + s.badge.Render("AUTO")
	}

	scene := s.panel.Render(m.scene.Render(s))
	stats := s.panel.Render(m.stats(st))
	body := lipgloss.JoinHorizontal(lipgloss.Top, scene, " ", stats)

	var b strings.Builder
	b.WriteString(header + "\n\n" + body + "\n")
	b.WriteString(m.graph() + "\n")
	if m.showHelp {
		b.WriteString(s.panel.Render(m.help()) + "\n")
	} else {
		b.WriteString(s.keyHints("←/→", "sheet", "↑/↓", "steer", "a", "auto", "space", "pause", "?", "help", "q", "quit") + "\n")
	}
	return b.String()
}

func (m Model) stats(st dynamo.State) string {
	s := m.styles
	row := func(label, value string) string {
		return s.label.Render(label) + s.value.Render(value)
	}
	regime := lipgloss.NewStyle().Bold(true).Foreground(m.theme.RegimeColor(st.Regime)).Render(st.Regime.String())

	rows := []string{
		row("wind", fmt.Sprintf("%5.1f kn  from %3.0f°", dynamo.Knots(st.WindSpeed), st.WindDirection)),
		row("heading", fmt.Sprintf("%5.0f°   TWA %4.0f°", st.Heading, st.TrueWindAngle)),
		row("apparent", fmt.Sprintf("%5.1f kn  AWA %4.0f°", dynamo.Knots(st.ApparentWindSpeed), st.ApparentWindAngle)),
		row("sail", fmt.Sprintf("%5.1f°   AOA %4.1f°", st.SailAngle, st.AngleOfAttack)),
		s.label.Render("regime") + regime,
		"",
		row("speed", fmt.Sprintf("%5.2f kn", dynamo.Knots(st.BoatSpeed))),
	}
	if m.target != nil {
		rows = append(rows, row("target", fmt.Sprintf("%5.2f kn", m.targetKnots(st))))
	}
	rows = append(rows,
		row("heel", fmt.Sprintf("%5.1f°", st.HeelAngle)),
		row("drive", fmt.Sprintf("%6.0f N", st.ForwardForce)),
		s.label.Render("trim")+gauge(m.theme, st.Efficiency, 16)+s.value.Render(fmt.Sprintf(" %3.0f%%", st.Efficiency*100)),
		s.label.Render("heel hist")+s.hint.Render(sparkline(heels(m.history), 16)),
		row("time", fmt.Sprintf("%6.1f s", st.Time)),
	)
	return strings.Join(rows, "\n")
}

func heels(h []dynamo.State) []float64 {
	out := make([]float64, len(h))
	for i, st := range h {
		out[i] = math.Abs(st.HeelAngle)
	}
	return out
}

// graph plots boat speed against the polar target.
func (m Model) graph() string {
	if len(m.speed) < 2 {
		return m.styles.hint.Render("  collecting speed history...")
	}
	speed := tail(m.speed, graphWidth)
	series := [][]float64{speed}
	caption := "boat speed (kn)"
	if m.target != nil {
		series = append(series, tail(m.goal, graphWidth))
		caption = "boat speed vs polar target (kn)"
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(6),
		asciigraph.Width(graphWidth),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

func tail(v []float64, n int) []float64 {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

func (m Model) help() string {
	s := m.styles
	return strings.Join([]string{
		s.title.Render("keys"),
		s.keyHints("←/h", "sheet in", "→/l", "ease"),
		s.keyHints("↑/k", "steer right", "↓/j", "steer left"),
		s.keyHints("w/s", "wind speed", ",/.", "wind direction"),
		s.keyHints("a", "auto-trim", "[/]", "replay"),
		s.keyHints("space", "pause", "r", "reset", "t", "theme"),
		s.keyHints("?", "close help", "q", "quit"),
	}, "\n")
}

// Run starts the live view full screen and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
