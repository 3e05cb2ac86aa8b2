package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/control"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/experiment"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func beamReach() *sim.Simulator {
	return sim.New(dynamo.DefaultConstants(), dynamo.Inputs{WindSpeed: 6, WindDirection: 90, SailAngle: 45})
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

// frames feeds n frame messages spaced by gap.
func frames(m Model, n int, gap time.Duration) Model {
	t0 := time.Unix(1_700_000_000, 0)
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg(t0.Add(time.Duration(i) * gap)))
		m = next.(Model)
	}
	return m
}

func TestCanvasSetAndBounds(t *testing.T) {
	c := NewCanvas(3, 2)
	if w, h := c.Dots(); w != 6 || h != 8 {
		t.Fatalf("expected 6x8 dots, got %dx%d", w, h)
	}
	c.Set(1, 5)
	if !c.IsSet(1, 5) {
		t.Error("dot not set")
	}
	if c.IsSet(0, 5) || c.IsSet(1, 4) {
		t.Error("neighbouring dots set")
	}
	c.Set(-1, 0)
	c.Set(6, 0)
	c.Set(0, 8)

	rows := c.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0] != strings.Repeat(string(rune(brailleBlank)), 3) {
		t.Errorf("off-canvas dots leaked into row 0: %q", rows[0])
	}

	c.Clear()
	if c.IsSet(1, 5) {
		t.Error("Clear left a dot")
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(0, 0, 19, 19)
	for _, p := range [][2]int{{0, 0}, {19, 19}, {10, 10}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected dot at %v", p)
		}
	}

	c.Clear()
	c.Line(5, 3, 5, 3)
	if !c.IsSet(5, 3) {
		t.Error("single point line not drawn")
	}

	c.Clear()
	c.Line(15, 2, 3, 2)
	for x := 3; x <= 15; x++ {
		if !c.IsSet(x, 2) {
			t.Fatalf("gap in horizontal line at x=%d", x)
		}
	}
}

func TestSceneSailGoesToLeeward(t *testing.T) {
	tests := []struct {
		name string
		awa  float64
		port bool
	}{
		{"wind over starboard", 60, true},
		{"wind over port", -60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScene(20, 10)
			sc.Draw(dynamo.State{
				Inputs:            dynamo.Inputs{WindSpeed: 6, SailAngle: 45},
				ApparentWindAngle: tt.awa,
			})
			w, h := sc.Sail.Dots()
			mid := w / 2
			left, right := 0, 0
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if !sc.Sail.IsSet(x, y) {
						continue
					}
					if x < mid-1 {
						left++
					}
					if x > mid+1 {
						right++
					}
				}
			}
			if tt.port && (left == 0 || right != 0) {
				t.Errorf("expected boom to port, left=%d right=%d", left, right)
			}
			if !tt.port && (right == 0 || left != 0) {
				t.Errorf("expected boom to starboard, left=%d right=%d", left, right)
			}
		})
	}
}

func TestSceneBowPointsAlongHeading(t *testing.T) {
	sc := NewScene(20, 10)
	sc.Draw(dynamo.State{Inputs: dynamo.Inputs{Heading: 0}})
	w, h := sc.Hull.Dots()

	top := -1
	for y := 0; y < h && top < 0; y++ {
		for x := 0; x < w; x++ {
			if sc.Hull.IsSet(x, y) {
				top = y
				break
			}
		}
	}
	if top < 0 || top >= h/2 {
		t.Errorf("expected bow in the upper half heading north, topmost hull dot at y=%d", top)
	}
	if plain := sc.Plain(); strings.Count(plain, "\n") != 9 {
		t.Errorf("expected 10 rows, got %d", strings.Count(plain, "\n")+1)
	}
}

func TestBarAndSparkline(t *testing.T) {
	if got := bar(0.5, 10); strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("half bar wrong: %q", got)
	}
	if got := bar(math.NaN(), 4); got != "░░░░" {
		t.Errorf("NaN bar should be empty, got %q", got)
	}
	if got := bar(3, 4); got != "████" {
		t.Errorf("overfull bar should clamp, got %q", got)
	}

	if got := []rune(sparkline([]float64{1, 2, 3, 4, 5}, 3)); len(got) != 3 || got[2] != '█' {
		t.Errorf("sparkline should keep the newest values, got %q", string(got))
	}
	if got := sparkline([]float64{2, 2, 2}, 8); got != "▁▁▁" {
		t.Errorf("flat sparkline wrong: %q", got)
	}
	if got := sparkline(nil, 4); got != "────" {
		t.Errorf("empty sparkline wrong: %q", got)
	}
}

func TestModelAdvancesOnFrames(t *testing.T) {
	m := frames(NewModel(beamReach(), "beam_reach"), 60, 100*time.Millisecond)

	st := m.sim.State()
	if st.Time <= 0 || st.BoatSpeed <= 0 {
		t.Fatalf("simulation did not advance: t=%f v=%f", st.Time, st.BoatSpeed)
	}
	if len(m.speed) == 0 || len(m.history) != len(m.speed) {
		t.Errorf("history not recorded: %d states, %d speeds", len(m.history), len(m.speed))
	}
	// 100 ms frames at 60 Hz are 6 ticks each, the first frame excepted.
	if want := 59 * 6 * dynamo.DefaultConstants().DT; math.Abs(st.Time-want) > 2*dynamo.DefaultConstants().DT {
		t.Errorf("expected about %.2f s simulated, got %.2f", want, st.Time)
	}
}

func TestModelPauseStopsTime(t *testing.T) {
	m := press(NewModel(beamReach(), "beam_reach"), tea.KeyMsg{Type: tea.KeySpace})
	if m.running {
		t.Fatal("space should pause")
	}
	m = frames(m, 20, 100*time.Millisecond)
	if m.sim.State().Time != 0 {
		t.Errorf("paused model advanced to %f", m.sim.State().Time)
	}
}

func TestModelKeysChangeInputs(t *testing.T) {
	m := NewModel(beamReach(), "beam_reach")
	m = press(m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyUp},
		runes("w"),
		runes("."),
	)
	in := m.sim.State().Inputs
	if in.SailAngle != 45+sheetStep {
		t.Errorf("expected sail %v, got %v", 45+sheetStep, in.SailAngle)
	}
	if in.Heading != headingStep {
		t.Errorf("expected heading %v, got %v", headingStep, in.Heading)
	}
	if in.WindSpeed != 6+windStep {
		t.Errorf("expected wind %v, got %v", 6+windStep, in.WindSpeed)
	}
	if in.WindDirection != 90+headingStep {
		t.Errorf("expected wind direction %v, got %v", 90+headingStep, in.WindDirection)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.sim.State().Heading; got != 360-headingStep {
		t.Errorf("heading should wrap to %v, got %v", 360-headingStep, got)
	}

	for i := 0; i < 40; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if got := m.sim.State().SailAngle; got != 0 {
		t.Errorf("sheeting in should stop at 0, got %v", got)
	}
}

func TestModelAutoTrimEasesOversheetedSail(t *testing.T) {
	s := sim.New(dynamo.DefaultConstants(), dynamo.Inputs{WindSpeed: 6, WindDirection: 90, SailAngle: 5})
	auto := control.NewAutoTrim(control.DefaultAutoTrimGains(), 15)
	m := NewModel(s, "auto_trim", WithAutoTrim(auto, true))

	m = frames(m, 200, 100*time.Millisecond)
	if got := m.sim.State().SailAngle; got < 20 {
		t.Errorf("auto-trim should ease the sail well out, got %v", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.autoOn {
		t.Error("manual sheeting should disengage auto-trim")
	}
	m = press(m, runes("a"))
	if !m.autoOn {
		t.Error("a should re-engage auto-trim")
	}
}

func TestModelReplayAndReset(t *testing.T) {
	m := frames(NewModel(beamReach(), "beam_reach"), 10, 50*time.Millisecond)
	n := len(m.history)
	if n == 0 {
		t.Fatal("no history recorded")
	}

	m = press(m, runes("["))
	if m.playHead != n-2 || m.running {
		t.Fatalf("expected replay at %d and paused, got %d running=%v", n-2, m.playHead, m.running)
	}
	if !strings.Contains(m.View(), "REPLAY") {
		t.Error("view should show replay status")
	}
	m = press(m, runes("]"), runes("]"))
	if m.playHead != -1 {
		t.Errorf("scrubbing past the end should return to live, got %d", m.playHead)
	}

	m = press(m, runes("r"))
	st := m.sim.State()
	if st.Time != 0 || st.BoatSpeed != 0 || len(m.history) != 0 {
		t.Errorf("reset left t=%f v=%f history=%d", st.Time, st.BoatSpeed, len(m.history))
	}
	if st.WindSpeed != 6 || st.SailAngle != 45 {
		t.Errorf("reset should keep inputs, got %+v", st.Inputs)
	}
}

func TestModelView(t *testing.T) {
	table, err := polar.Builtin("dinghy")
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(beamReach(), "beam_reach", WithPolar(polar.NewInterpolator(table)), WithTheme("retro"))
	m = frames(m, 30, 100*time.Millisecond)

	view := m.View()
	for _, want := range []string{"SAILSIM", "beam_reach", "regime", "target", "polar target"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, runes("?"))
	if !strings.Contains(m.View(), "close help") {
		t.Error("help overlay not shown")
	}

	theme := m.theme.Name
	m = press(m, runes("t"))
	if m.theme.Name == theme {
		t.Error("t should change theme")
	}
}

func TestModelQuit(t *testing.T) {
	_, cmd := NewModel(beamReach(), "x").Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPickerOpensPreset(t *testing.T) {
	p := NewPicker(config.DefaultConfig(), experiment.NewRegistry(), "harbour")
	view := p.View()
	for _, name := range config.ListPresets() {
		if !strings.Contains(view, name) {
			t.Errorf("picker missing preset %q", name)
		}
	}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", p.cursor)
	}
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.live == nil {
		t.Fatalf("enter should open the live view, err=%v", p.err)
	}
	if cmd == nil {
		t.Error("expected the live view's frame timer")
	}
	want := config.ListPresets()[1]
	if p.live.name != want {
		t.Errorf("expected %q, got %q", want, p.live.name)
	}
	if !strings.Contains(p.View(), want) {
		t.Error("picker should render the live view once open")
	}
}
