package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/control"
	"github.com/san-kum/sailsim/internal/experiment"
	"github.com/san-kum/sailsim/internal/polar"
)

// FromConfig builds a live view for cfg. The auto-trimmer is always
// available; it starts engaged when cfg asks for auto trim.
func FromConfig(name string, cfg *config.Config, reg *experiment.Registry, theme string, opts ...experiment.Option) (Model, error) {
	exp, err := experiment.New(name, cfg, reg, opts...)
	if err != nil {
		return Model{}, err
	}
	gains := control.Gains{Kp: cfg.Trim.Kp, Ki: cfg.Trim.Ki, Kd: cfg.Trim.Kd, MaxRate: cfg.Trim.MaxRate}
	viewOpts := []Option{
		WithAutoTrim(control.NewAutoTrim(gains, cfg.Trim.TargetAOA), cfg.Trim.Mode == "auto"),
		WithTheme(theme),
	}
	if t := exp.Table(); t != nil {
		viewOpts = append(viewOpts, WithPolar(polar.NewInterpolator(t)))
	}
	return NewModel(exp.GetSimulator(), name, viewOpts...), nil
}

// Picker lists the presets and opens the chosen one in the live view.
type Picker struct {
	base    *config.Config
	reg     *experiment.Registry
	theme   string
	presets []string
	cursor  int
	live    *Model
	err     error
}

// NewPicker starts every preset from base, keeping its physics and polar
// settings.
func NewPicker(base *config.Config, reg *experiment.Registry, theme string) *Picker {
	return &Picker{base: base, reg: reg, theme: theme, presets: config.ListPresets()}
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		m := next.(Model)
		p.live = &m
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
	case "enter", " ":
		return p, p.open(p.presets[p.cursor])
	}
	return p, nil
}

func (p *Picker) open(name string) tea.Cmd {
	cfg := config.GetPreset(name)
	cfg.Physics, cfg.Polar = p.base.Physics, p.base.Polar
	cfg.Trim.TargetAOA = p.base.Trim.TargetAOA
	cfg.Trim.Kp, cfg.Trim.Ki, cfg.Trim.Kd, cfg.Trim.MaxRate = p.base.Trim.Kp, p.base.Trim.Ki, p.base.Trim.Kd, p.base.Trim.MaxRate

	m, err := FromConfig(name, cfg, p.reg, p.theme)
	if err != nil {
		p.err = err
		return nil
	}
	p.err = nil
	p.live = &m
	return m.Init()
}

func (p *Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	s := newStyles(GetTheme(p.theme))

	var b strings.Builder
	b.WriteString("\n  " + s.title.Render("SAILSIM") + "\n  " + s.hint.Render("pick a scenario") + "\n\n")
	for i, name := range p.presets {
		desc := config.Presets[name].Description
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", s.key.Render("▸"), s.value.Render(fmt.Sprintf("%-14s", name)), s.sail.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", s.hint.Render(fmt.Sprintf("%-14s", name)), s.hint.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n  " + s.paused.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n  " + s.keyHints("j/k", "move", "enter", "sail", "q", "quit") + "\n")
	return b.String()
}

// RunPicker runs the scenario picker full screen.
func RunPicker(base *config.Config, reg *experiment.Registry, theme string) error {
	_, err := tea.NewProgram(NewPicker(base, reg, theme), tea.WithAltScreen()).Run()
	return err
}
