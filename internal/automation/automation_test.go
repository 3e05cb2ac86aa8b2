package automation

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/experiment"
	"github.com/san-kum/sailsim/internal/logger"
	"github.com/san-kum/sailsim/internal/storage"
)

const script = `
name: drills
description: sheet in, then reach
steps:
  - name: oversheeted
    preset: oversheeted
    duration: 2
  - preset: beam_reach
    duration: 3
    wind_speed: 8
    heading: 10
    integrator: explicit-euler
    save: true
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript(strings.NewReader(script))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "drills" || len(s.Steps) != 2 {
		t.Fatalf("unexpected script %+v", s)
	}
	if s.Steps[1].WindSpeed == nil || *s.Steps[1].WindSpeed != 8 {
		t.Errorf("wind override not parsed: %+v", s.Steps[1])
	}
	if s.Steps[0].WindSpeed != nil {
		t.Error("unset override should stay nil")
	}

	bad := []struct {
		name string
		doc  string
	}{
		{"unknown key", "name: x\nsteps:\n  - preset: beam_reach\n    boom: 3\n"},
		{"no steps", "name: x\n"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScript(t *testing.T) {
	s, err := ParseScript(strings.NewReader(script))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir(), logger.Discard())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScript(context.Background(), s, config.DefaultConfig(), experiment.NewRegistry(), store, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "oversheeted" || results[1].Name != "drills-2" {
		t.Errorf("unexpected names %q, %q", results[0].Name, results[1].Name)
	}
	if results[0].RunID != "" || results[1].RunID == "" {
		t.Errorf("only the second step should be saved: %q, %q", results[0].RunID, results[1].RunID)
	}

	final := results[1].Result.Final()
	if final.WindSpeed != 8 || final.Heading != 10 || final.WindDirection != 90 {
		t.Errorf("overrides not applied on top of the preset: %+v", final.Inputs)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Scenario != "drills-2" {
		t.Errorf("expected one stored run, got %+v", runs)
	}
}

func TestRunScriptStopsAtBadStep(t *testing.T) {
	s := &Script{Name: "x", Steps: []Step{
		{Preset: "beam_reach", Duration: 1},
		{Preset: "no_such_preset"},
		{Preset: "running", Duration: 1},
	}}
	results, err := RunScript(context.Background(), s, config.DefaultConfig(), experiment.NewRegistry(), nil, logger.Discard())
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Fatalf("expected step 2 error, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first step's result, got %d", len(results))
	}
}

func TestMonteCarloDeterministic(t *testing.T) {
	base := config.GetPreset("beam_reach")
	base.Scenario.Duration = 2
	mc := MonteCarloConfig{Trials: 6, WindSpeedJitter: 0.2, DirectionJitter: 15, Seed: 7}
	reg := experiment.NewRegistry()

	a, err := RunMonteCarlo(context.Background(), base, reg, mc)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), base, reg, mc)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 6 {
		t.Fatalf("expected 6 trials, got %d", len(a))
	}
	varied := false
	for i := range a {
		if a[i].Inputs != b[i].Inputs || a[i].Final != b[i].Final {
			t.Errorf("trial %d differs between identical seeds", i)
		}
		if a[i].Inputs.WindSpeed < 6*0.8-1e-9 || a[i].Inputs.WindSpeed > 6*1.2+1e-9 {
			t.Errorf("trial %d wind %v outside jitter", i, a[i].Inputs.WindSpeed)
		}
		if a[i].Inputs != a[0].Inputs {
			varied = true
		}
	}
	if !varied {
		t.Error("jitter produced identical trials")
	}

	groove, mean := MonteCarloStats(a)
	if groove < 0 || groove > len(a) || mean <= 0 {
		t.Errorf("bad stats: groove=%d mean=%v", groove, mean)
	}

	if _, err := RunMonteCarlo(context.Background(), base, reg, MonteCarloConfig{}); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestMonteCarloMatchesSerialRuns(t *testing.T) {
	base := config.GetPreset("close_hauled")
	base.Scenario.Duration = 1
	reg := experiment.NewRegistry()

	trials, err := RunMonteCarlo(context.Background(), base, reg, MonteCarloConfig{
		Trials: 3 * runtime.GOMAXPROCS(0), WindSpeedJitter: 0.1, DirectionJitter: 10, Seed: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range trials {
		c := *base
		c.Scenario.WindSpeed = tr.Inputs.WindSpeed
		c.Scenario.WindDirection = tr.Inputs.WindDirection
		exp, err := experiment.New("serial", &c, reg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if res.Final() != tr.Final {
			t.Errorf("trial %d: batched run differs from a serial run", tr.Trial)
		}
		if res.Metrics["avg_speed"] != tr.AvgSpeed {
			t.Errorf("trial %d: avg_speed %v, serial %v", tr.Trial, tr.AvgSpeed, res.Metrics["avg_speed"])
		}
	}
}

func TestMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := config.GetPreset("beam_reach")
	_, err := RunMonteCarlo(ctx, base, experiment.NewRegistry(), MonteCarloConfig{Trials: 2, Seed: 1})
	if err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
