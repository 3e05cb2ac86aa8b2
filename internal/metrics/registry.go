package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/sailsim/internal/dynamo"
)

var constructors = map[string]func() dynamo.Metric{
	"avg_speed":      func() dynamo.Metric { return NewAvgSpeed() },
	"avg_efficiency": func() dynamo.Metric { return NewAvgEfficiency() },
	"trim_quality":   func() dynamo.Metric { return NewTrimQuality() },
	"sail_work":      func() dynamo.Metric { return NewSailWork() },
	"max_heel":       func() dynamo.Metric { return NewMaxHeel() },
}

// Names lists every metric New accepts.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh metric by name.
func New(name string) (dynamo.Metric, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

// All returns one fresh instance of every metric.
func All() []dynamo.Metric {
	names := Names()
	out := make([]dynamo.Metric, len(names))
	for i, name := range names {
		out[i], _ = New(name)
	}
	return out
}
