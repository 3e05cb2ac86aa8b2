package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Trimmer  string             `json:"trimmer"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	States   []ExportState      `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportState is the JSON form of a snapshot, keyed like the CSV columns.
type ExportState map[string]float64

func ExportStateOf(s dynamo.State) ExportState {
	out := make(ExportState, len(columns))
	for _, c := range columns {
		out[c.name] = c.get(&s)
	}
	return out
}

// ExportJSON writes a whole run as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Scenario: meta.Scenario,
		Trimmer:  meta.Trimmer,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    result.StepsTaken,
		States:   make([]ExportState, len(result.States)),
		Metrics:  result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = ExportStateOf(s)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
