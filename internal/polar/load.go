package polar

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout of a table.
type File struct {
	Name    string      `yaml:"name"`
	Version string      `yaml:"version"`
	TWS     []float64   `yaml:"tws"`
	TWA     []float64   `yaml:"twa"`
	Speeds  [][]float64 `yaml:"speeds"`
}

// LoadTable decodes and validates a YAML table. Unknown keys are rejected.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("polar: decode table: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("polar: table name is required")
	}
	if f.Version == "" {
		return nil, fmt.Errorf("polar: table %s: version is required", f.Name)
	}
	t, err := NewTable(f.Name, f.Version, f.TWS, f.TWA, f.Speeds)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", f.Name, err)
	}
	return t, nil
}

func LoadTableFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadTable(file)
}

// Encode writes t in the layout LoadTable reads.
func Encode(w io.Writer, t *Table) error {
	f := File{
		Name:    t.name,
		Version: t.version,
		TWS:     t.WindSpeeds(),
		TWA:     t.WindAngles(),
		Speeds:  make([][]float64, len(t.speeds)),
	}
	for i, row := range t.speeds {
		f.Speeds[i] = append([]float64(nil), row...)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
