package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/sim"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadColumns  = errors.New("storage: unexpected states.csv columns")
)

// Store keeps each run in its own directory under baseDir as
// metadata.json plus states.csv.
type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Trimmer   string             `json:"trimmer"`
	Polar     string             `json:"polar,omitempty"`
	Inputs    dynamo.Inputs      `json:"inputs"`
	Constants dynamo.Constants   `json:"constants"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its generated ID. ID, Timestamp, Steps and
// Metrics in meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.States); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}

	s.log.Info("run saved", "id", meta.ID, "scenario", meta.Scenario, "states", len(result.States))
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, newest first. Unreadable entries are
// logged and skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// WriteCSV writes states with a header row.
func WriteCSV(w io.Writer, states []dynamo.State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, st := range states {
		if err := cw.Write(encodeRow(st)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV wrote.
func ReadCSV(r io.Reader) ([]dynamo.State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	header, err := cr.Read()
	if err == io.EOF {
		return []dynamo.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadColumns, err)
	}
	for i, name := range Header() {
		if header[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q: %w", i, header[i], name, ErrBadColumns)
		}
	}

	states := make([]dynamo.State, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var st dynamo.State
		for i, c := range columns {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, c.name, err)
			}
			c.set(&st, v)
		}
		states = append(states, st)
	}

	return states, nil
}
