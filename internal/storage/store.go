package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	recordsFile  = "records.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
	Records   int                `json:"records"`
}

// Record is one saved row: a diffusion snapshot or an ODE state.
type Record struct {
	Step   int       `json:"step"`
	Time   float64   `json:"time"`
	Values []float64 `json:"values"`
}

func SnapshotRecords(snaps []diffusion.Snapshot) []Record {
	records := make([]Record, len(snaps))
	for i, snap := range snaps {
		records[i] = Record{Step: snap.Iteration, Time: snap.Time, Values: snap.Values}
	}
	return records
}

func ResultRecords(result *sim.Result) []Record {
	records := make([]Record, len(result.States))
	for i, x := range result.States {
		records[i] = Record{Step: i, Time: result.Times[i], Values: x}
	}
	return records
}

// Save writes a new run directory. JSON has no NaN or Inf, so non-finite
// params and metrics are left out of metadata.json; records.csv keeps every
// value.
func (s *Store) Save(kind string, params, metrics map[string]float64, records []Record) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	meta := RunMetadata{
		ID:        runID,
		Kind:      kind,
		Timestamp: now,
		Params:    finiteOnly(params),
		Metrics:   finiteOnly(metrics),
		Records:   len(records),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, recordsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, records); err != nil {
		return "", err
	}
	return runID, nil
}

func finiteOnly(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

// WriteCSV writes records as step,time,x0..xn with one row per record.
func WriteCSV(out io.Writer, records []Record) error {
	w := csv.NewWriter(out)

	width := 0
	for _, r := range records {
		width = max(width, len(r.Values))
	}

	header := []string{"step", "time"}
	for i := 0; i < width; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{strconv.Itoa(r.Step), strconv.FormatFloat(r.Time, 'g', -1, 64)}
		for _, v := range r.Values {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadRecords(runID string) ([]Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, recordsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}

		step, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: step: %w", i+1, err)
		}
		t, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: time: %w", i+1, err)
		}

		values := make([]float64, 0, len(row)-2)
		for _, cell := range row[2:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			values = append(values, v)
		}
		records = append(records, Record{Step: step, Time: t, Values: values})
	}
	return records, nil
}

// Snapshots converts stored diffusion records back into snapshots.
func Snapshots(records []Record) []diffusion.Snapshot {
	snaps := make([]diffusion.Snapshot, len(records))
	for i, r := range records {
		snaps[i] = diffusion.Snapshot{Iteration: r.Step, Time: r.Time, Values: r.Values}
	}
	return snaps
}
