package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	spinsFile    = "spins.csv"
	domainsFile  = "domains.csv"
	traceFile    = "trace.csv"
)

var (
	ErrNotFound = errors.New("storage: run not found")
	ErrNoResult = errors.New("storage: record has no result")
)

type Store struct {
	baseDir string
	logger  *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		logger:  slog.Default().With(slog.String("component", "storage")),
	}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID            string             `json:"id"`
	Init          string             `json:"init"`
	Size          int                `json:"size"`
	Temperature   float64            `json:"temperature"`
	Trials        int                `json:"trials"`
	SampleEvery   int                `json:"sample_every"`
	Seed          int64              `json:"seed"`
	Timestamp     time.Time          `json:"timestamp"`
	Accepted      int                `json:"accepted"`
	Acceptance    float64            `json:"acceptance"`
	Domains       int                `json:"domains"`
	Energy        float64            `json:"energy"`
	Magnetization float64            `json:"magnetization"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Record is everything needed to persist a finished run. Labels may be nil,
// in which case they are computed from the final lattice.
type Record struct {
	Init        string
	Temperature float64
	Trials      int
	SampleEvery int
	Seed        int64
	Result      *sim.Result
	Labels      []int
}

func (s *Store) Save(rec Record) (string, error) {
	if rec.Result == nil || rec.Result.Final == nil {
		return "", ErrNoResult
	}
	final := rec.Result.Final

	labels := rec.Labels
	if labels == nil {
		labels = domains.LabelLattice(final)
	}

	runID := fmt.Sprintf("%s_%s", rec.Init, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Init:          rec.Init,
		Size:          final.Size,
		Temperature:   rec.Temperature,
		Trials:        rec.Trials,
		SampleEvery:   rec.SampleEvery,
		Seed:          rec.Seed,
		Timestamp:     time.Now(),
		Accepted:      rec.Result.Accepted,
		Acceptance:    rec.Result.Acceptance,
		Domains:       domains.Count(labels),
		Energy:        final.Energy(),
		Magnetization: final.Magnetization(),
		Metrics:       rec.Result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	spins := make([]int, len(final.Spins))
	for i, sp := range final.Spins {
		spins[i] = int(sp)
	}
	if err := writeGrid(filepath.Join(runDir, spinsFile), spins, final.Size); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(runDir, domainsFile), labels, final.Size); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), rec.Result.Samples); err != nil {
		return "", err
	}

	s.logger.Debug("run saved",
		slog.String("id", runID),
		slog.Int("samples", len(rec.Result.Samples)),
		slog.Int("domains", meta.Domains),
	)

	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			s.logger.Debug("skipping run", slog.String("dir", entry.Name()), slog.Any("error", err))
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
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadLattice(runID string) (*lattice.Lattice, error) {
	values, err := readGrid(s.path(runID, spinsFile))
	if err != nil {
		return nil, err
	}
	spins := make([]lattice.Spin, len(values))
	for i, v := range values {
		spins[i] = lattice.Spin(v)
	}
	return lattice.FromSpins(spins)
}

func (s *Store) LoadDomains(runID string) ([]int, error) {
	return readGrid(s.path(runID, domainsFile))
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(s.path(runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		trial, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		m, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		e, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		samples = append(samples, sim.Sample{Trial: trial, Magnetization: m, Energy: e})
	}

	return samples, nil
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeGrid writes values as h rows of h columns with no header.
func writeGrid(path string, values []int, h int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	row := make([]string, h)
	for r := 0; r < h; r++ {
		for c := 0; c < h; c++ {
			row[c] = strconv.Itoa(values[r*h+c])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readGrid(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	values := make([]int, 0, len(records)*len(records))
	for i, record := range records {
		if len(record) != len(records) {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d: %w", filepath.Base(path), i, len(record), len(records), lattice.ErrNonSquare)
		}
		for _, field := range record {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			values = append(values, v)
		}
	}
	return values, nil
}

func writeTrace(path string, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"trial", "magnetization", "energy"}); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Trial),
			strconv.FormatFloat(sm.Magnetization, 'f', 6, 64),
			strconv.FormatFloat(sm.Energy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
