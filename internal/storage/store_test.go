package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

func testRecord(t *testing.T) Record {
	t.Helper()
	l, err := lattice.NewCheckerboard(4)
	if err != nil {
		t.Fatal(err)
	}
	l.Flip(0)

	return Record{
		Init:        "checkerboard",
		Temperature: 1.5,
		Trials:      20,
		SampleEvery: 10,
		Seed:        42,
		Result: &sim.Result{
			Final: l,
			Samples: []sim.Sample{
				{Trial: 0, Magnetization: 0, Energy: 32},
				{Trial: 10, Magnetization: 0.125, Energy: 16},
				{Trial: 20, Magnetization: -0.125, Energy: 16},
			},
			Accepted:   5,
			TrialsRun:  20,
			Acceptance: 0.25,
			Metrics:    map[string]float64{"energy": 1.5},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rec := testRecord(t)
	runID, err := st.Save(rec)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "checkerboard_") || len(runID) != len("checkerboard_")+8 {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Init != "checkerboard" {
		t.Errorf("expected init 'checkerboard', got '%s'", meta.Init)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Size != 4 {
		t.Errorf("expected size 4, got %d", meta.Size)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy metric 1.5, got %f", meta.Metrics["energy"])
	}
	if meta.Energy != rec.Result.Final.Energy() {
		t.Errorf("expected final energy %f, got %f", rec.Result.Final.Energy(), meta.Energy)
	}
	// Flipping a corner of a checkerboard merges it with its 4 neighbours.
	if meta.Domains != 12 {
		t.Errorf("expected 12 domains, got %d", meta.Domains)
	}

	l, err := st.LoadLattice(runID)
	if err != nil {
		t.Fatalf("load lattice failed: %v", err)
	}
	for i := range l.Spins {
		if l.Spins[i] != rec.Result.Final.Spins[i] {
			t.Fatalf("spin %d: expected %d, got %d", i, rec.Result.Final.Spins[i], l.Spins[i])
		}
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(trace))
	}
	if trace[1] != rec.Result.Samples[1] {
		t.Errorf("expected %+v, got %+v", rec.Result.Samples[1], trace[1])
	}

	labels, err := st.LoadDomains(runID)
	if err != nil {
		t.Fatalf("load domains failed: %v", err)
	}
	if len(labels) != 16 || labels[0] != 0 {
		t.Errorf("unexpected labels %v", labels)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testRecord(t)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[1].Timestamp.Before(runs[0].Timestamp) {
		t.Error("runs should be listed oldest first")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testRecord(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "spins.csv", "domains.csv", "trace.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	spins, err := os.ReadFile(filepath.Join(runDir, "spins.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(spins)), "\n")
	if len(lines) != 4 || lines[1] != "-1,1,-1,1" {
		t.Errorf("unexpected spins.csv:\n%s", spins)
	}
}

func TestStoreErrors(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.Save(Record{Init: "uniform"}); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestLoadLatticeRejectsRaggedGrid(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "spins.csv"), []byte("1,1,1\n1,1,1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadLattice("bad"); !errors.Is(err, lattice.ErrNonSquare) {
		t.Errorf("expected ErrNonSquare, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testRecord(t))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.Metadata.ID)
	}
	if len(data.Spins) != 4 || len(data.Spins[0]) != 4 {
		t.Errorf("expected 4x4 spins, got %v", data.Spins)
	}
	if len(data.Domains) != 4 || len(data.Trace) != 3 {
		t.Errorf("unexpected export shape: %d domain rows, %d samples", len(data.Domains), len(data.Trace))
	}
}
