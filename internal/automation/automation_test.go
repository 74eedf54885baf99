package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/isingsim/internal/experiment"
	"github.com/san-kum/isingsim/internal/storage"
)

const scenarioYAML = `name: cooling
description: cold and hot runs
steps:
  - preset: ordered
    size: 8
    trials: 500
    sample_every: 100
    seed: 1
    save: true
  - init: checkerboard
    size: 6
    temperature: 4.0
    trials: 300
    sample_every: 100
    seed: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "cooling" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if !sc.Steps[0].Save || sc.Steps[1].Save {
		t.Error("save flags not parsed")
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepResolve(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "ordered", Size: 8}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Init != "uniform" || cfg.Temperature != 1.0 || cfg.Size != 8 {
		t.Errorf("preset not merged: %+v", cfg)
	}

	if _, err := (ScenarioStep{Preset: "bogus"}).Resolve(); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := (ScenarioStep{Size: -3}).Resolve(); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), st)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].RunID == "" {
		t.Error("first step should be saved")
	}
	if results[1].RunID != "" {
		t.Error("second step should not be saved")
	}
	if results[0].Outcome.Final.Magnetization() < 0.9 {
		t.Errorf("ordered preset should stay ordered, m = %f", results[0].Outcome.Final.Magnetization())
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != results[0].RunID {
		t.Errorf("expected the saved run in the store, got %+v", runs)
	}
}

func TestRunScenarioSaveWithoutStore(t *testing.T) {
	sc := &Scenario{Name: "s", Steps: []ScenarioStep{{Size: 4, Trials: 10, SampleEvery: 5, Save: true}}}
	if _, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil); err == nil {
		t.Error("expected error when saving without a store")
	}
}

func TestRunScenarioUnknownInit(t *testing.T) {
	sc := &Scenario{Name: "s", Steps: []ScenarioStep{{Init: "spiral", Size: 4, Trials: 10, SampleEvery: 5}}}
	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil)
	if err == nil {
		t.Error("expected error for unknown init")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRunEnsemble(t *testing.T) {
	cfg := &EnsembleConfig{
		Run:       experiment.Config{Init: "uniform", Size: 6, Temperature: 0.8, Trials: 400, SampleEvery: 100, Seed: 10},
		NumTrials: 4,
		Threshold: 0.9,
	}

	results, err := RunEnsemble(context.Background(), cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("member %d has seed %d", i, r.Seed)
		}
	}

	ordered, disordered, mean, _ := EnsembleStats(results)
	if ordered+disordered != 4 {
		t.Errorf("counts do not add up: %d + %d", ordered, disordered)
	}
	if ordered != 4 {
		t.Errorf("cold uniform runs should all stay ordered, got %d", ordered)
	}
	if mean < 0.9 {
		t.Errorf("expected mean |m| near 1, got %f", mean)
	}
}

func TestEnsembleStats(t *testing.T) {
	results := []EnsembleResult{
		{Magnetization: 1, Ordered: true},
		{Magnetization: -0.2, Ordered: false},
	}
	ordered, disordered, mean, std := EnsembleStats(results)
	if ordered != 1 || disordered != 1 {
		t.Errorf("expected 1/1, got %d/%d", ordered, disordered)
	}
	if math.Abs(mean-0.6) > 1e-12 {
		t.Errorf("expected mean 0.6, got %f", mean)
	}
	if math.Abs(std-math.Sqrt(0.32)) > 1e-12 {
		t.Errorf("expected std %f, got %f", math.Sqrt(0.32), std)
	}

	if o, d, m, _ := EnsembleStats(nil); o != 0 || d != 0 || m != 0 {
		t.Error("expected zeros for empty ensemble")
	}
}
