package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/isingsim/internal/experiment"
)

func baseConfig() experiment.Config {
	return experiment.Config{
		Init:        "uniform",
		Size:        8,
		Temperature: 1,
		Trials:      2000,
		SampleEvery: 100,
		Seed:        3,
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"temperature"}, [][]float64{{0.5, 10}})
	g.Maximize = true

	best, all, err := g.Search(context.Background(), ConfigBuilder(baseConfig(), experiment.NewRegistry()), "magnetization")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(all))
	}
	if best.Params["temperature"] != 0.5 {
		t.Errorf("expected the cold lattice to stay most magnetized, got %v", best.Params)
	}
	if best.Value <= all[1].Value {
		t.Errorf("best %f should exceed hot %f", best.Value, all[1].Value)
	}
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"temperature", "size"}, [][]float64{{0.5, 10}, {4, 6}})

	best, all, err := g.Search(context.Background(), ConfigBuilder(baseConfig(), experiment.NewRegistry()), "magnetization")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 evaluations, got %d", len(all))
	}
	if best.Params["temperature"] != 10 {
		t.Errorf("expected the hot lattice to be least magnetized, got %v", best.Params)
	}
	if all[1].Params["size"] != 6 || all[2].Params["temperature"] != 10 {
		t.Errorf("unexpected visiting order: %v", all)
	}
}

func TestGridSearchErrors(t *testing.T) {
	r := experiment.NewRegistry()
	ctx := context.Background()

	if _, _, err := NewGridSearch(nil, nil).Search(ctx, ConfigBuilder(baseConfig(), r), "energy"); !errors.Is(err, ErrNoParams) {
		t.Errorf("expected ErrNoParams, got %v", err)
	}

	g := NewGridSearch([]string{"field"}, [][]float64{{1}})
	if _, _, err := g.Search(ctx, ConfigBuilder(baseConfig(), r), "energy"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	g = NewGridSearch([]string{"temperature"}, [][]float64{{1}})
	if _, _, err := g.Search(ctx, ConfigBuilder(baseConfig(), r), "nope"); !errors.Is(err, ErrMissingMetric) {
		t.Errorf("expected ErrMissingMetric, got %v", err)
	}
}
