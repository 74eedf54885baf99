package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/isingsim/internal/lattice"
)

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(l *lattice.Lattice, s Sample) {
	t.count++
	t.sum += s.Magnetization
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ trials []int }

func (c *countingObserver) OnSample(l *lattice.Lattice, s Sample) {
	c.trials = append(c.trials, s.Trial)
}

func TestSimulatorRun(t *testing.T) {
	sim := New(rand.New(rand.NewSource(1)))
	l, _ := lattice.NewUniform(10)

	cfg := Config{Temperature: 2.0, Trials: 1000, SampleEvery: 100}
	result, err := sim.Run(context.Background(), l, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.Samples[0].Trial != 0 || result.Last().Trial != 1000 {
		t.Errorf("unexpected sample trials: first %d last %d", result.Samples[0].Trial, result.Last().Trial)
	}
	if result.Samples[0].Energy != -200 || result.Samples[0].Magnetization != 1 {
		t.Errorf("first sample should describe the uniform start, got %+v", result.Samples[0])
	}
	if result.TrialsRun != 1000 {
		t.Errorf("expected 1000 trials, got %d", result.TrialsRun)
	}
	if result.Final != l {
		t.Error("result should reference the evolved lattice")
	}
	if got := result.Last(); got.Energy != l.Energy() || got.Magnetization != l.Magnetization() {
		t.Errorf("last sample %+v does not match final lattice", got)
	}
	if result.Acceptance < 0 || result.Acceptance > 1 {
		t.Errorf("acceptance %f out of range", result.Acceptance)
	}
}

func TestSimulatorShortLastChunk(t *testing.T) {
	sim := New(rand.New(rand.NewSource(2)))
	l, _ := lattice.NewUniform(5)
	obs := &countingObserver{}
	sim.AddObserver(obs)

	_, err := sim.Run(context.Background(), l, Config{Temperature: 1.0, Trials: 250, SampleEvery: 100})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 100, 200, 250}
	if len(obs.trials) != len(want) {
		t.Fatalf("expected samples at %v, got %v", want, obs.trials)
	}
	for i := range want {
		if obs.trials[i] != want[i] {
			t.Errorf("sample %d at trial %d, want %d", i, obs.trials[i], want[i])
		}
	}
}

func TestSimulatorZeroTrials(t *testing.T) {
	sim := New(rand.New(rand.NewSource(3)))
	l, _ := lattice.NewCheckerboard(4)

	result, err := sim.Run(context.Background(), l, Config{Temperature: 1.0, Trials: 0, SampleEvery: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Samples) != 1 {
		t.Errorf("expected only the initial sample, got %d", len(result.Samples))
	}
	if result.Acceptance != 0 {
		t.Errorf("expected zero acceptance, got %f", result.Acceptance)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(rand.New(rand.NewSource(1)))

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero temperature", Config{Temperature: 0, Trials: 10, SampleEvery: 1}, ErrTemperature},
		{"negative temperature", Config{Temperature: -1, Trials: 10, SampleEvery: 1}, ErrTemperature},
		{"negative trials", Config{Temperature: 1, Trials: -1, SampleEvery: 1}, ErrTrials},
		{"zero interval", Config{Temperature: 1, Trials: 10, SampleEvery: 0}, ErrSampleInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := lattice.NewUniform(4)
			_, err := sim.Run(context.Background(), l, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorInvalidLattice(t *testing.T) {
	sim := New(rand.New(rand.NewSource(1)))
	l := &lattice.Lattice{Size: 3, Spins: make([]lattice.Spin, 8)}

	_, err := sim.Run(context.Background(), l, DefaultConfig())
	if !errors.Is(err, lattice.ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(rand.New(rand.NewSource(4)))
	metric := &testMetric{}
	sim.AddMetric(metric)

	l, _ := lattice.NewUniform(8)
	result, err := sim.Run(context.Background(), l, Config{Temperature: 1.5, Trials: 1000, SampleEvery: 100})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}

	// Metrics are reset between runs.
	l, _ = lattice.NewUniform(8)
	if _, err := sim.Run(context.Background(), l, Config{Temperature: 1.5, Trials: 100, SampleEvery: 100}); err != nil {
		t.Fatal(err)
	}
	if metric.count != 2 {
		t.Errorf("expected 2 observations after reset, got %d", metric.count)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(rand.New(rand.NewSource(5)))
	l, _ := lattice.NewUniform(10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, l, Config{Temperature: 2, Trials: 1000, SampleEvery: 10})
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *RunError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if runErr.Trial != 0 {
		t.Errorf("expected cancellation before any trial, got %d", runErr.Trial)
	}
	if result == nil || len(result.Samples) != 1 {
		t.Error("expected partial result with the initial sample")
	}
}

func TestSimulatorReproducible(t *testing.T) {
	run := func() *Result {
		l, _ := lattice.NewUniform(12)
		res, err := New(rand.New(rand.NewSource(77))).Run(context.Background(), l, Config{Temperature: 2.5, Trials: 5000, SampleEvery: 500})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	if a.Accepted != b.Accepted {
		t.Errorf("accepted differs: %d vs %d", a.Accepted, b.Accepted)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := New(rand.New(rand.NewSource(6)))
	l, _ := lattice.NewUniform(6)

	calls := 0
	err := sim.RunWithCallback(context.Background(), l, Config{Temperature: 2, Trials: 1000, SampleEvery: 100}, func(l *lattice.Lattice, s Sample) bool {
		calls++
		return s.Trial < 300
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Errorf("expected 4 callbacks (trials 0..300), got %d", calls)
	}
}
