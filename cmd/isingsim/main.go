package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/isingsim/internal/analysis"
	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/experiment"
	"github.com/san-kum/isingsim/internal/storage"
	"github.com/san-kum/isingsim/internal/viz"
)

var (
	dataDir string
	verbose bool

	// Run shape, shared by run, scan, live and ensemble.
	initName    string
	size        int
	temperature float64
	trials      int
	sampleEvery int
	seed        int64
	configFile  string
	preset      string

	showLattice bool
	asciiOnly   bool
	themeName   string
)

// main registers the command tree. With no subcommand the interactive
// preset picker is started.
func main() {
	rootCmd := &cobra.Command{
		Use:   "isingsim",
		Short: "2D Ising model lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			if themeName != "" {
				viz.SetTheme(themeName)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".isingsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a Metropolis simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&showLattice, "show", false, "print the final lattice")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved lattice and its traces",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&asciiOnly, "ascii", false, "plain ASCII lattice")

	domainsCmd := &cobra.Command{
		Use:   "domains [run_id]",
		Short: "summarize the domains of a saved lattice",
		Args:  cobra.ExactArgs(1),
		RunE:  showDomains,
	}
	domainsCmd.Flags().BoolVar(&asciiOnly, "ascii", false, "plain ASCII labels")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, domainsCmd, exportJSONCmd, presetsCmd)
	rootCmd.AddCommand(newMeanFieldCmd(), newScanCmd(), newLiveCmd(), newExportSVGCmd(), newBatchCmd(), newEnsembleCmd(), newSearchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&initName, "init", config.DefaultInit, "initial lattice (uniform, checkerboard, random)")
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "lattice side length")
	cmd.Flags().Float64VarP(&temperature, "temp", "T", config.DefaultTemperature, "reduced temperature")
	cmd.Flags().IntVar(&trials, "trials", config.DefaultTrials, "single-site trials")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "trials between samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers the configuration: defaults, then the preset, then
// the config file, then flags given on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("init") {
		cfg.Init = initName
	}
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("temp") {
		cfg.Temperature = temperature
	}
	if flags.Changed("trials") {
		cfg.Trials = trials
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func experimentConfig(cfg *config.Config) experiment.Config {
	return experiment.Config{
		Init:        cfg.Init,
		Size:        cfg.Size,
		Temperature: cfg.Temperature,
		Trials:      cfg.Trials,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experimentConfig(cfg))
	if err := exp.SetupFromRegistry(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s %dx%d at T=%.3f...\n", cfg.Init, cfg.Size, cfg.Size, cfg.Temperature)
	start := time.Now()

	out, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.Record{
		Init:        cfg.Init,
		Temperature: cfg.Temperature,
		Trials:      cfg.Trials,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
		Result:      out.Result,
		Labels:      out.Labels,
	})
	if err != nil {
		return err
	}

	n := float64(out.Final.Len())
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("trials: %d  accepted: %d (%.1f%%)\n", out.TrialsRun, out.Accepted, out.Acceptance*100)
	fmt.Printf("m: %+.4f  E/N: %.4f  domains: %d\n", out.Final.Magnetization(), out.Final.Energy()/n, out.Domains.Count)
	printMetrics(out.Metrics)

	if len(out.Samples) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(out.Magnetizations(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("magnetization"),
		))
	}

	if showLattice {
		fmt.Println()
		fmt.Println(viz.RenderLattice(out.Final, viz.CurrentTheme))
	}

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINIT\tSIZE\tT\tTRIALS\tM\tDOMAINS\tTIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%d\t%+.3f\t%d\t%s\n",
			run.ID,
			run.Init,
			run.Size,
			run.Temperature,
			run.Trials,
			run.Magnetization,
			run.Domains,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	l, err := st.LoadLattice(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("init: %s  size: %d  T: %.3f  seed: %d\n", meta.Init, meta.Size, meta.Temperature, meta.Seed)
	fmt.Printf("m: %+.4f  E/N: %.4f  acceptance: %.3f\n\n", meta.Magnetization, meta.Energy/float64(l.Len()), meta.Acceptance)

	if asciiOnly {
		fmt.Println(viz.RenderASCII(l))
	} else {
		fmt.Println(viz.RenderLattice(l, viz.CurrentTheme))
	}

	if len(trace) < 2 {
		return nil
	}

	mags := make([]float64, len(trace))
	energies := make([]float64, len(trace))
	for i, s := range trace {
		mags[i] = s.Magnetization
		energies[i] = s.Energy / float64(l.Len())
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(mags, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("magnetization")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energies, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("energy per site")))
	fmt.Printf("\nintegrated autocorrelation time of m: %.2f samples\n", analysis.IntegratedTime(mags))

	return nil
}

func showDomains(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	labels, err := st.LoadDomains(runID)
	if err != nil {
		return err
	}
	l, err := st.LoadLattice(runID)
	if err != nil {
		return err
	}

	sum := domains.Summarize(labels)
	fmt.Printf("run: %s\n", runID)
	fmt.Printf("domains: %d  largest: %d  mean size: %.2f\n\n", sum.Count, sum.Largest, sum.MeanSize)

	if asciiOnly {
		fmt.Println(viz.RenderDomainsASCII(labels, l.Size))
	} else {
		fmt.Println(viz.RenderDomains(labels, l.Size, viz.CurrentTheme))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nLABEL\tSIZE\tSPIN")
	shown := min(len(sum.Sizes), 10)
	for id := 0; id < shown; id++ {
		spin := "?"
		for i, lab := range labels {
			if lab == id {
				spin = fmt.Sprintf("%+d", l.Spins[i])
				break
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%s\n", id, sum.Sizes[id], spin)
	}
	if len(sum.Sizes) > shown {
		fmt.Fprintf(w, "...\t\t\n")
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINIT\tSIZE\tT\tTRIALS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%d\n", name, p.Init, p.Size, p.Temperature, p.Trials)
	}
	return w.Flush()
}
