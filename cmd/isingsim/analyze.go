package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/isingsim/internal/analysis"
	"github.com/san-kum/isingsim/internal/automation"
	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/experiment"
	"github.com/san-kum/isingsim/internal/export"
	"github.com/san-kum/isingsim/internal/meanfield"
	"github.com/san-kum/isingsim/internal/optim"
	"github.com/san-kum/isingsim/internal/storage"
	"github.com/san-kum/isingsim/internal/viz"
)

// coordination is the number of neighbours per site; mean-field theory puts
// the critical point of the square lattice at T = coordination.
const coordination = 4

var (
	t1, t2      float64
	points      int
	printTable  bool
	outPath     string
	jsonOut     bool
	tMin, tMax  float64
	steps       int
	equilibrate int
	anneal      bool
	reduced     bool

	frameRate     int
	trialsPerTick int
	gifPath       string

	cellSize    float64
	svgDomains  bool
	tracePath   string
	plotPath    string
	members     int
	threshold   float64
	scenarioOut bool

	searchTemps    []float64
	searchSizes    []int
	searchMetric   string
	searchMinimize bool
)

func newMeanFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meanfield",
		Short: "solve the mean-field magnetization curve",
		Args:  cobra.NoArgs,
		RunE:  meanFieldCurve,
	}
	cmd.Flags().Float64Var(&t1, "t1", config.DefaultT1, "lowest reduced temperature")
	cmd.Flags().Float64Var(&t2, "t2", config.DefaultT2, "highest reduced temperature")
	cmd.Flags().IntVar(&points, "points", meanfield.DefaultSolver().Points, "samples along the curve")
	cmd.Flags().BoolVar(&printTable, "table", false, "print t,m pairs")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a plot (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	return cmd
}

func meanFieldCurve(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	mf := cfg.MeanField
	if cmd.Flags().Changed("t1") {
		mf.T1 = t1
	}
	if cmd.Flags().Changed("t2") {
		mf.T2 = t2
	}
	if cmd.Flags().Changed("points") {
		mf.Points = points
	}
	if mf.T2 < mf.T1 {
		return fmt.Errorf("%w: t2 %g below t1 %g", config.ErrInvalid, mf.T2, mf.T1)
	}

	curve := mf.Solver.Curve(mf.T1, mf.T2)

	fmt.Printf("mean-field curve, t in [%.3f, %.3f], %d points\n\n", mf.T1, mf.T2, len(curve))
	fmt.Print(analysis.PhaseDiagramToASCII(72, 18, analysis.CurveSeries(curve, '*')))

	if printTable {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nT\tM")
		for _, p := range curve {
			fmt.Fprintf(w, "%.6f\t%.6f\n", p.T, p.M)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if outPath != "" {
		p, err := export.CurvePlot(curve, nil)
		if err != nil {
			return err
		}
		if err := export.SavePlot(p, outPath); err != nil {
			return err
		}
		fmt.Printf("\nplot written to %s\n", outPath)
	}

	return nil
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "sweep temperature and measure equilibrium observables",
		Args:  cobra.NoArgs,
		RunE:  scanTemperatures,
	}
	addRunFlags(cmd)
	cmd.Flags().Float64Var(&tMin, "t-min", config.DefaultScanMin, "lowest temperature")
	cmd.Flags().Float64Var(&tMax, "t-max", config.DefaultScanMax, "highest temperature")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultScanSteps, "number of temperatures")
	cmd.Flags().IntVar(&equilibrate, "equilibrate", config.DefaultEquilibrate, "unsampled trials before each measurement")
	cmd.Flags().BoolVar(&anneal, "anneal", false, "carry the lattice over between temperatures")
	cmd.Flags().BoolVar(&reduced, "reduced", false, "compare with mean field in reduced units t = T/4")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print points as JSON")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a plot (.png, .svg, .pdf)")
	return cmd
}

func scanTemperatures(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	sc := cfg.Scan
	if flags.Changed("t-min") {
		sc.TMin = tMin
	}
	if flags.Changed("t-max") {
		sc.TMax = tMax
	}
	if flags.Changed("steps") {
		sc.Steps = steps
	}
	if flags.Changed("equilibrate") {
		sc.Equilibrate = equilibrate
	}
	if flags.Changed("anneal") {
		sc.Anneal = anneal
	}

	init, err := experiment.NewRegistry().GetInit(cfg.Init)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	pts, err := analysis.Scan(cmd.Context(), analysis.ScanConfig{
		TMin:        sc.TMin,
		TMax:        sc.TMax,
		Steps:       sc.Steps,
		Size:        cfg.Size,
		Trials:      cfg.Trials,
		SampleEvery: cfg.SampleEvery,
		Equilibrate: sc.Equilibrate,
		Anneal:      sc.Anneal,
		Init:        init,
	}, rng)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pts)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\t|M|\tM\tE/N\tCHI\tDOMAINS\tACCEPT")
	for _, p := range pts {
		fmt.Fprintf(w, "%.3f\t%.4f\t%+.4f\t%.4f\t%.3f\t%d\t%.3f\n",
			p.Temperature, p.AbsMagnetization, p.Magnetization, p.EnergyPerSite, p.Susceptibility, p.Domains, p.Acceptance)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if peak, ok := analysis.PeakSusceptibility(pts); ok {
		fmt.Printf("\nsusceptibility peak at T=%.3f (chi=%.3f)\n", peak.Temperature, peak.Susceptibility)
	}

	var curve []meanfield.Point
	plotted := pts
	if reduced {
		plotted = make([]analysis.ScanPoint, len(pts))
		for i, p := range pts {
			p.Temperature /= coordination
			plotted[i] = p
		}
		mf := cfg.MeanField.Solver
		curve = mf.Curve(sc.TMin/coordination, sc.TMax/coordination)
	}

	series := []analysis.Series{analysis.ScanSeries(plotted, 'o')}
	if curve != nil {
		series = append([]analysis.Series{analysis.CurveSeries(curve, '.')}, series...)
	}
	fmt.Println()
	fmt.Print(analysis.PhaseDiagramToASCII(72, 18, series...))

	if outPath != "" {
		p, err := export.CurvePlot(curve, plotted)
		if err != nil {
			return err
		}
		if err := export.SavePlot(p, outPath); err != nil {
			return err
		}
		fmt.Printf("\nplot written to %s\n", outPath)
	}

	return nil
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the Metropolis engine with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(cmd)
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	cmd.Flags().IntVar(&trialsPerTick, "per-tick", 0, "trials per frame (0 means one sweep)")
	cmd.Flags().StringVar(&gifPath, "gif", "", "GIF capture path (toggle with g)")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	init, err := experiment.NewRegistry().GetInit(cfg.Init)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	l, err := init(cfg.Size, rng)
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(l, cfg.Temperature, rng, trialsPerTick, frameRate)
	if gifPath != "" {
		m.GIFPath = gifPath
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved lattice as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <run_id>.svg)")
	cmd.Flags().Float64Var(&cellSize, "cell", 6, "cell size in pixels")
	cmd.Flags().BoolVar(&svgDomains, "domains", false, "colour sites by domain")
	cmd.Flags().StringVar(&tracePath, "trace", "", "also write the magnetization trace as SVG")
	cmd.Flags().StringVar(&plotPath, "plot", "", "also write a trace plot (.png, .svg, .pdf)")
	return cmd
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	l, err := st.LoadLattice(runID)
	if err != nil {
		return err
	}

	var svg string
	if svgDomains {
		labels, err := st.LoadDomains(runID)
		if err != nil {
			return err
		}
		svg = export.DomainsToSVG(labels, l.Size, cellSize, viz.CurrentTheme)
	} else {
		svg = export.LatticeToSVG(l, cellSize, viz.CurrentTheme)
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("lattice written to %s\n", path)

	if tracePath == "" && plotPath == "" {
		return nil
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if tracePath != "" {
		out := export.TraceToSVG(trace, 800, 300, string(viz.CurrentTheme.Accent))
		if out == "" {
			return fmt.Errorf("run %s has too few samples for a trace", runID)
		}
		if err := os.WriteFile(tracePath, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("trace written to %s\n", tracePath)
	}

	if plotPath != "" {
		p, err := export.TracePlot(trace, l.Len())
		if err != nil {
			return err
		}
		if err := export.SavePlot(p, plotPath); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", plotPath)
	}

	return nil
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	cmd.Flags().BoolVar(&scenarioOut, "json", false, "print step results as JSON")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	type row struct {
		Step          int     `json:"step"`
		Init          string  `json:"init"`
		Size          int     `json:"size"`
		Temperature   float64 `json:"temperature"`
		Magnetization float64 `json:"magnetization"`
		Domains       int     `json:"domains"`
		RunID         string  `json:"run_id,omitempty"`
	}
	rows := make([]row, len(results))
	for i, r := range results {
		rows[i] = row{
			Step:          i + 1,
			Init:          r.Config.Init,
			Size:          r.Config.Size,
			Temperature:   r.Config.Temperature,
			Magnetization: r.Outcome.Final.Magnetization(),
			Domains:       r.Outcome.Domains.Count,
			RunID:         r.RunID,
		}
	}

	if scenarioOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tINIT\tSIZE\tT\tM\tDOMAINS\tRUN")
	for _, r := range rows {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%+.4f\t%d\t%s\n", r.Step, r.Init, r.Size, r.Temperature, r.Magnetization, r.Domains, id)
	}
	return w.Flush()
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addRunFlags(cmd)
	cmd.Flags().IntVar(&members, "members", 20, "number of runs")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.9, "|m| above which a run counts as ordered")
	return cmd
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if members <= 0 {
		return fmt.Errorf("%w: ensemble size %d", config.ErrInvalid, members)
	}

	results, err := automation.RunEnsemble(cmd.Context(), &automation.EnsembleConfig{
		Run:       experimentConfig(cfg),
		NumTrials: members,
		Threshold: threshold,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ordered, disordered, mean, std := automation.EnsembleStats(results)
	fmt.Printf("%d runs of %s %dx%d at T=%.3f\n", len(results), cfg.Init, cfg.Size, cfg.Size, cfg.Temperature)
	fmt.Printf("ordered: %d  disordered: %d\n", ordered, disordered)
	fmt.Printf("|m|: %.4f ± %.4f\n", mean, std)
	return nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "grid search temperature and size for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addRunFlags(cmd)
	cmd.Flags().Float64SliceVar(&searchTemps, "temps", []float64{2.0, 2.2, 2.4, 2.6}, "temperatures to try")
	cmd.Flags().IntSliceVar(&searchSizes, "sizes", nil, "side lengths to try (default: --size)")
	cmd.Flags().StringVar(&searchMetric, "metric", "susceptibility", "metric to optimize")
	cmd.Flags().BoolVar(&searchMinimize, "minimize", false, "pick the smallest value")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := []string{"temperature"}
	ranges := [][]float64{searchTemps}
	if len(searchSizes) > 0 {
		sizes := make([]float64, len(searchSizes))
		for i, s := range searchSizes {
			sizes[i] = float64(s)
		}
		names = append(names, "size")
		ranges = append(ranges, sizes)
	}

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = !searchMinimize

	best, all, err := g.Search(cmd.Context(), optim.ConfigBuilder(experimentConfig(cfg), experiment.NewRegistry()), searchMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "T\tSIZE\t%s\n", strings.ToUpper(searchMetric))
	for _, e := range all {
		sz := cfg.Size
		if v, ok := e.Params["size"]; ok {
			sz = int(v)
		}
		fmt.Fprintf(w, "%.3f\t%d\t%.6f\n", e.Params["temperature"], sz, e.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: T=%.3f %s=%.6f\n", best.Params["temperature"], searchMetric, best.Value)
	return nil
}
