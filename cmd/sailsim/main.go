package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sailsim/internal/analysis"
	"github.com/san-kum/sailsim/internal/api"
	"github.com/san-kum/sailsim/internal/automation"
	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/experiment"
	"github.com/san-kum/sailsim/internal/export"
	"github.com/san-kum/sailsim/internal/logger"
	"github.com/san-kum/sailsim/internal/optim"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
	"github.com/san-kum/sailsim/internal/storage"
	"github.com/san-kum/sailsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string

	preset     string
	integrator string
	trimMode   string
	duration   float64
	windSpeed  float64
	windDir    float64
	sailAngle  float64
	heading    float64
	tableName  string
	tableFile  string
	noPolar    bool
	saveConfig string

	theme string
	addr  string

	plotTWS   []float64
	curveStep float64

	sweepWind float64
	sweepFrom float64
	sweepTo   float64
	sweepStep float64

	outFile string

	tuneGrid   []string
	tuneMetric string
	tuneMin    bool

	trials    int
	windJit   float64
	dirJit    float64
	seed      int64
	svgWidth  int
	svgHeight int

	cfg *config.Config
	log *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sailsim",
		Short:         "sail trim simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			log = logger.Setup(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(cfg, experiment.NewRegistry(), theme)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().StringVar(&integrator, "integrator", experiment.DefaultIntegrator, "integrator")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sail a scenario in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	polarCmd := &cobra.Command{
		Use:   "polar [table]",
		Short: "plot a polar table and its best VMG angles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPolar,
	}
	polarCmd.Flags().StringVar(&tableFile, "file", "", "polar table file (yaml)")
	polarCmd.Flags().Float64SliceVar(&plotTWS, "tws", []float64{6, 10, 16}, "wind speeds to plot, knots")
	polarCmd.Flags().Float64Var(&curveStep, "step", 5, "angle step, degrees")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "settle the boat across wind angles and compare with the polar",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepWind, "wind", 10, "true wind speed, knots")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 45, "first true wind angle")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 180, "last true wind angle")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 15, "angle step")
	sweepCmd.Flags().StringVar(&tableName, "table", "", "built-in polar table")
	sweepCmd.Flags().StringVar(&tableFile, "polar-file", "", "polar table file (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTRIM\tWIND\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%.1f m/s from %.0f°\t%s\n",
					name, p.Trim, p.Scenario.WindSpeed, p.Scenario.WindDirection, p.Description)
			}
			return w.Flush()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	scenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's track as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search auto-trim gains on a scenario",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	scenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"kp=0.5,1,2,4", "max_rate=10,30,60"}, "parameter=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "avg_speed", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMin, "minimize", false, "minimise the metric instead of maximising")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted sequence of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run a scenario under randomised wind",
		Args:  cobra.NoArgs,
		RunE:  monteCarlo,
	}
	scenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&windJit, "wind-jitter", 0.2, "wind speed jitter, fraction")
	monteCarloCmd.Flags().Float64Var(&dirJit, "dir-jitter", 15, "wind direction jitter, degrees")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(runCmd, liveCmd, polarCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, serveCmd, tuneCmd, scriptCmd, monteCarloCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// scenarioFlags registers the flags that override the loaded scenario.
func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().StringVar(&trimMode, "trim", "", "trimmer (hold, manual, feedforward, auto)")
	cmd.Flags().Float64Var(&windSpeed, "wind", 0, "true wind speed, m/s")
	cmd.Flags().Float64Var(&windDir, "wind-dir", 0, "true wind direction, degrees from")
	cmd.Flags().Float64Var(&sailAngle, "sail", 0, "sail angle, degrees")
	cmd.Flags().Float64Var(&heading, "heading", 0, "heading, degrees")
	cmd.Flags().StringVar(&tableName, "table", "", "built-in polar table")
	cmd.Flags().StringVar(&tableFile, "polar-file", "", "polar table file (yaml)")
	cmd.Flags().BoolVar(&noPolar, "no-polar", false, "score efficiency by lift instead of the polar")
}

// scenarioConfig applies --preset then the explicitly set flags to cfg.
// Flags win over the preset, which wins over the config file.
func scenarioConfig(cmd *cobra.Command) (*config.Config, string, error) {
	c := *cfg
	name := "custom"
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c.Scenario, c.Trim.Mode = p.Scenario, p.Trim.Mode
		name = preset
	}

	f := cmd.Flags()
	if f.Changed("trim") {
		c.Trim.Mode = trimMode
	}
	if f.Changed("wind") {
		c.Scenario.WindSpeed = windSpeed
	}
	if f.Changed("wind-dir") {
		c.Scenario.WindDirection = windDir
	}
	if f.Changed("sail") {
		c.Scenario.SailAngle = sailAngle
	}
	if f.Changed("heading") {
		c.Scenario.Heading = heading
	}
	if f.Lookup("time") != nil && f.Changed("time") {
		c.Scenario.Duration = duration
	}
	if f.Changed("table") {
		c.Polar = config.PolarConfig{Table: tableName}
	}
	if f.Changed("polar-file") {
		c.Polar.File = tableFile
	}
	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	return &c, name, nil
}

func experimentOptions() []experiment.Option {
	var opts []experiment.Option
	if integrator != "" {
		opts = append(opts, experiment.WithIntegrator(integrator))
	}
	if noPolar {
		opts = append(opts, experiment.WithoutPolar())
	}
	return opts
}

func runScenario(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && !cmd.Flags().Changed("preset") {
		if config.GetPreset(args[0]) != nil {
			preset = args[0]
		}
	}
	c, name, err := scenarioConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		name = args[0]
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, c); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		log.Info("config saved", "path", saveConfig)
	}

	st := storage.New(c.DataDir, log)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(name, c, experiment.NewRegistry(), experimentOptions()...)
	if err != nil {
		return err
	}

	log.Info("running scenario", "name", name, "trim", c.Trim.Mode, "duration", c.Scenario.Duration)
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(), result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("\nfinal: %.2f kn, AOA %.1f° (%s), sail %.1f°, heel %.1f°, efficiency %.0f%%\n",
		dynamo.Knots(final.BoatSpeed), final.AngleOfAttack, final.Regime, final.SailAngle, final.HeelAngle, final.Efficiency*100)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	if len(result.Errors) > 0 {
		fmt.Printf("\n%d non-finite steps were discarded\n", len(result.Errors))
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	c, name, err := scenarioConfig(cmd)
	if err != nil {
		return err
	}
	m, err := viz.FromConfig(name, c, experiment.NewRegistry(), theme, experimentOptions()...)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func loadTable(name, file string) (*polar.Table, error) {
	if file != "" {
		return polar.LoadTableFile(file)
	}
	if name == "" {
		name = cfg.Polar.Table
	}
	return polar.Builtin(name)
}

func showPolar(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if !(curveStep >= polar.MinCurveStep) {
		return fmt.Errorf("--step must be at least %g degrees, got %g", polar.MinCurveStep, curveStep)
	}
	table, err := loadTable(name, tableFile)
	if err != nil {
		return err
	}
	ip := polar.NewInterpolator(table)

	series := make([][]float64, 0, len(plotTWS))
	var angles []float64
	for _, tws := range plotTWS {
		curve := ip.Curve(tws, curveStep)
		speeds := make([]float64, len(curve))
		angles = angles[:0]
		for i, p := range curve {
			speeds[i] = p.Speed
			angles = append(angles, p.Angle)
		}
		series = append(series, speeds)
	}
	if len(series) == 0 {
		return fmt.Errorf("no wind speeds to plot")
	}

	fmt.Println(table)
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(2*len(angles)),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("boat speed (kn) vs TWA %.0f-%.0f°, TWS %v kn", angles[0], angles[len(angles)-1], plotTWS)),
	))

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TWS\tUPWIND TWA\tSPEED\tVMG\tDOWNWIND TWA\tSPEED\tVMG")
	for _, tws := range plotTWS {
		up, down := ip.BestVMG(tws)
		fmt.Fprintf(w, "%.0f\t%.0f°\t%.2f\t%.2f\t%.0f°\t%.2f\t%.2f\n",
			tws, up.Angle, up.Speed, up.VMG, down.Angle, down.Speed, down.VMG)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if !(sweepStep >= analysis.MinAngleStep) {
		return fmt.Errorf("--step must be at least %g degrees, got %g", analysis.MinAngleStep, sweepStep)
	}
	if n := (sweepTo - sweepFrom) / sweepStep; n >= analysis.MaxAngles {
		return fmt.Errorf("sweep of %.0f-%.0f step %g exceeds %d angles", sweepFrom, sweepTo, sweepStep, analysis.MaxAngles)
	}
	table, err := loadTable(tableName, tableFile)
	if err != nil {
		return err
	}
	angles := analysis.Angles(sweepFrom, sweepTo, sweepStep)
	if len(angles) == 0 {
		return fmt.Errorf("empty angle range %.0f-%.0f step %.0f", sweepFrom, sweepTo, sweepStep)
	}

	log.Info("sweeping", "table", table.Name(), "wind_kn", sweepWind, "angles", len(angles))
	points, err := analysis.Sweep(cmd.Context(), cfg.Physics.Constants(), polar.NewInterpolator(table), analysis.SweepConfig{
		WindSpeed: sweepWind,
		Angles:    angles,
		Settle:    analysis.DefaultSettleConfig(),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TWA\tSAIL\tSPEED\tTARGET\tRATIO\tSETTLED")
	ratios := make([]float64, len(points))
	for i, p := range points {
		ratios[i] = p.Ratio
		fmt.Fprintf(w, "%.0f°\t%.1f°\t%.2f\t%.2f\t%.2f\t%v\n", p.TWA, p.Sail, p.Speed, p.Target, p.Ratio, p.Settled)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(ratios) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ratios, asciigraph.Height(8), asciigraph.Precision(2), asciigraph.Caption("speed / polar target")))
	}
	return nil
}

func openStore() *storage.Store {
	return storage.New(cfg.DataDir, log)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tTRIM\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Trimmer,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s trim)\n", meta.Scenario, meta.Trimmer)
	fmt.Printf("samples: %d\n\n", len(states))

	series := []struct {
		caption string
		value   func(s dynamo.State) float64
	}{
		{"boat speed (kn)", func(s dynamo.State) float64 { return dynamo.Knots(s.BoatSpeed) }},
		{"angle of attack (deg)", func(s dynamo.State) float64 { return s.AngleOfAttack }},
		{"sail angle (deg)", func(s dynamo.State) float64 { return s.SailAngle }},
		{"heel (deg)", func(s dynamo.State) float64 { return s.HeelAngle }},
		{"efficiency", func(s dynamo.State) float64 { return s.Efficiency }},
	}
	for _, sr := range series {
		data := make([]float64, len(states))
		for i, s := range states {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(6), asciigraph.Width(70), asciigraph.Caption(sr.caption)))
		fmt.Println()
	}

	fmt.Println("track (north up):")
	fmt.Println(analysis.PlotTrack(analysis.TrackOf(states), 60, 20))
	return nil
}

// output returns stdout or the --out file, and a func to close it.
func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	result := &sim.Result{States: states, Metrics: meta.Metrics, StepsTaken: meta.Steps}
	if err := storage.ExportJSON(w, *meta, result); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	states, err := openStore().LoadStates(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func serve(cmd *cobra.Command, args []string) error {
	c, name, err := scenarioConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		c.Server.Addr = addr
	}

	exp, err := experiment.New(name, c, experiment.NewRegistry(), experimentOptions()...)
	if err != nil {
		return err
	}

	var opts []api.Option
	if t := exp.Table(); t != nil {
		opts = append(opts, api.WithPolar(polar.NewInterpolator(t)))
	}
	srv := api.New(sim.NewGuarded(exp.GetSimulator()), log, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, c.Server.Addr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	states, err := openStore().LoadStates(args[0])
	if err != nil {
		return err
	}
	svg := export.TrackSVG(analysis.TrackOf(states), svgWidth, svgHeight, "#00ffff")
	if svg == "" {
		return fmt.Errorf("run %s has too few samples for a track", args[0])
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// parseGrid reads name=v1,v2 pairs.
func parseGrid(specs []string) (map[string][]float64, error) {
	grid := make(map[string][]float64, len(specs))
	for _, arg := range specs {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, fmt.Errorf("bad grid %q, want name=v1,v2", arg)
		}
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q for %s", raw, name)
			}
			grid[name] = append(grid[name], v)
		}
	}
	return grid, nil
}

func tune(cmd *cobra.Command, args []string) error {
	c, name, err := scenarioConfig(cmd)
	if err != nil {
		return err
	}
	grid, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}

	log.Info("tuning auto-trim", "scenario", name, "metric", tuneMetric, "grid", tuneGrid)
	best, all, err := optim.TuneAutoTrim(cmd.Context(), c, experiment.NewRegistry(), grid,
		optim.Objective{Metric: tuneMetric, Maximize: !tuneMin})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(grid))
	for n := range grid {
		names = append(names, n)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(tuneMetric))
	for _, t := range all {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(t.Params[n], 'g', -1, 64))
		}
		if t.Err != nil {
			row = append(row, "error: "+t.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.4f", t.Score))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v -> %s %.4f\n", best.Params, tuneMetric, best.Score)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScript(cmd.Context(), script, cfg, experiment.NewRegistry(), st, log)
	for _, r := range results {
		final := r.Result.Final()
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Printf("%-20s %-36s %6.2f kn  %s\n", r.Name, id, dynamo.Knots(final.BoatSpeed), final.Regime)
	}
	return err
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	c, name, err := scenarioConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("monte carlo", "scenario", name, "trials", trials, "seed", seed)
	results, err := automation.RunMonteCarlo(cmd.Context(), c, experiment.NewRegistry(), automation.MonteCarloConfig{
		Trials:          trials,
		WindSpeedJitter: windJit,
		DirectionJitter: dirJit,
		Seed:            seed,
	})
	if err != nil {
		return err
	}

	speeds := make([]float64, len(results))
	for i, r := range results {
		speeds[i] = dynamo.Knots(r.Final.BoatSpeed)
	}
	groove, mean := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d (seed %d)\n", len(results), seed)
	fmt.Printf("in the groove: %d (%.0f%%)\n", groove, 100*float64(groove)/float64(len(results)))
	fmt.Printf("mean final speed: %.2f kn\n\n", dynamo.Knots(mean))
	if len(speeds) > 1 {
		fmt.Println(asciigraph.Plot(speeds, asciigraph.Height(8), asciigraph.Precision(2), asciigraph.Caption("final speed per trial (kn)")))
	}
	return nil
}
