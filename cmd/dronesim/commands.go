package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dronesim/internal/automation"
	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/experiment"
	"github.com/san-kum/dronesim/internal/export"
	"github.com/san-kum/dronesim/internal/models"
	"github.com/san-kum/dronesim/internal/optim"
	"github.com/san-kum/dronesim/internal/sim"
	"github.com/san-kum/dronesim/internal/storage"
	"github.com/san-kum/dronesim/internal/viz"
)

// loadDesign resolves --config, then --preset, then the default design, and
// applies the simulation flags the user set.
func loadDesign(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case presetName != "":
		if cfg = config.GetPreset(presetName); cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, presetName, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("min-charge") {
		cfg.Sim.MinCharge = minCharge
	}
	if cmd.Flags().Changed("max-duration") {
		cfg.Sim.MaxDuration = maxDuration
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadDesign(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	if !quiet && every > 0 {
		exp.GetSimulator().AddObserver(dynamo.ObserverFunc(func(r dynamo.Record) {
			if r.Step%every == 0 {
				fmt.Println(viz.StyledStatusLine(r, cfg.Sim.MinCharge))
			}
		}))
	}

	d := exp.Drone()
	fmt.Printf("flying %s: %.2f kg take-off weight, %.0f W to hover, %.0f W with margin\n",
		cfg.Name, d.Weight()/1000, d.HoverPower(), d.Powertrain().InstantaneousPower(models.ThrustMargin*d.Weight()))

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, dynamo.ErrContextCanceled) {
		return err
	}
	elapsed := time.Since(start)

	if !quiet && every > 0 {
		fmt.Println(viz.StyledStatusLine(result.Final, cfg.Sim.MinCharge))
	}
	for _, e := range result.Errors {
		log.Printf("warning: %v", e)
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
	fmt.Printf("stop reason: %s\n", result.Reason)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("flight time: %s\n", viz.FormatClock(result.FlightTime))
	printMetrics(result.Metrics)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-24s %.4f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadDesign(cmd)
	if err != nil {
		return err
	}
	d, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(d, cfg.SimConfig(), cfg.Name))
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESIGN\tTIME\tFLIGHT\tSTEPS\tDT\tREASON")

	for _, run := range runs {
		step := 0.0
		if run.Config != nil {
			step = run.Config.Sim.Dt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2fs\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			viz.FormatClock(run.FlightTime),
			run.StepsTaken,
			step,
			run.Reason,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	if len(records) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("design: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(r dynamo.Record) float64
	}{
		{"bank charge (%)", func(r dynamo.Record) float64 { return r.ChargePercentage * 100 }},
		{"total power draw (W)", func(r dynamo.Record) float64 { return r.TotalPowerDraw }},
		{"battery power draw (W)", func(r dynamo.Record) float64 { return r.BatteryPowerDraw }},
		{"fuel remaining (L)", func(r dynamo.Record) float64 { return r.RemainingFuel }},
		{"weight (kg)", func(r dynamo.Record) float64 { return r.Weight / 1000 }},
	}

	for _, s := range series {
		data := make([]float64, len(records))
		for i, r := range records {
			data[i] = s.value(r)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgDir == "" {
		return nil
	}
	if err := os.MkdirAll(svgDir, 0755); err != nil {
		return err
	}
	tank := 0.0
	if meta.Config != nil && meta.Config.Generator.Enabled {
		tank = meta.Config.Generator.TankCapacity
	}
	charts := map[string]string{
		"power.svg":  export.PowerChart(records, 900, 400),
		"charge.svg": export.ChargeChart(records, tank, 900, 400),
	}
	for name, svg := range charts {
		path := filepath.Join(svgDir, name)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	records, err := storage.New(dataDir).LoadRecords(args[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Records:    records,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
		FlightTime: meta.FlightTime,
		Reason:     meta.Reason,
	}
	step := 0.0
	if meta.Config != nil {
		step = meta.Config.Sim.Dt
	}
	return storage.ExportJSON(os.Stdout, meta.Name, step, result)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMOTORS\tBANK\tGENERATOR\tTANK\tPAYLOAD")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		gen := "none"
		if c.Generator.Enabled {
			gen = fmt.Sprintf("%.0f W", c.Generator.MaxPower)
		}
		fmt.Fprintf(w, "%s\t%d x %s\t%dS%dP %s\t%s\t%.1f L\t%.2f kg\n",
			name,
			c.Powertrain.NumberOfMotors, c.Powertrain.Motor,
			c.Battery.PacksInSeries, c.Battery.PacksInParallel, c.Battery.Model,
			gen,
			c.Generator.TankCapacity,
			c.PayloadWeight/1000,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmotors:")
	for _, name := range config.ListMotors() {
		m := config.Motors[name]
		fmt.Printf("  %-24s %s, $%.2f, %.1f V, %d datapoints\n", name, m.Name, m.Cost, m.Voltage, len(m.Datapoints))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if presetName != "" {
		if cfg = config.GetPreset(presetName); cfg == nil {
			return fmt.Errorf("%w: %s", dynamo.ErrUnknownPreset, presetName)
		}
	}
	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	log.Printf("wrote %s design to %s", cfg.Name, args[0])
	return nil
}

func fitMotor(cmd *cobra.Command, args []string) error {
	name := config.DefaultMotor
	if len(args) > 0 {
		name = args[0]
	}
	spec, ok := config.Motors[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownMotor, name, config.ListMotors())
	}
	curve, err := spec.Curve()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", spec.Name, curve)
	fmt.Printf("%10s  %10s  %10s  %8s\n", "thrust_g", "power_w", "fit_w", "error")
	fmt.Println(strings.Repeat("-", 44))
	for _, s := range spec.Datapoints {
		fit := curve.XToY(s.Thrust)
		fmt.Printf("%10.0f  %10.1f  %10.1f  %7.2f%%\n", s.Thrust, s.Power, fit, 100*(fit-s.Power)/s.Power)
	}
	return nil
}

// presetFlights builds one ensemble member per preset, each flown with the
// preset's own sim settings.
func presetFlights(registry *experiment.Registry, names []string) ([]sim.Factory, []sim.Config, error) {
	factories := make([]sim.Factory, len(names))
	cfgs := make([]sim.Config, len(names))
	for i, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return nil, nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, config.ListPresets())
		}
		factories[i] = experiment.Factory(registry, cfg)
		cfgs[i] = cfg.SimConfig()
		cfgs[i].KeepRecords = false
	}
	return factories, cfgs, nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	factories, cfgs, err := presetFlights(experiment.NewRegistry(), args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	results, err := sim.NewEnsemble(factories, workers).RunEach(ctx, cfgs)
	if err != nil {
		return err
	}

	fmt.Printf("compared %d designs in %v\n\n", len(args), time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDT\tFLIGHT\tREASON\tPEAK W\tBATTERY Wh\tGENERATOR Wh\tFUEL L")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%.2fs\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.2f\n",
			args[i],
			cfgs[i].Dt,
			viz.FormatClock(res.FlightTime),
			res.Reason,
			res.Metrics["peak_power_w"],
			res.Metrics["battery_energy_wh"],
			res.Metrics["generator_energy_wh"],
			res.Metrics["fuel_burned_l"],
		)
	}
	return w.Flush()
}

func sweepDesign(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	base, err := loadDesign(cmd)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges, workers)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	outcomes, err := search.Search(ctx, base, experiment.NewRegistry())
	if err != nil {
		return err
	}
	fmt.Printf("flew %d designs in %v\n\n", len(outcomes), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\t%s\tFLIGHT\tLANDING kg\tREASON\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, o := range outcomes[:max(0, min(top, len(outcomes)))] {
		vals := make([]string, len(names))
		for j, n := range names {
			vals[j] = strconv.FormatFloat(o.Params[n], 'g', -1, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n",
			i+1,
			strings.Join(vals, "\t"),
			viz.FormatClock(o.Result.FlightTime),
			o.Result.Final.Weight/1000,
			o.Result.Reason,
		)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tDURATION\tREASON\tBATTERY Wh\tFUEL L\tRUN ID")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.2f\t%s\n",
			r.Label,
			viz.FormatClock(r.Result.FlightTime),
			r.Result.Reason,
			r.Result.Metrics["battery_energy_wh"],
			r.Result.Metrics["fuel_burned_l"],
			runID,
		)
	}
	return w.Flush()
}

// parseParam splits "name=v1,v2,..." into its parts.
func parseParam(p string) (string, []float64, error) {
	name, list, ok := strings.Cut(p, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2,...", p)
	}
	var values []float64
	for _, s := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid --param %q: %w", p, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
