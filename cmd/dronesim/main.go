package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/dronesim/internal/viz"
)

var (
	dataDir string
	workers int

	presetName  string
	configFile  string
	dt          float64
	minCharge   float64
	maxDuration float64

	every  int
	quiet  bool
	noSave bool

	sweepParams []string
	top         int

	svgDir string
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("dronesim: ")

	rootCmd := &cobra.Command{
		Use:          "dronesim",
		Short:        "hybrid drone endurance simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("data", ".dronesim", "data directory")
	rootCmd.PersistentFlags().Int("workers", 4, "concurrent simulations for compare and sweep")
	rootCmd.PersistentFlags().String("theme", viz.CurrentTheme.Name, "color theme for live view")
	env := bindEnv(rootCmd)
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		dataDir = env.GetString("data")
		workers = env.GetInt("workers")
		viz.SetTheme(env.GetString("theme"))
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly a design until its bank is depleted",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	designFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 120, "print a status line every n steps (0 for none)")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "only print the summary")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly a design with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	designFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot charge, power and fuel of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write power.svg and charge.svg to this directory")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run steps to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run steps to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset designs and catalog motors",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a design file to edit",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&presetName, "preset", "", "preset to start from (default hybrid)")

	fitCmd := &cobra.Command{
		Use:   "fit [motor]",
		Short: "fit the power curve of a catalog motor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  fitMotor,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "fly several presets side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search a design for flight time",
		Args:  cobra.NoArgs,
		RunE:  sweepDesign,
	}
	designFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (packs_in_series, packs_in_parallel, number_of_motors, tank_capacity)")
	sweepCmd.Flags().IntVar(&top, "top", 10, "designs to show")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "fly the designs listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd, initCmd, fitCmd, compareCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func designFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&presetName, "preset", "", "preset design")
	cmd.Flags().StringVar(&configFile, "config", "", "design file path (yaml), overrides --preset")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds")
	cmd.Flags().Float64Var(&minCharge, "min-charge", 0, "land at this bank charge fraction")
	cmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "simulated time limit in seconds")
}
