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
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/sludgeworks/asmsim/internal/asm1"
	"github.com/sludgeworks/asmsim/internal/config"
	"github.com/sludgeworks/asmsim/internal/metrics"
	"github.com/sludgeworks/asmsim/internal/plant"
	"github.com/sludgeworks/asmsim/internal/viz"
)

var (
	configFile string
	preset     string
	cycles     int
	scheme     string
	plotComp   string
	noPlot     bool
	frameBatch int
	verbose    bool
)

var logger *slog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "asmsim",
		Short: "activated sludge process simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			}))
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "plant configuration file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the plant to steady state",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&cycles, "cycles", 0, "override configured cycle count")
	runCmd.Flags().StringVar(&scheme, "scheme", "", "integration scheme (euler|rk4)")
	runCmd.Flags().StringVar(&plotComp, "plot", "S_NH", "effluent component to plot")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "suppress the trajectory plot")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live view of reactor concentrations",
		RunE:  runWatch,
	}
	watchCmd.Flags().IntVar(&cycles, "cycles", 0, "stop after this many cycles (0 = run until quit)")
	watchCmd.Flags().IntVar(&frameBatch, "batch", 10, "discharge cycles per animation frame")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "print ASM1 kinetic and stoichiometric parameters",
		RunE:  runParams,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named preset configurations",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, paramsCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" && preset != "" {
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see `asmsim presets`)", preset)
		}
		return cfg, nil
	}
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.DefaultConfig(), nil
}

func componentIndex(name string) (int, error) {
	for i, known := range asm1.Names {
		if known == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown component %q (known: %s)", name, strings.Join(asm1.Names[:], " "))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cycles > 0 {
		cfg.Cycles = cycles
	}
	if scheme != "" {
		cfg.Scheme = scheme
	}
	plotIdx, err := componentIndex(plotComp)
	if err != nil {
		return err
	}

	p, err := plant.FromConfig(cfg)
	if err != nil {
		return err
	}
	p.AddMetric(metrics.NewComposite("effluent COD", []int{
		asm1.SI, asm1.SS, asm1.XI, asm1.XS, asm1.XBH, asm1.XBA, asm1.XD,
	}))
	p.AddMetric(metrics.NewComposite("effluent TSS proxy", []int{
		asm1.XI, asm1.XS, asm1.XBH, asm1.XBA, asm1.XD,
	}))
	p.AddMetric(metrics.NewComponent("effluent NH4-N", asm1.SNH))
	p.AddMetric(metrics.NewNegativity())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting simulation",
		"reactors", len(cfg.Reactors),
		"scheme", cfg.Scheme,
		"cycles", cfg.Cycles,
		"flow", cfg.Influent.Flow,
	)
	start := time.Now()

	result, err := p.Run(ctx, plant.Config{Cycles: cfg.Cycles, SteadyTol: cfg.SteadyTol})
	if err != nil {
		return err
	}

	logger.Info("simulation finished",
		"cycles", result.CyclesRun,
		"converged", result.Converged,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	printEffluent(result)
	if !noPlot {
		plotTrajectory(result, plotIdx)
	}
	return nil
}

func printEffluent(result *plant.Result) {
	final := result.Effluent[len(result.Effluent)-1]

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "component\tmg/L")
	for i, v := range final {
		fmt.Fprintf(w, "%s\t%.3f\n", asm1.Names[i], v)
	}
	fmt.Fprintln(w)
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\n", name, result.Metrics[name])
	}
	w.Flush()
}

func plotTrajectory(result *plant.Result, idx int) {
	series := make([]float64, len(result.Effluent))
	for i, eff := range result.Effluent {
		series[i] = eff[idx]
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("effluent %s over %d cycles", asm1.Names[idx], len(series))),
	))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := plant.FromConfig(cfg)
	if err != nil {
		return err
	}
	return viz.Run(p, frameBatch, cycles)
}

func runParams(cmd *cobra.Command, args []string) error {
	model, err := asm1.New(config.DefaultTemperature, config.DefaultDO)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "kinetic parameter\tvalue at 20 degC")
	printSorted(w, model.Params())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "stoichiometric parameter\tvalue")
	printSorted(w, model.Stoichiometry())
	return w.Flush()
}

func printSorted(w *tabwriter.Writer, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.4g\n", k, m[k])
	}
}
