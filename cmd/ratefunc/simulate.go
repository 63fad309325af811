package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/romdo/go-ratefunc/internal/config"
	"github.com/romdo/go-ratefunc/internal/sim"
	"github.com/romdo/go-ratefunc/observe"
)

type simulateFlags struct {
	config  string
	events  string
	metrics bool
}

func newSimulateCommand() *cobra.Command {
	flags := &simulateFlags{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay call offsets through a debouncer or throttler",
		Example: `  ratefunc simulate --config throttle.yaml --events 0,10,20,150
  seq 0 10 500 | ratefunc simulate --config debounce.yaml --events -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&flags.events, "events", "e", "",
		`call offsets in ms or as durations, comma separated, or "-" to read them from stdin`)
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false,
		"print event counters in Prometheus text format")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("events")

	return cmd
}

func runSimulate(cmd *cobra.Command, flags *simulateFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	logger := observe.SetupLogger(cmd.ErrOrStderr(), level, true)

	var in io.Reader = strings.NewReader(flags.events)
	if flags.events == "-" {
		in = cmd.InOrStdin()
	}
	events, err := sim.ParseEvents(in)
	if err != nil {
		return fmt.Errorf("parse events: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics := observe.NewMetrics(reg)

	logger.Info().
		Str("kind", cfg.Kind).
		Str("name", cfg.Name).
		Dur("wait", cfg.Wait()).
		Int("events", len(events)).
		Msg("simulating")

	firings, err := sim.Run(cfg, events, observe.Multi(metrics, observe.Log(logger)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range firings {
		fmt.Fprintf(out, "%10s  event #%d at %s\n",
			"+"+f.At.String(), f.Event, events[f.Event])
	}
	logger.Info().
		Int("calls", len(events)).
		Int("invocations", len(firings)).
		Msg("done")

	if flags.metrics {
		return writeMetrics(out, reg)
	}

	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
