package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/recordstore/collection"
	"github.com/tailored-agentic-units/recordstore/model"
	"github.com/tailored-agentic-units/recordstore/observability"
	"github.com/tailored-agentic-units/recordstore/snapshot"
	"github.com/tailored-agentic-units/recordstore/store"
)

func demoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Populate a store with users and products and print a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), opts)
		},
	}
}

func runDemo(ctx context.Context, opts *options) error {
	cfg := store.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := store.LoadConfig(opts.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if opts.observer != "" {
		cfg.Observer = opts.observer
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	var storeOpts []store.Option
	var registry *prometheus.Registry
	if opts.metrics {
		observer, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return err
		}
		registry = prometheus.NewRegistry()
		storeOpts = append(storeOpts, store.WithObserver(observability.NewMultiObserver(
			observer,
			observability.NewPrometheusObserver(observability.WithRegistry(registry)),
		)))
	}

	s, err := store.New(&cfg, storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer s.Close()

	if err := model.Register(s); err != nil {
		return err
	}
	s.Seal()

	for _, name := range s.Names() {
		if _, err := s.Subscribe(name, func(e collection.Event) {
			logger.Info("collection changed",
				"collection", e.Collection,
				"kind", string(e.Kind),
				"members", e.Members,
				"field", e.Field,
			)
		}); err != nil {
			return err
		}
	}

	alice := model.NewUser("1", "Alice")
	if err := s.AppendContext(ctx, model.Users, alice); err != nil {
		return err
	}

	widget := model.NewProduct("1", "Widget", "")
	gadget := model.NewProduct("2", "Gadget", "")
	if err := s.AppendManyContext(ctx, model.Products, widget, gadget); err != nil {
		return err
	}

	if err := widget.SetUser(s, model.NewUser("2", "Bob")); err != nil {
		return err
	}
	if err := gadget.SetUser(s, alice); err != nil {
		return err
	}
	alice.SetName("Alicia")

	owner, err := widget.User(s)
	if err != nil {
		return err
	}
	logger.Info("resolved owner", "product", widget.Product(), "user", owner.Name())

	st, err := snapshot.Store(s)
	if err != nil {
		return err
	}
	data, err := snapshot.Marshal(st)
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if registry != nil {
		return printMetrics(registry)
	}
	return nil
}

func printMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, family); err != nil {
			return err
		}
	}
	return nil
}
