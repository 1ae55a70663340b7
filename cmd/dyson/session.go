package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/clock"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/loader"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/logging"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/metrics"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/snapshot"
)

// session is one load-command-save cycle
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *game.Engine
	store   snapshot.Store
	metrics *metrics.Collector
	offline *events.OfflineReport

	// afterTick runs after every engine tick
	afterTick func()
}

type sessionOptions struct {
	// print notifications as they are emitted
	echoNotices bool
	metrics     bool
}

func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if catalogFile != "" {
		cfg.Game.CatalogPath = catalogFile
	}
	if savePath != "" {
		cfg.Storage.Path = savePath
	}

	logger := logging.New(cfg.Logging, nil)
	catalog, err := loader.LoadCatalog(cfg.Game.CatalogPath)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(logger)
	s := &session{cfg: cfg, logger: logger}

	if opts.echoNotices && !quiet {
		bus.Subscribe(events.Notification, func(ev events.Event) {
			printNotice(ev.Payload.(events.Notice))
		})
	}
	if opts.metrics || cfg.Metrics.Enabled {
		collector, err := metrics.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics collector: %w", err)
		}
		collector.Bind(bus)
		s.metrics = collector
	}

	engine, err := game.NewEngine(catalog, *cfg,
		game.WithLogger(logger),
		game.WithBus(bus),
		game.WithClock(clock.RealClock{}),
	)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	store, err := snapshot.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.store = store

	snap, source, err := store.Load(ctx, engine.DefaultSnapshot())
	engine.OnPersistError("load", err)
	if source != snapshot.SourceDefaults {
		engine.Restore(snap)
		if snap.HasTimestamp() {
			logger.Debug("save loaded", "source", source, "saved_at", snap.LastSaved)
		} else {
			logger.Debug("save loaded without timestamp, offline progress skipped", "source", source)
		}
	}
	if s.metrics != nil {
		s.metrics.SetEra(engine.State().Era)
	}

	if report, ok := engine.ReconcileSince(snap.LastSaved); ok {
		s.offline = &report
	}
	return s, nil
}

func (s *session) save(ctx context.Context) error {
	err := s.store.Save(ctx, s.engine.Snapshot())
	s.engine.OnPersistError("save", err)
	return err
}

// printWelcome reports offline progress credited when the session opened
func (s *session) printWelcome() {
	if s.offline == nil || quiet {
		return
	}
	r := s.offline
	color.New(color.FgCyan, color.Bold).Printf("⏱  Offline for %s", formatSeconds(r.OfflineSeconds))
	if r.WasCapped {
		fmt.Printf(" (capped at %s)", formatSeconds(s.cfg.Offline.MaxSeconds))
	}
	fmt.Println()
	fmt.Printf("   Credited %s of production: %s\n\n", formatSeconds(r.EffectiveSeconds), formatResources(r.Gains))
}
