package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/solver"
)

func newSimulateCmd() *cobra.Command {
	var (
		duration     time.Duration
		step         time.Duration
		realtime     bool
		serve        bool
		autoResearch bool
		autopilot    bool
		trace        []string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the simulation headless",
		Long: `Advance the game without a UI. By default the simulated duration runs as
fast as possible; with --realtime the engine ticks at the configured tick rate
until the duration elapses or the process is interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, sessionOptions{echoNotices: true, metrics: serve})
			if err != nil {
				return err
			}
			s.printWelcome()
			if cmd.Flags().Changed("auto-research") {
				s.engine.SetAutoResearch(autoResearch)
			}
			if err := s.traceEvents(trace); err != nil {
				return err
			}
			if step <= 0 {
				step = time.Duration(float64(time.Second) / s.cfg.Game.TickRate)
			}

			if s.metrics != nil {
				go func() {
					if err := s.metrics.Serve(ctx, s.cfg.Metrics.Address, s.cfg.Metrics.Path); err != nil {
						s.logger.Error("metrics server failed", "error", err)
					}
				}()
				s.logger.Info("serving metrics", "address", s.cfg.Metrics.Address, "path", s.cfg.Metrics.Path)
			}

			if autopilot {
				ap := solver.NewAutopilot(s.engine, s.logger)
				s.afterTick = func() {
					for _, a := range ap.Step() {
						s.logger.Info("autopilot", "action", a.Kind, "structure", a.Structure, "tech", a.Tech, "at", a.AtSeconds)
					}
				}
			}

			start := time.Now()
			var simulated time.Duration
			if realtime {
				simulated = s.runRealtime(ctx, duration, step)
			} else {
				simulated = s.runFast(ctx, duration, step)
			}

			if !quiet {
				fmt.Println()
				titleColor.Printf("⏩ Simulated %s in %s\n\n", simulated, time.Since(start).Round(time.Millisecond))
				printStatus(s.engine)
			}
			return s.save(context.WithoutCancel(ctx))
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", time.Hour, "Simulated time to run (0 runs until interrupted with --realtime)")
	cmd.Flags().DurationVar(&step, "step", 0, "Tick length (defaults to 1/tick_rate)")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Tick against the wall clock")
	cmd.Flags().BoolVar(&serve, "metrics", false, "Serve Prometheus metrics while running")
	cmd.Flags().BoolVar(&autoResearch, "auto-research", false, "Enable or disable auto-research for the run")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "Let the greedy ROI autopilot build and research")
	cmd.Flags().StringSliceVar(&trace, "trace", nil, "Log engine events of these kinds (e.g. era:change,milestone:claimed, or all)")
	return cmd
}

// traceEvents logs every event of the named kinds at info level
func (s *session) traceEvents(names []string) error {
	if len(names) == 0 {
		return nil
	}
	bus := s.engine.Bus()
	logEvent := func(ev events.Event) {
		s.logger.Info("event", "kind", ev.Kind.String(), "payload", fmt.Sprintf("%+v", ev.Payload))
	}

	for _, name := range names {
		if name == "all" {
			bus.SubscribeAll(logEvent)
			continue
		}
		kind, ok := events.ParseKind(name)
		if !ok {
			valid := make([]string, 0, len(events.AllKinds()))
			for _, k := range events.AllKinds() {
				valid = append(valid, k.String())
			}
			return fmt.Errorf("unknown event kind %q (valid: all, %s)", name, strings.Join(valid, ", "))
		}
		bus.Subscribe(kind, logEvent)
		s.logger.Debug("tracing events", "kind", name, "listeners", bus.ListenerCount(kind))
	}
	return nil
}

func (s *session) tick(dt time.Duration) {
	start := time.Now()
	s.engine.Tick(dt.Seconds())
	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
		s.metrics.SetEra(s.engine.State().Era)
	}
	if s.afterTick != nil {
		s.afterTick()
	}
}

func (s *session) autosaver(ctx context.Context) func() {
	every := rate.Sometimes{Interval: s.cfg.Storage.AutosaveInterval}
	return func() {
		every.Do(func() {
			_ = s.save(ctx)
		})
	}
}

func (s *session) runFast(ctx context.Context, duration, step time.Duration) time.Duration {
	autosave := s.autosaver(ctx)
	var elapsed time.Duration
	for elapsed < duration {
		if ctx.Err() != nil {
			break
		}
		dt := min(step, duration-elapsed)
		s.tick(dt)
		elapsed += dt
		autosave()
	}
	return elapsed
}

func (s *session) runRealtime(ctx context.Context, duration, step time.Duration) time.Duration {
	autosave := s.autosaver(ctx)
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	last := time.Now()
	var elapsed time.Duration
	for duration == 0 || elapsed < duration {
		select {
		case <-ctx.Done():
			return elapsed
		case now := <-ticker.C:
			// ticks carry real elapsed time so a stalled process does not lose progress
			dt := now.Sub(last)
			last = now
			s.tick(dt)
			elapsed += dt
			autosave()
		}
	}
	return elapsed
}
