package game

import (
	"log/slog"
	"maps"
	"time"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/clock"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/logging"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Engine owns one session of the game and applies inbound commands.
// It is not safe for concurrent use; drive it from a single goroutine.
type Engine struct {
	store        *Store
	ledger       *Ledger
	construction *Construction
	research     *Research
	evaluator    *Evaluator
	offline      *Offline

	cfg    config.Config
	clock  clock.Clock
	bus    *events.Bus
	logger *slog.Logger

	ticking bool
}

// Option configures an Engine
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithBus shares an existing event bus, so listeners can subscribe before the
// first production update is emitted
func WithBus(b *events.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// NewEngine creates an engine holding a fresh session
func NewEngine(catalog *models.Catalog, cfg config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:   cfg,
		clock: clock.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.bus == nil {
		e.bus = events.NewBus(e.logger)
	}

	e.store = NewStore(catalog, cfg.Game, e.bus, e.logger)
	e.ledger = NewLedger(e.store)
	e.construction = NewConstruction(e.store, e.ledger)
	e.research = NewResearch(e.store)
	e.offline = NewOffline(e.store, e.ledger, cfg.Offline)

	evaluator, err := NewEvaluator(e.store, e.ledger)
	if err != nil {
		return nil, err
	}
	e.evaluator = evaluator
	return e, nil
}

// State returns the live state. Callers must treat it as read-only.
func (e *Engine) State() *State { return e.store.State }

func (e *Engine) Catalog() *models.Catalog { return e.store.Catalog }

func (e *Engine) Bus() *events.Bus { return e.bus }

func (e *Engine) Ledger() *Ledger { return e.ledger }

func (e *Engine) Construction() *Construction { return e.construction }

func (e *Engine) Research() *Research { return e.research }

func (e *Engine) Evaluator() *Evaluator { return e.evaluator }

// PreviewProduction computes production for hypothetical structure counts
// under the technologies researched so far plus extra. The live state is not
// touched.
func (e *Engine) PreviewProduction(structures map[models.StructureType]int, extra ...models.TechID) models.ProductionSnapshot {
	completed := e.store.State.CompletedTech
	if len(extra) > 0 {
		completed = maps.Clone(completed)
		for _, id := range extra {
			completed[id] = true
		}
	}
	return e.store.calc.Compute(structures, completed)
}

// Tick advances the simulation by dt seconds: resources, then construction,
// then research, then eras and milestones. A Tick issued by a listener while a
// tick is running is dropped, and so is a non-finite dt.
func (e *Engine) Tick(dt float64) {
	if !finite(dt) || dt <= 0 {
		if dt != 0 {
			e.logger.Warn("invalid tick ignored", "dt", dt)
		}
		return
	}
	if e.ticking {
		e.logger.Warn("re-entrant tick ignored", "dt", dt)
		return
	}
	e.ticking = true
	defer func() { e.ticking = false }()

	e.offline.Close()
	st := e.store.State
	st.Stats.PlayTimeSeconds += dt

	e.ledger.Accrue(st.Production.Rates, dt)
	e.construction.Advance(dt)
	e.research.Advance(dt)
	e.evaluator.AdvanceEra()
	e.evaluator.Evaluate()
}

// RequestBuild queues a structure
func (e *Engine) RequestBuild(id models.StructureType, opts BuildOptions) Result {
	return e.construction.RequestBuild(id, opts)
}

// BuildMany queues up to n structures, stopping at the first rejection
func (e *Engine) BuildMany(id models.StructureType, n int, opts BuildOptions) []Result {
	return e.construction.BuildMany(id, n, opts)
}

// CancelBuild removes the construction queue item at index
func (e *Engine) CancelBuild(index int) Result {
	return e.construction.Cancel(index)
}

// StartResearch begins researching a technology
func (e *Engine) StartResearch(id models.TechID) Result {
	return e.research.Start(id)
}

// CancelResearch drops a technology in progress
func (e *Engine) CancelResearch(id models.TechID) Result {
	return e.research.Cancel(id)
}

func (e *Engine) SetAutoResearch(enabled bool) {
	e.research.SetAuto(enabled)
}

// ApplyOfflineReconciliation credits production for an offline gap. It only
// has an effect once per session and before the first tick.
func (e *Engine) ApplyOfflineReconciliation(elapsedSeconds float64) (events.OfflineReport, bool) {
	report, ok := e.offline.Apply(elapsedSeconds)
	if ok {
		e.evaluator.Evaluate()
	}
	return report, ok
}

// ReconcileSince reconciles the gap between lastSaved and the engine clock.
// A zero timestamp means there is no previous session.
func (e *Engine) ReconcileSince(lastSaved time.Time) (events.OfflineReport, bool) {
	if lastSaved.IsZero() {
		e.offline.Close()
		return events.OfflineReport{}, false
	}
	return e.ApplyOfflineReconciliation(clock.Since(e.clock, lastSaved))
}

// Reset discards the session and starts over from defaults
func (e *Engine) Reset() {
	e.store.State = NewState(e.cfg.Game)
	e.store.Recompute()
	e.logger.Info("game reset")
	e.bus.Emit(events.GameReset, nil)
	e.bus.Notify(events.Notice{
		Severity: events.SeverityInfo,
		Title:    "Game reset",
		Body:     "All progress has been cleared.",
		Icon:     "refresh",
		Duration: 4 * time.Second,
	})
}
