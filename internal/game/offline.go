package game

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
)

// Offline converts a wall-clock gap into one production burst. It runs at most
// once per session and never after the first tick.
type Offline struct {
	store  *Store
	ledger *Ledger
	cfg    config.OfflineConfig
	logger *slog.Logger
	done   bool
}

func NewOffline(store *Store, ledger *Ledger, cfg config.OfflineConfig) *Offline {
	return &Offline{
		store:  store,
		ledger: ledger,
		cfg:    cfg,
		logger: store.logger.With("component", "offline"),
	}
}

// Done reports whether the reconciliation window has closed
func (o *Offline) Done() bool {
	return o.done
}

// Close ends the reconciliation window without applying anything
func (o *Offline) Close() {
	o.done = true
}

// Apply credits the current production rates over the clamped, efficiency
// scaled gap. Gaps shorter than the configured minimum produce nothing.
func (o *Offline) Apply(elapsed float64) (events.OfflineReport, bool) {
	if o.done {
		return events.OfflineReport{}, false
	}
	o.done = true

	if math.IsNaN(elapsed) || elapsed < o.cfg.MinSeconds {
		return events.OfflineReport{}, false
	}

	report := events.OfflineReport{OfflineSeconds: elapsed}
	if math.IsInf(elapsed, 1) {
		report.OfflineSeconds = o.cfg.MaxSeconds
	}
	if elapsed > o.cfg.MaxSeconds {
		elapsed = o.cfg.MaxSeconds
		report.WasCapped = true
	}
	report.EffectiveSeconds = elapsed * o.cfg.Efficiency
	report.Gains = o.store.State.Production.Rates.Scale(report.EffectiveSeconds)

	o.ledger.Accrue(o.store.State.Production.Rates, report.EffectiveSeconds)
	o.store.State.Stats.OfflineSeconds += report.EffectiveSeconds

	o.logger.Info("offline progress applied",
		"offline_seconds", report.OfflineSeconds,
		"effective_seconds", report.EffectiveSeconds,
		"capped", report.WasCapped)
	o.store.Bus.Emit(events.OfflineProgress, report)
	o.store.Bus.Notify(events.Notice{
		Severity: events.SeverityInfo,
		Title:    "Welcome back",
		Body:     fmt.Sprintf("You were away for %s.", time.Duration(report.OfflineSeconds*float64(time.Second)).Round(time.Second)),
		Icon:     "clock",
		Duration: 8 * time.Second,
	})
	return report, true
}
