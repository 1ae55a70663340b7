package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/clock"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func unitProduction(c *config.Config) {
	c.Game.BaseProduction = models.Resources{Energy: 1, Materials: 1, Research: 1}
}

func TestOfflineShortGapIsNoop(t *testing.T) {
	e, rec := newTestEngine(t, unitProduction)

	_, ok := e.ApplyOfflineReconciliation(59)
	assert.False(t, ok)
	assert.Equal(t, models.Resources{Energy: 100, Materials: 50}, e.State().Resources)
	assert.Empty(t, rec.of(events.OfflineProgress))

	// the window is single-shot even when nothing was applied
	_, ok = e.ApplyOfflineReconciliation(3600)
	assert.False(t, ok)
}

func TestOfflineAppliesHalfEfficiency(t *testing.T) {
	e, rec := newTestEngine(t, unitProduction)

	report, ok := e.ApplyOfflineReconciliation(3600)
	require.True(t, ok)
	assert.Equal(t, events.OfflineReport{
		OfflineSeconds:   3600,
		EffectiveSeconds: 1800,
		Gains:            models.Resources{Energy: 1800, Materials: 1800, Research: 1800},
	}, report)
	assert.Equal(t, 1800.0, e.State().Stats.OfflineSeconds)
	assert.Len(t, rec.of(events.OfflineProgress), 1)

	// gains can satisfy milestones; stockpile adds one research point
	assert.True(t, e.State().ClaimedMilestones["stockpile"])
	assert.Equal(t, models.Resources{Energy: 1900, Materials: 1850, Research: 1801}, e.State().Resources)
}

func TestOfflineClampsToMax(t *testing.T) {
	e, _ := newTestEngine(t, unitProduction)

	report, ok := e.ApplyOfflineReconciliation(7 * 24 * 3600)
	require.True(t, ok)
	assert.True(t, report.WasCapped)
	assert.Equal(t, 7.0*24*3600, report.OfflineSeconds)
	assert.Equal(t, 43200.0, report.EffectiveSeconds)
}

func TestOfflineNaNGapIsNoop(t *testing.T) {
	e, rec := newTestEngine(t, unitProduction)

	_, ok := e.ApplyOfflineReconciliation(math.NaN())
	assert.False(t, ok)
	assert.Equal(t, models.Resources{Energy: 100, Materials: 50}, e.State().Resources)
	assert.Empty(t, rec.of(events.OfflineProgress))
}

func TestOfflineInfiniteGapClampsToMax(t *testing.T) {
	e, _ := newTestEngine(t, unitProduction)

	report, ok := e.ApplyOfflineReconciliation(math.Inf(1))
	require.True(t, ok)
	assert.True(t, report.WasCapped)
	assert.Equal(t, 86400.0, report.OfflineSeconds)
	assert.Equal(t, 43200.0, report.EffectiveSeconds)
	assert.False(t, math.IsNaN(e.State().Resources.Energy))
	assert.False(t, math.IsInf(e.State().Resources.Energy, 0))
}

func TestOfflineClosedAfterFirstTick(t *testing.T) {
	e, _ := newTestEngine(t, unitProduction)
	e.Tick(1)

	_, ok := e.ApplyOfflineReconciliation(3600)
	assert.False(t, ok)
}

func TestReconcileSince(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := testConfig()
	unitProduction(&cfg)
	e, err := NewEngine(testCatalog(), cfg, WithClock(clock.NewFake(now)))
	require.NoError(t, err)

	report, ok := e.ReconcileSince(now.Add(-2 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, 7200.0, report.OfflineSeconds)
	assert.Equal(t, 3600.0, report.EffectiveSeconds)
}

func TestReconcileSinceWithoutTimestamp(t *testing.T) {
	e, _ := newTestEngine(t, unitProduction)

	_, ok := e.ReconcileSince(time.Time{})
	assert.False(t, ok)
	_, ok = e.ApplyOfflineReconciliation(3600)
	assert.False(t, ok)
}
