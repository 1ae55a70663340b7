package game

import (
	"bytes"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/clock"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/loader"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/snapshot"
)

func TestTickIgnoresNonPositiveDelta(t *testing.T) {
	e, rec := newTestEngine(t, unitProduction)
	e.Tick(0)
	e.Tick(-1)

	assert.Zero(t, e.State().Stats.PlayTimeSeconds)
	assert.Empty(t, rec.events)
}

func TestTickIgnoresNonFiniteDelta(t *testing.T) {
	e, rec := newTestEngine(t, unitProduction)
	e.Tick(math.NaN())
	e.Tick(math.Inf(1))
	e.Tick(math.Inf(-1))

	assert.Zero(t, e.State().Stats.PlayTimeSeconds)
	assert.Equal(t, models.Resources{Energy: 100, Materials: 50}, e.State().Resources)
	assert.Empty(t, rec.events)

	e.Tick(1)
	assert.Equal(t, 1.0, e.State().Stats.PlayTimeSeconds)
	_, err := snapshot.JSONCodec{}.Encode(e.Snapshot())
	require.NoError(t, err)
}

func TestReentrantTickIgnored(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig()
	unitProduction(&cfg)
	e, err := NewEngine(testCatalog(), cfg, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	e.Bus().Subscribe(events.ResourceChange, func(events.Event) {
		e.Tick(1)
	})
	e.Tick(1)

	assert.Equal(t, 1.0, e.State().Stats.PlayTimeSeconds)
	assert.Equal(t, 101.0, e.State().Resources.Energy)
	assert.Contains(t, logs.String(), "re-entrant tick ignored")
}

func TestPanickingListenerDoesNotStopTick(t *testing.T) {
	e, rec := newTestEngine(t)
	e.Bus().Subscribe(events.ConstructionStart, func(events.Event) {
		panic("listener bug")
	})

	require.True(t, e.RequestBuild("depot", BuildOptions{}).OK)
	e.Tick(5)
	assert.Equal(t, 1, e.State().Structures["depot"])
	assert.Len(t, rec.of(events.ConstructionStart), 1)
}

func TestReset(t *testing.T) {
	e, rec := newTestEngine(t)
	require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	e.Tick(2)
	e.Research().Complete("gamma")

	e.Reset()

	fresh := NewState(testConfig().Game)
	fresh.Production = e.State().Production
	assert.Equal(t, fresh, e.State())
	assert.Len(t, rec.of(events.GameReset), 1)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	cfg := testConfig()
	unitProduction(&cfg)
	cfg.Game.StartingResearchSlots = 2

	e, err := NewEngine(testCatalog(), cfg, WithClock(clock.NewFake(now)))
	require.NoError(t, err)
	require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	e.Tick(2)
	require.True(t, e.RequestBuild("shed", BuildOptions{Placement: "moon"}).OK)
	require.True(t, e.StartResearch("alpha").OK)
	e.Tick(1)

	snap := e.Snapshot()
	assert.Equal(t, now, snap.LastSaved)

	restored, err := NewEngine(testCatalog(), cfg)
	require.NoError(t, err)
	restored.Restore(snap)

	want, got := e.State(), restored.State()
	assert.Equal(t, want.Resources, got.Resources)
	assert.Equal(t, want.Structures, got.Structures)
	assert.Equal(t, want.Construction, got.Construction)
	assert.Equal(t, want.Research, got.Research)
	assert.Equal(t, want.CompletedTech, got.CompletedTech)
	assert.Equal(t, want.ClaimedMilestones, got.ClaimedMilestones)
	assert.Equal(t, want.MaxResearchSlots, got.MaxResearchSlots)
	assert.Equal(t, want.Stats, got.Stats)
	assert.Equal(t, want.Production, got.Production)
}

func TestRestoreDropsUnknownAndKeepsEra(t *testing.T) {
	e, _ := newTestEngine(t)
	snap := e.DefaultSnapshot()
	assert.False(t, snap.HasTimestamp())

	snap.Structures["teleporter"] = 3
	snap.Structures["panel"] = 2
	snap.CompletedResearch = []string{"alpha", "warp"}
	snap.ResearchQueue = []snapshot.ResearchEntry{{Tech: "alpha", Progress: 3}, {Tech: "beta", Progress: 4}}
	snap.ConstructionQueue = []snapshot.ConstructionEntry{{Structure: "depot"}}
	snap.CurrentEra = 3
	snap.SolarCapture = 0.95
	snap.CurrentResearch = "gamma"
	snap.ResearchProgress = 2

	e.Restore(snap)
	st := e.State()

	assert.Equal(t, map[models.StructureType]int{"panel": 2}, st.Structures)
	assert.Equal(t, map[models.TechID]bool{"alpha": true}, st.CompletedTech)
	require.Len(t, st.Research, 2)
	assert.Equal(t, &ResearchItem{Tech: "gamma", Progress: 2}, st.Research[0], "legacy slot first")
	assert.Equal(t, &ResearchItem{Tech: "beta", Progress: 4}, st.Research[1])
	require.Len(t, st.Construction, 1)
	assert.NotEmpty(t, st.Construction[0].ID)
	assert.Equal(t, 5.0, st.Construction[0].BuildTime)
	assert.Equal(t, models.Resources{Energy: 20, Materials: 50}, st.Construction[0].Cost)

	// solar capture is re-derived, the persisted era is kept
	assert.Zero(t, st.SolarCapture)
	assert.Equal(t, 3, st.Era)
}

func TestDefaultCatalogSmoke(t *testing.T) {
	catalog, err := loader.DefaultCatalog()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Game.BaseProduction = models.Resources{Energy: 1, Materials: 0.5, Research: 0.2}
	e, err := NewEngine(catalog, cfg)
	require.NoError(t, err)

	e.SetAutoResearch(true)
	require.True(t, e.RequestBuild("solar_panel", BuildOptions{}).OK)
	for i := 0; i < 600; i++ {
		e.Tick(0.1)
	}

	assert.Equal(t, 1, e.State().Structures["solar_panel"])
	assert.True(t, e.State().CompletedTech["rocketry"])
	assert.True(t, e.State().ClaimedMilestones["first_light"])
	assert.InDelta(t, 60, e.State().Stats.PlayTimeSeconds, 1e-6)
}
