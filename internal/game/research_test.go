package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func twoSlots(c *config.Config) { c.Game.StartingResearchSlots = 2 }

func TestResearchSharesRate(t *testing.T) {
	e, rec := newTestEngine(t, withResearchRate(10), twoSlots)

	require.True(t, e.StartResearch("alpha").OK)
	require.True(t, e.StartResearch("beta").OK)

	e.Tick(1)
	e.Tick(1)
	q := e.Research().Queue()
	require.Len(t, q, 2)
	assert.Equal(t, 10.0, q[0].Progress)
	assert.Equal(t, 10.0, q[1].Progress)

	e.Tick(1)
	e.Tick(1)
	assert.True(t, e.State().CompletedTech["alpha"])
	require.Len(t, e.Research().Queue(), 1)
	assert.Equal(t, 20.0, e.Research().Queue()[0].Progress)

	// beta now receives the whole rate; at 5/s it would need two more ticks
	e.Tick(1)
	assert.True(t, e.State().CompletedTech["beta"])
	assert.Empty(t, e.Research().Queue())

	done := rec.of(events.ResearchComplete)
	require.Len(t, done, 2)
	assert.Equal(t, models.TechID("alpha"), done[0].Payload.(events.ResearchCompleted).Tech)
	assert.Equal(t, models.TechID("beta"), done[1].Payload.(events.ResearchCompleted).Tech)
}

func TestSimultaneousCompletionsKeepQueueOrder(t *testing.T) {
	e, rec := newTestEngine(t, withResearchRate(100), twoSlots)

	require.True(t, e.StartResearch("beta").OK)
	require.True(t, e.StartResearch("alpha").OK)
	e.Tick(1)

	done := rec.of(events.ResearchComplete)
	require.Len(t, done, 2)
	assert.Equal(t, models.TechID("beta"), done[0].Payload.(events.ResearchCompleted).Tech)
	assert.Equal(t, models.TechID("alpha"), done[1].Payload.(events.ResearchCompleted).Tech)
}

func TestResearchNoRateIsNoop(t *testing.T) {
	e, rec := newTestEngine(t)
	require.True(t, e.StartResearch("alpha").OK)

	e.Tick(10)
	assert.Zero(t, e.Research().Queue()[0].Progress)
	assert.Empty(t, rec.of(events.ResearchProgress))
}

func TestStartResearchRejections(t *testing.T) {
	e, rec := newTestEngine(t)

	assert.Equal(t, UnknownTechnology, e.StartResearch("time_travel").Reason)
	assert.Equal(t, PrerequisitesNotMet, e.StartResearch("booster").Reason)

	require.True(t, e.StartResearch("alpha").OK)
	assert.Equal(t, AlreadyQueued, e.StartResearch("alpha").Reason)

	res := e.StartResearch("beta")
	assert.Equal(t, SlotsFull, res.Reason)
	notices := rec.of(events.Notification)
	require.NotEmpty(t, notices)
	assert.Equal(t, events.SeverityWarning, notices[len(notices)-1].Payload.(events.Notice).Severity)

	e.Research().Complete("rocketry")
	assert.Equal(t, AlreadyCompleted, e.StartResearch("rocketry").Reason)
}

func TestResearchSlotGrantedOnCompletion(t *testing.T) {
	e, rec := newTestEngine(t, withResearchRate(5))

	require.True(t, e.StartResearch("gamma").OK)
	assert.Equal(t, 1, e.State().MaxResearchSlots)

	e.Tick(1)
	assert.Equal(t, 1, e.State().MaxResearchSlots, "not before completion")
	assert.Equal(t, SlotsFull, e.StartResearch("alpha").Reason)

	e.Tick(1)
	assert.Equal(t, 2, e.State().MaxResearchSlots)
	require.True(t, e.StartResearch("alpha").OK)
	require.True(t, e.StartResearch("beta").OK)

	done := rec.of(events.ResearchComplete)
	require.Len(t, done, 1)
	payload := done[0].Payload.(events.ResearchCompleted)
	assert.Equal(t, []string{"yard"}, payload.Unlocks, "internal unlocks are hidden")
	assert.Equal(t, 1, payload.SlotsGranted)
}

func TestCompleteResearchIsIdempotent(t *testing.T) {
	e, rec := newTestEngine(t)

	assert.True(t, e.Research().Complete("gamma"))
	assert.False(t, e.Research().Complete("gamma"))

	assert.Equal(t, 2, e.State().MaxResearchSlots)
	assert.Equal(t, 1, e.State().Stats.ResearchCompleted)
	assert.Len(t, rec.of(events.ResearchComplete), 1)
}

func TestCompleteRemovesFromQueue(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.StartResearch("alpha").OK)

	e.Research().Complete("alpha")
	assert.Equal(t, -1, e.State().ResearchIndex("alpha"))
	assert.True(t, e.State().CompletedTech["alpha"])
}

func TestCancelResearchDiscardsProgress(t *testing.T) {
	e, rec := newTestEngine(t, withResearchRate(10))
	require.True(t, e.StartResearch("alpha").OK)
	e.Tick(1)

	require.True(t, e.CancelResearch("alpha").OK)
	assert.Empty(t, e.Research().Queue())
	cancels := rec.of(events.ResearchCancel)
	require.Len(t, cancels, 1)
	assert.Equal(t, 10.0, cancels[0].Payload.(events.ResearchCancelled).DiscardedProgress)

	assert.Equal(t, NotQueued, e.CancelResearch("alpha").Reason)
	assert.Equal(t, UnknownTechnology, e.CancelResearch("nope").Reason)

	// restarting begins from zero
	require.True(t, e.StartResearch("alpha").OK)
	assert.Zero(t, e.Research().Queue()[0].Progress)
}

func TestAutoResearchCanonicalOrder(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) { c.Game.StartingResearchSlots = 10 })

	e.SetAutoResearch(true)

	var queued []models.TechID
	for _, item := range e.Research().Queue() {
		queued = append(queued, item.Tech)
	}
	// booster is era 2 and needs alpha
	assert.Equal(t, []models.TechID{"rocketry", "alpha", "beta", "gamma"}, queued)

	e.Research().Complete("alpha")
	assert.Equal(t, models.TechID("booster"), e.Research().Queue()[len(e.Research().Queue())-1].Tech)
}

func TestAutoResearchRefillsFreedSlot(t *testing.T) {
	e, rec := newTestEngine(t, withResearchRate(5))
	e.SetAutoResearch(true)
	require.Len(t, e.Research().Queue(), 1)
	assert.Equal(t, models.TechID("rocketry"), e.Research().Queue()[0].Tech)

	e.Tick(1)
	assert.True(t, e.State().CompletedTech["rocketry"])
	require.Len(t, e.Research().Queue(), 1)
	assert.Equal(t, models.TechID("alpha"), e.Research().Queue()[0].Tech)

	for _, ev := range rec.of(events.ResearchStart) {
		assert.True(t, ev.Payload.(events.ResearchStarted).Auto)
	}

	e.SetAutoResearch(false)
	e.Research().Complete("alpha")
	assert.Empty(t, e.Research().Queue())
}
