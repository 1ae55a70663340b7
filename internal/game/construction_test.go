package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func TestRequestBuildCannotAfford(t *testing.T) {
	e, rec := newTestEngine(t)

	res := e.RequestBuild("foundry", BuildOptions{})

	assert.False(t, res.OK)
	assert.Equal(t, CannotAfford, res.Reason)
	assert.True(t, errors.Is(res.Err(), ErrCannotAfford))
	assert.Equal(t, models.Resources{Energy: 100, Materials: 50}, e.State().Resources)
	assert.Empty(t, e.State().Construction)
	assert.Empty(t, rec.of(events.ConstructionStart))
}

func TestRequestBuildCompletesAfterBuildTime(t *testing.T) {
	e, rec := newTestEngine(t)

	res := e.RequestBuild("depot", BuildOptions{Placement: "earth-orbit"})
	require.True(t, res.OK)
	assert.NotEmpty(t, res.ItemID)
	assert.Equal(t, models.Resources{Energy: 80}, e.State().Resources, "cost is paid up front")

	for i := 0; i < 4; i++ {
		e.Tick(1)
	}
	assert.Zero(t, e.State().Structures["depot"])
	require.Len(t, e.State().Construction, 1)
	assert.Equal(t, 4.0, e.State().Construction[0].Progress)

	e.Tick(1)
	assert.Equal(t, 1, e.State().Structures["depot"])
	assert.Empty(t, e.State().Construction)

	built := rec.of(events.StructureBuilt)
	require.Len(t, built, 1)
	assert.Equal(t, events.StructureCompleted{Structure: "depot", Count: 1, Placement: "earth-orbit"}, built[0].Payload)
	assert.Len(t, rec.of(events.ConstructionComplete), 1)
	assert.Len(t, rec.of(events.ConstructionProgress), 5)
}

func TestRequestBuildValidationOrder(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) { c.Game.BaseQueueSize = 2 })

	assert.Equal(t, UnknownStructure, e.RequestBuild("warp_gate", BuildOptions{}).Reason)
	assert.Equal(t, TechNotUnlocked, e.RequestBuild("pad", BuildOptions{}).Reason)

	e.Research().Complete("rocketry")
	setStructures(e, map[models.StructureType]int{"pad": 1})
	require.True(t, e.RequestBuild("pad", BuildOptions{}).OK)

	// limit counts built and queued structures, and is checked before cost
	e.State().Resources = models.Resources{}
	assert.Equal(t, LimitReached, e.RequestBuild("pad", BuildOptions{}).Reason)
	assert.Equal(t, CannotAfford, e.RequestBuild("panel", BuildOptions{}).Reason)

	e.State().Resources = models.Resources{Energy: 1000, Materials: 1000}
	// one pad built raises the queue to 3
	assert.Equal(t, 3, e.Construction().MaxQueueSize())
	require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	res := e.RequestBuild("panel", BuildOptions{})
	assert.Equal(t, QueueFull, res.Reason)
	assert.ErrorIs(t, res.Err(), ErrQueueFull)
}

func TestMaxQueueSizeGrowsWithLaunchCapacity(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, 10, e.Construction().MaxQueueSize())

	setStructures(e, map[models.StructureType]int{"pad": 2})
	assert.Equal(t, 12, e.Construction().MaxQueueSize())
}

func TestCancelRefunds(t *testing.T) {
	e, rec := newTestEngine(t)

	require.True(t, e.RequestBuild("shed", BuildOptions{}).OK)
	assert.Equal(t, models.Resources{Energy: 85, Materials: 25}, e.State().Resources)

	require.True(t, e.CancelBuild(0).OK)
	assert.Equal(t, models.Resources{Energy: 100, Materials: 50}, e.State().Resources, "full refund before progress")

	require.True(t, e.RequestBuild("shed", BuildOptions{}).OK)
	e.Tick(1)
	require.True(t, e.CancelBuild(0).OK)
	// floor(15/2) and floor(25/2)
	assert.Equal(t, models.Resources{Energy: 92, Materials: 37}, e.State().Resources)

	cancels := rec.of(events.ConstructionCancel)
	require.Len(t, cancels, 2)
	assert.Equal(t, models.Resources{Energy: 7, Materials: 12}, cancels[1].Payload.(events.ConstructionCancelled).Refund)

	assert.Equal(t, InvalidIndex, e.CancelBuild(0).Reason)
	assert.Equal(t, InvalidIndex, e.CancelBuild(-1).Reason)
}

func TestCancelWaitingItem(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	require.True(t, e.RequestBuild("shed", BuildOptions{}).OK)
	e.Tick(1)

	// only the head accrued progress, so the waiting shed refunds in full
	require.True(t, e.CancelBuild(1).OK)
	assert.Equal(t, models.Resources{Energy: 90, Materials: 40}, e.State().Resources)
	require.Len(t, e.State().Construction, 1)
	assert.Equal(t, models.StructureType("panel"), e.State().Construction[0].Structure)
}

func TestAutoConstructionDrainsQueue(t *testing.T) {
	e, rec := newTestEngine(t)
	setStructures(e, map[models.StructureType]int{"yard": 1})
	// yard: build speed 1.5, one instant completion per second

	for i := 0; i < 3; i++ {
		require.True(t, e.RequestBuild("panel", BuildOptions{}).OK)
	}

	e.Tick(1)
	assert.Equal(t, 1, e.State().Structures["panel"])
	require.Len(t, e.State().Construction, 2)
	assert.Zero(t, e.State().Construction[0].Progress, "auto-completed head had progress 1.5, next item fresh")

	e.Tick(2)
	assert.Equal(t, 3, e.State().Structures["panel"])
	assert.Empty(t, e.State().Construction)
	assert.Equal(t, 1.0, e.State().AutoConstructionProgress)

	auto := 0
	for _, ev := range rec.of(events.ConstructionComplete) {
		if ev.Payload.(events.ConstructionCompleted).Auto {
			auto++
		}
	}
	assert.Equal(t, 2, auto)
}

func TestAutoConstructionBankIsCapped(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) { c.Game.BaseQueueSize = 2 })
	setStructures(e, map[models.StructureType]int{"yard": 1})

	e.Tick(100)
	assert.Equal(t, 2.0, e.State().AutoConstructionProgress)
}

func TestBuildManyStopsAtFirstFailure(t *testing.T) {
	e, _ := newTestEngine(t)

	results := e.BuildMany("panel", 10, BuildOptions{})

	require.Len(t, results, 6)
	for _, r := range results[:5] {
		assert.True(t, r.OK)
	}
	assert.Equal(t, CannotAfford, results[5].Reason)
	assert.Len(t, e.State().Construction, 5)
	assert.Equal(t, models.Resources{Energy: 50}, e.State().Resources)
}
