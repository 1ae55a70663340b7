package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// testCatalog is a small catalog with round numbers
func testCatalog() *models.Catalog {
	structures := []*models.Structure{
		{ID: "panel", Era: 1, Cost: models.Resources{Energy: 10, Materials: 10}, BuildTimeSeconds: 2,
			Production: models.Production{Energy: 1}},
		{ID: "depot", Era: 1, Cost: models.Resources{Energy: 20, Materials: 50}, BuildTimeSeconds: 5},
		{ID: "shed", Era: 1, Cost: models.Resources{Energy: 15, Materials: 25}, BuildTimeSeconds: 10},
		{ID: "foundry", Era: 1, Cost: models.Resources{Energy: 50, Materials: 100}, BuildTimeSeconds: 10,
			Production: models.Production{Materials: 5}},
		{ID: "lab", Era: 1, Cost: models.Resources{Energy: 10}, BuildTimeSeconds: 1,
			Production: models.Production{Research: 5}},
		{ID: "pad", Era: 1, Cost: models.Resources{Energy: 10}, BuildTimeSeconds: 1, Limit: 2, RequiredTech: "rocketry",
			Production: models.Production{LaunchCapacity: 1}},
		{ID: "yard", Era: 1, Cost: models.Resources{Energy: 1, Materials: 1}, BuildTimeSeconds: 100,
			Production: models.Production{AutoConstruction: 60, BuildSpeed: 0.5}},
		{ID: "freighter", Era: 1, Cost: models.Resources{Energy: 1}, BuildTimeSeconds: 1,
			Production: models.Production{CargoCapacity: 1000}},
		{ID: "habitat", Era: 1, Cost: models.Resources{Energy: 1}, BuildTimeSeconds: 1,
			Production: models.Production{Population: 10000}},
		{ID: "collector", Era: 2, Cost: models.Resources{Energy: 1, Materials: 1}, BuildTimeSeconds: 1,
			Production: models.Production{Energy: 10, SolarCapture: 0.3}},
		{ID: "relay", Era: 2, Cost: models.Resources{Energy: 1}, BuildTimeSeconds: 1,
			Production: models.Production{DysonBonus: 1.5}},
	}
	technologies := []*models.Technology{
		{ID: "rocketry", Era: 1, Cost: 5, Unlocks: []string{"pad"}},
		{ID: "booster", Era: 2, Cost: 10, Prerequisites: []models.TechID{"alpha"},
			Effects: models.TechEffects{EnergyMultiplier: 2, ResearchMultiplier: 2}},
		{ID: "alpha", Era: 1, Cost: 20},
		{ID: "beta", Era: 1, Cost: 30},
		{ID: "gamma", Era: 1, Cost: 10, Effects: models.TechEffects{ResearchSlots: 1},
			Unlocks: []string{"_research_slot", "yard"}},
	}
	milestones := []*models.Milestone{
		{ID: "first_panel", Name: "First Panel",
			Condition: models.Condition{Kind: models.ConditionStructureCount, Structure: "panel", Threshold: 1},
			Reward:    models.Reward{Resources: models.Resources{Energy: 10}}},
		{ID: "stockpile", Name: "Stockpile",
			Condition: models.Condition{Kind: models.ConditionExpression, Expression: "materials >= 1000"},
			Reward:    models.Reward{Resources: models.Resources{Research: 1}}},
		{ID: "omniscience", Name: "Omniscience",
			Condition: models.Condition{Kind: models.ConditionResearchAll},
			Reward:    models.Reward{Sandbox: true}},
		{ID: "second_era", Name: "Second Era",
			Condition: models.Condition{Kind: models.ConditionEra, Threshold: 2}},
		{ID: "victory", Name: "Victory",
			Condition: models.Condition{Kind: models.ConditionSolarCapture, Threshold: 1},
			Victory:   true},
	}
	eras := []models.Era{
		{Number: 1, Name: "One", Threshold: 0},
		{Number: 2, Name: "Two", Threshold: 0.5},
		{Number: 3, Name: "Three", Threshold: 0.9},
		{Number: 4, Name: "Four", Threshold: 1},
	}
	return models.NewCatalog(structures, technologies, milestones, eras)
}

// testConfig starts with {100, 50, 0} and no base production
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Game.StartingResources = models.Resources{Energy: 100, Materials: 50}
	cfg.Game.BaseProduction = models.Resources{}
	return cfg
}

type recorder struct {
	events []events.Event
}

func (r *recorder) of(kind events.Kind) []events.Event {
	var out []events.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEngine(t *testing.T, mutate ...func(*config.Config)) (*Engine, *recorder) {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	e, err := NewEngine(testCatalog(), cfg)
	require.NoError(t, err)

	rec := &recorder{}
	e.Bus().SubscribeAll(func(ev events.Event) {
		rec.events = append(rec.events, ev)
	})
	return e, rec
}

// setStructures overwrites structure counts and recomputes production
func setStructures(e *Engine, counts map[models.StructureType]int) {
	for id, n := range counts {
		e.State().Structures[id] = n
	}
	e.store.Recompute()
}

func withResearchRate(rate float64) func(*config.Config) {
	return func(c *config.Config) {
		c.Game.BaseProduction.Research = rate
	}
}
