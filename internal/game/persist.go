package game

import (
	"slices"

	"github.com/google/uuid"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/snapshot"
)

// Snapshot captures the session, stamped with the engine clock
func (e *Engine) Snapshot() *snapshot.Snapshot {
	s := toSnapshot(e.store.State)
	s.LastSaved = e.clock.Now().UTC()
	return s
}

// DefaultSnapshot is the snapshot of a fresh session with no timestamp.
// Decoded saves are merged onto it.
func (e *Engine) DefaultSnapshot() *snapshot.Snapshot {
	return toSnapshot(NewState(e.cfg.Game))
}

// Restore replaces the session with a decoded snapshot. Identifiers missing
// from the catalog are dropped. Production and solar capture are recomputed;
// the persisted era is kept unless the solar capture qualifies for a later one.
func (e *Engine) Restore(s *snapshot.Snapshot) {
	s.Upgrade()
	e.store.State = e.fromSnapshot(s)
	e.store.Recompute()
	e.evaluator.AdvanceEra()
	e.logger.Info("session restored",
		"structures", e.store.State.TotalStructures(),
		"research", len(e.store.State.CompletedTech),
		"era", e.store.State.Era)
}

func toSnapshot(st *State) *snapshot.Snapshot {
	s := &snapshot.Snapshot{
		Version:                  snapshot.Version,
		Resources:                resourceMap(st.Resources),
		Structures:               make(map[string]int, len(st.Structures)),
		ConstructionQueue:        make([]snapshot.ConstructionEntry, 0, len(st.Construction)),
		AutoConstructionProgress: st.AutoConstructionProgress,
		CompletedResearch:        make([]string, 0, len(st.CompletedTech)),
		ResearchQueue:            make([]snapshot.ResearchEntry, 0, len(st.Research)),
		MaxResearchSlots:         st.MaxResearchSlots,
		AutoResearch:             st.AutoResearch,
		ClaimedMilestones:        make([]string, 0, len(st.ClaimedMilestones)),
		CurrentEra:               st.Era,
		SolarCapture:             st.SolarCapture,
		Sandbox:                  st.Sandbox,
		Victory:                  st.Victory,
		Stats: snapshot.Stats{
			TotalProduced:     resourceMap(st.Stats.TotalProduced),
			StructuresBuilt:   st.Stats.StructuresBuilt,
			ResearchCompleted: st.Stats.ResearchCompleted,
			MilestonesClaimed: st.Stats.MilestonesClaimed,
			PlayTimeSeconds:   st.Stats.PlayTimeSeconds,
			OfflineSeconds:    st.Stats.OfflineSeconds,
		},
	}
	for id, n := range st.Structures {
		if n > 0 {
			s.Structures[string(id)] = n
		}
	}
	for _, item := range st.Construction {
		s.ConstructionQueue = append(s.ConstructionQueue, snapshot.ConstructionEntry{
			ID:        item.ID,
			Structure: string(item.Structure),
			BuildTime: item.BuildTime,
			Progress:  item.Progress,
			Placement: item.Placement,
			Cost:      resourceMap(item.Cost),
		})
	}
	for id := range st.CompletedTech {
		s.CompletedResearch = append(s.CompletedResearch, string(id))
	}
	for _, item := range st.Research {
		s.ResearchQueue = append(s.ResearchQueue, snapshot.ResearchEntry{Tech: string(item.Tech), Progress: item.Progress})
	}
	for id := range st.ClaimedMilestones {
		s.ClaimedMilestones = append(s.ClaimedMilestones, string(id))
	}
	slices.Sort(s.CompletedResearch)
	slices.Sort(s.ClaimedMilestones)
	return s
}

func (e *Engine) fromSnapshot(s *snapshot.Snapshot) *State {
	catalog := e.store.Catalog
	st := NewState(e.cfg.Game)
	drop := func(kind, id string) {
		e.logger.Warn("dropping unknown identifier from snapshot", "kind", kind, "id", id)
	}

	if s.Resources != nil {
		st.Resources = resourcesFrom(s.Resources)
	}
	for id, n := range s.Structures {
		if _, ok := catalog.Structure(models.StructureType(id)); !ok {
			drop("structure", id)
			continue
		}
		if n > 0 {
			st.Structures[models.StructureType(id)] = n
		}
	}
	for _, entry := range s.ConstructionQueue {
		def, ok := catalog.Structure(models.StructureType(entry.Structure))
		if !ok {
			drop("construction", entry.Structure)
			continue
		}
		item := &ConstructionItem{
			ID:        entry.ID,
			Structure: def.ID,
			BuildTime: entry.BuildTime,
			Progress:  max(entry.Progress, 0),
			Placement: entry.Placement,
			Cost:      def.Cost,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.BuildTime <= 0 {
			item.BuildTime = def.BuildTimeSeconds
		}
		if entry.Cost != nil {
			item.Cost = resourcesFrom(entry.Cost)
		}
		st.Construction = append(st.Construction, item)
	}
	st.AutoConstructionProgress = max(s.AutoConstructionProgress, 0)

	for _, id := range s.CompletedResearch {
		if _, ok := catalog.Technology(models.TechID(id)); !ok {
			drop("technology", id)
			continue
		}
		st.CompletedTech[models.TechID(id)] = true
	}
	for _, entry := range s.ResearchQueue {
		id := models.TechID(entry.Tech)
		if _, ok := catalog.Technology(id); !ok {
			drop("research", entry.Tech)
			continue
		}
		if st.CompletedTech[id] || st.ResearchIndex(id) >= 0 {
			continue
		}
		st.Research = append(st.Research, &ResearchItem{Tech: id, Progress: max(entry.Progress, 0)})
	}
	if s.MaxResearchSlots > 0 {
		st.MaxResearchSlots = s.MaxResearchSlots
	}
	st.AutoResearch = s.AutoResearch

	for _, id := range s.ClaimedMilestones {
		st.ClaimedMilestones[models.MilestoneID(id)] = true
	}
	st.Era = max(s.CurrentEra, 1)
	st.SolarCapture = s.SolarCapture
	st.Sandbox = s.Sandbox
	st.Victory = s.Victory

	st.Stats = Stats{
		TotalProduced:     resourcesFrom(s.Stats.TotalProduced),
		StructuresBuilt:   s.Stats.StructuresBuilt,
		ResearchCompleted: s.Stats.ResearchCompleted,
		MilestonesClaimed: s.Stats.MilestonesClaimed,
		PlayTimeSeconds:   s.Stats.PlayTimeSeconds,
		OfflineSeconds:    s.Stats.OfflineSeconds,
	}
	return st
}

// OnPersistError reports a failed save or load to presentation collaborators
func (e *Engine) OnPersistError(op string, err error) {
	if err == nil {
		return
	}
	e.logger.Warn("persistence failed", "op", op, "error", err)
	e.bus.Notify(events.Notice{
		Severity: events.SeverityWarning,
		Title:    "Could not " + op + " game",
		Body:     err.Error(),
		Icon:     "save",
	})
}

func resourceMap(r models.Resources) map[string]float64 {
	m := make(map[string]float64, 3)
	r.Each(func(rt models.ResourceType, v float64) {
		m[string(rt)] = v
	})
	return m
}

func resourcesFrom(m map[string]float64) models.Resources {
	var r models.Resources
	for _, rt := range models.AllResourceTypes() {
		r.Set(rt, max(m[string(rt)], 0))
	}
	return r
}
