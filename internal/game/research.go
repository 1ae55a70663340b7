package game

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Research is the multi-slot research scheduler. The total research rate is
// shared evenly between every technology in progress.
type Research struct {
	store  *Store
	logger *slog.Logger
}

func NewResearch(store *Store) *Research {
	return &Research{
		store:  store,
		logger: store.logger.With("component", "research"),
	}
}

// Queue returns the technologies in progress, in insertion order
func (r *Research) Queue() []*ResearchItem {
	return r.store.State.Research
}

// FreeSlots returns how many more technologies can be started
func (r *Research) FreeSlots() int {
	st := r.store.State
	return max(st.MaxResearchSlots-len(st.Research), 0)
}

// Available reports whether a technology could be researched now, ignoring slots
func (r *Research) Available(t *models.Technology) bool {
	st := r.store.State
	if st.CompletedTech[t.ID] || st.ResearchIndex(t.ID) >= 0 {
		return false
	}
	return r.prerequisitesMet(t)
}

func (r *Research) prerequisitesMet(t *models.Technology) bool {
	for _, p := range t.Prerequisites {
		if !r.store.State.CompletedTech[p] {
			return false
		}
	}
	return true
}

// Start begins researching a technology
func (r *Research) Start(id models.TechID) Result {
	return r.start(id, false)
}

func (r *Research) start(id models.TechID, auto bool) Result {
	st := r.store.State
	t, ok := r.store.Catalog.Technology(id)
	switch {
	case !ok:
		return rejected(UnknownTechnology)
	case st.CompletedTech[id]:
		return rejected(AlreadyCompleted)
	case st.ResearchIndex(id) >= 0:
		return rejected(AlreadyQueued)
	case !r.prerequisitesMet(t):
		return rejected(PrerequisitesNotMet)
	case len(st.Research) >= st.MaxResearchSlots:
		r.store.Bus.Notify(events.Notice{
			Severity: events.SeverityWarning,
			Title:    "Research slots full",
			Body:     fmt.Sprintf("All %d research slots are busy. Complete or cancel a technology first.", st.MaxResearchSlots),
			Icon:     "flask",
			Duration: 4 * time.Second,
		})
		return rejected(SlotsFull)
	}

	st.Research = append(st.Research, &ResearchItem{Tech: id})
	r.logger.Debug("research started", "tech", id, "auto", auto, "slots", len(st.Research))
	r.store.Bus.Emit(events.ResearchStart, events.ResearchStarted{
		Tech:      id,
		SlotsUsed: len(st.Research),
		MaxSlots:  st.MaxResearchSlots,
		Auto:      auto,
	})
	return accepted()
}

// Cancel drops a technology in progress. Progress is discarded.
func (r *Research) Cancel(id models.TechID) Result {
	st := r.store.State
	i := st.ResearchIndex(id)
	if i < 0 {
		if _, ok := r.store.Catalog.Technology(id); !ok {
			return rejected(UnknownTechnology)
		}
		return rejected(NotQueued)
	}
	item := st.Research[i]
	st.Research = append(st.Research[:i], st.Research[i+1:]...)

	r.store.Bus.Emit(events.ResearchCancel, events.ResearchCancelled{Tech: id, DiscardedProgress: item.Progress})
	return accepted()
}

// Advance distributes the research rate over the queue and completes every
// technology that reached its cost, in queue order
func (r *Research) Advance(dt float64) {
	st := r.store.State
	rate := st.Production.Rates.Research
	if len(st.Research) > 0 && rate > 0 {
		share := rate / float64(len(st.Research))

		var done []models.TechID
		for _, item := range st.Research {
			t, ok := r.store.Catalog.Technology(item.Tech)
			if !ok {
				continue
			}
			item.Progress += share * dt
			r.store.Bus.Emit(events.ResearchProgress, events.ResearchProgressed{
				Tech:     item.Tech,
				Progress: item.Progress,
				Cost:     t.Cost,
			})
			if item.Progress >= t.Cost {
				done = append(done, item.Tech)
			}
		}
		for _, id := range done {
			r.Complete(id)
		}
	}
	r.autoFill()
}

// Complete marks a technology researched. Completing twice is a no-op.
func (r *Research) Complete(id models.TechID) bool {
	st := r.store.State
	t, ok := r.store.Catalog.Technology(id)
	if !ok || st.CompletedTech[id] {
		return false
	}
	if i := st.ResearchIndex(id); i >= 0 {
		st.Research = append(st.Research[:i], st.Research[i+1:]...)
	}
	st.CompletedTech[id] = true
	st.Stats.ResearchCompleted++
	if t.Effects.ResearchSlots > 0 {
		st.MaxResearchSlots += t.Effects.ResearchSlots
	}
	r.store.Recompute()

	unlocks := t.VisibleUnlocks()
	r.logger.Info("research completed", "tech", id, "unlocks", unlocks, "slots", st.MaxResearchSlots)
	r.store.Bus.Emit(events.ResearchComplete, events.ResearchCompleted{
		Tech:         id,
		Unlocks:      unlocks,
		SlotsGranted: t.Effects.ResearchSlots,
	})
	body := t.Description
	if len(unlocks) > 0 {
		body = "Unlocked: " + strings.Join(unlocks, ", ")
	}
	r.store.Bus.Notify(events.Notice{
		Severity: events.SeveritySuccess,
		Title:    t.Name + " researched",
		Body:     body,
		Icon:     "flask",
		Duration: 5 * time.Second,
	})

	r.autoFill()
	return true
}

// SetAuto toggles auto-research and fills free slots when enabled
func (r *Research) SetAuto(enabled bool) {
	r.store.State.AutoResearch = enabled
	r.autoFill()
}

// autoFill starts the first available technologies in canonical order
func (r *Research) autoFill() {
	st := r.store.State
	if !st.AutoResearch {
		return
	}
	for len(st.Research) < st.MaxResearchSlots {
		next := r.nextAvailable()
		if next == nil {
			return
		}
		if res := r.start(next.ID, true); !res.OK {
			return
		}
	}
}

func (r *Research) nextAvailable() *models.Technology {
	for _, t := range r.store.Catalog.Technologies {
		if r.Available(t) {
			return t
		}
	}
	return nil
}
