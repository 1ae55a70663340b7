package game

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// BuildOptions carries presentation hints for a build request
type BuildOptions struct {
	Placement string
}

// Construction is the build queue scheduler. Only the head item accrues progress.
type Construction struct {
	store  *Store
	ledger *Ledger
	logger *slog.Logger
	newID  func() string
}

func NewConstruction(store *Store, ledger *Ledger) *Construction {
	return &Construction{
		store:  store,
		ledger: ledger,
		logger: store.logger.With("component", "construction"),
		newID:  uuid.NewString,
	}
}

// MaxQueueSize returns the current queue capacity
func (c *Construction) MaxQueueSize() int {
	launch := c.store.State.Production.Logistics.LaunchCapacity
	return c.store.Config.BaseQueueSize + int(math.Floor(launch))
}

// Queue returns the construction queue, head first
func (c *Construction) Queue() []*ConstructionItem {
	return c.store.State.Construction
}

// Check runs the build validations without mutating anything
func (c *Construction) Check(id models.StructureType) Result {
	st := c.store.State
	s, ok := c.store.Catalog.Structure(id)
	if !ok {
		return rejected(UnknownStructure)
	}
	if s.RequiredTech != "" && !st.CompletedTech[s.RequiredTech] {
		return rejected(TechNotUnlocked)
	}
	if s.Limited() && st.Structures[id]+st.QueuedCount(id) >= s.Limit {
		return rejected(LimitReached)
	}
	if !c.ledger.CanAfford(s.Cost) {
		return rejected(CannotAfford)
	}
	if len(st.Construction) >= c.MaxQueueSize() {
		return rejected(QueueFull)
	}
	return accepted()
}

// RequestBuild pays for a structure and appends it to the queue
func (c *Construction) RequestBuild(id models.StructureType, opts BuildOptions) Result {
	if res := c.Check(id); !res.OK {
		c.logger.Debug("build rejected", "structure", id, "reason", res.Reason)
		return res
	}
	s, _ := c.store.Catalog.Structure(id)
	if res := c.ledger.Spend(s.Cost); !res.OK {
		return res
	}

	item := &ConstructionItem{
		ID:        c.newID(),
		Structure: id,
		BuildTime: s.BuildTimeSeconds,
		Placement: opts.Placement,
		Cost:      s.Cost,
	}
	st := c.store.State
	st.Construction = append(st.Construction, item)

	c.logger.Debug("build queued", "structure", id, "item", item.ID, "queue", len(st.Construction))
	c.store.Bus.Emit(events.ConstructionStart, events.ConstructionStarted{
		ItemID:      item.ID,
		Structure:   id,
		BuildTime:   item.BuildTime,
		QueueLength: len(st.Construction),
	})
	res := accepted()
	res.ItemID = item.ID
	return res
}

// BuildMany issues up to n build requests, stopping at the first rejection.
// Accepted builds are kept.
func (c *Construction) BuildMany(id models.StructureType, n int, opts BuildOptions) []Result {
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		res := c.RequestBuild(id, opts)
		results = append(results, res)
		if !res.OK {
			break
		}
	}
	return results
}

// Cancel removes the item at index and refunds its cost: fully when no progress
// was made, otherwise half rounded down to whole units.
func (c *Construction) Cancel(index int) Result {
	st := c.store.State
	if index < 0 || index >= len(st.Construction) {
		return rejected(InvalidIndex)
	}
	item := st.Construction[index]
	st.Construction = append(st.Construction[:index], st.Construction[index+1:]...)

	refund := item.Cost
	if item.Progress > 0 {
		refund = item.Cost.Scale(0.5).Floor()
	}
	c.ledger.Grant(refund)

	c.logger.Debug("build cancelled", "structure", item.Structure, "item", item.ID, "progress", item.Progress)
	c.store.Bus.Emit(events.ConstructionCancel, events.ConstructionCancelled{
		ItemID:    item.ID,
		Structure: item.Structure,
		Index:     index,
		Refund:    refund,
	})
	return accepted()
}

// Advance progresses the head item and applies auto-construction
func (c *Construction) Advance(dt float64) {
	st := c.store.State
	if len(st.Construction) > 0 {
		head := st.Construction[0]
		head.Progress += dt * st.Production.BuildSpeed
		c.store.Bus.Emit(events.ConstructionProgress, events.ConstructionProgressed{
			ItemID:    head.ID,
			Structure: head.Structure,
			Progress:  head.Progress,
			BuildTime: head.BuildTime,
		})
		if head.Progress >= head.BuildTime {
			c.completeHead(false)
		}
	}

	rate := st.Production.Logistics.AutoConstruction
	if rate <= 0 {
		return
	}
	st.AutoConstructionProgress += rate / 60 * dt
	if bank := float64(c.MaxQueueSize()); st.AutoConstructionProgress > bank {
		st.AutoConstructionProgress = bank
	}
	for st.AutoConstructionProgress >= 1 && len(st.Construction) > 0 {
		c.completeHead(true)
		st.AutoConstructionProgress--
	}
}

func (c *Construction) completeHead(auto bool) {
	st := c.store.State
	item := st.Construction[0]
	st.Construction[0] = nil
	st.Construction = st.Construction[1:]

	st.Structures[item.Structure]++
	st.Stats.StructuresBuilt++
	c.store.Recompute()

	c.logger.Info("structure built", "structure", item.Structure, "count", st.Structures[item.Structure], "auto", auto)
	c.store.Bus.Emit(events.ConstructionComplete, events.ConstructionCompleted{
		ItemID:    item.ID,
		Structure: item.Structure,
		Auto:      auto,
	})
	c.store.Bus.Emit(events.StructureBuilt, events.StructureCompleted{
		Structure: item.Structure,
		Count:     st.Structures[item.Structure],
		Placement: item.Placement,
	})
}
