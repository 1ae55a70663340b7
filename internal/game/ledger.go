package game

import (
	"math"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Ledger holds the resource balances of the store
type Ledger struct {
	store *Store
}

func NewLedger(store *Store) *Ledger {
	return &Ledger{store: store}
}

// Balance returns the current quantity of a resource
func (l *Ledger) Balance(rt models.ResourceType) float64 {
	return l.store.State.Resources.Get(rt)
}

// Add credits amount to a resource. Non-positive and non-finite amounts are
// ignored.
func (l *Ledger) Add(rt models.ResourceType, amount float64) {
	if !finite(amount) || amount <= 0 {
		return
	}
	r := &l.store.State.Resources
	total := r.Get(rt) + amount
	r.Set(rt, total)
	l.store.Bus.Emit(events.ResourceChange, events.ResourceChanged{Resource: rt, Amount: total, Delta: amount})
}

// Grant credits every quantity of a bundle
func (l *Ledger) Grant(bundle models.Resources) {
	bundle.EachNonZero(l.Add)
}

// Accrue credits rate*dt per resource and counts it as produced
func (l *Ledger) Accrue(rates models.Resources, dt float64) {
	if !finite(dt) || dt <= 0 {
		return
	}
	gains := rates.Scale(dt)
	l.Grant(gains)
	stats := &l.store.State.Stats
	gains.EachNonZero(func(rt models.ResourceType, amount float64) {
		if finite(amount) && amount > 0 {
			stats.TotalProduced.Set(rt, stats.TotalProduced.Get(rt)+amount)
		}
	})
}

// CanAfford reports whether every kind of the cost bundle is covered
func (l *Ledger) CanAfford(cost models.Resources) bool {
	return l.store.State.Resources.Covers(cost)
}

// Spend deducts a cost bundle all-or-nothing
func (l *Ledger) Spend(cost models.Resources) Result {
	if !l.CanAfford(cost) {
		return rejected(InsufficientResources)
	}
	r := &l.store.State.Resources
	cost.EachNonZero(func(rt models.ResourceType, amount float64) {
		total := r.Get(rt) - amount
		r.Set(rt, total)
		l.store.Bus.Emit(events.ResourceChange, events.ResourceChanged{Resource: rt, Amount: total, Delta: -amount})
	})
	return accepted()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
