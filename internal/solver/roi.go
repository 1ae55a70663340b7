package solver

import (
	"math"
	"sort"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// progressionBonus is the ROI boost for anything that raises solar capture
const progressionBonus = 0.5

// ROIMetric represents the components of an ROI calculation
type ROIMetric struct {
	Gain          float64 // weighted production per second added
	TotalCost     float64 // weighted cost
	ScarcityBonus float64 // 0.0 = no adjustment, 0.5 = +50% ROI
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if m.TotalCost <= 0 {
		return m.Gain * 1000 // Very high ROI if free
	}
	return m.Gain / m.TotalCost * (1.0 + m.ScarcityBonus)
}

// Weights values one unit of each resource relative to the others. Resources
// produced slowly are worth more.
type Weights models.Resources

// scarcityWeights derives weights from the current rates, clamped to [0.25, 4]
func scarcityWeights(rates models.Resources) Weights {
	mean := (rates.Energy + rates.Materials + rates.Research) / 3
	w := func(rate float64) float64 {
		if mean <= 0 {
			return 1
		}
		if rate <= 0 {
			return 4
		}
		return math.Max(0.25, math.Min(4, mean/rate))
	}
	return Weights{
		Energy:    w(rates.Energy),
		Materials: w(rates.Materials),
		Research:  w(rates.Research),
	}
}

// Value returns the weighted sum of a bundle
func (w Weights) Value(r models.Resources) float64 {
	return r.Energy*w.Energy + r.Materials*w.Materials + r.Research*w.Research
}

// Candidate is a structure that could be queued next
type Candidate struct {
	Structure *models.Structure
	Check     game.Result
	// Gain is the production per second one more unit adds
	Gain   models.Resources
	Metric ROIMetric
	ROI    float64
	// Wait is the seconds of current production needed to afford the cost,
	// +Inf when a missing resource is not produced at all
	Wait float64
}

// Buildable reports whether the candidate can be queued right now
func (c Candidate) Buildable() bool {
	return c.Check.OK
}

// TechCandidate is a technology that could be researched next
type TechCandidate struct {
	Technology *models.Technology
	Gain       models.Resources
	Metric     ROIMetric
	ROI        float64
}

// blocked filters out structures that cannot be queued no matter how long
// the player waits
func blocked(r game.Reason) bool {
	switch r {
	case game.UnknownStructure, game.TechNotUnlocked, game.LimitReached:
		return true
	}
	return false
}

// baseline counts built structures plus queued ones, since queued items will
// complete without further spending
func baseline(st *game.State) map[models.StructureType]int {
	counts := make(map[models.StructureType]int, len(st.Structures))
	for id, n := range st.Structures {
		counts[id] = n
	}
	for _, item := range st.Construction {
		counts[item.Structure]++
	}
	return counts
}

// RankStructures returns every structure that can eventually be queued,
// productive ones sorted by ROI (best first) followed by zero-ROI ones sorted
// by build time
func RankStructures(e *game.Engine) []Candidate {
	st := e.State()
	counts := baseline(st)
	base := e.PreviewProduction(counts)
	weights := scarcityWeights(st.Production.Rates)

	var candidates, zeroROI []Candidate
	for _, def := range e.Catalog().Structures {
		check := e.Construction().Check(def.ID)
		if !check.OK && blocked(check.Reason) {
			continue
		}

		counts[def.ID]++
		next := e.PreviewProduction(counts)
		counts[def.ID]--

		c := Candidate{
			Structure: def,
			Check:     check,
			Gain:      next.Rates.Plus(base.Rates.Scale(-1)),
			Wait:      waitSeconds(st.Resources, def.Cost, st.Production.Rates),
		}
		c.Metric = ROIMetric{
			Gain:      weights.Value(c.Gain) + buildSpeedValue(base, next, weights),
			TotalCost: weights.Value(def.Cost),
		}
		if next.SolarCaptureContribution > base.SolarCaptureContribution {
			c.Metric.ScarcityBonus = progressionBonus
		}
		c.ROI = c.Metric.Calculate()

		if c.ROI > 0 {
			candidates = append(candidates, c)
		} else {
			zeroROI = append(zeroROI, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ROI > candidates[j].ROI
	})
	sort.SliceStable(zeroROI, func(i, j int) bool {
		return zeroROI[i].Structure.BuildTimeSeconds < zeroROI[j].Structure.BuildTimeSeconds
	})
	return append(candidates, zeroROI...)
}

// buildSpeedValue converts a build speed increase into production: building
// x% faster brings every future structure forward by roughly x%
func buildSpeedValue(base, next models.ProductionSnapshot, w Weights) float64 {
	if base.BuildSpeed <= 0 || next.BuildSpeed <= base.BuildSpeed {
		return 0
	}
	gain := (next.BuildSpeed - base.BuildSpeed) / base.BuildSpeed
	return gain * w.Value(base.Rates) * 0.1
}

// RankTechnologies returns the technologies available to start, sorted by
// production ROI (best first) then by cost
func RankTechnologies(e *game.Engine) []TechCandidate {
	st := e.State()
	counts := baseline(st)
	base := e.PreviewProduction(counts)
	weights := scarcityWeights(st.Production.Rates)

	var out []TechCandidate
	for _, t := range e.Catalog().Technologies {
		if !e.Research().Available(t) {
			continue
		}
		next := e.PreviewProduction(counts, t.ID)
		c := TechCandidate{
			Technology: t,
			Gain:       next.Rates.Plus(base.Rates.Scale(-1)),
		}
		c.Metric = ROIMetric{
			Gain:      weights.Value(c.Gain) + buildSpeedValue(base, next, weights),
			TotalCost: t.Cost * weights.Research,
		}
		if t.Effects.ResearchSlots > 0 {
			c.Metric.ScarcityBonus = progressionBonus
		}
		c.ROI = c.Metric.Calculate()
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ROI != out[j].ROI {
			return out[i].ROI > out[j].ROI
		}
		return out[i].Technology.Cost < out[j].Technology.Cost
	})
	return out
}

// waitSeconds is how long production at rates takes to cover cost from balance
func waitSeconds(balance, cost, rates models.Resources) float64 {
	wait := 0.0
	for _, rt := range models.AllResourceTypes() {
		short := cost.Get(rt) - balance.Get(rt)
		if short <= 0 {
			continue
		}
		rate := rates.Get(rt)
		if rate <= 0 {
			return math.Inf(1)
		}
		wait = math.Max(wait, short/rate)
	}
	return wait
}
