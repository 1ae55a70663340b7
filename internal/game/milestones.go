package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Evaluator claims milestones and advances eras
type Evaluator struct {
	store    *Store
	ledger   *Ledger
	logger   *slog.Logger
	programs map[models.MilestoneID]*vm.Program
}

// NewEvaluator compiles every expression condition of the catalog
func NewEvaluator(store *Store, ledger *Ledger) (*Evaluator, error) {
	ev := &Evaluator{
		store:    store,
		ledger:   ledger,
		logger:   store.logger.With("component", "milestones"),
		programs: make(map[models.MilestoneID]*vm.Program),
	}
	for _, m := range store.Catalog.Milestones {
		if m.Condition.Kind != models.ConditionExpression {
			continue
		}
		program, err := models.CompileCondition(m.Condition.Expression)
		if err != nil {
			return nil, fmt.Errorf("milestone %s: %w", m.ID, err)
		}
		ev.programs[m.ID] = program
	}
	return ev, nil
}

// Evaluate claims every unclaimed milestone whose condition holds. Rewards can
// satisfy further milestones, so it repeats until nothing new is claimed.
func (ev *Evaluator) Evaluate() []models.MilestoneID {
	var claimed []models.MilestoneID
	for {
		progressed := false
		for _, m := range ev.store.Catalog.Milestones {
			if ev.store.State.ClaimedMilestones[m.ID] || !ev.Satisfied(m) {
				continue
			}
			ev.claim(m)
			claimed = append(claimed, m.ID)
			progressed = true
		}
		if !progressed {
			return claimed
		}
	}
}

// Satisfied evaluates a milestone condition against the current state
func (ev *Evaluator) Satisfied(m *models.Milestone) bool {
	st := ev.store.State
	c := m.Condition
	switch c.Kind {
	case models.ConditionStructureCount:
		return float64(st.Structures[c.Structure]) >= c.Threshold
	case models.ConditionTotalStructures:
		return float64(st.TotalStructures()) >= c.Threshold
	case models.ConditionSolarCapture:
		return st.SolarCapture >= c.Threshold
	case models.ConditionResearchCount:
		return float64(len(st.CompletedTech)) >= c.Threshold
	case models.ConditionResearchAll:
		total := len(ev.store.Catalog.Technologies)
		return total > 0 && len(st.CompletedTech) >= total
	case models.ConditionEra:
		return float64(st.Era) >= c.Threshold
	case models.ConditionExpression:
		return ev.runExpression(m)
	}
	return false
}

func (ev *Evaluator) runExpression(m *models.Milestone) bool {
	program, ok := ev.programs[m.ID]
	if !ok {
		return false
	}
	out, err := expr.Run(program, ev.env())
	if err != nil {
		ev.logger.Error("milestone expression failed", "milestone", m.ID, "expression", m.Condition.Expression, "error", err)
		return false
	}
	b, _ := out.(bool)
	return b
}

func (ev *Evaluator) env() models.ConditionEnv {
	st := ev.store.State
	structures := make(map[string]int, len(st.Structures))
	for id, n := range st.Structures {
		structures[string(id)] = n
	}
	return models.ConditionEnv{
		Energy:            st.Resources.Energy,
		Materials:         st.Resources.Materials,
		Research:          st.Resources.Research,
		EnergyRate:        st.Production.Rates.Energy,
		MaterialsRate:     st.Production.Rates.Materials,
		ResearchRate:      st.Production.Rates.Research,
		SolarCapture:      st.SolarCapture,
		Era:               st.Era,
		TotalStructures:   st.TotalStructures(),
		ResearchCompleted: len(st.CompletedTech),
		TechCount:         len(ev.store.Catalog.Technologies),
		Structures:        structures,
	}
}

func (ev *Evaluator) claim(m *models.Milestone) {
	st := ev.store.State
	st.ClaimedMilestones[m.ID] = true
	st.Stats.MilestonesClaimed++

	ev.ledger.Grant(m.Reward.Resources)
	if m.Reward.Sandbox {
		st.Sandbox = true
	}

	ev.logger.Info("milestone claimed", "milestone", m.ID, "victory", m.Victory)
	ev.store.Bus.Emit(events.MilestoneClaimed, events.Milestone{
		ID:      m.ID,
		Name:    m.Name,
		Reward:  m.Reward,
		Victory: m.Victory,
	})
	ev.store.Bus.Notify(events.Notice{
		Severity: events.SeveritySuccess,
		Title:    "Milestone: " + m.Name,
		Body:     m.Description,
		Icon:     "trophy",
		Duration: 6 * time.Second,
	})

	if m.Victory && !st.Victory {
		st.Victory = true
		ev.store.Bus.Emit(events.GameVictory, events.Victory{Milestone: m.ID})
	}
}

// AdvanceEra moves to the highest era whose threshold the solar capture meets.
// The era never decreases.
func (ev *Evaluator) AdvanceEra() bool {
	st := ev.store.State
	from := st.Era
	for _, e := range ev.store.Catalog.Eras {
		if e.Number > st.Era && st.SolarCapture >= e.Threshold {
			st.Era = e.Number
		}
	}
	if st.Era == from {
		return false
	}

	name := ev.store.Catalog.EraName(st.Era)
	ev.logger.Info("era advanced", "from", from, "to", st.Era, "name", name)
	ev.store.Bus.Emit(events.EraChange, events.EraChanged{From: from, To: st.Era, Name: name})
	ev.store.Bus.Notify(events.Notice{
		Severity: events.SeverityInfo,
		Title:    fmt.Sprintf("Era %d: %s", st.Era, name),
		Icon:     "star",
		Duration: 8 * time.Second,
	})
	return true
}
