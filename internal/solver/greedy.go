package solver

import (
	"log/slog"
	"math"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/logging"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// ActionKind tells what an autopilot action did
type ActionKind string

const (
	ActionBuild    ActionKind = "build"
	ActionResearch ActionKind = "research"
)

// Action is one command issued by the autopilot
type Action struct {
	AtSeconds float64 // simulated play time when issued
	Kind      ActionKind
	Structure models.StructureType
	Tech      models.TechID
}

// Autopilot plays greedily: it queues the highest-ROI structure and saves up
// for it when it is not yet affordable, and keeps research slots busy.
type Autopilot struct {
	engine *game.Engine
	logger *slog.Logger

	// MaxWait is the longest the autopilot saves for the top candidate before
	// settling for the best structure it can afford now
	MaxWait float64
}

// NewAutopilot creates an autopilot driving e
func NewAutopilot(e *game.Engine, logger *slog.Logger) *Autopilot {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Autopilot{engine: e, logger: logger, MaxWait: 120}
}

// Step issues the commands the autopilot wants right now
func (a *Autopilot) Step() []Action {
	var actions []Action
	at := a.engine.State().Stats.PlayTimeSeconds

	if c, ok := a.pickStructure(); ok {
		if res := a.engine.RequestBuild(c.Structure.ID, game.BuildOptions{Placement: "autopilot"}); res.OK {
			a.logger.Debug("autopilot build", "structure", c.Structure.ID, "roi", c.ROI)
			actions = append(actions, Action{AtSeconds: at, Kind: ActionBuild, Structure: c.Structure.ID})
		}
	}

	if !a.engine.State().AutoResearch {
		for _, t := range RankTechnologies(a.engine) {
			if a.engine.Research().FreeSlots() == 0 {
				break
			}
			if res := a.engine.StartResearch(t.Technology.ID); res.OK {
				a.logger.Debug("autopilot research", "tech", t.Technology.ID, "roi", t.ROI)
				actions = append(actions, Action{AtSeconds: at, Kind: ActionResearch, Tech: t.Technology.ID})
			}
		}
	}
	return actions
}

// pickStructure returns the top candidate if it is buildable. A top candidate
// that needs a short wait is saved for; otherwise the best buildable one wins.
func (a *Autopilot) pickStructure() (Candidate, bool) {
	ranked := RankStructures(a.engine)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	top := ranked[0]
	if top.Buildable() {
		return top, true
	}
	if top.Check.Reason == game.QueueFull {
		return Candidate{}, false
	}
	if top.Wait <= a.MaxWait {
		return Candidate{}, false
	}
	for _, c := range ranked[1:] {
		if c.Buildable() && c.ROI > 0 {
			return c, true
		}
	}
	return Candidate{}, false
}

// Run simulates seconds of play in steps of dt, letting the autopilot act
// after every tick. It returns the actions in the order they were issued.
// A dt or duration that is not a positive finite number runs nothing.
func (a *Autopilot) Run(seconds, dt float64) []Action {
	if !positiveFinite(dt) || !positiveFinite(seconds) {
		return nil
	}
	var plan []Action
	plan = append(plan, a.Step()...)
	for elapsed := 0.0; elapsed < seconds; {
		step := math.Min(dt, seconds-elapsed)
		a.engine.Tick(step)
		elapsed += step
		plan = append(plan, a.Step()...)
	}
	return plan
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
