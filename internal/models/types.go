package models

import "math"

// ResourceType represents the different resource types in the game
type ResourceType string

const (
	Energy    ResourceType = "energy"
	Materials ResourceType = "materials"
	Research  ResourceType = "research"
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Energy, Materials, Research}
}

// Resources is a bundle of quantities, one per resource type (no maps).
// It is used for balances, cost bundles, reward grants and per-second rates.
// Quantities are never negative.
type Resources struct {
	Energy    float64 `yaml:"energy" json:"energy" validate:"min=0"`
	Materials float64 `yaml:"materials" json:"materials" validate:"min=0"`
	Research  float64 `yaml:"research" json:"research" validate:"min=0"`
}

// Get returns the quantity for a specific resource type
func (r Resources) Get(rt ResourceType) float64 {
	switch rt {
	case Energy:
		return r.Energy
	case Materials:
		return r.Materials
	case Research:
		return r.Research
	}
	return 0
}

// Set sets the quantity for a specific resource type
func (r *Resources) Set(rt ResourceType, amount float64) {
	switch rt {
	case Energy:
		r.Energy = amount
	case Materials:
		r.Materials = amount
	case Research:
		r.Research = amount
	}
}

// Plus returns the element-wise sum of two bundles
func (r Resources) Plus(o Resources) Resources {
	return Resources{
		Energy:    r.Energy + o.Energy,
		Materials: r.Materials + o.Materials,
		Research:  r.Research + o.Research,
	}
}

// Scale returns the bundle multiplied by f
func (r Resources) Scale(f float64) Resources {
	return Resources{
		Energy:    r.Energy * f,
		Materials: r.Materials * f,
		Research:  r.Research * f,
	}
}

// Floor rounds every quantity down to whole units
func (r Resources) Floor() Resources {
	return Resources{
		Energy:    math.Floor(r.Energy),
		Materials: math.Floor(r.Materials),
		Research:  math.Floor(r.Research),
	}
}

// IsZero returns true if every quantity is zero
func (r Resources) IsZero() bool {
	return r.Energy == 0 && r.Materials == 0 && r.Research == 0
}

// Each iterates over all resource types in deterministic order
func (r Resources) Each(fn func(ResourceType, float64)) {
	fn(Energy, r.Energy)
	fn(Materials, r.Materials)
	fn(Research, r.Research)
}

// EachNonZero iterates over resource types with non-zero quantities
func (r Resources) EachNonZero(fn func(ResourceType, float64)) {
	if r.Energy != 0 {
		fn(Energy, r.Energy)
	}
	if r.Materials != 0 {
		fn(Materials, r.Materials)
	}
	if r.Research != 0 {
		fn(Research, r.Research)
	}
}

// Covers returns true if r holds at least the quantities in cost for every type
func (r Resources) Covers(cost Resources) bool {
	return r.Energy >= cost.Energy &&
		r.Materials >= cost.Materials &&
		r.Research >= cost.Research
}

// StructureType identifies a buildable structure
type StructureType string

// TechID identifies a technology
type TechID string

// MilestoneID identifies a milestone
type MilestoneID string

// Production is the per-unit contribution of one structure.
// Every field is optional; zero means the structure does not contribute it.
type Production struct {
	Energy    float64 `yaml:"energy"`
	Materials float64 `yaml:"materials"`
	Research  float64 `yaml:"research"`

	BuildSpeed   float64 `yaml:"build_speed"`
	SolarCapture float64 `yaml:"solar_capture"`

	LaunchCapacity   float64 `yaml:"launch_capacity"`
	CargoCapacity    float64 `yaml:"cargo_capacity"`
	Population       float64 `yaml:"population"`
	AutoConstruction float64 `yaml:"auto_construction"`
	EnergyEfficiency float64 `yaml:"energy_efficiency"`
	// DysonBonus is a per-unit multiplier (e.g. 1.05); each unit adds DysonBonus-1
	DysonBonus      float64 `yaml:"dyson_bonus"`
	ExoticMaterials float64 `yaml:"exotic_materials"`
	Antimatter      float64 `yaml:"antimatter"`
	EnergyStorage   float64 `yaml:"energy_storage"`
	SolarMatter     float64 `yaml:"solar_matter"`
	Computation     float64 `yaml:"computation"`
}

// Structure is the static descriptor of a structure type
type Structure struct {
	ID               StructureType `yaml:"id"`
	Name             string        `yaml:"name"`
	Description      string        `yaml:"description"`
	Era              int           `yaml:"era"`
	Cost             Resources     `yaml:"cost"`
	BuildTimeSeconds float64       `yaml:"build_time"`
	Limit            int           `yaml:"limit"`    // 0 = unlimited
	RequiredTech     TechID        `yaml:"requires"` // empty = always available
	Production       Production    `yaml:"production"`
}

// Limited returns true if the structure has a count limit
func (s *Structure) Limited() bool {
	return s.Limit > 0
}

// TechEffects is the effect bundle of a technology.
// Multiplier fields left at zero are absent (act as 1).
type TechEffects struct {
	EnergyMultiplier     float64 `yaml:"energy_multiplier"`
	MaterialsMultiplier  float64 `yaml:"materials_multiplier"`
	ResearchMultiplier   float64 `yaml:"research_multiplier"`
	BuildSpeedMultiplier float64 `yaml:"build_speed_multiplier"`
	DysonEfficiency      float64 `yaml:"dyson_efficiency"`
	AllProduction        float64 `yaml:"all_production"`
	ResearchSlots        int     `yaml:"research_slots"`
}

// Factor returns m, or 1 when the multiplier is absent
func Factor(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// Technology is the static descriptor of a researchable technology
type Technology struct {
	ID            TechID      `yaml:"id"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	Era           int         `yaml:"era"`
	Cost          float64     `yaml:"cost"` // research points
	Prerequisites []TechID    `yaml:"prerequisites"`
	Effects       TechEffects `yaml:"effects"`
	Unlocks       []string    `yaml:"unlocks"`
}

// InternalUnlockPrefix marks unlock identifiers used for bookkeeping only
const InternalUnlockPrefix = "_"

// VisibleUnlocks returns the unlock list without internal bookkeeping entries
func (t *Technology) VisibleUnlocks() []string {
	visible := make([]string, 0, len(t.Unlocks))
	for _, u := range t.Unlocks {
		if len(u) > 0 && u[:1] == InternalUnlockPrefix {
			continue
		}
		visible = append(visible, u)
	}
	return visible
}

// ConditionKind enumerates milestone predicate shapes
type ConditionKind string

const (
	ConditionStructureCount  ConditionKind = "structure_count"
	ConditionTotalStructures ConditionKind = "total_structures"
	ConditionSolarCapture    ConditionKind = "solar_capture"
	ConditionResearchCount   ConditionKind = "research_count"
	ConditionResearchAll     ConditionKind = "research_all"
	ConditionEra             ConditionKind = "era"
	ConditionExpression      ConditionKind = "expression"
)

// Condition is a milestone predicate over the aggregate game state
type Condition struct {
	Kind       ConditionKind `yaml:"kind"`
	Structure  StructureType `yaml:"structure"`
	Threshold  float64       `yaml:"threshold"`
	Expression string        `yaml:"expression"`
}

// Reward is applied once when a milestone is claimed
type Reward struct {
	Resources Resources `yaml:"resources"`
	Sandbox   bool      `yaml:"sandbox"`
}

// Milestone is the static descriptor of a one-time achievement
type Milestone struct {
	ID          MilestoneID `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Condition   Condition   `yaml:"condition"`
	Reward      Reward      `yaml:"reward"`
	Victory     bool        `yaml:"victory"`
}

// Era is a progression tier reached by solar capture
type Era struct {
	Number    int     `yaml:"number"`
	Name      string  `yaml:"name"`
	Threshold float64 `yaml:"threshold"`
}

// Logistics holds the auxiliary totals derived from structure counts
type Logistics struct {
	LaunchCapacity   float64 `json:"launchCapacity"`
	CargoCapacity    float64 `json:"cargoCapacity"`
	Population       float64 `json:"population"`
	AutoConstruction float64 `json:"autoConstruction"`
	EnergyEfficiency float64 `json:"energyEfficiency"`
	ExoticMaterials  float64 `json:"exoticMaterials"`
	Antimatter       float64 `json:"antimatter"`
	EnergyStorage    float64 `json:"energyStorage"`
	SolarMatter      float64 `json:"solarMatter"`
	Computation      float64 `json:"computation"`
}

// ProductionSnapshot is the derived output of a production recompute
type ProductionSnapshot struct {
	Rates       Resources `json:"rates"`       // per simulated second
	Multipliers Resources `json:"multipliers"` // tech x logistics per resource
	// DysonEnergy is the part of Rates.Energy sourced from solar-capture structures
	DysonEnergy              float64   `json:"dysonEnergy"`
	DysonBonus               float64   `json:"dysonBonus"`
	DysonEfficiency          float64   `json:"dysonEfficiency"`
	SolarCaptureContribution float64   `json:"solarCaptureContribution"`
	BuildSpeed               float64   `json:"buildSpeed"`
	Logistics                Logistics `json:"logistics"`
}
