package models

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEnv is the aggregate game state visible to expression conditions
type ConditionEnv struct {
	Energy    float64 `expr:"energy"`
	Materials float64 `expr:"materials"`
	Research  float64 `expr:"research"`

	EnergyRate    float64 `expr:"energy_rate"`
	MaterialsRate float64 `expr:"materials_rate"`
	ResearchRate  float64 `expr:"research_rate"`

	SolarCapture      float64        `expr:"solar_capture"`
	Era               int            `expr:"era"`
	TotalStructures   int            `expr:"total_structures"`
	ResearchCompleted int            `expr:"research_completed"`
	TechCount         int            `expr:"tech_count"`
	Structures        map[string]int `expr:"structures"`
}

// CompileCondition compiles a boolean expression over ConditionEnv
func CompileCondition(source string) (*vm.Program, error) {
	return expr.Compile(source,
		expr.Env(ConditionEnv{}),
		expr.AsBool(),
	)
}
