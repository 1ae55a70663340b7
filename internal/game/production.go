package game

import (
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Calculator derives production rates and logistics from structure counts and
// completed technologies. It keeps no state between calls.
type Calculator struct {
	catalog      *models.Catalog
	base         models.Resources
	launchFactor float64
}

func NewCalculator(catalog *models.Catalog, cfg config.GameConfig) *Calculator {
	return &Calculator{
		catalog:      catalog,
		base:         cfg.BaseProduction,
		launchFactor: cfg.LaunchBuildSpeedFactor,
	}
}

// Compute returns the full production breakdown
func (c *Calculator) Compute(structures map[models.StructureType]int, completed map[models.TechID]bool) models.ProductionSnapshot {
	rates := c.base
	var (
		lg          models.Logistics
		dysonEnergy float64
		buildBonus  float64
		solar       float64
	)
	dysonBonus := 1.0

	// Catalog order keeps float summation deterministic
	for _, s := range c.catalog.Structures {
		n := structures[s.ID]
		if n <= 0 {
			continue
		}
		f := float64(n)
		p := s.Production

		if p.SolarCapture != 0 {
			dysonEnergy += p.Energy * f
		} else {
			rates.Energy += p.Energy * f
		}
		rates.Materials += p.Materials * f
		rates.Research += p.Research * f
		buildBonus += p.BuildSpeed * f
		solar += p.SolarCapture * f

		lg.LaunchCapacity += p.LaunchCapacity * f
		lg.CargoCapacity += p.CargoCapacity * f
		lg.Population += p.Population * f
		lg.AutoConstruction += p.AutoConstruction * f
		lg.EnergyEfficiency += p.EnergyEfficiency * f
		lg.ExoticMaterials += p.ExoticMaterials * f
		lg.Antimatter += p.Antimatter * f
		lg.EnergyStorage += p.EnergyStorage * f
		lg.SolarMatter += p.SolarMatter * f
		lg.Computation += p.Computation * f

		if p.DysonBonus != 0 {
			dysonBonus += (p.DysonBonus - 1) * f
		}
	}

	tech := models.Resources{Energy: 1, Materials: 1, Research: 1}
	buildTech, dysonEfficiency := 1.0, 1.0
	for _, t := range c.catalog.Technologies {
		if !completed[t.ID] {
			continue
		}
		e := t.Effects
		all := models.Factor(e.AllProduction)
		tech.Energy *= models.Factor(e.EnergyMultiplier) * all
		tech.Materials *= models.Factor(e.MaterialsMultiplier) * all
		tech.Research *= models.Factor(e.ResearchMultiplier) * all
		buildTech *= models.Factor(e.BuildSpeedMultiplier)
		dysonEfficiency *= models.Factor(e.DysonEfficiency)
	}

	logistics := models.Resources{
		Energy: (1 + lg.EnergyEfficiency) *
			(1 + lg.Antimatter/100) *
			(1 + lg.EnergyStorage/10000),
		Materials: (1 + lg.CargoCapacity/1000) *
			(1 + lg.ExoticMaterials/100) *
			(1 + lg.SolarMatter/1000),
		Research: (1 + lg.Population/10000) *
			(1 + lg.Computation/1000),
	}
	mult := models.Resources{
		Energy:    tech.Energy * logistics.Energy,
		Materials: tech.Materials * logistics.Materials,
		Research:  tech.Research * logistics.Research,
	}

	rates.Energy *= mult.Energy
	rates.Materials *= mult.Materials
	rates.Research *= mult.Research

	dyson := dysonBonus * dysonEfficiency
	dysonEnergy *= dyson
	rates.Energy += dysonEnergy
	solar = clamp01(solar * dyson)

	return models.ProductionSnapshot{
		Rates:                    nonNegative(rates),
		Multipliers:              mult,
		DysonEnergy:              dysonEnergy,
		DysonBonus:               dysonBonus,
		DysonEfficiency:          dysonEfficiency,
		SolarCaptureContribution: solar,
		BuildSpeed:               (1 + buildBonus + lg.LaunchCapacity*c.launchFactor) * buildTech,
		Logistics:                lg,
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func nonNegative(r models.Resources) models.Resources {
	return models.Resources{
		Energy:    max(r.Energy, 0),
		Materials: max(r.Materials, 0),
		Research:  max(r.Research, 0),
	}
}
