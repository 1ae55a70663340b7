package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/loader"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "catalog [structures|technologies|milestones|eras]",
		Short:     "Print the game catalog",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"structures", "technologies", "milestones", "eras"},
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loader.LoadCatalog(catalogFile)
			if err != nil {
				return err
			}
			section := ""
			if len(args) == 1 {
				section = args[0]
			}
			printTitle("📖 Dyson Swarm Catalog")

			switch section {
			case "":
				printEras(catalog)
				printStructures(catalog)
				printTechnologies(catalog)
				printMilestones(catalog)
			case "structures":
				printStructures(catalog)
			case "technologies", "techs":
				printTechnologies(catalog)
			case "milestones":
				printMilestones(catalog)
			case "eras":
				printEras(catalog)
			default:
				return fmt.Errorf("unknown catalog section %q", section)
			}
			return nil
		},
	}
	return cmd
}

func printEras(c *models.Catalog) {
	printSection("🌌 Eras")
	table := newTable("Era", "Name", "Solar capture")
	for _, e := range c.Eras {
		table.Append([]string{fmt.Sprint(e.Number), e.Name, formatPercent(e.Threshold)})
	}
	table.Render()
	fmt.Println()
}

func printStructures(c *models.Catalog) {
	printSection("🏗️  Structures")
	table := newTable("ID", "Name", "Era", "Cost", "Build", "Requires", "Limit")
	for _, s := range c.Structures {
		requires, limit := "-", "-"
		if s.RequiredTech != "" {
			requires = string(s.RequiredTech)
		}
		if s.Limited() {
			limit = fmt.Sprint(s.Limit)
		}
		table.Append([]string{
			string(s.ID), s.Name, fmt.Sprint(s.Era),
			formatResources(s.Cost), formatSeconds(s.BuildTimeSeconds),
			requires, limit,
		})
	}
	table.Render()
	fmt.Println()
}

func printTechnologies(c *models.Catalog) {
	printSection("🔬 Technologies")
	table := newTable("ID", "Name", "Era", "Cost", "Prerequisites", "Unlocks")
	for _, t := range c.Technologies {
		prereqs := make([]string, len(t.Prerequisites))
		for i, p := range t.Prerequisites {
			prereqs[i] = string(p)
		}
		table.Append([]string{
			string(t.ID), t.Name, fmt.Sprint(t.Era), formatAmount(t.Cost),
			strings.Join(prereqs, ", "), strings.Join(t.VisibleUnlocks(), ", "),
		})
	}
	table.Render()
	fmt.Println()
}

func printMilestones(c *models.Catalog) {
	printSection("🏆 Milestones")
	table := newTable("ID", "Name", "Condition", "Reward")
	for _, m := range c.Milestones {
		reward := formatResources(m.Reward.Resources)
		if m.Victory {
			reward = "victory"
		} else if m.Reward.Sandbox {
			reward += " + sandbox"
		}
		table.Append([]string{string(m.ID), m.Name, describeCondition(m.Condition), reward})
	}
	table.Render()
	fmt.Println()
}

func describeCondition(c models.Condition) string {
	switch c.Kind {
	case models.ConditionStructureCount:
		return fmt.Sprintf("%g x %s", c.Threshold, c.Structure)
	case models.ConditionTotalStructures:
		return fmt.Sprintf("%g structures", c.Threshold)
	case models.ConditionSolarCapture:
		return fmt.Sprintf("solar capture >= %s", formatPercent(c.Threshold))
	case models.ConditionResearchCount:
		return fmt.Sprintf("%g technologies", c.Threshold)
	case models.ConditionResearchAll:
		return "every technology"
	case models.ConditionEra:
		return fmt.Sprintf("era %g", c.Threshold)
	case models.ConditionExpression:
		return c.Expression
	}
	return string(c.Kind)
}
