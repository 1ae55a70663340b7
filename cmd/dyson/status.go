package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resources, production, structures and queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			s.printWelcome()
			printStatus(s.engine)
			return s.save(cmd.Context())
		},
	}
}

func printStatus(e *game.Engine) {
	st := e.State()
	catalog := e.Catalog()

	printTitle(fmt.Sprintf("☀️  Era %d: %s", st.Era, catalog.EraName(st.Era)))
	fmt.Printf("Solar capture: %s    Build speed: x%.2f    Play time: %s\n",
		formatPercent(st.SolarCapture), st.Production.BuildSpeed, formatSeconds(st.Stats.PlayTimeSeconds))
	if st.Victory {
		okColor.Println("🏆 Victory achieved. Sandbox mode is on.")
	}
	fmt.Println()

	printSection("💰 Resources")
	table := newTable("Resource", "Amount", "Rate", "Multiplier")
	for _, rt := range models.AllResourceTypes() {
		table.Append([]string{
			string(rt),
			formatAmount(st.Resources.Get(rt)),
			formatRate(st.Production.Rates.Get(rt)),
			fmt.Sprintf("x%.2f", st.Production.Multipliers.Get(rt)),
		})
	}
	table.Render()
	fmt.Println()

	if st.TotalStructures() > 0 {
		printSection("🏗️  Structures")
		table = newTable("Structure", "Count", "Limit")
		for _, def := range catalog.Structures {
			n := st.Structures[def.ID]
			if n == 0 {
				continue
			}
			limit := "-"
			if def.Limited() {
				limit = fmt.Sprint(def.Limit)
			}
			table.Append([]string{def.Name, fmt.Sprint(n), limit})
		}
		table.Render()
		fmt.Println()
	}

	queue := e.Construction().Queue()
	printSection(fmt.Sprintf("🔧 Construction queue (%d/%d)", len(queue), e.Construction().MaxQueueSize()))
	if len(queue) == 0 {
		fmt.Println("   empty")
	} else {
		table = newTable("#", "Structure", "Progress", "Remaining")
		for i, item := range queue {
			name := string(item.Structure)
			if def, ok := catalog.Structure(item.Structure); ok {
				name = def.Name
			}
			remaining := (item.BuildTime - item.Progress) / max(st.Production.BuildSpeed, 1e-9)
			table.Append([]string{
				fmt.Sprint(i),
				name,
				progressBar(item.Progress/item.BuildTime, 20),
				formatSeconds(remaining),
			})
		}
		table.Render()
	}
	fmt.Println()

	research := e.Research().Queue()
	auto := "off"
	if st.AutoResearch {
		auto = "on"
	}
	printSection(fmt.Sprintf("🔬 Research (%d/%d slots, auto %s)", len(research), st.MaxResearchSlots, auto))
	if len(research) == 0 {
		fmt.Println("   idle")
	} else {
		table = newTable("Technology", "Progress", "Points")
		for _, item := range research {
			name, cost := string(item.Tech), 0.0
			if def, ok := catalog.Technology(item.Tech); ok {
				name, cost = def.Name, def.Cost
			}
			table.Append([]string{
				name,
				progressBar(item.Progress/max(cost, 1e-9), 20),
				fmt.Sprintf("%s/%s", formatAmount(item.Progress), formatAmount(cost)),
			})
		}
		table.Render()
	}
	fmt.Printf("   %d of %d technologies researched\n", len(st.CompletedTech), len(catalog.Technologies))
}
