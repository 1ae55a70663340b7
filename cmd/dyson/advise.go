package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/solver"
)

func newAdviseCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Rank the next structures and technologies by return on investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			s.printWelcome()
			printAdvice(s.engine, top)
			return s.save(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 5, "Number of suggestions per list")
	return cmd
}

func printAdvice(e *game.Engine, top int) {
	printTitle("🧭 Build advisor")

	printSection("🏗️  Structures")
	table := newTable("#", "Structure", "Gain", "ROI", "Ready")
	for i, c := range solver.RankStructures(e) {
		if i == top {
			break
		}
		table.Append([]string{
			fmt.Sprint(i + 1),
			c.Structure.Name,
			formatResources(c.Gain) + "/s",
			fmt.Sprintf("%.4f", c.ROI),
			readiness(c),
		})
	}
	table.Render()
	fmt.Println()

	printSection("🔬 Technologies")
	techs := solver.RankTechnologies(e)
	if len(techs) == 0 {
		fmt.Println("   nothing to research right now")
		return
	}
	table = newTable("#", "Technology", "Cost", "Gain", "ROI")
	for i, c := range techs {
		if i == top {
			break
		}
		table.Append([]string{
			fmt.Sprint(i + 1),
			c.Technology.Name,
			formatAmount(c.Technology.Cost),
			formatResources(c.Gain) + "/s",
			fmt.Sprintf("%.4f", c.ROI),
		})
	}
	table.Render()
}

func readiness(c solver.Candidate) string {
	switch {
	case c.Buildable():
		return "now"
	case c.Check.Reason == game.QueueFull:
		return "queue full"
	case math.IsInf(c.Wait, 1):
		return "never at current rates"
	}
	return "in " + formatSeconds(c.Wait)
}
