package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

func newBuildCmd() *cobra.Command {
	var (
		count     int
		placement string
	)
	cmd := &cobra.Command{
		Use:   "build <structure>",
		Short: "Queue structures for construction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			s, err := openSession(cmd.Context(), sessionOptions{echoNotices: true})
			if err != nil {
				return err
			}
			id := models.StructureType(args[0])
			opts := game.BuildOptions{Placement: placement}

			results := s.engine.BuildMany(id, count, opts)
			queued := 0
			for _, r := range results {
				if r.OK {
					queued++
				}
			}
			if queued > 0 {
				okColor.Printf("✅ Queued %d x %s\n", queued, id)
			}
			if last := results[len(results)-1]; !last.OK {
				printResult(fmt.Sprintf("Build %s", id), last)
			}
			return s.save(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of structures to queue")
	cmd.Flags().StringVarP(&placement, "placement", "p", "", "Placement tag recorded with the structure")
	return cmd
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <index>",
		Short: "Cancel a construction queue item (refunds 100% before any progress, 50% after)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			s, err := openSession(cmd.Context(), sessionOptions{echoNotices: true})
			if err != nil {
				return err
			}
			printResult(fmt.Sprintf("Cancel #%d", index), s.engine.CancelBuild(index))
			return s.save(cmd.Context())
		},
	}
}

func newResearchCmd() *cobra.Command {
	var cancel bool
	cmd := &cobra.Command{
		Use:   "research [technology]",
		Short: "Start or cancel research, or list available technologies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), sessionOptions{echoNotices: true})
			if err != nil {
				return err
			}
			if len(args) == 0 {
				printAvailableResearch(s.engine)
				return s.save(cmd.Context())
			}

			id := models.TechID(args[0])
			if cancel {
				printResult(fmt.Sprintf("Cancel research %s", id), s.engine.CancelResearch(id))
			} else {
				printResult(fmt.Sprintf("Research %s", id), s.engine.StartResearch(id))
			}
			return s.save(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel the technology instead of starting it")
	return cmd
}

func printAvailableResearch(e *game.Engine) {
	printSection("🔬 Available technologies")
	table := newTable("ID", "Name", "Era", "Cost")
	n := 0
	for _, t := range e.Catalog().Technologies {
		if !e.Research().Available(t) {
			continue
		}
		table.Append([]string{string(t.ID), t.Name, fmt.Sprint(t.Era), formatAmount(t.Cost)})
		n++
	}
	if n == 0 {
		fmt.Println("   nothing to research right now")
		return
	}
	table.Render()
}

func newAutoResearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "auto-research <on|off>",
		Short:     "Toggle automatic research selection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "1":
				enabled = true
			case "off", "false", "0":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			s, err := openSession(cmd.Context(), sessionOptions{echoNotices: true})
			if err != nil {
				return err
			}
			s.engine.SetAutoResearch(enabled)
			okColor.Printf("✅ Auto-research %s\n", args[0])
			return s.save(cmd.Context())
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the save and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm("This clears all progress. Continue?") {
				fmt.Println("Aborted.")
				return nil
			}
			s, err := openSession(cmd.Context(), sessionOptions{echoNotices: true})
			if err != nil {
				return err
			}
			s.engine.Reset()
			if err := s.store.Delete(cmd.Context()); err != nil {
				s.engine.OnPersistError("delete", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func confirm(prompt string) bool {
	warnColor.Printf("⚠️  %s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
