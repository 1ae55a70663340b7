package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	sectionColor = color.New(color.FgYellow, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed, color.Bold)
)

func printTitle(title string) {
	if quiet {
		return
	}
	line := strings.Repeat("═", len([]rune(title))+4)
	titleColor.Printf("╔%s╗\n", line)
	titleColor.Printf("║  %s  ║\n", title)
	titleColor.Printf("╚%s╝\n\n", line)
}

func printSection(title string) {
	sectionColor.Println(title)
}

func newTable(header ...string) *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
}

var severityIcons = map[events.Severity]string{
	events.SeverityInfo:    "ℹ️ ",
	events.SeveritySuccess: "✅",
	events.SeverityWarning: "⚠️ ",
	events.SeverityError:   "❌",
}

func printNotice(n events.Notice) {
	c := okColor
	switch n.Severity {
	case events.SeverityWarning:
		c = warnColor
	case events.SeverityError:
		c = errColor
	case events.SeverityInfo:
		c = color.New(color.FgWhite)
	}
	c.Printf("%s %s", severityIcons[n.Severity], n.Title)
	if n.Body != "" {
		fmt.Printf(": %s", n.Body)
	}
	fmt.Println()
}

func printResult(action string, r game.Result) {
	if r.OK {
		okColor.Printf("✅ %s\n", action)
		return
	}
	errColor.Printf("❌ %s rejected: %s\n", action, describeReason(r.Reason))
}

func describeReason(r game.Reason) string {
	switch r {
	case game.UnknownStructure:
		return "no such structure"
	case game.UnknownTechnology:
		return "no such technology"
	case game.TechNotUnlocked:
		return "requires a technology you have not researched"
	case game.PrerequisitesNotMet:
		return "prerequisites not researched"
	case game.LimitReached:
		return "structure limit reached"
	case game.CannotAfford, game.InsufficientResources:
		return "not enough resources"
	case game.QueueFull:
		return "construction queue is full"
	case game.SlotsFull:
		return "all research slots are busy"
	case game.AlreadyCompleted:
		return "already researched"
	case game.AlreadyQueued:
		return "already in the research queue"
	case game.InvalidIndex:
		return "no queue item at that position"
	case game.NotQueued:
		return "not in the research queue"
	}
	return r.String()
}

var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi"}

// formatAmount renders large quantities with short-scale suffixes
func formatAmount(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprint(v)
	}
	abs := math.Abs(v)
	if abs < 1000 {
		if abs == math.Trunc(abs) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
	i := 0
	for abs >= 1000 && i < len(suffixes)-1 {
		abs /= 1000
		v /= 1000
		i++
	}
	return fmt.Sprintf("%.2f%s", v, suffixes[i])
}

func formatRate(v float64) string {
	return formatAmount(v) + "/s"
}

func formatResources(r models.Resources) string {
	if r.IsZero() {
		return "nothing"
	}
	parts := make([]string, 0, 3)
	r.EachNonZero(func(rt models.ResourceType, v float64) {
		parts = append(parts, fmt.Sprintf("%s %s", formatAmount(v), rt))
	})
	return strings.Join(parts, ", ")
}

func formatSeconds(s float64) string {
	d := time.Duration(s * float64(time.Second)).Round(time.Second)
	return d.String()
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

func progressBar(fraction float64, width int) string {
	fraction = max(0, min(fraction, 1))
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
