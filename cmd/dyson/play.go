package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/events"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/game"
	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

const maxLogLines = 8

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle  = paneStyle.BorderForeground(lipgloss.Color("39"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle    = dimStyle.Italic(true)
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			m := newPlayModel(cmd.Context(), s)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return err
			}
			return s.save(cmd.Context())
		},
	}
}

type tickMsg time.Time

type pane int

const (
	paneStructures pane = iota
	paneResearch
)

// noticeLog collects notifications emitted by the engine between renders
type noticeLog struct {
	lines []string
}

func (l *noticeLog) push(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
}

type playModel struct {
	ctx      context.Context
	session  *session
	log      *noticeLog
	interval time.Duration
	last     time.Time
	autosave func()

	pane   pane
	cursor [2]int
}

func newPlayModel(ctx context.Context, s *session) playModel {
	log := &noticeLog{}
	s.engine.Bus().Subscribe(events.Notification, func(ev events.Event) {
		n := ev.Payload.(events.Notice)
		line := n.Title
		if n.Body != "" {
			line += ": " + n.Body
		}
		switch n.Severity {
		case events.SeverityWarning:
			line = warnStyle.Render(line)
		case events.SeverityError:
			line = errStyle.Render(line)
		case events.SeveritySuccess:
			line = successStyle.Render(line)
		}
		log.push(line)
	})
	if s.offline != nil {
		log.push(fmt.Sprintf("Offline for %s: credited %s", formatSeconds(s.offline.OfflineSeconds), formatResources(s.offline.Gains)))
	}

	return playModel{
		ctx:      ctx,
		session:  s,
		log:      log,
		interval: time.Duration(float64(time.Second) / s.cfg.Game.TickRate),
		last:     time.Now(),
		autosave: s.autosaver(ctx),
	}
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := m.session.engine

	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m.session.tick(now.Sub(m.last))
		m.last = now
		m.autosave()
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.pane = 1 - m.pane
		case "up", "k":
			if m.cursor[m.pane] > 0 {
				m.cursor[m.pane]--
			}
		case "down", "j":
			if m.cursor[m.pane] < m.rows()-1 {
				m.cursor[m.pane]++
			}
		case "enter", " ":
			m.activate()
		case "x":
			if len(e.Construction().Queue()) > 0 {
				m.report("Cancel", e.CancelBuild(len(e.Construction().Queue())-1))
			}
		case "a":
			e.SetAutoResearch(!e.State().AutoResearch)
		case "s":
			if err := m.session.save(m.ctx); err == nil {
				m.log.push(successStyle.Render("Saved"))
			}
		}
	}
	return m, nil
}

func (m playModel) rows() int {
	if m.pane == paneStructures {
		return len(m.session.engine.Catalog().Structures)
	}
	return len(m.session.engine.Catalog().Technologies)
}

func (m playModel) activate() {
	e := m.session.engine
	catalog := e.Catalog()
	if m.pane == paneStructures {
		def := catalog.Structures[m.cursor[paneStructures]]
		m.report("Build "+def.Name, e.RequestBuild(def.ID, game.BuildOptions{}))
		return
	}
	t := catalog.Technologies[m.cursor[paneResearch]]
	if e.State().ResearchIndex(t.ID) >= 0 {
		m.report("Cancel "+t.Name, e.CancelResearch(t.ID))
		return
	}
	m.report("Research "+t.Name, e.StartResearch(t.ID))
}

func (m playModel) report(action string, r game.Result) {
	if r.OK {
		return
	}
	m.log.push(errStyle.Render(fmt.Sprintf("%s: %s", action, describeReason(r.Reason))))
}

func (m playModel) View() string {
	e := m.session.engine
	st := e.State()

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Era %d: %s", st.Era, e.Catalog().EraName(st.Era))))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   solar capture %s   build speed x%.2f", formatPercent(st.SolarCapture), st.Production.BuildSpeed)))
	b.WriteString("\n")
	for _, rt := range models.AllResourceTypes() {
		fmt.Fprintf(&b, "%-10s %12s  %s\n", rt, formatAmount(st.Resources.Get(rt)), dimStyle.Render(formatRate(st.Production.Rates.Get(rt))))
	}
	b.WriteString("\n")

	structures, research := paneStyle, paneStyle
	if m.pane == paneStructures {
		structures = activeStyle
	} else {
		research = activeStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		structures.Render(m.structuresView()),
		research.Render(m.researchView()),
	))
	b.WriteString("\n")
	b.WriteString(m.queueView())
	b.WriteString("\n")
	for _, line := range m.log.lines {
		b.WriteString(line + "\n")
	}
	b.WriteString(helpStyle.Render("tab switch • ↑/↓ select • enter build/research • x cancel last build • a auto-research • s save • q quit"))
	return b.String()
}

func (m playModel) structuresView() string {
	e := m.session.engine
	st := e.State()
	var b strings.Builder
	b.WriteString(headerStyle.Render("Structures") + "\n")
	for i, def := range e.Catalog().Structures {
		line := fmt.Sprintf("%-26s %4d  %s", def.Name, st.Structures[def.ID], formatResources(def.Cost))
		switch {
		case i == m.cursor[paneStructures] && m.pane == paneStructures:
			line = cursorStyle.Render("> " + line)
		case !e.Construction().Check(def.ID).OK:
			line = dimStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m playModel) researchView() string {
	e := m.session.engine
	st := e.State()
	var b strings.Builder
	auto := "off"
	if st.AutoResearch {
		auto = "on"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("Research %d/%d (auto %s)", len(st.Research), st.MaxResearchSlots, auto)) + "\n")
	for i, t := range e.Catalog().Technologies {
		mark := " "
		switch {
		case st.CompletedTech[t.ID]:
			mark = "✓"
		case st.ResearchIndex(t.ID) >= 0:
			item := st.Research[st.ResearchIndex(t.ID)]
			mark = fmt.Sprintf("%3.0f%%", 100*item.Progress/t.Cost)
		}
		line := fmt.Sprintf("%-4s %-28s %8s", mark, t.Name, formatAmount(t.Cost))
		switch {
		case i == m.cursor[paneResearch] && m.pane == paneResearch:
			line = cursorStyle.Render("> " + line)
		case !e.Research().Available(t) && st.ResearchIndex(t.ID) < 0:
			line = dimStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m playModel) queueView() string {
	e := m.session.engine
	queue := e.Construction().Queue()
	if len(queue) == 0 {
		return dimStyle.Render("construction queue empty") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Construction %d/%d\n", len(queue), e.Construction().MaxQueueSize())
	for i, item := range queue {
		if i == 3 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(queue)-i)) + "\n")
			break
		}
		fmt.Fprintf(&b, "  %-24s %s\n", item.Structure, progressBar(item.Progress/item.BuildTime, 24))
	}
	return b.String()
}
