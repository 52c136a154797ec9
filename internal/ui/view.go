package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/taskmon/internal/perf"
)

// Styles
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).Padding(0, 2)
	tabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 2)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	gaugeFill  = "█"
	gaugeEmpty = "░"
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(60)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

func (m *Model) View() string {
	header := titleStyle.Render("Task Manager") + "  " + m.renderTabs()

	var body string
	switch {
	case m.modal != nil:
		body = renderModal(m.modal)
	case m.picking:
		body = card("Run New Task", subtleStyle.Render("enter: open  esc: cancel")+"\n"+m.picker.View())
	default:
		switch m.active {
		case viewProcesses:
			body = m.renderProcesses()
		case viewTasks:
			body = m.renderTasksView()
		case viewPerformance:
			body = m.renderPerformance()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keys))
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := view(0); v < viewCount; v++ {
		if v == m.active {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(v.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderProcesses() string {
	status := subtleStyle.Render(fmt.Sprintf("%d/%d processes  updated %s",
		len(m.procTable.Rows()), len(m.procs), stamp(m.procStamp)))
	return lipgloss.JoinVertical(lipgloss.Left, m.procSearch.View(), m.procTable.View(), status)
}

func (m *Model) renderTasksView() string {
	status := subtleStyle.Render(fmt.Sprintf("%d tasks  updated %s",
		m.taskRows.Len(), stamp(m.taskStamp)))
	return lipgloss.JoinVertical(lipgloss.Left, m.taskSearch.View(), m.taskTable.View(), status)
}

func (m *Model) renderPerformance() string {
	p := m.perf
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("CPU Usage", gaugeBar(p.CPUPercent, 28)),
		card("Memory Usage", gaugeBar(p.MemoryPercent, 28)),
		card("Disk Usage", gaugeBar(p.DiskPercent, 28)),
	)
	lines := []string{cards}
	if !p.Timestamp.IsZero() {
		lines = append(lines, subtleStyle.Render("sampled "+p.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006")))
	}
	if m.perfErr != nil {
		lines = append(lines, errStyle.Render(truncate(m.perfErr.Error(), m.width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderModal(md *modal) string {
	title := okStyle.Render(md.title)
	border := lipgloss.Color("42")
	if md.isErr {
		title = errStyle.Bold(true).Render(md.title)
		border = lipgloss.Color("9")
	}
	content := title + "\n\n" + md.body + "\n\n" + subtleStyle.Render("press any key")
	return modalStyle.BorderForeground(border).Render(content)
}

// Helpers
func gaugeBar(pct float64, width int) string {
	pct = perf.Clamp(pct)
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func stamp(s string) string {
	if s == "" {
		return "never"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
