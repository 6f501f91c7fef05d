package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-chambers/simplefire/internal/domain"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render("Error: " + m.err.Error()))
	}
	if m.loading || m.result == nil {
		return m.renderApp(SubtitleStyle.Render("Running simulation..."))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderSummary(),
		"",
		m.renderGoal(),
		"",
		m.renderYearTable(),
	)
	return m.renderApp(content)
}

// renderApp wraps content with the title bar and status bar.
func (m Model) renderApp(content string) string {
	title := TitleStyle.Render("simplefire")
	subtitle := SubtitleStyle.Render(fmt.Sprintf(
		"spending %s/yr, growth %s%%, %d earners",
		m.plan.Household.AnnualSpending.StringFixed(0),
		m.plan.InvestmentGrowthPercent,
		len(m.plan.Earners),
	))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		"",
		content,
		"",
		m.renderStatusBar(),
	)
}

func (m Model) renderSummary() string {
	var retirement string
	if m.result.Retired {
		yearsIn := m.result.RetirementYear - m.result.StartYear
		retirement = RetiredStyle.Render(
			fmt.Sprintf("Retired in %d (%d working years)", m.result.RetirementYear, yearsIn))
	} else {
		retirement = SubtitleStyle.Render("Not retired within the horizon")
	}

	metrics := []string{
		metric("Final net worth", "$"+m.result.FinalNetWorth().StringFixed(0)),
		metric("Horizon", fmt.Sprintf("%d-%d", m.result.StartYear, m.result.StartYear+m.result.Years-1)),
		retirement,
	}
	return BorderStyle.Render(strings.Join(metrics, "   "))
}

func metric(label, value string) string {
	return MetricLabelStyle.Render(label+": ") + MetricValueStyle.Render(value)
}

func (m Model) renderGoal() string {
	label := MetricLabelStyle.Render("Passive income vs. retirement goal")
	bar := m.goalBar.ViewAs(m.goalProgress())
	return label + "\n" + bar
}

func (m Model) renderYearTable() string {
	header := fmt.Sprintf("%-6s %12s %12s %12s %14s %s",
		"Year", "Income", "Spending", "Passive", "Net Worth", "Status")

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	rows := m.result.Rows
	visible := m.tableRows()
	end := m.scrollOffset + visible
	if end > len(rows) {
		end = len(rows)
	}
	for _, row := range rows[m.scrollOffset:end] {
		b.WriteString(m.renderYearRow(row))
		b.WriteString("\n")
	}
	if end < len(rows) {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("... %d more years (j to scroll)", len(rows)-end)))
	}
	return b.String()
}

func (m Model) renderYearRow(row domain.YearRow) string {
	status := "working"
	if row.Retired {
		status = "retired"
	}
	line := fmt.Sprintf("%-6d %12s %12s %12s %14s %s",
		row.Year,
		"$"+row.Income.StringFixed(0),
		"$"+row.Spending.StringFixed(0),
		"$"+row.PassiveIncome.StringFixed(0),
		"$"+row.NetWorth.StringFixed(0),
		status)
	if m.result.Retired && row.Year == m.result.RetirementYear {
		return TableHighlightStyle.Render(line)
	}
	return line
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		shortcut("j/k", "scroll"),
		shortcut("+/-", "spending"),
		shortcut("←/→", "growth"),
		shortcut("r", "re-run"),
		shortcut("q", "quit"),
	}
	return StatusBarStyle.Render(strings.Join(shortcuts, " · "))
}

func shortcut(keys, desc string) string {
	return StatusKeyStyle.Render(keys) + " " + desc
}
