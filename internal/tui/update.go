package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

var (
	spendingStep = decimal.NewFromInt(1000)
	growthStep   = decimal.NewFromFloat(0.5)
)

// Update handles all messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SimulationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.result = msg.Plan
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q"))):
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.result != nil && m.scrollOffset < len(m.result.Rows)-m.tableRows() {
			m.scrollOffset++
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("g"))):
		m.scrollOffset = 0
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("G"))):
		if m.result != nil {
			m.scrollOffset = maxInt(0, len(m.result.Rows)-m.tableRows())
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("+", "="))):
		m.plan.Household.AnnualSpending = m.plan.Household.AnnualSpending.Add(spendingStep)
		return m.rerun()

	case key.Matches(msg, key.NewBinding(key.WithKeys("-", "_"))):
		next := m.plan.Household.AnnualSpending.Sub(spendingStep)
		if next.IsNegative() {
			next = decimal.Zero
		}
		m.plan.Household.AnnualSpending = next
		return m.rerun()

	case key.Matches(msg, key.NewBinding(key.WithKeys("right", "l"))):
		m.plan.InvestmentGrowthPercent = m.plan.InvestmentGrowthPercent.Add(growthStep)
		return m.rerun()

	case key.Matches(msg, key.NewBinding(key.WithKeys("left", "h"))):
		m.plan.InvestmentGrowthPercent = m.plan.InvestmentGrowthPercent.Sub(growthStep)
		return m.rerun()

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		return m.rerun()
	}

	return m, nil
}

// rerun kicks off a fresh simulation with the current plan parameters.
func (m Model) rerun() (tea.Model, tea.Cmd) {
	m.loading = true
	m.scrollOffset = 0
	return m, runSimulationCmd(m.plan)
}

// tableRows is how many year rows fit in the current terminal.
func (m Model) tableRows() int {
	rows := m.height - 14
	if rows < 5 {
		rows = 5
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
