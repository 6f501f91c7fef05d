package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-chambers/simplefire/internal/config"
	"github.com/d-chambers/simplefire/internal/domain"
)

func completedResult() *domain.FirePlan {
	return &domain.FirePlan{
		StartYear:      2020,
		Years:          2,
		Retired:        true,
		RetirementYear: 2021,
		Rows: []domain.YearRow{
			{Year: 2020, Spending: decimal.NewFromInt(35000), PassiveIncome: decimal.NewFromInt(20000)},
			{Year: 2021, Spending: decimal.NewFromInt(35000), PassiveIncome: decimal.NewFromInt(50000), Retired: true},
		},
	}
}

func TestSimulationCompleteUpdatesModel(t *testing.T) {
	m := NewModel(config.DefaultPlan())
	require.True(t, m.loading)

	updated, _ := m.Update(SimulationCompleteMsg{Plan: completedResult()})
	model := updated.(Model)

	assert.False(t, model.loading)
	assert.NotNil(t, model.result)
	assert.Contains(t, model.View(), "2021")
}

func TestSimulationErrorIsShown(t *testing.T) {
	m := NewModel(config.DefaultPlan())
	updated, _ := m.Update(SimulationCompleteMsg{Err: assert.AnError})
	model := updated.(Model)

	assert.False(t, model.loading)
	assert.Contains(t, model.View(), "Error")
}

func TestGoalProgress(t *testing.T) {
	m := NewModel(config.DefaultPlan())

	// No result yet.
	assert.Zero(t, m.goalProgress())

	// Retired plans report a full bar.
	m.result = completedResult()
	assert.Equal(t, 1.0, m.goalProgress())

	// Working plans report the passive-to-goal ratio, capped at 1.
	m.result.Retired = false
	m.result.Rows[1].Retired = false
	m.result.Rows[1].PassiveIncome = decimal.NewFromInt(21000)
	// goal = 35000 * 1.2 = 42000, ratio = 0.5
	assert.InDelta(t, 0.5, m.goalProgress(), 0.001)
}

func TestSpendingAdjustmentTriggersRerun(t *testing.T) {
	m := NewModel(config.DefaultPlan())
	m.loading = false
	before := m.plan.Household.AnnualSpending

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	model := updated.(Model)

	assert.True(t, model.plan.Household.AnnualSpending.GreaterThan(before))
	assert.True(t, model.loading)
	assert.NotNil(t, cmd)
}

func TestQuitKey(t *testing.T) {
	m := NewModel(config.DefaultPlan())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
