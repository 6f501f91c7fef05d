package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/calculation"
	"github.com/d-chambers/simplefire/internal/domain"
)

// Model holds the dashboard state: the editable plan, the latest simulation
// result, and the viewport into the year table.
type Model struct {
	plan   domain.Plan
	result *domain.FirePlan

	goalBar progress.Model

	// Terminal dimensions
	width  int
	height int

	// Viewport offset into the year table
	scrollOffset int

	loading bool
	err     error
}

// NewModel creates the dashboard model for a validated plan.
func NewModel(plan domain.Plan) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50
	return Model{
		plan:    plan,
		goalBar: bar,
		width:   80,
		height:  24,
		loading: true,
	}
}

// Init kicks off the first simulation run.
func (m Model) Init() tea.Cmd {
	return runSimulationCmd(m.plan)
}

// runSimulationCmd returns a command that runs the full simulation.
func runSimulationCmd(plan domain.Plan) tea.Cmd {
	return func() tea.Msg {
		strategy, err := calculation.NewTaxEvasionStrategy(plan)
		if err != nil {
			return SimulationCompleteMsg{Err: err}
		}
		result, err := strategy.StartFire()
		return SimulationCompleteMsg{Plan: result, Err: err}
	}
}

// goalProgress returns how close the latest working year's passive income is
// to the retirement goal, as a fraction in [0, 1].
func (m Model) goalProgress() float64 {
	if m.result == nil || len(m.result.Rows) == 0 {
		return 0
	}

	if m.result.Retired {
		return 1
	}
	row := m.result.Rows[len(m.result.Rows)-1]

	goal := row.Spending.Mul(m.retireGoal())
	if !goal.IsPositive() {
		return 0
	}
	ratio, _ := row.PassiveIncome.Div(goal).Float64()
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}

func (m Model) retireGoal() decimal.Decimal {
	if m.plan.RetireGoalMultiplier.IsPositive() {
		return m.plan.RetireGoalMultiplier
	}
	return calculation.DefaultRetireGoalMultiplier
}
