package tui

import "github.com/d-chambers/simplefire/internal/domain"

// SimulationCompleteMsg carries the result of a simulation run.
type SimulationCompleteMsg struct {
	Plan *domain.FirePlan
	Err  error
}
