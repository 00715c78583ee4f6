package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/wizard"
)

// machineMsg carries the machine a command ran on. It replaces the current
// machine only when err is nil.
type machineMsg struct {
	machine *wizard.Machine
	status  string
	err     error
}

type goalDraftMsg struct {
	goal model.SmartGoal
	err  error
}

type planDraftMsg struct {
	plan model.ImplementationPlan
	err  error
}

type savedMsg struct {
	machine *wizard.Machine
	id      string
	err     error
}

// runOnClone clones the machine on the caller's goroutine and applies fn to
// the clone inside the returned command.
func runOnClone(m *wizard.Machine, status string, fn func(*wizard.Machine) error) tea.Cmd {
	next := m.Clone()
	return func() tea.Msg {
		return machineMsg{machine: next, status: status, err: fn(next)}
	}
}

func submitProblemCmd(ctx context.Context, m *wizard.Machine, problem string) tea.Cmd {
	return runOnClone(m, "Problem recorded", func(next *wizard.Machine) error {
		return next.SubmitProblem(ctx, problem)
	})
}

func submitWhyCmd(ctx context.Context, m *wizard.Machine, index int, answer string) tea.Cmd {
	status := "Answer recorded"
	if index == model.WhyCount-1 {
		status = "Analysis complete"
	}
	return runOnClone(m, status, func(next *wizard.Machine) error {
		return next.SubmitWhy(ctx, index, answer)
	})
}

func draftGoalCmd(ctx context.Context, m *wizard.Machine) tea.Cmd {
	next := m.Clone()
	return func() tea.Msg {
		goal, err := next.DraftGoal(ctx)
		return goalDraftMsg{goal: goal, err: err}
	}
}

func draftPlanCmd(ctx context.Context, m *wizard.Machine) tea.Cmd {
	next := m.Clone()
	return func() tea.Msg {
		plan, err := next.DraftPlan(ctx)
		return planDraftMsg{plan: plan, err: err}
	}
}

func saveCmd(ctx context.Context, m *wizard.Machine, saver wizard.Saver) tea.Cmd {
	next := m.Clone()
	return func() tea.Msg {
		id, err := next.Save(ctx, saver)
		return savedMsg{machine: next, id: id, err: err}
	}
}
