package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/helmcode/actionplan/pkg/model"
)

// Score bounds for impact and effort.
const (
	MinScore = 1
	MaxScore = 10
)

// Machine owns the wizard state and applies commands to it. Each command works
// on a copy and only replaces the state when it succeeds, so a rejected
// command leaves the state unchanged.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	coach Coach
	state State
	newID func() string
}

// New returns a Machine in the initial state.
func New(coach Coach) *Machine {
	return &Machine{coach: coach, newID: uuid.NewString}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state.clone()
}

// Clone returns an independent Machine with the same coach and state. A
// command can run on the clone while the original is still being read.
func (m *Machine) Clone() *Machine {
	return &Machine{coach: m.coach, state: m.state.clone(), newID: m.newID}
}

// SubmitProblem records the problem and generates the first why question.
// The problem can only be set once.
func (m *Machine) SubmitProblem(ctx context.Context, problem string) error {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return ErrEmptyInput
	}
	if m.state.Step != StepProblem || m.state.WhyStep != 0 {
		return fmt.Errorf("submit problem: %w", ErrInvalidStep)
	}

	next := m.state.clone()
	next.Problem = problem
	next.WhyStep = 1
	next.Questions[0] = m.coach.FollowUpQuestion(ctx, problem, next.Whys, 1)
	m.state = next
	return nil
}

// SubmitWhy records the answer to why number index+1. Answers are taken in
// order; the fifth answer runs the analysis and seeds the solution list.
func (m *Machine) SubmitWhy(ctx context.Context, index int, answer string) error {
	if index < 0 || index >= model.WhyCount {
		return fmt.Errorf("why index %d: %w", index, ErrOutOfRange)
	}
	if m.state.Step != StepProblem || m.state.Analyzed() || m.state.WhyStep != index+1 {
		return fmt.Errorf("submit why %d: %w", index+1, ErrInvalidStep)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrEmptyInput
	}

	next := m.state.clone()
	next.Whys[index] = answer

	if index < model.WhyCount-1 {
		next.WhyStep = index + 2
		next.Questions[index+1] = m.coach.FollowUpQuestion(ctx, next.Problem, next.Whys, index+2)
		m.state = next
		return nil
	}

	result := m.coach.Analyze(ctx, next.Problem, next.Whys)
	next.Analysis = &result
	next.Solutions = make([]model.Solution, 0, len(result.Solutions))
	for _, idea := range result.Solutions {
		next.Solutions = append(next.Solutions, model.Solution{ID: m.newID(), Text: idea.Text()})
	}
	m.state = next
	return nil
}

// CheckGate returns a *GateError when the current step cannot be left yet,
// or ErrFinalStep at the summary.
func (m *Machine) CheckGate() error {
	s := m.state
	switch s.Step {
	case StepProblem:
		if !s.Analyzed() {
			return &GateError{From: s.Step, Reason: "the 5 Whys analysis has not run"}
		}
	case StepPrioritize:
		if n := s.Unrated(); n > 0 {
			return &GateError{From: s.Step, Reason: fmt.Sprintf("rate all %d solutions to continue (%d unrated)", len(s.Solutions), n)}
		}
	case StepGoalSetting:
		if len(s.Goals) == 0 {
			return &GateError{From: s.Step, Reason: "save at least one SMART goal"}
		}
	case StepImplementation:
		if len(s.Plans) == 0 {
			return &GateError{From: s.Step, Reason: "save at least one implementation plan"}
		}
	default:
		return ErrFinalStep
	}
	return nil
}

// Advance moves to the next step if the current step's gate holds.
func (m *Machine) Advance() error {
	if err := m.CheckGate(); err != nil {
		return err
	}
	next := m.state.clone()
	next.Step++
	next.SelectedSolution = ""
	next.SelectedGoal = ""
	m.state = next
	return nil
}

// SelectSolution selects the solution to rate (step 1) or to turn into a goal
// (step 2).
func (m *Machine) SelectSolution(id string) error {
	if m.state.Step != StepPrioritize && m.state.Step != StepGoalSetting {
		return fmt.Errorf("select solution: %w", ErrInvalidStep)
	}
	if _, ok := m.state.Solution(id); !ok {
		return fmt.Errorf("solution %s: %w", id, ErrUnknownID)
	}
	next := m.state.clone()
	next.SelectedSolution = id
	m.state = next
	return nil
}

// RateSolution scores the selected solution in place and clears the selection.
func (m *Machine) RateSolution(impact, effort int) error {
	if m.state.Step != StepPrioritize {
		return fmt.Errorf("rate solution: %w", ErrInvalidStep)
	}
	if m.state.SelectedSolution == "" {
		return ErrNoSelection
	}
	if impact < MinScore || impact > MaxScore || effort < MinScore || effort > MaxScore {
		return fmt.Errorf("impact %d, effort %d: %w", impact, effort, ErrOutOfRange)
	}

	next := m.state.clone()
	for i := range next.Solutions {
		if next.Solutions[i].ID == next.SelectedSolution {
			next.Solutions[i].Impact = impact
			next.Solutions[i].Effort = effort
		}
	}
	next.SelectedSolution = ""
	m.state = next
	return nil
}

// DraftGoal asks the coach for a SMART goal for the selected solution. The
// draft is not saved.
func (m *Machine) DraftGoal(ctx context.Context) (model.SmartGoal, error) {
	if m.state.Step != StepGoalSetting {
		return model.SmartGoal{}, fmt.Errorf("draft goal: %w", ErrInvalidStep)
	}
	sol, ok := m.state.Solution(m.state.SelectedSolution)
	if !ok {
		return model.SmartGoal{}, ErrNoSelection
	}
	return m.coach.SmartGoal(ctx, sol.Text), nil
}

// SaveGoal appends goal for the selected solution and clears the selection.
// At least one SMART field must be non-blank.
func (m *Machine) SaveGoal(goal model.SmartGoal) error {
	if m.state.Step != StepGoalSetting {
		return fmt.Errorf("save goal: %w", ErrInvalidStep)
	}
	sol, ok := m.state.Solution(m.state.SelectedSolution)
	if !ok {
		return ErrNoSelection
	}
	if !anyFilled(goal.Fields()...) {
		return ErrEmptyInput
	}

	next := m.state.clone()
	goal.ID = m.newID()
	goal.Solution = sol.Text
	next.Goals = append(next.Goals, goal)
	next.SelectedSolution = ""
	m.state = next
	return nil
}

// SelectGoal selects the goal to plan for.
func (m *Machine) SelectGoal(id string) error {
	if m.state.Step != StepImplementation {
		return fmt.Errorf("select goal: %w", ErrInvalidStep)
	}
	if _, ok := m.state.Goal(id); !ok {
		return fmt.Errorf("goal %s: %w", id, ErrUnknownID)
	}
	next := m.state.clone()
	next.SelectedGoal = id
	m.state = next
	return nil
}

// DraftPlan asks the coach for an if-then plan for the selected goal.
func (m *Machine) DraftPlan(ctx context.Context) (model.ImplementationPlan, error) {
	if m.state.Step != StepImplementation {
		return model.ImplementationPlan{}, fmt.Errorf("draft plan: %w", ErrInvalidStep)
	}
	goal, ok := m.state.Goal(m.state.SelectedGoal)
	if !ok {
		return model.ImplementationPlan{}, ErrNoSelection
	}
	return m.coach.ImplementationPlan(ctx, goal.Solution), nil
}

// SavePlan appends plan for the selected goal and clears the selection.
// Situation and action are required.
func (m *Machine) SavePlan(plan model.ImplementationPlan) error {
	if m.state.Step != StepImplementation {
		return fmt.Errorf("save plan: %w", ErrInvalidStep)
	}
	goal, ok := m.state.Goal(m.state.SelectedGoal)
	if !ok {
		return ErrNoSelection
	}
	if strings.TrimSpace(plan.Situation) == "" || strings.TrimSpace(plan.Action) == "" {
		return ErrEmptyInput
	}

	next := m.state.clone()
	plan.ID = m.newID()
	plan.Goal = goal.Solution
	plan.Frequency = model.NormalizeFrequency(plan.Frequency)
	next.Plans = append(next.Plans, plan)
	next.SelectedGoal = ""
	m.state = next
	return nil
}

// Reset discards the whole session and returns to the initial state. It is
// only offered from the summary. Persisted copies are not touched.
func (m *Machine) Reset() error {
	if m.state.Step != StepSummary {
		return fmt.Errorf("reset: %w", ErrInvalidStep)
	}
	m.state = State{}
	return nil
}

func anyFilled(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}
