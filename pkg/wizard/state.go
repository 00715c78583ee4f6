// Package wizard implements the five-step action planning flow: 5 Whys
// analysis, impact/effort prioritization, SMART goals, implementation plans
// and a closing summary.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helmcode/actionplan/pkg/model"
)

// Step is a top-level wizard step.
type Step int

const (
	StepProblem Step = iota
	StepPrioritize
	StepGoalSetting
	StepImplementation
	StepSummary
)

// LastStep is the terminal step.
const LastStep = StepSummary

var stepNames = [...]string{"Problem Analysis", "Priority Matrix", "SMART Goals", "Implementation", "Summary"}

func (s Step) String() string {
	if s < StepProblem || s > LastStep {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Coach produces generated content for the wizard. Implementations never fail;
// they return fallback content instead. *analyzer.Analyzer satisfies it.
type Coach interface {
	FollowUpQuestion(ctx context.Context, problem string, whys [model.WhyCount]string, step int) string
	Analyze(ctx context.Context, problem string, whys [model.WhyCount]string) model.FiveWhysResult
	SmartGoal(ctx context.Context, solution string) model.SmartGoal
	ImplementationPlan(ctx context.Context, goal string) model.ImplementationPlan
}

// State is a snapshot of the wizard. WhyStep is 0 before the problem is
// submitted and 1..5 while the whys are answered; Analysis is non-nil once the
// analysis has run.
type State struct {
	ID        string
	Title     string
	CreatedAt string

	Step      Step
	WhyStep   int
	Problem   string
	Whys      [model.WhyCount]string
	Questions [model.WhyCount]string
	Analysis  *model.FiveWhysResult

	Solutions []model.Solution
	Goals     []model.SmartGoal
	Plans     []model.ImplementationPlan

	SelectedSolution string
	SelectedGoal     string

	Extra map[string]json.RawMessage
}

// Analyzed reports whether the 5 Whys analysis has produced a result.
func (s State) Analyzed() bool {
	return s.Analysis != nil
}

// CurrentQuestion returns the question for the why being answered, or "".
func (s State) CurrentQuestion() string {
	if s.WhyStep < 1 || s.WhyStep > model.WhyCount || s.Analyzed() {
		return ""
	}
	return s.Questions[s.WhyStep-1]
}

// Solution returns the solution with id.
func (s State) Solution(id string) (model.Solution, bool) {
	for _, sol := range s.Solutions {
		if sol.ID == id {
			return sol, true
		}
	}
	return model.Solution{}, false
}

// Goal returns the goal with id.
func (s State) Goal(id string) (model.SmartGoal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.SmartGoal{}, false
}

// HasGoal reports whether a SMART goal was already saved for the solution
// text. The wizard offers one goal per solution.
func (s State) HasGoal(solution string) bool {
	for _, g := range s.Goals {
		if g.Solution == solution {
			return true
		}
	}
	return false
}

// HasPlan reports whether an implementation plan was already saved for the
// goal whose solution text is goal.
func (s State) HasPlan(goal string) bool {
	for _, p := range s.Plans {
		if p.Goal == goal {
			return true
		}
	}
	return false
}

// Unrated returns the number of solutions without an impact score.
func (s State) Unrated() int {
	n := 0
	for _, sol := range s.Solutions {
		if !sol.Rated() {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	c := s
	if s.Analysis != nil {
		a := *s.Analysis
		a.Solutions = append([]model.SolutionIdea(nil), s.Analysis.Solutions...)
		a.Insights = append([]string(nil), s.Analysis.Insights...)
		c.Analysis = &a
	}
	c.Solutions = append([]model.Solution(nil), s.Solutions...)
	c.Goals = append([]model.SmartGoal(nil), s.Goals...)
	c.Plans = append([]model.ImplementationPlan(nil), s.Plans...)
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}
