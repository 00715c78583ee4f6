package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/store"
)

// Summary is the closing view of a session.
type Summary struct {
	Problem   string                     `json:"problem" yaml:"problem"`
	RootCause string                     `json:"rootCause" yaml:"rootCause"`
	Insights  []string                   `json:"insights" yaml:"insights"`
	Tally     map[string]int             `json:"priorityTally" yaml:"priorityTally"`
	Ranked    []model.RankedSolution     `json:"rankedSolutions" yaml:"rankedSolutions"`
	Goals     []model.SmartGoal          `json:"smartGoals" yaml:"smartGoals"`
	Plans     []model.ImplementationPlan `json:"implementations" yaml:"implementations"`
}

// Summary builds the summary for the current state. Only rated solutions are
// counted in the tally.
func (m *Machine) Summary() Summary {
	s := m.state.clone()
	sum := Summary{
		Problem:  s.Problem,
		Insights: []string{},
		Tally:    model.Tally(s.Solutions),
		Ranked:   model.Rank(s.Solutions),
		Goals:    s.Goals,
		Plans:    s.Plans,
	}
	if s.Analysis != nil {
		sum.RootCause = s.Analysis.RootCause
		sum.Insights = s.Analysis.Insights
	}
	if sum.Goals == nil {
		sum.Goals = []model.SmartGoal{}
	}
	if sum.Plans == nil {
		sum.Plans = []model.ImplementationPlan{}
	}
	return sum
}

// Export flattens the state into a session record.
func (m *Machine) Export() model.Session {
	s := m.state.clone()
	return model.Session{
		ID:                s.ID,
		Title:             s.Title,
		CreatedAt:         s.CreatedAt,
		Problem:           s.Problem,
		Whys:              append([]string(nil), s.Whys[:]...),
		FollowUpQuestions: append([]string(nil), s.Questions[:]...),
		CurrentStep:       int(s.Step),
		CurrentWhyStep:    s.WhyStep,
		Analysis:          s.Analysis,
		Solutions:         s.Solutions,
		SmartGoals:        s.Goals,
		Implementations:   s.Plans,
		Extra:             s.Extra,
	}
}

// Restore rebuilds a Machine from a saved session.
func Restore(coach Coach, sess model.Session) (*Machine, error) {
	if sess.CurrentStep < int(StepProblem) || sess.CurrentStep > int(LastStep) {
		return nil, fmt.Errorf("session %s: currentStep %d: %w", sess.ID, sess.CurrentStep, ErrOutOfRange)
	}
	if sess.CurrentWhyStep < 0 || sess.CurrentWhyStep > model.WhyCount {
		return nil, fmt.Errorf("session %s: currentWhyStep %d: %w", sess.ID, sess.CurrentWhyStep, ErrOutOfRange)
	}
	if len(sess.Whys) > model.WhyCount || len(sess.FollowUpQuestions) > model.WhyCount {
		return nil, fmt.Errorf("session %s: more than %d whys: %w", sess.ID, model.WhyCount, ErrOutOfRange)
	}
	if sess.CurrentStep > int(StepProblem) && sess.Analysis == nil {
		return nil, fmt.Errorf("session %s: step %d without analysis: %w", sess.ID, sess.CurrentStep, ErrInvalidStep)
	}

	m := New(coach)
	st := State{
		ID:        sess.ID,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt,
		Step:      Step(sess.CurrentStep),
		WhyStep:   sess.CurrentWhyStep,
		Problem:   sess.Problem,
		Analysis:  sess.Analysis,
		Solutions: sess.Solutions,
		Goals:     sess.SmartGoals,
		Plans:     sess.Implementations,
		Extra:     sess.Extra,
	}
	copy(st.Whys[:], sess.Whys)
	copy(st.Questions[:], sess.FollowUpQuestions)
	st = st.clone()
	for i := range st.Solutions {
		if st.Solutions[i].ID == "" {
			st.Solutions[i].ID = uuid.NewString()
		}
	}
	m.state = st
	return m, nil
}

// Saver persists a session and returns its id.
type Saver interface {
	Create(ctx context.Context, s model.Session) (string, error)
}

// Save writes the session through s. On success later saves update the same
// record; on failure the state is unchanged and the error is returned.
func (m *Machine) Save(ctx context.Context, s Saver) (string, error) {
	sess := m.Export()
	if sess.CreatedAt == "" {
		sess.CreatedAt = store.FormatTime(time.Now())
	}

	id, err := s.Create(ctx, sess)
	if err != nil {
		return "", err
	}

	next := m.state.clone()
	next.ID = id
	next.CreatedAt = sess.CreatedAt
	m.state = next
	return id, nil
}
