package model

import "encoding/json"

// WhyCount is the fixed depth of a 5 Whys session.
const WhyCount = 5

// FiveWhysResult is the outcome of the root cause analysis. It is created once
// per session and never mutated afterwards.
type FiveWhysResult struct {
	RootCause string         `json:"rootCause" yaml:"rootCause"`
	Solutions []SolutionIdea `json:"solutions" yaml:"solutions"`
	Insights  []string       `json:"insights" yaml:"insights"`
}

// SolutionIdea is a generated solution as returned by the model.
type SolutionIdea struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Text renders the idea the way it is shown and stored on a Solution.
func (s SolutionIdea) Text() string {
	return s.Title + ": " + s.Description
}

// Solution is a candidate being prioritized. Impact and Effort are in [1,10];
// zero means the solution has not been rated yet.
type Solution struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Impact int    `json:"impact" yaml:"impact"`
	Effort int    `json:"effort" yaml:"effort"`
}

// Rated reports whether the solution went through the priority matrix.
func (s Solution) Rated() bool {
	return s.Impact > 0 && s.Effort > 0
}

// SmartGoal is a goal framed with Specific, Measurable, Achievable, Relevant and
// Time-bound attributes. Solution holds the text of the source solution.
type SmartGoal struct {
	ID         string `json:"id" yaml:"id"`
	Solution   string `json:"solution" yaml:"solution"`
	Specific   string `json:"specific" yaml:"specific"`
	Measurable string `json:"measurable" yaml:"measurable"`
	Achievable string `json:"achievable" yaml:"achievable"`
	Relevant   string `json:"relevant" yaml:"relevant"`
	Timebound  string `json:"timebound" yaml:"timebound"`
}

// Fields returns the five SMART attributes in order.
func (g SmartGoal) Fields() []string {
	return []string{g.Specific, g.Measurable, g.Achievable, g.Relevant, g.Timebound}
}

// Frequency is how often an implementation intention fires.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyAsNeeded Frequency = "as-needed"
)

// NormalizeFrequency maps free text onto a known frequency, defaulting to daily.
func NormalizeFrequency(f Frequency) Frequency {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAsNeeded:
		return f
	case "as needed", "asneeded":
		return FrequencyAsNeeded
	default:
		return FrequencyDaily
	}
}

// ImplementationPlan is an if-then plan. Goal holds the solution text of the
// SMART goal it implements.
type ImplementationPlan struct {
	ID        string    `json:"id" yaml:"id"`
	Goal      string    `json:"goal" yaml:"goal"`
	Situation string    `json:"situation" yaml:"situation"`
	Action    string    `json:"action" yaml:"action"`
	Frequency Frequency `json:"frequency" yaml:"frequency"`
}

// Session is the persisted wizard aggregate. Fields the wizard does not know
// about are kept in Extra so they survive a round trip through the store.
type Session struct {
	ID                string               `json:"id,omitempty" yaml:"id,omitempty"`
	Title             string               `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt         string               `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt         string               `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Problem           string               `json:"problem" yaml:"problem"`
	Whys              []string             `json:"whys,omitempty" yaml:"whys,omitempty"`
	FollowUpQuestions []string             `json:"followUpQuestions,omitempty" yaml:"followUpQuestions,omitempty"`
	CurrentStep       int                  `json:"currentStep" yaml:"currentStep"`
	CurrentWhyStep    int                  `json:"currentWhyStep" yaml:"currentWhyStep"`
	Analysis          *FiveWhysResult      `json:"fiveWhysAnalysis,omitempty" yaml:"fiveWhysAnalysis,omitempty"`
	Solutions         []Solution           `json:"solutions,omitempty" yaml:"solutions,omitempty"`
	SmartGoals        []SmartGoal          `json:"smartGoals,omitempty" yaml:"smartGoals,omitempty"`
	Implementations   []ImplementationPlan `json:"implementations,omitempty" yaml:"implementations,omitempty"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// SessionSummary is the projection returned when listing sessions.
type SessionSummary struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
	Problem   string `json:"problem" yaml:"problem"`
}

// Summary projects a session for listing.
func (s Session) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Problem:   s.Problem,
	}
}
