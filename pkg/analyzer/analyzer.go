package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/llm"
	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/parser"
	"github.com/helmcode/actionplan/pkg/prompts"
)

// Token budgets per prompt kind.
const (
	followUpMaxTokens       = 200
	analysisMaxTokens       = 1000
	smartGoalMaxTokens      = 500
	implementationMaxTokens = 300
)

// Prompt kinds, used as the metrics label.
const (
	KindFollowUp       = "follow_up"
	KindAnalysis       = "analysis"
	KindSmartGoal      = "smart_goal"
	KindImplementation = "implementation"
)

// Fallback content.
const (
	FallbackRootCause = "Unable to determine root cause due to an error."
	FallbackInsight   = "Please try again or review your responses."

	FallbackMeasurable = "Define success metrics"
	FallbackAchievable = "Break into smaller steps"
	FallbackRelevant   = "Addresses root cause identified"
	FallbackTimebound  = "Set specific deadline"

	FallbackSituation = "Define your trigger situation"
	FallbackAction    = "Define your specific action"
)

// Analyzer turns wizard input into generated content. Gateway and parse
// failures are logged and replaced with fallback content, so no method
// returns an error.
type Analyzer struct {
	llm     llm.LLM
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger.Named("analyzer")
	}
}

// WithMetrics records fallbacks on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewWithLLM returns an Analyzer backed by l.
func NewWithLLM(l llm.LLM, opts ...Option) *Analyzer {
	a := &Analyzer{llm: l, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FallbackQuestion is the template question for a step (1..5).
func FallbackQuestion(problem string, whys [model.WhyCount]string, step int) string {
	if step <= 1 {
		return fmt.Sprintf("Why does \"%s\" happen?", problem)
	}
	return fmt.Sprintf("Why does \"%s\" occur?", whys[step-2])
}

// FallbackAnalysis is the result used when analysis cannot be generated.
func FallbackAnalysis() model.FiveWhysResult {
	return model.FiveWhysResult{
		RootCause: FallbackRootCause,
		Solutions: []model.SolutionIdea{},
		Insights:  []string{FallbackInsight},
	}
}

// FallbackSmartGoal is the goal used when generation fails.
func FallbackSmartGoal(solution string) model.SmartGoal {
	return model.SmartGoal{
		Solution:   solution,
		Specific:   solution,
		Measurable: FallbackMeasurable,
		Achievable: FallbackAchievable,
		Relevant:   FallbackRelevant,
		Timebound:  FallbackTimebound,
	}
}

// FallbackImplementationPlan is the plan used when generation fails.
func FallbackImplementationPlan(goal string) model.ImplementationPlan {
	return model.ImplementationPlan{
		Goal:      goal,
		Situation: FallbackSituation,
		Action:    FallbackAction,
		Frequency: model.FrequencyDaily,
	}
}

// FollowUpQuestion generates the question for step (1..5). Step 1 asks about
// the problem; later steps ask about whys[step-2].
func (a *Analyzer) FollowUpQuestion(ctx context.Context, problem string, whys [model.WhyCount]string, step int) string {
	prior := []string{}
	if step > 1 {
		prior = whys[:step-1]
	}

	raw, err := a.llm.Complete(ctx, prompts.BuildFollowUpPrompt(problem, prior), followUpMaxTokens)
	question := strings.TrimSpace(raw)
	if err == nil && question == "" {
		err = &parser.MalformedResponseError{Raw: raw, Err: fmt.Errorf("empty question")}
	}
	if err != nil {
		a.fail(KindFollowUp, err, zap.Int("step", step))
		return FallbackQuestion(problem, whys, step)
	}
	return question
}

// Analyze runs the root cause analysis over the five answers.
func (a *Analyzer) Analyze(ctx context.Context, problem string, whys [model.WhyCount]string) model.FiveWhysResult {
	raw, err := a.llm.Complete(ctx, prompts.BuildAnalysisPrompt(problem, whys), analysisMaxTokens)
	if err != nil {
		a.fail(KindAnalysis, err)
		return FallbackAnalysis()
	}
	result, err := parser.ParseAnalysis(raw)
	if err != nil {
		a.fail(KindAnalysis, err)
		return FallbackAnalysis()
	}
	return *result
}

// SmartGoal drafts a SMART goal for the solution text.
func (a *Analyzer) SmartGoal(ctx context.Context, solution string) model.SmartGoal {
	raw, err := a.llm.Complete(ctx, prompts.BuildSmartGoalPrompt(solution), smartGoalMaxTokens)
	if err != nil {
		a.fail(KindSmartGoal, err)
		return FallbackSmartGoal(solution)
	}
	goal, err := parser.ParseSmartGoal(raw)
	if err != nil {
		a.fail(KindSmartGoal, err)
		return FallbackSmartGoal(solution)
	}
	goal.ID = ""
	goal.Solution = solution
	return *goal
}

// ImplementationPlan drafts an if-then plan for the goal text.
func (a *Analyzer) ImplementationPlan(ctx context.Context, goal string) model.ImplementationPlan {
	raw, err := a.llm.Complete(ctx, prompts.BuildImplementationPrompt(goal), implementationMaxTokens)
	if err != nil {
		a.fail(KindImplementation, err)
		return FallbackImplementationPlan(goal)
	}
	plan, err := parser.ParseImplementation(raw)
	if err != nil {
		a.fail(KindImplementation, err)
		return FallbackImplementationPlan(goal)
	}
	plan.ID = ""
	plan.Goal = goal
	return *plan
}

func (a *Analyzer) fail(kind string, err error, fields ...zap.Field) {
	reason := "gateway"
	if parser.IsMalformed(err) {
		reason = "malformed"
	}
	fields = append(fields, zap.String("kind", kind), zap.String("reason", reason), zap.Error(err))
	a.logger.Warn("Generation failed, using fallback", fields...)
	a.metrics.Fallback(kind)
}
