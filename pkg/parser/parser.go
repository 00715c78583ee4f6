package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/helmcode/actionplan/pkg/model"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n?")

// MalformedResponseError means a model reply did not parse into the expected
// JSON shape after fence stripping.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}

// StripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ParseJSON strips fences and decodes raw into a T.
func ParseJSON[T any](raw string) (*T, error) {
	cleaned := StripFences(raw)
	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	return &out, nil
}

// ParseAnalysis decodes a root cause analysis reply.
func ParseAnalysis(raw string) (*model.FiveWhysResult, error) {
	result, err := ParseJSON[model.FiveWhysResult](raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.RootCause) == "" {
		return nil, &MalformedResponseError{Raw: raw, Err: errors.New("missing rootCause")}
	}
	if result.Solutions == nil {
		result.Solutions = []model.SolutionIdea{}
	}
	if result.Insights == nil {
		result.Insights = []string{}
	}
	return result, nil
}

// ParseSmartGoal decodes a SMART goal reply. At least one field must be set.
func ParseSmartGoal(raw string) (*model.SmartGoal, error) {
	goal, err := ParseJSON[model.SmartGoal](raw)
	if err != nil {
		return nil, err
	}
	for _, f := range goal.Fields() {
		if strings.TrimSpace(f) != "" {
			return goal, nil
		}
	}
	return nil, &MalformedResponseError{Raw: raw, Err: errors.New("empty SMART goal")}
}

// ParseImplementation decodes an if-then plan reply. Situation and action are
// required; the frequency is normalized.
func ParseImplementation(raw string) (*model.ImplementationPlan, error) {
	plan, err := ParseJSON[model.ImplementationPlan](raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(plan.Situation) == "" || strings.TrimSpace(plan.Action) == "" {
		return nil, &MalformedResponseError{Raw: raw, Err: errors.New("missing situation or action")}
	}
	plan.Frequency = model.NormalizeFrequency(model.Frequency(strings.ToLower(strings.TrimSpace(string(plan.Frequency)))))
	return plan, nil
}
