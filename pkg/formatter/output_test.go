package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/wizard"
)

func init() {
	color.NoColor = true
}

var report = AnalysisReport{
	Problem: "Team misses deadlines",
	Whys:    []WhyStep{{Question: "Why?", Answer: "Estimates are optimistic"}},
	Analysis: model.FiveWhysResult{
		RootCause: "No buffer for reviews",
		Solutions: []model.SolutionIdea{{Title: "Buffer", Description: "Pad estimates"}},
		Insights:  []string{"Reviews are slow"},
	},
}

func TestDisplayAnalysisFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAnalysis(&buf, report, FormatJSON))
	var fromJSON AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, report, fromJSON)

	buf.Reset()
	require.NoError(t, DisplayAnalysis(&buf, report, FormatYAML))
	assert.Contains(t, buf.String(), "rootCause: No buffer for reviews")

	buf.Reset()
	require.NoError(t, DisplayAnalysis(&buf, report, FormatHuman))
	out := buf.String()
	assert.Contains(t, out, "ROOT CAUSE IDENTIFIED")
	assert.Contains(t, out, "No buffer for reviews")
	assert.Contains(t, out, "1. Buffer")
	assert.Contains(t, out, "→ Estimates are optimistic")

	assert.Error(t, DisplayAnalysis(&buf, report, "xml"))
	assert.False(t, ValidFormat("xml"))
	assert.True(t, ValidFormat(FormatYAML))
}

func TestDisplaySummaryHuman(t *testing.T) {
	sols := []model.Solution{
		{ID: "a", Text: "A: one", Impact: 8, Effort: 2},
		{ID: "b", Text: "B: two", Impact: 3, Effort: 8},
	}
	sum := wizard.Summary{
		Problem:   "p",
		RootCause: "rc",
		Tally:     model.Tally(sols),
		Ranked:    model.Rank(sols),
		Goals:     []model.SmartGoal{{Solution: "A: one", Specific: "Do it"}},
		Plans:     []model.ImplementationPlan{{Goal: "A: one", Situation: "Monday", Action: "plan", Frequency: model.FrequencyWeekly}},
	}

	var buf bytes.Buffer
	require.NoError(t, DisplaySummary(&buf, sum, FormatHuman))
	out := buf.String()
	assert.Contains(t, out, "PRIORITY MATRIX")
	assert.Contains(t, out, "Thankless Tasks")
	assert.Contains(t, out, "Specific: Do it")
	assert.Contains(t, out, "If Monday")
	assert.Contains(t, out, "then plan (weekly)")

	buf.Reset()
	require.NoError(t, DisplaySummary(&buf, sum, FormatYAML))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "priorityTally")
}

func TestDisplaySessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplaySessions(&buf, nil, FormatHuman))
	assert.Contains(t, buf.String(), "No saved sessions.")

	buf.Reset()
	list := []model.SessionSummary{{ID: "abc", Title: "Deadlines", UpdatedAt: "2025-03-01T12:00:00.123Z"}}
	require.NoError(t, DisplaySessions(&buf, list, FormatHuman))
	assert.Contains(t, buf.String(), "2025-03-01 12:00:00")
	assert.Contains(t, buf.String(), "Deadlines")
}

func TestDisplaySession(t *testing.T) {
	var buf bytes.Buffer
	sess := model.Session{ID: "abc", Title: "t", Problem: "p", Whys: []string{"w1", ""}, FollowUpQuestions: []string{"q1", ""}}
	require.NoError(t, DisplaySession(&buf, sess, FormatHuman))
	assert.Contains(t, buf.String(), "analysis not run yet")
	assert.Contains(t, buf.String(), "Problem Analysis")

	buf.Reset()
	sess.Analysis = &report.Analysis
	require.NoError(t, DisplaySession(&buf, sess, FormatHuman))
	assert.Contains(t, buf.String(), "q1")
	assert.Contains(t, buf.String(), "No buffer for reviews")
}

func TestDisplaySessionYAMLUsesJSONKeys(t *testing.T) {
	var sess model.Session
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "a",
		"problem": "p",
		"followUpQuestions": ["q"],
		"currentStep": 1,
		"currentWhyStep": 5,
		"fiveWhysAnalysis": {"rootCause": "rc", "solutions": [], "insights": []},
		"tags": ["x"],
		"notes": "42"
	}`), &sess))

	var buf bytes.Buffer
	require.NoError(t, DisplaySession(&buf, sess, FormatYAML))
	out := buf.String()
	assert.Contains(t, out, "followUpQuestions:")
	assert.Contains(t, out, "currentStep: 1")
	assert.Contains(t, out, "fiveWhysAnalysis:")
	assert.NotContains(t, out, "createdat")
	assert.NotContains(t, out, "extra")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{"x"}, decoded["tags"])
	assert.Equal(t, "42", decoded["notes"])
	assert.Equal(t, []any{"q"}, decoded["followUpQuestions"])

	var back model.Session
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "a", back.ID)
	assert.Equal(t, 1, back.CurrentStep)
	assert.Equal(t, "rc", back.Analysis.RootCause)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "  aaa bbb\n  ccc", wrapText("aaa bbb ccc", 10, "  "))
}
