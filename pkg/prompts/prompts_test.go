package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFollowUpPrompt(t *testing.T) {
	t.Run("first question targets the problem", func(t *testing.T) {
		p := BuildFollowUpPrompt("Team misses deadlines", nil)
		assert.Contains(t, p, `Original problem: "Team misses deadlines"`)
		assert.Contains(t, p, "why this problem occurs")
		assert.Contains(t, p, `Start with "Why"`)
		assert.NotContains(t, p, "Answer 1")
	})

	t.Run("blank answers count as no context", func(t *testing.T) {
		p := BuildFollowUpPrompt("X", []string{"", "  "})
		assert.Contains(t, p, "why this problem occurs")
	})

	t.Run("later questions target the last answer", func(t *testing.T) {
		p := BuildFollowUpPrompt("X", []string{"estimates are optimistic", "", "no buffer"})
		assert.Contains(t, p, `Answer 1: "estimates are optimistic"`)
		assert.Contains(t, p, `Answer 2: "no buffer"`)
		assert.Contains(t, p, "most recent answer")
		assert.Contains(t, p, `Start with "Why"`)
	})
}

func TestBuildAnalysisPrompt(t *testing.T) {
	p := BuildAnalysisPrompt("X", [5]string{"a", "b", "c", "d", "e"})
	for i, w := range []string{"a", "b", "c", "d", "e"} {
		assert.Contains(t, p, "Why "+string(rune('1'+i))+": "+w)
	}
	assert.Contains(t, p, `"rootCause"`)
	assert.Contains(t, p, `"solutions"`)
	assert.Contains(t, p, `"insights"`)
	assert.Equal(t, 3, strings.Count(p, `{"title": "Solution`))
}

func TestPlanningPrompts(t *testing.T) {
	g := BuildSmartGoalPrompt("Add buffer: pad every estimate")
	assert.Contains(t, g, `Solution: "Add buffer: pad every estimate"`)
	for _, k := range []string{"specific", "measurable", "achievable", "relevant", "timebound"} {
		assert.Contains(t, g, `"`+k+`"`)
	}

	i := BuildImplementationPrompt("Add buffer")
	assert.Contains(t, i, `Goal: "Add buffer"`)
	assert.Contains(t, i, `"daily" or "weekly" or "monthly"`)
}
