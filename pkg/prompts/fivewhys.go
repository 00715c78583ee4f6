package prompts

import (
	"fmt"
	"strings"

	"github.com/helmcode/actionplan/pkg/model"
)

// BuildFollowUpPrompt asks the model for the next "why" question. With no prior
// answers the question targets the problem itself; otherwise it targets the
// most recent answer, with every non-empty answer included as context.
func BuildFollowUpPrompt(problem string, priorAnswers []string) string {
	var answered []string
	for _, a := range priorAnswers {
		if strings.TrimSpace(a) != "" {
			answered = append(answered, a)
		}
	}

	if len(answered) == 0 {
		return fmt.Sprintf(`You are helping someone analyze a problem using the 5 Whys technique.

Original problem: "%s"

Please create a natural, engaging "why" question that asks why this problem occurs. The question should:
- Start with "Why"
- Be conversational and specific to their situation
- Be more engaging than a generic template
- Stay focused on the "why" format

Respond with only the question, no additional text.`, problem)
	}

	context := make([]string, 0, len(answered))
	for i, a := range answered {
		context = append(context, fmt.Sprintf(`Answer %d: "%s"`, i+1, a))
	}

	return fmt.Sprintf(`You are helping someone analyze a problem using the 5 Whys technique.

Original problem: "%s"
%s

Please create a natural, engaging "why" question that asks why their most recent answer occurs. The question should:
- Start with "Why"
- Be conversational and specific to their response
- Be more engaging than a generic template
- Stay focused on the "why" format

Respond with only the question, no additional text.`, problem, strings.Join(context, "\n"))
}

// BuildAnalysisPrompt asks for the root cause, three solutions and insights.
func BuildAnalysisPrompt(problem string, whys [model.WhyCount]string) string {
	var b strings.Builder
	for i, w := range whys {
		fmt.Fprintf(&b, "Why %d: %s\n", i+1, w)
	}

	return fmt.Sprintf(`Analyze this 5 Whys problem-solving session:

Problem: %s

%s
Please provide:
1. A clear identification of the root cause
2. Three actionable solutions to address this root cause
3. Key insights from the analysis

Format your response as JSON with the following structure:
{
  "rootCause": "Description of the root cause",
  "solutions": [
    {"title": "Solution 1", "description": "Detailed description"},
    {"title": "Solution 2", "description": "Detailed description"},
    {"title": "Solution 3", "description": "Detailed description"}
  ],
  "insights": ["Insight 1", "Insight 2", "Insight 3"]
}`, problem, b.String())
}
