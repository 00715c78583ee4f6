package prompts

import "fmt"

// BuildSmartGoalPrompt turns a solution into a SMART goal request.
func BuildSmartGoalPrompt(solution string) string {
	return fmt.Sprintf(`Convert this solution into a SMART goal framework:

Solution: "%s"

Please create a SMART goal by breaking it down into:
- Specific: What exactly will be accomplished?
- Measurable: How will progress be measured?
- Achievable: What makes this realistic?
- Relevant: Why is this important?
- Time-bound: What's the deadline?

Respond with a JSON object:
{
  "specific": "Clear specific description",
  "measurable": "How to measure success",
  "achievable": "Why this is realistic",
  "relevant": "Why this matters",
  "timebound": "Specific timeframe"
}`, solution)
}

// BuildImplementationPrompt asks for an if-then implementation intention.
func BuildImplementationPrompt(goal string) string {
	return fmt.Sprintf(`Create an implementation intention (If-Then plan) for this goal:

Goal: "%s"

Please suggest:
- A specific situation/trigger when this action should happen
- The exact action to take
- How often this should occur

Respond with JSON:
{
  "situation": "If this situation occurs...",
  "action": "Then I will do this specific action...",
  "frequency": "daily" or "weekly" or "monthly"
}`, goal)
}
