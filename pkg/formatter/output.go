package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/wizard"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// WhyStep pairs a generated question with its answer.
type WhyStep struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// AnalysisReport is the output of a non-interactive 5 Whys run.
type AnalysisReport struct {
	SessionID string               `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	Problem   string               `json:"problem" yaml:"problem"`
	Whys      []WhyStep            `json:"whys" yaml:"whys"`
	Analysis  model.FiveWhysResult `json:"analysis" yaml:"analysis"`
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	switch format {
	case FormatHuman, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// DisplayAnalysis writes a 5 Whys report.
func DisplayAnalysis(w io.Writer, report AnalysisReport, format string) error {
	return display(w, report, format, func() { analysisHuman(w, report) })
}

// DisplaySummary writes the wizard summary.
func DisplaySummary(w io.Writer, sum wizard.Summary, format string) error {
	return display(w, sum, format, func() { summaryHuman(w, sum) })
}

// DisplaySessions writes a session listing.
func DisplaySessions(w io.Writer, sessions []model.SessionSummary, format string) error {
	return display(w, sessions, format, func() { sessionsHuman(w, sessions) })
}

// DisplaySession writes one saved session.
func DisplaySession(w io.Writer, sess model.Session, format string) error {
	return display(w, sess, format, func() { sessionHuman(w, sess) })
}

func display(w io.Writer, v any, format string, human func()) error {
	switch format {
	case FormatJSON:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	case FormatYAML:
		output, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(output))
		return err
	case FormatHuman, "":
		human()
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use %s, %s or %s)", format, FormatHuman, FormatJSON, FormatYAML)
	}
}

func analysisHuman(w io.Writer, r AnalysisReport) {
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	yellow.Fprintln(w, "❓ PROBLEM:")
	fmt.Fprintf(w, "   %s\n\n", r.Problem)

	if len(r.Whys) > 0 {
		cyan.Fprintln(w, "🔎 5 WHYS:")
		for i, step := range r.Whys {
			fmt.Fprintf(w, "   %d. %s\n", i+1, step.Question)
			fmt.Fprintf(w, "      → %s\n", step.Answer)
		}
		fmt.Fprintln(w)
	}

	resultHuman(w, r.Analysis)

	if r.SessionID != "" {
		fmt.Fprintf(w, "💾 Saved as session %s\n", color.CyanString(r.SessionID))
	}
	footer(w)
}

func resultHuman(w io.Writer, res model.FiveWhysResult) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	red.Fprintln(w, "💡 ROOT CAUSE IDENTIFIED:")
	fmt.Fprintln(w, wrapText(res.RootCause, 80, "   "))
	fmt.Fprintln(w)

	if len(res.Solutions) > 0 {
		green.Fprintln(w, "🚀 SOLUTIONS:")
		for i, s := range res.Solutions {
			fmt.Fprintf(w, "   %d. %s\n", i+1, color.New(color.Bold).Sprint(s.Title))
			if s.Description != "" {
				fmt.Fprintln(w, wrapText(s.Description, 80, "      "))
			}
		}
		fmt.Fprintln(w)
	}

	if len(res.Insights) > 0 {
		cyan.Fprintln(w, "🧠 INSIGHTS:")
		for _, in := range res.Insights {
			fmt.Fprintf(w, "   • %s\n", in)
		}
		fmt.Fprintln(w)
	}
}

func summaryHuman(w io.Writer, sum wizard.Summary) {
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	yellow.Fprintln(w, "❓ PROBLEM:")
	fmt.Fprintf(w, "   %s\n\n", sum.Problem)

	resultHuman(w, model.FiveWhysResult{RootCause: sum.RootCause, Insights: sum.Insights})

	white.Fprintln(w, "📊 PRIORITY MATRIX:")
	for _, c := range model.Categories {
		fmt.Fprintf(w, "   %s %-16s %d\n", categoryIcon(c), categoryColor(c).Sprint(c), sum.Tally[c])
	}
	fmt.Fprintln(w)

	if len(sum.Ranked) > 0 {
		white.Fprintln(w, "🏁 RANKED SOLUTIONS:")
		for i, r := range sum.Ranked {
			fmt.Fprintf(w, "   %d. %s %s\n", i+1, categoryIcon(r.Priority.Category), r.Text)
			fmt.Fprintf(w, "      Impact %d/10, Effort %d/10 (%s)\n", r.Impact, r.Effort, categoryColor(r.Priority.Category).Sprint(r.Priority.Category))
		}
		fmt.Fprintln(w)
	}

	if len(sum.Goals) > 0 {
		white.Fprintln(w, "🎯 SMART GOALS:")
		for i, g := range sum.Goals {
			fmt.Fprintf(w, "   %d. %s\n", i+1, g.Solution)
			goalLines(w, g, "      ")
		}
		fmt.Fprintln(w)
	}

	if len(sum.Plans) > 0 {
		white.Fprintln(w, "📅 IMPLEMENTATION PLANS:")
		for i, p := range sum.Plans {
			fmt.Fprintf(w, "   %d. %s\n", i+1, p.Goal)
			planLines(w, p, "      ")
		}
		fmt.Fprintln(w)
	}
	footer(w)
}

func sessionsHuman(w io.Writer, sessions []model.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, color.HiBlackString("No saved sessions."))
		return
	}
	white := color.New(color.FgWhite, color.Bold)
	white.Fprintf(w, "%-36s  %-25s  %s\n", "ID", "UPDATED", "TITLE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-36s  %-25s  %s\n", color.CyanString(s.ID), shortTime(s.UpdatedAt), s.Title)
	}
}

func sessionHuman(w io.Writer, s model.Session) {
	white := color.New(color.FgWhite, color.Bold)

	white.Fprintf(w, "📁 %s\n", s.Title)
	fmt.Fprintf(w, "   ID:      %s\n", s.ID)
	fmt.Fprintf(w, "   Created: %s\n", shortTime(s.CreatedAt))
	fmt.Fprintf(w, "   Updated: %s\n", shortTime(s.UpdatedAt))
	fmt.Fprintf(w, "   Step:    %s\n\n", wizard.Step(s.CurrentStep))

	report := AnalysisReport{Problem: s.Problem}
	for i, answer := range s.Whys {
		if answer == "" {
			continue
		}
		q := ""
		if i < len(s.FollowUpQuestions) {
			q = s.FollowUpQuestions[i]
		}
		report.Whys = append(report.Whys, WhyStep{Question: q, Answer: answer})
	}
	if s.Analysis != nil {
		report.Analysis = *s.Analysis
		analysisHuman(w, report)
		return
	}
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintln(w, "❓ PROBLEM:")
	fmt.Fprintf(w, "   %s\n", s.Problem)
	fmt.Fprintln(w, color.HiBlackString("   (analysis not run yet)"))
}

func goalLines(w io.Writer, g model.SmartGoal, indent string) {
	labels := []string{"Specific", "Measurable", "Achievable", "Relevant", "Time-bound"}
	for i, f := range g.Fields() {
		if f == "" {
			continue
		}
		fmt.Fprintf(w, "%s%s: %s\n", indent, color.HiBlackString(labels[i]), f)
	}
}

func planLines(w io.Writer, p model.ImplementationPlan, indent string) {
	fmt.Fprintf(w, "%sIf %s\n", indent, p.Situation)
	fmt.Fprintf(w, "%sthen %s (%s)\n", indent, p.Action, p.Frequency)
}

func footer(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func categoryColor(category string) *color.Color {
	switch category {
	case model.CategoryQuickWins:
		return color.New(color.FgGreen, color.Bold)
	case model.CategoryMajorProjects:
		return color.New(color.FgYellow, color.Bold)
	case model.CategoryFillIns:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgRed)
	}
}

func categoryIcon(category string) string {
	switch category {
	case model.CategoryQuickWins:
		return "🟢"
	case model.CategoryMajorProjects:
		return "🟡"
	case model.CategoryFillIns:
		return "⚪"
	default:
		return "🔴"
	}
}

func shortTime(ts string) string {
	if len(ts) >= 19 {
		return strings.Replace(ts[:19], "T", " ", 1)
	}
	return ts
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
