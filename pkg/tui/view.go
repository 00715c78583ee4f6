package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/wizard"
)

// View implements tea.Model.
func (m *Model) View() string {
	st := m.machine.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Action Planning Tool"))
	b.WriteString("\n")
	b.WriteString(progress(st.Step))
	b.WriteString("\n")

	switch st.Step {
	case wizard.StepProblem:
		b.WriteString(m.problemView(st))
	case wizard.StepPrioritize:
		b.WriteString(m.prioritizeView(st))
	case wizard.StepGoalSetting:
		b.WriteString(m.goalView(st))
	case wizard.StepImplementation:
		b.WriteString(m.planView(st))
	case wizard.StepSummary:
		b.WriteString(m.summaryView())
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " Thinking...")
	case m.err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help(st)))
	b.WriteString("\n")
	return b.String()
}

func progress(current wizard.Step) string {
	parts := make([]string, 0, int(wizard.LastStep)+1)
	for s := wizard.StepProblem; s <= wizard.LastStep; s++ {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		switch {
		case s == current:
			parts = append(parts, activeStepStyle.Render(label))
		case s < current:
			parts = append(parts, doneStepStyle.Render("✓ "+s.String()))
		default:
			parts = append(parts, stepStyle.Render(label))
		}
	}
	return strings.Join(parts, stepStyle.Render(" › "))
}

func (m *Model) problemView(st wizard.State) string {
	var b strings.Builder

	if st.WhyStep == 0 {
		b.WriteString(headingStyle.Render("What problem are you facing?"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Examples:"))
		b.WriteString("\n")
		for i, ex := range ExampleProblems {
			marker := "  "
			if i == m.example {
				marker = cursorStyle.Render("› ")
			}
			b.WriteString(marker + mutedStyle.Render(ex) + "\n")
		}
		return b.String()
	}

	b.WriteString(headingStyle.Render("Problem: ") + st.Problem + "\n")
	for i := 0; i < model.WhyCount; i++ {
		if st.Questions[i] == "" {
			break
		}
		b.WriteString(questionStyle.Render(fmt.Sprintf("%d. %s", i+1, st.Questions[i])))
		b.WriteString("\n")
		if st.Whys[i] != "" {
			b.WriteString("   " + answerStyle.Render(st.Whys[i]) + "\n")
		} else if !st.Analyzed() && i == st.WhyStep-1 {
			b.WriteString("   " + m.input.View() + "\n")
		}
	}

	if st.Analyzed() {
		b.WriteString("\n")
		b.WriteString(analysisPanel(st.Analysis))
	}
	return b.String()
}

func analysisPanel(a *model.FiveWhysResult) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Root cause"))
	b.WriteString("\n" + a.RootCause + "\n")
	if len(a.Solutions) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Solutions") + "\n")
		for i, s := range a.Solutions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s.Text())
		}
	}
	if len(a.Insights) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Insights") + "\n")
		for _, in := range a.Insights {
			b.WriteString("• " + in + "\n")
		}
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) prioritizeView(st wizard.State) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Rate each solution by impact and effort"))
	b.WriteString("\n")
	if len(st.Solutions) == 0 {
		b.WriteString(mutedStyle.Render("No solutions to rate. Press n to continue."))
		b.WriteString("\n")
	}
	for i, s := range st.Solutions {
		line := m.marker(i) + s.Text
		if s.Rated() {
			p := model.Classify(s.Impact, s.Effort)
			line += "  " + categoryStyle(p.Color).Render(fmt.Sprintf("[%s · I%d E%d]", p.Category, s.Impact, s.Effort))
		}
		b.WriteString(line + "\n")
	}

	if m.form == formRate {
		p := model.Classify(m.impact, m.effort)
		panel := fmt.Sprintf("Impact: %2d/10  (↑/↓)\nEffort: %2d/10  (←/→)\n%s",
			m.impact, m.effort, categoryStyle(p.Color).Render(p.Category))
		b.WriteString(panelStyle.Render(panel))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) goalView(st wizard.State) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Turn solutions into SMART goals"))
	b.WriteString("\n")

	ranked := model.Rank(st.Solutions)
	if len(ranked) == 0 {
		b.WriteString(mutedStyle.Render("No rated solutions.") + "\n")
	}
	for i, r := range ranked {
		line := m.marker(i) + categoryStyle(r.Priority.Color).Render(r.Priority.Category) + "  " + r.Text
		if st.HasGoal(r.Text) {
			line += " " + doneStepStyle.Render("✓")
		}
		b.WriteString(line + "\n")
	}

	if m.form == formGoal {
		b.WriteString(m.formView())
	}

	if len(st.Goals) > 0 {
		b.WriteString(headingStyle.Render(fmt.Sprintf("Saved goals (%d)", len(st.Goals))))
		b.WriteString("\n")
		for _, g := range st.Goals {
			b.WriteString("• " + g.Solution + "\n")
		}
	}
	return b.String()
}

func (m *Model) planView(st wizard.State) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Plan when and how you will act"))
	b.WriteString("\n")
	for i, g := range st.Goals {
		line := m.marker(i) + g.Solution
		if st.HasPlan(g.Solution) {
			line += " " + doneStepStyle.Render("✓")
		}
		b.WriteString(line + "\n")
	}

	if m.form == formPlan {
		b.WriteString(m.formView())
	}

	if len(st.Plans) > 0 {
		b.WriteString(headingStyle.Render(fmt.Sprintf("Saved plans (%d)", len(st.Plans))))
		b.WriteString("\n")
		for _, p := range st.Plans {
			fmt.Fprintf(&b, "• If %s, then %s (%s)\n", p.Situation, p.Action, p.Frequency)
		}
	}
	return b.String()
}

func (m *Model) summaryView() string {
	sum := m.machine.Summary()

	var b strings.Builder
	b.WriteString(headingStyle.Render("Problem: ") + sum.Problem + "\n")
	b.WriteString(headingStyle.Render("Root cause: ") + sum.RootCause + "\n")

	b.WriteString(headingStyle.Render("Priority matrix"))
	b.WriteString("\n")
	for _, c := range model.Categories {
		fmt.Fprintf(&b, "  %-16s %d\n", c, sum.Tally[c])
	}

	b.WriteString(headingStyle.Render(fmt.Sprintf("SMART goals (%d)", len(sum.Goals))))
	b.WriteString("\n")
	for _, g := range sum.Goals {
		b.WriteString("• " + g.Solution + "\n")
		if g.Timebound != "" {
			b.WriteString("  " + mutedStyle.Render("by "+g.Timebound) + "\n")
		}
	}

	b.WriteString(headingStyle.Render(fmt.Sprintf("Implementation plans (%d)", len(sum.Plans))))
	b.WriteString("\n")
	for _, p := range sum.Plans {
		fmt.Fprintf(&b, "• If %s, then %s (%s)\n", p.Situation, p.Action, p.Frequency)
	}
	return b.String()
}

func (m *Model) formView() string {
	lines := make([]string, len(m.fields))
	for i, f := range m.fields {
		lines[i] = f.View()
	}
	return panelStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m *Model) marker(i int) string {
	if i == m.cursor && m.form == formNone {
		return cursorStyle.Render("› ")
	}
	return "  "
}

func (m *Model) help(st wizard.State) string {
	switch {
	case m.form == formRate:
		return "↑/↓ impact • ←/→ effort • enter save • esc cancel"
	case m.form != formNone:
		return "tab/↓ next field • shift+tab/↑ previous • enter on last field saves • esc cancel"
	}
	switch st.Step {
	case wizard.StepProblem:
		if st.Analyzed() {
			return "enter continue • ctrl+s save session • ctrl+c quit"
		}
		if st.WhyStep == 0 {
			return "enter submit • tab example • ctrl+c quit"
		}
		return "enter answer • ctrl+s save session • ctrl+c quit"
	case wizard.StepSummary:
		return "ctrl+s save session • r start over • q quit"
	default:
		return "↑/↓ select • enter open • n next step • ctrl+s save session • q quit"
	}
}
