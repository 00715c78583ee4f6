// Package tui is the terminal front end for the action planning wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/wizard"
)

// ExampleProblems are offered on the problem entry screen.
var ExampleProblems = []string{
	"I keep procrastinating on important personal projects",
	"Our new product launch has received less customer interest than expected",
	"I'm experiencing frequent conflicts with my team about priorities",
	"My team struggles to maintain code quality despite review processes",
	"I feel constantly exhausted despite getting enough sleep",
}

var (
	errNoStore = errors.New("no session store configured")
	errHasGoal = errors.New("this solution already has a SMART goal")
	errHasPlan = errors.New("this goal already has an implementation plan")
)

type formKind int

const (
	formNone formKind = iota
	formRate
	formGoal
	formPlan
)

var (
	goalLabels = []string{"Specific", "Measurable", "Achievable", "Relevant", "Time-bound"}
	planLabels = []string{"If (situation)", "Then (action)", "Frequency"}
)

// Model is the bubbletea model for the wizard.
type Model struct {
	ctx     context.Context
	machine *wizard.Machine
	saver   wizard.Saver

	input   textinput.Model
	example int

	form   formKind
	fields []textinput.Model
	focus  int
	impact int
	effort int
	cursor int

	spinner spinner.Model
	busy    bool
	status  string
	err     error
	width   int
}

// New returns a Model driving machine. saver may be nil, in which case saving
// reports an error.
func New(ctx context.Context, machine *wizard.Machine, saver wizard.Saver) *Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 1000
	ti.Width = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:     ctx,
		machine: machine,
		saver:   saver,
		input:   ti,
		spinner: sp,
		example: -1,
		width:   80,
	}
	m.resetInput()
	return m
}

// Machine returns the machine currently shown.
func (m *Model) Machine() *wizard.Machine {
	return m.machine
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-4)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case machineMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.machine = msg.machine
		m.err = nil
		m.status = msg.status
		m.resetInput()
		return m, nil

	case goalDraftMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		g := msg.goal
		return m, m.openForm(formGoal, goalLabels, g.Fields())

	case planDraftMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		p := msg.plan
		return m, m.openForm(formPlan, planLabels, []string{p.Situation, p.Action, string(p.Frequency)})

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = fmt.Errorf("save failed: %w", msg.err)
			return m, nil
		}
		m.machine = msg.machine
		m.err = nil
		m.status = "Session saved as " + msg.id
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	// Input is ignored while a call is in flight.
	if m.busy {
		return m, nil
	}

	switch m.form {
	case formRate:
		return m.rateKey(msg)
	case formGoal, formPlan:
		return m.formKey(msg)
	}

	if msg.Type == tea.KeyCtrlS {
		return m.startSave()
	}

	st := m.machine.State()
	switch st.Step {
	case wizard.StepProblem:
		return m.problemKey(msg, st)
	case wizard.StepSummary:
		return m.summaryKey(msg)
	default:
		return m.listKey(msg, st)
	}
}

func (m *Model) problemKey(msg tea.KeyMsg, st wizard.State) (tea.Model, tea.Cmd) {
	if st.Analyzed() {
		switch msg.String() {
		case "enter", "n":
			m.advance()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		value := m.input.Value()
		if strings.TrimSpace(value) == "" {
			m.err = wizard.ErrEmptyInput
			return m, nil
		}
		var cmd tea.Cmd
		if st.WhyStep == 0 {
			cmd = submitProblemCmd(m.ctx, m.machine, value)
		} else {
			cmd = submitWhyCmd(m.ctx, m.machine, st.WhyStep-1, value)
		}
		return m, m.startBusy(cmd)

	case tea.KeyTab:
		if st.WhyStep == 0 {
			m.example = (m.example + 1) % len(ExampleProblems)
			m.input.SetValue(ExampleProblems[m.example])
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) listKey(msg tea.KeyMsg, st wizard.State) (tea.Model, tea.Cmd) {
	ids := listIDs(st)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
	case "n":
		m.advance()
	case "q":
		return m, tea.Quit
	case "enter":
		if len(ids) == 0 {
			return m, nil
		}
		return m.choose(st, ids[m.cursor])
	}
	return m, nil
}

func (m *Model) choose(st wizard.State, id string) (tea.Model, tea.Cmd) {
	m.err = nil
	switch st.Step {
	case wizard.StepPrioritize:
		if err := m.machine.SelectSolution(id); err != nil {
			m.err = err
			return m, nil
		}
		sol, _ := st.Solution(id)
		m.impact, m.effort = 5, 5
		if sol.Rated() {
			m.impact, m.effort = sol.Impact, sol.Effort
		}
		m.form = formRate
		return m, nil

	case wizard.StepGoalSetting:
		if sol, ok := st.Solution(id); ok && st.HasGoal(sol.Text) {
			m.err = errHasGoal
			return m, nil
		}
		if err := m.machine.SelectSolution(id); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.startBusy(draftGoalCmd(m.ctx, m.machine))

	case wizard.StepImplementation:
		if g, ok := st.Goal(id); ok && st.HasPlan(g.Solution) {
			m.err = errHasPlan
			return m, nil
		}
		if err := m.machine.SelectGoal(id); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.startBusy(draftPlanCmd(m.ctx, m.machine))
	}
	return m, nil
}

func (m *Model) rateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.impact = clamp(m.impact + 1)
	case "down", "j":
		m.impact = clamp(m.impact - 1)
	case "right", "l":
		m.effort = clamp(m.effort + 1)
	case "left", "h":
		m.effort = clamp(m.effort - 1)
	case "esc":
		m.form = formNone
	case "enter":
		if err := m.machine.RateSolution(m.impact, m.effort); err != nil {
			m.err = err
			return m, nil
		}
		m.form = formNone
		m.err = nil
		m.status = fmt.Sprintf("Rated: %s", model.Classify(m.impact, m.effort).Category)
	}
	return m, nil
}

func (m *Model) formKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = formNone
		m.fields = nil
		return m, nil
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "enter":
		if m.focus < len(m.fields)-1 {
			return m, m.focusField(m.focus + 1)
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	v := make([]string, len(m.fields))
	for i, f := range m.fields {
		v[i] = f.Value()
	}

	var err error
	switch m.form {
	case formGoal:
		err = m.machine.SaveGoal(model.SmartGoal{
			Specific:   v[0],
			Measurable: v[1],
			Achievable: v[2],
			Relevant:   v[3],
			Timebound:  v[4],
		})
		m.status = "SMART goal saved"
	case formPlan:
		err = m.machine.SavePlan(model.ImplementationPlan{
			Situation: v[0],
			Action:    v[1],
			Frequency: model.NormalizeFrequency(model.Frequency(strings.ToLower(strings.TrimSpace(v[2])))),
		})
		m.status = "Implementation plan saved"
	}
	if err != nil {
		m.status = ""
		m.err = err
		return m, nil
	}
	m.err = nil
	m.form = formNone
	m.fields = nil
	return m, nil
}

func (m *Model) summaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if err := m.machine.Reset(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = "Started a new session"
		m.cursor = 0
		m.example = -1
		m.resetInput()
	case "q", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) advance() {
	if err := m.machine.Advance(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.cursor = 0
	m.status = "Moved to " + m.machine.State().Step.String()
}

func (m *Model) startSave() (tea.Model, tea.Cmd) {
	if m.saver == nil {
		m.err = errNoStore
		return m, nil
	}
	return m, m.startBusy(saveCmd(m.ctx, m.machine, m.saver))
}

func (m *Model) startBusy(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.err = nil
	m.status = ""
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) openForm(kind formKind, labels, values []string) tea.Cmd {
	m.form = kind
	m.fields = make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-15s ", label+":")
		ti.CharLimit = 500
		ti.Width = max(20, m.width-20)
		if i < len(values) {
			ti.SetValue(values[i])
		}
		m.fields[i] = ti
	}
	m.focus = 0
	return m.focusField(0)
}

func (m *Model) focusField(i int) tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	i = (i + len(m.fields)) % len(m.fields)
	for j := range m.fields {
		m.fields[j].Blur()
	}
	m.focus = i
	return m.fields[i].Focus()
}

func (m *Model) resetInput() {
	m.input.SetValue("")
	st := m.machine.State()
	switch {
	case st.WhyStep == 0:
		m.input.Placeholder = "Describe the problem you want to solve (tab for an example)"
	case !st.Analyzed():
		m.input.Placeholder = "Your answer"
	default:
		m.input.Placeholder = ""
	}
}

// listIDs returns the selectable ids for the list steps: every solution while
// prioritizing, rated solutions by priority for goal setting, and goals for
// implementation planning.
func listIDs(st wizard.State) []string {
	var ids []string
	switch st.Step {
	case wizard.StepPrioritize:
		for _, s := range st.Solutions {
			ids = append(ids, s.ID)
		}
	case wizard.StepGoalSetting:
		for _, r := range model.Rank(st.Solutions) {
			ids = append(ids, r.ID)
		}
	case wizard.StepImplementation:
		for _, g := range st.Goals {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

func clamp(v int) int {
	return min(max(v, wizard.MinScore), wizard.MaxScore)
}

// Run starts the interactive wizard and returns the machine as it was when the
// program exited.
func Run(ctx context.Context, machine *wizard.Machine, saver wizard.Saver) (*wizard.Machine, error) {
	final, err := tea.NewProgram(New(ctx, machine, saver), tea.WithContext(ctx)).Run()
	if err != nil {
		return machine, err
	}
	if fm, ok := final.(*Model); ok {
		return fm.machine, nil
	}
	return machine, nil
}
