package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/actionplan/pkg/formatter"
	"github.com/helmcode/actionplan/pkg/logging"
	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/store"
	"github.com/helmcode/actionplan/pkg/wizard"
)

var (
	analyzeWhys   []string
	analyzeOutput string
	analyzeSave   bool
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze PROBLEM",
		Short: "Run a non-interactive 5 Whys root cause analysis",
		Long: `Run the 5 Whys for a problem with the answers given on the command line.
A follow-up question is generated for every answer, then the answers are
analyzed for a root cause, solutions and insights.

Examples:
  # Analyze with five answers
  actionplan analyze "I keep missing deadlines" \
    --why "Tasks take longer than planned" \
    --why "Estimates ignore review time" \
    --why "Nobody tracks review time" \
    --why "Reviews are not part of planning" \
    --why "The planning template predates code review"

  # Save the session and print JSON
  actionplan analyze "..." --why ... --save -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringArrayVar(&analyzeWhys, "why", nil, fmt.Sprintf("Answer to a why question (repeat %d times)", model.WhyCount))
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the session to the configured store")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	problem := args[0]

	if err := validateOutput(analyzeOutput); err != nil {
		return err
	}
	if len(analyzeWhys) != model.WhyCount {
		return fmt.Errorf("exactly %d --why answers are required, got %d", model.WhyCount, len(analyzeWhys))
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logging.Sync()

	coach, err := rt.coach()
	if err != nil {
		return err
	}

	printHeader("5 Whys Analysis", fmt.Sprintf("Problem: %s", problem))

	ctx := cmd.Context()
	machine := wizard.New(coach)

	s := newSpinner("Generating follow-up questions...")
	s.Start()
	if err := machine.SubmitProblem(ctx, problem); err != nil {
		s.Stop()
		return fmt.Errorf("problem rejected: %w", err)
	}
	for i, answer := range analyzeWhys {
		if i == model.WhyCount-1 {
			s.Suffix = " Analyzing root cause..."
		}
		if err := machine.SubmitWhy(ctx, i, answer); err != nil {
			s.Stop()
			return fmt.Errorf("answer %d rejected: %w", i+1, err)
		}
	}
	s.Stop()
	printSuccess("Analysis complete")

	st := machine.State()
	report := formatter.AnalysisReport{
		Problem:  st.Problem,
		Analysis: *st.Analysis,
	}
	for i := 0; i < model.WhyCount; i++ {
		report.Whys = append(report.Whys, formatter.WhyStep{Question: st.Questions[i], Answer: st.Whys[i]})
	}

	if analyzeSave {
		sessions, err := store.NewFromConfig(rt.cfg, rt.logger, rt.metrics)
		if err != nil {
			return err
		}
		id, err := machine.Save(ctx, sessions)
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		report.SessionID = id
		printSuccess(fmt.Sprintf("Session saved as %s", id))
	}

	return formatter.DisplayAnalysis(os.Stdout, report, analyzeOutput)
}
