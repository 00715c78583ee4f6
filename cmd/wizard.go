package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/actionplan/pkg/formatter"
	"github.com/helmcode/actionplan/pkg/logging"
	"github.com/helmcode/actionplan/pkg/store"
	"github.com/helmcode/actionplan/pkg/tui"
	"github.com/helmcode/actionplan/pkg/wizard"
)

var wizardResume string

func NewWizardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run the interactive action planning wizard",
		Long: `Walk through the five steps: 5 Whys analysis, impact/effort
prioritization, SMART goals, implementation plans and a summary.

Press ctrl+s at any step to save the session.

Examples:
  actionplan wizard
  actionplan wizard --resume 0b6d3f3e-5d1c-4a43-9b5e-1f0c2f3a9e11`,
		Args: cobra.NoArgs,
		RunE: runWizard,
	}

	cmd.Flags().StringVar(&wizardResume, "resume", "", "Resume a saved session by id")

	return cmd
}

func runWizard(cmd *cobra.Command, args []string) error {
	rt, err := loadTUIRuntime()
	if err != nil {
		return err
	}
	defer logging.Sync()

	coach, err := rt.coach()
	if err != nil {
		return err
	}

	sessions, err := store.NewFromConfig(rt.cfg, rt.logger, rt.metrics)
	if err != nil {
		// The wizard still runs; saving reports the missing store.
		printWarning(fmt.Sprintf("Session store unavailable: %v", err))
	}

	ctx := cmd.Context()
	machine := wizard.New(coach)
	if wizardResume != "" {
		if sessions == nil {
			return fmt.Errorf("cannot resume without a session store")
		}
		sess, err := sessions.Get(ctx, wizardResume)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", wizardResume)
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if machine, err = wizard.Restore(coach, sess); err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}
	}

	var saver wizard.Saver
	if sessions != nil {
		saver = sessions
	}
	final, err := tui.Run(ctx, machine, saver)
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	st := final.State()
	if st.Step == wizard.StepSummary {
		return formatter.DisplaySummary(os.Stdout, final.Summary(), formatter.FormatHuman)
	}
	if st.ID != "" {
		printSuccess(fmt.Sprintf("Resume later with: actionplan wizard --resume %s", st.ID))
	}
	return nil
}
