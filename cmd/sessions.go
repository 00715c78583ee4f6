package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/actionplan/pkg/formatter"
	"github.com/helmcode/actionplan/pkg/store"
)

var sessionsOutput string

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List, show and delete saved sessions",
		Long: `Manage sessions in the configured store. With store.mode=http the
commands talk to a running "actionplan serve".

Examples:
  actionplan sessions list
  actionplan sessions get 0b6d3f3e-5d1c-4a43-9b5e-1f0c2f3a9e11 -o yaml
  actionplan sessions delete 0b6d3f3e-5d1c-4a43-9b5e-1f0c2f3a9e11`,
	}

	cmd.PersistentFlags().StringVarP(&sessionsOutput, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved sessions, most recently updated first",
			Args:  cobra.NoArgs,
			RunE:  runSessionsList,
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a saved session",
			Args:  cobra.ExactArgs(1),
			RunE:  runSessionsGet,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a saved session",
			Args:  cobra.ExactArgs(1),
			RunE:  runSessionsDelete,
		},
	)

	return cmd
}

func openStore() (store.SessionStore, error) {
	if err := validateOutput(sessionsOutput); err != nil {
		return nil, err
	}
	rt, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	return store.NewFromConfig(rt.cfg, rt.logger, rt.metrics)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	s := newSpinner("Loading sessions...")
	s.Start()
	sessions, err := st.List(cmd.Context())
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	return formatter.DisplaySessions(os.Stdout, sessions, sessionsOutput)
}

func runSessionsGet(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	sess, err := st.Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("session %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	return formatter.DisplaySession(os.Stdout, sess, sessionsOutput)
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	err = st.Delete(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("session %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	printSuccess(fmt.Sprintf("Session %s deleted", args[0]))
	return nil
}
