package main

import (
	"fmt"
	"os"

	"github.com/helmcode/actionplan/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "actionplan",
		Short: "Turn a problem into an action plan",
		Long: `actionplan guides you from a problem to a plan: 5 Whys root cause
analysis, impact/effort prioritization, SMART goals and if-then
implementation plans. It also runs the relay server the wizard talks to.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewServeCmd(),
		cmd.NewWizardCmd(),
		cmd.NewAnalyzeCmd(),
		cmd.NewSessionsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("actionplan version %s\n", version)
		},
	}
}
