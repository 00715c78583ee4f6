package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/analyzer"
	"github.com/helmcode/actionplan/pkg/config"
	"github.com/helmcode/actionplan/pkg/formatter"
	"github.com/helmcode/actionplan/pkg/llm"
	"github.com/helmcode/actionplan/pkg/logging"
	"github.com/helmcode/actionplan/pkg/metrics"
)

var (
	configPath string
	verbose    bool
)

// AddGlobalFlags registers the flags shared by every subcommand.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// runtime holds what a subcommand needs after configuration is loaded.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func loadRuntime() (*runtime, error) {
	return newRuntime(logging.InitializeLogger)
}

// loadTUIRuntime logs to the configured file only, since console lines would
// draw over the full-screen UI.
func loadTUIRuntime() (*runtime, error) {
	return newRuntime(logging.InitializeFileOnly)
}

func newRuntime(initLogger func(config.LoggerConfig)) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	initLogger(cfg.Logger)
	return &runtime{
		cfg:     cfg,
		logger:  logging.GetLogger(),
		metrics: metrics.New(),
	}, nil
}

func (rt *runtime) coach() (*analyzer.Analyzer, error) {
	client, err := llm.NewFromConfig(rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	rt.logger.Debug("Gateway client ready", zap.String("client", llm.Describe(client)))
	return analyzer.NewWithLLM(client, analyzer.WithLogger(rt.logger), analyzer.WithMetrics(rt.metrics)), nil
}

// Status output goes to stderr so stdout stays parseable for -o json|yaml.

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

func printHeader(title string, lines ...string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(os.Stderr)
	cyan.Fprintln(os.Stderr, title)
	for _, l := range lines {
		fmt.Fprintln(os.Stderr, l)
	}
	fmt.Fprintln(os.Stderr)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printWarning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "! %s\n", msg)
}

func validateOutput(format string) error {
	if !formatter.ValidFormat(format) {
		return fmt.Errorf("unsupported output format %q (human, json, yaml)", format)
	}
	return nil
}
