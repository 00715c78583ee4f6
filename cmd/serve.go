package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helmcode/actionplan/pkg/logging"
	"github.com/helmcode/actionplan/pkg/server"
	"github.com/helmcode/actionplan/pkg/store"
)

var (
	serveAddr       string
	serveSessionDir string
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Claude relay and session API",
		Long: `Serve the completion relay (POST /api/claude) and the session API
(/api/sessions) used by the wizard in http store mode.

The Anthropic API key is read from ANTHROPIC_API_KEY or anthropic.api_key
and is never taken from clients.

Examples:
  actionplan serve
  actionplan serve --addr :8080 --session-dir /var/lib/actionplan`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&serveSessionDir, "session-dir", "", "Session directory (overrides server.session_dir)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logging.Sync()

	if serveAddr != "" {
		rt.cfg.Server.Addr = serveAddr
	}
	if serveSessionDir != "" {
		rt.cfg.Server.SessionDir = serveSessionDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := store.NewFileStore(rt.cfg.Server.SessionDir,
		store.WithFileLogger(rt.logger),
		store.WithFileMetrics(rt.metrics),
	)

	printSuccess("Sessions stored in " + sessions.Dir())
	if err := server.New(rt.cfg, sessions, rt.logger, rt.metrics).Run(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
