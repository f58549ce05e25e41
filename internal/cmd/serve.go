package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long: `Serve the analysis engine over HTTP.

Routes:
  POST   /api/analyze                          analyze one page
  POST   /api/merge                            merge a signal bundle
  POST   /api/quickwins                        select quick wins
  GET    /api/history                          recent analyses (?page_type=&limit=)
  GET    /api/calibration[/{pageType}]         list calibration weights
  GET    /api/calibration/{pageType}/stats     weight statistics
  PUT    /api/calibration/{pageType}/{issueID} set a weight {"weight": 1.5}
  DELETE /api/calibration/{pageType}[/{issueID}]
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	var store server.CalibrationStore
	if env.store != nil {
		store = env.store
	} else {
		env.log.LogInfo("Calibration disabled; history and calibration routes return 503")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(env.analyzer(true), store, env.log)
	return serveUntilDone(ctx, srv, server.Config{
		Addr:         env.cfg.Server.Addr,
		ReadTimeout:  env.cfg.Server.ReadTimeout,
		WriteTimeout: env.cfg.Server.WriteTimeout,
	})
}

// serveUntilDone is swapped out by tests
var serveUntilDone = func(ctx context.Context, srv *server.Server, cfg server.Config) error {
	return srv.ListenAndServe(ctx, cfg)
}
