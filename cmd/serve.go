package cmd

import (
	"github.com/spf13/cobra"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/server"
)

var (
	serveAddr      string
	serveNoMetrics bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chatbot HTTP server",
	Long: `Start the HTTP server exposing:
  - POST /chatbot      ask a question ({"input": "..."})
  - GET  /api          OpenAPI document (JSON)
  - GET  /health       liveness probe
  - GET  /ready        readiness probe
  - GET  /metrics      prometheus metrics (unless disabled)

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :3000)")
	serveCmd.Flags().BoolVar(&serveNoMetrics, "no-metrics", false, "Disable the /metrics endpoint")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]interface{}{
		"server.addr": serveAddr,
	})
	if err != nil {
		return err
	}

	logger, err := InitLogger(cfg.Logging, debugFlag, verboseFlag)
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, err := BuildApp(cfg, logger, cfg.Server.MetricsEnabled && !serveNoMetrics)
	if err != nil {
		return HandleCommandError(err)
	}

	srv := server.New(cfg.Server, server.Deps{
		Caller:    app.Caller,
		Converter: app.Converter,
		Searcher:  app.Catalog,
		Logger:    logger.Named("server"),
		Recorder:  app.Recorder,
		Checks:    app.ReadinessChecks(),
	})

	logger.Info("Starting shopchat server",
		logging.String("addr", cfg.Server.Addr),
		logging.Bool("metrics", app.Recorder != nil),
	)
	return srv.Run(cmd.Context())
}
