package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/cyberwatchdog/internal/database"
	"github.com/nao1215/cyberwatchdog/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assessor as a JSON HTTP API",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /classify   body {"text": "<url or text>"}, returns the assessment
  GET  /healthz    liveness check

Examples:
  cyberwatchdog serve
  cyberwatchdog serve --listen 0.0.0.0:9000 --save
  curl -s localhost:8080/classify -d '{"text":"http://login-verify.tk"}'`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address (default 127.0.0.1:8080)")
	cmd.Flags().BoolP("save", "s", false, "Save every assessment to the history database")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.ListenAddress = listen
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("save"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBPath(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		opts = append(opts, server.WithRecorder(db))
	}

	srv := server.New(newAssessor(cfg, logger), opts...)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", cfg.ListenAddress)
	return srv.Run(ctx, cfg.ListenAddress)
}
