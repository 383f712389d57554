package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/chatbot-feedback/internal/app"
	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/internal/logging"
	"github.com/valentinpelus/chatbot-feedback/internal/server"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feedback API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			logger := logging.New(resolveLevel(cfg))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			application.LogStartupInfo()

			srv := server.New(cfg.Port, cfg.WebhookAuthToken, application.Submitter, application.EventProcessor(), logger)
			return srv.Start(ctx)
		},
	}

	return cmd
}
