package main

import (
	"github.com/spf13/cobra"

	"github.com/valentinpelus/chatbot-feedback/internal/app"
	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/pkg/extractor"
)

func NewExtractCommand() *cobra.Command {
	var (
		file  string
		local bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Process one Q Business PutFeedback audit event",
		Long: `Reads an EventBridge-wrapped CloudTrail PutFeedback event, looks up the
conversation transcript and submits the resulting feedback. With --local the
feedback is stored in process instead of being posted to FEEDBACK_API_URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}

			cfg := config.LoadConfig()
			logger := newLogger(cfg)

			var ext *extractor.Extractor
			if local {
				application, err := app.NewSubmitterOnly(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				defer application.Close()
				if ext, err = application.LocalExtractor(); err != nil {
					return err
				}
			} else {
				application, err := app.NewExtractorOnly(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				ext = application.Extractor
			}

			resp, err := ext.Process(cmd.Context(), data)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Path to the audit event JSON, - for stdin")
	cmd.Flags().BoolVar(&local, "local", false, "Store the feedback in process instead of posting it")

	return cmd
}
