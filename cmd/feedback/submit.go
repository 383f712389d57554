package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/chatbot-feedback/internal/app"
	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

func NewSubmitCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Normalize and store one feedback body",
		Long:  `Reads a feedback JSON body from --file (or stdin with "-") and stores it like a POST to /feedback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(file)
			if err != nil {
				return err
			}

			cfg := config.LoadConfig()
			application, err := app.NewSubmitterOnly(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer application.Close()

			resp, err := application.Submitter.Submit(cmd.Context(), body)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Path to the feedback JSON body, - for stdin")

	return cmd
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}

func printResponse(out io.Writer, resp *types.Response) error {
	fmt.Fprintln(out, resp.Body)
	if !resp.OK() {
		return fmt.Errorf("feedback rejected with status %d", resp.StatusCode)
	}
	return nil
}
