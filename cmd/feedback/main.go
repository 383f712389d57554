package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/internal/logging"
)

var logLevel = ""

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Chatbot feedback ingestion",
	Long: `Collects thumbs up/down, comments and citations from a GenAI chatbot,
normalizes them into feedback records and stores them under Hive-style
date partitions for cataloging and analytics.`,
	SilenceUsage: true,
}

// resolveLevel lets --log-level win over LOG_LEVEL
func resolveLevel(cfg *config.Config) string {
	if logLevel != "" {
		return logLevel
	}
	return cfg.LogLevel
}

func newLogger(cfg *config.Config) *logrus.Logger {
	return logging.NewText(resolveLevel(cfg), os.Stderr)
}

func main() {
	rootCmd.AddCommand(
		NewServeCommand(),
		NewSubmitCommand(),
		NewExtractCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (trace,debug,info,warn,error) (default from LOG_LEVEL, else info)")

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("could not execute root command")
	}
}
