package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/valentinpelus/chatbot-feedback/internal/app"
	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/internal/handler"
	"github.com/valentinpelus/chatbot-feedback/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel)

	application, err := app.NewExtractorOnly(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize extractor")
	}

	lambda.Start(handler.NewEventBridgeFunc(application.Extractor, logger))
}
