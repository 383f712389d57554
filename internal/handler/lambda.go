package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// APIGatewayFunc is the Lambda signature behind the API Gateway proxy integration
type APIGatewayFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// EventBridgeFunc is the Lambda signature for audit events delivered by an EventBridge rule
type EventBridgeFunc func(ctx context.Context, event json.RawMessage) (*types.Response, error)

// NewAPIGatewayFunc adapts a submitter to API Gateway proxy requests. Store
// failures are returned as errors so the platform reports a generic failure.
func NewAPIGatewayFunc(submitter Submitter, logger logrus.FieldLogger) APIGatewayFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				logger.WithError(err).Warn("Failed to decode base64 request body")
				return events.APIGatewayProxyResponse{
					StatusCode: 400,
					Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
					Body:       "Error: request body is not valid base64",
				}, nil
			}
			body = decoded
		}

		resp, err := submitter.Submit(ctx, body)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		contentType := "text/plain; charset=utf-8"
		if json.Valid([]byte(resp.Body)) {
			contentType = "application/json"
		}

		return events.APIGatewayProxyResponse{
			StatusCode: resp.StatusCode,
			Headers:    map[string]string{"Content-Type": contentType},
			Body:       resp.Body,
		}, nil
	}
}

// NewEventBridgeFunc adapts an event processor to raw EventBridge deliveries
func NewEventBridgeFunc(processor EventProcessor, logger logrus.FieldLogger) EventBridgeFunc {
	return func(ctx context.Context, event json.RawMessage) (*types.Response, error) {
		resp, err := processor.Process(ctx, event)
		if err != nil {
			logger.WithError(err).Error("Failed to process audit event")
			return nil, fmt.Errorf("process audit event: %w", err)
		}
		return resp, nil
	}
}
