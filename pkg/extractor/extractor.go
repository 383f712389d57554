package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// DefaultPageSize is how many recent transcript messages are fetched
const DefaultPageSize = 10

// TranscriptSource lists recent messages of a conversation
type TranscriptSource interface {
	ListMessages(ctx context.Context, applicationID, conversationID, userID string, limit int) ([]types.TranscriptMessage, error)
}

// Submitter accepts a raw feedback body, either in process or over the API
type Submitter interface {
	Submit(ctx context.Context, body []byte) (*types.Response, error)
}

// MissingTurnPolicy decides what happens when the rated turns cannot be located
type MissingTurnPolicy string

const (
	// PolicyReject answers the event with a 400 response
	PolicyReject MissingTurnPolicy = "reject"
	// PolicySkip drops the event and answers with a 200 response
	PolicySkip MissingTurnPolicy = "skip"
)

// ParseMissingTurnPolicy validates a policy name
func ParseMissingTurnPolicy(s string) (MissingTurnPolicy, error) {
	switch MissingTurnPolicy(s) {
	case PolicyReject, PolicySkip:
		return MissingTurnPolicy(s), nil
	case "":
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("unknown missing turn policy: %s (supported: reject, skip)", s)
	}
}

// Config holds extractor settings
type Config struct {
	PageSize          int
	TranscriptTimeout time.Duration
	Policy            MissingTurnPolicy
}

// Extractor turns rating audit events into feedback submissions
type Extractor struct {
	transcripts TranscriptSource
	submitter   Submitter
	config      Config
	logger      logrus.FieldLogger
}

// New creates an extractor
func New(transcripts TranscriptSource, submitter Submitter, config Config, logger logrus.FieldLogger) *Extractor {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Policy == "" {
		config.Policy = PolicyReject
	}

	return &Extractor{
		transcripts: transcripts,
		submitter:   submitter,
		config:      config,
		logger:      logger,
	}
}

// Process handles one raw audit event and returns the submitter's response verbatim
func (e *Extractor) Process(ctx context.Context, data []byte) (*types.Response, error) {
	event, err := ParseEvent(data)
	if err != nil {
		return nil, err
	}
	return e.ProcessEvent(ctx, event)
}

// ProcessEvent enriches a decoded audit event and submits it
func (e *Extractor) ProcessEvent(ctx context.Context, event *types.AuditEvent) (*types.Response, error) {
	params := event.Detail.RequestParameters
	userID := event.Detail.UserIdentity.OnBehalfOf.UserID

	log := e.logger.WithFields(logrus.Fields{
		"messageId":      params.MessageID,
		"applicationId":  params.ApplicationID,
		"conversationId": params.ConversationID,
	})

	transcript, err := e.fetchTranscript(ctx, params.ApplicationID, params.ConversationID, userID)
	if err != nil {
		return nil, err
	}

	query, response, err := LocateTurns(transcript, params.MessageID)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) || errors.Is(err, ErrNoPriorResponse) {
			return e.missingTurn(log, err), nil
		}
		return nil, err
	}

	body, err := json.Marshal(e.assemble(event, query, response, log))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback payload: %w", err)
	}

	log.Debug("Posting feedback to submitter")
	resp, err := e.submitter.Submit(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("failed to submit feedback for message %s: %w", params.MessageID, err)
	}

	log.WithField("statusCode", resp.StatusCode).Info("Submitted audit-derived feedback")
	return resp, nil
}

func (e *Extractor) fetchTranscript(ctx context.Context, applicationID, conversationID, userID string) ([]types.TranscriptMessage, error) {
	if e.config.TranscriptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TranscriptTimeout)
		defer cancel()
	}

	transcript, err := e.transcripts.ListMessages(ctx, applicationID, conversationID, userID, e.config.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript for conversation %s: %w", conversationID, err)
	}
	return transcript, nil
}

func (e *Extractor) missingTurn(log logrus.FieldLogger, err error) *types.Response {
	if e.config.Policy == PolicySkip {
		log.WithError(err).Warn("Skipping audit event")
		return &types.Response{
			StatusCode: http.StatusOK,
			Body:       "Skipped: " + err.Error(),
		}
	}

	log.WithError(err).Error("Rejecting audit event")
	return &types.Response{
		StatusCode: http.StatusBadRequest,
		Body:       "Error: " + err.Error(),
	}
}

// assemble builds the raw submission body. submittedAt is left out when the
// event has none so the submitter stamps it.
func (e *Extractor) assemble(event *types.AuditEvent, query, response types.TranscriptMessage, log logrus.FieldLogger) map[string]any {
	params := event.Detail.RequestParameters
	rating := params.MessageUsefulness

	var attribution any = ""
	if blob := bytes.TrimSpace(response.SourceAttribution); len(blob) > 0 && json.Valid(blob) {
		attribution = json.RawMessage(blob)
	}

	payload := map[string]any{
		"interactionId":           params.MessageID,
		"prompt":                  query.Body,
		"response":                response.Body,
		"sourceAttribution":       attribution,
		"source_attribution_urls": ExtractURLs(response.SourceAttribution, log),
		"feedback":                rating.Usefulness,
		"comment":                 rating.Comment,
		"userId":                  event.Detail.UserIdentity.OnBehalfOf.UserID,
		"appIdentifier":           params.ApplicationID,
	}
	if rating.SubmittedAt != "" {
		payload["submittedAt"] = rating.SubmittedAt
	}

	return payload
}
