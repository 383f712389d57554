package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/extractor"
	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// maxBodyBytes bounds request bodies; feedback records are small
const maxBodyBytes = 1 << 20

// Submitter normalizes and stores a raw feedback body
type Submitter interface {
	Submit(ctx context.Context, body []byte) (*types.Response, error)
}

// EventProcessor turns a raw audit event into a feedback submission
type EventProcessor interface {
	Process(ctx context.Context, data []byte) (*types.Response, error)
}

// FeedbackHandler handles direct feedback submissions
type FeedbackHandler struct {
	submitter Submitter
	logger    logrus.FieldLogger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(submitter Submitter, logger logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{
		submitter: submitter,
		logger:    logger,
	}
}

// HandleFeedback processes POST /feedback
func (h *FeedbackHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.submitter.Submit(r.Context(), body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to process feedback")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteResponse(w, resp)
}

// EventHandler handles audit events delivered over HTTP
type EventHandler struct {
	processor EventProcessor
	logger    logrus.FieldLogger
}

// NewEventHandler creates a new audit event handler
func NewEventHandler(processor EventProcessor, logger logrus.FieldLogger) *EventHandler {
	return &EventHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleEvent processes POST /events/qbusiness
func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.processor.Process(r.Context(), body)
	if err != nil {
		if errors.Is(err, extractor.ErrMalformedEvent) {
			h.logger.WithError(err).Warn("Rejected malformed audit event")
			WriteResponse(w, &types.Response{StatusCode: http.StatusBadRequest, Body: "Error: " + err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to process audit event")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteResponse(w, resp)
}

// WriteResponse writes a submitter response as the HTTP status and body
func WriteResponse(w http.ResponseWriter, resp *types.Response) {
	if json.Valid([]byte(resp.Body)) {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	w.Write([]byte(resp.Body))
}

// HandleHealth handles health check requests
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func readBody(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger) ([]byte, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.WithError(err).Warn("Failed to read request body")
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}

	return body, true
}
