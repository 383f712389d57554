package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/store"
	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// Submitter validates direct feedback submissions and writes them to the store
type Submitter struct {
	normalizer *Normalizer
	store      store.Store
	namespace  string
	now        func() time.Time
	logger     logrus.FieldLogger
}

// NewSubmitter creates a submitter writing under namespace in st
func NewSubmitter(st store.Store, namespace string, logger logrus.FieldLogger) (*Submitter, error) {
	if namespace == "" {
		return nil, fmt.Errorf("store namespace is required")
	}

	normalizer, err := NewNormalizer(logger)
	if err != nil {
		return nil, err
	}

	return &Submitter{
		normalizer: normalizer,
		store:      st,
		namespace:  namespace,
		now:        time.Now,
		logger:     logger,
	}, nil
}

// SetClock overrides the processing-time source
func (s *Submitter) SetClock(now func() time.Time) {
	s.now = now
}

// SetIDGenerator overrides how missing interaction ids are generated
func (s *Submitter) SetIDGenerator(fn func() string) {
	s.normalizer.SetIDGenerator(fn)
}

// Submit normalizes body and stores the record. Validation problems come back
// as a 400 response with a nil error; store failures are returned as errors
// and nothing is retried.
func (s *Submitter) Submit(ctx context.Context, body []byte) (*types.Response, error) {
	now := s.now()

	record, err := s.normalizer.Normalize(body, now)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return verr.Response(), nil
		}
		return nil, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback record: %w", err)
	}

	key := PartitionKey(s.namespace, record.InteractionID, now)
	if err := s.store.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to store feedback %s: %w", record.InteractionID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"interactionId": record.InteractionID,
		"appIdentifier": record.AppIdentifier,
		"feedback":      record.Feedback,
		"key":           key,
	}).Info("Stored feedback record")

	return &types.Response{
		StatusCode: http.StatusOK,
		Body:       string(data),
	}, nil
}
