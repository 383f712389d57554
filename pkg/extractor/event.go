package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// ErrMalformedEvent is returned when an audit event lacks the rating fields
var ErrMalformedEvent = errors.New("malformed audit event")

// The rating user is read from detail.userIdentity.onBehalfOf.userId only.
const auditEventSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["detail"],
	"properties": {
		"detail": {
			"type": "object",
			"required": ["requestParameters", "userIdentity"],
			"properties": {
				"requestParameters": {
					"type": "object",
					"required": ["applicationId", "conversationId", "messageId", "messageUsefulness"],
					"properties": {
						"applicationId": {"type": "string", "minLength": 1},
						"conversationId": {"type": "string", "minLength": 1},
						"messageId": {"type": "string", "minLength": 1},
						"messageUsefulness": {
							"type": "object",
							"required": ["usefulness"],
							"properties": {
								"usefulness": {"type": "string", "minLength": 1},
								"comment": {"type": "string"},
								"reason": {"type": "string"},
								"submittedAt": {"type": "string"}
							}
						}
					}
				},
				"userIdentity": {
					"type": "object",
					"required": ["onBehalfOf"],
					"properties": {
						"onBehalfOf": {
							"type": "object",
							"required": ["userId"],
							"properties": {
								"userId": {"type": "string", "minLength": 1}
							}
						}
					}
				}
			}
		}
	}
}`

var eventSchema = jsonschema.MustCompileString("audit-event.json", auditEventSchema)

// ParseEvent validates and decodes a PutFeedback audit event
func ParseEvent(data []byte) (*types.AuditEvent, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if err := eventSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEvent, describe(err))
	}

	var event types.AuditEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	return &event, nil
}

func describe(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	location := verr.InstanceLocation
	if location == "" {
		location = "/"
	}
	return strings.TrimSpace(fmt.Sprintf("%s: %s", location, verr.Message))
}
