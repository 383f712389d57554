package types

import "encoding/json"

// AuditEvent is the EventBridge envelope around a CloudTrail PutFeedback record
// Reference: https://docs.aws.amazon.com/amazonq/latest/qbusiness-ug/logging-using-cloudtrail.html
type AuditEvent struct {
	ID         string      `json:"id"`
	Source     string      `json:"source"`
	DetailType string      `json:"detail-type"`
	Detail     AuditDetail `json:"detail"`
}

// AuditDetail is the CloudTrail record carried in the event
type AuditDetail struct {
	EventName         string            `json:"eventName"`
	EventTime         string            `json:"eventTime"`
	RequestParameters RatingParameters  `json:"requestParameters"`
	UserIdentity      AuditUserIdentity `json:"userIdentity"`
}

// RatingParameters are the request parameters of the rating call
type RatingParameters struct {
	ApplicationID     string            `json:"applicationId"`
	ConversationID    string            `json:"conversationId"`
	MessageID         string            `json:"messageId"`
	MessageUsefulness MessageUsefulness `json:"messageUsefulness"`
}

// MessageUsefulness is the rating payload itself
type MessageUsefulness struct {
	Usefulness  string `json:"usefulness"`
	Comment     string `json:"comment,omitempty"` // Usually only set on thumbs down
	Reason      string `json:"reason,omitempty"`
	SubmittedAt string `json:"submittedAt"`
}

// AuditUserIdentity identifies who performed the rating
type AuditUserIdentity struct {
	Type        string          `json:"type"`
	PrincipalID string          `json:"principalId"`
	OnBehalfOf  OnBehalfOfActor `json:"onBehalfOf"`
}

// OnBehalfOfActor is the end user the service principal acted for
type OnBehalfOfActor struct {
	UserID string `json:"userId"`
}

// TranscriptMessage is one turn of a conversation transcript
type TranscriptMessage struct {
	MessageID         string          `json:"messageId"`
	Type              string          `json:"type"` // USER or SYSTEM
	Body              string          `json:"body"`
	Time              string          `json:"time,omitempty"`
	SourceAttribution json.RawMessage `json:"sourceAttribution,omitempty"`
}
