package qbusiness

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness"
	qtypes "github.com/aws/aws-sdk-go-v2/service/qbusiness/types"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// ListMessagesAPI is the subset of the Q Business client used here
type ListMessagesAPI interface {
	ListMessages(ctx context.Context, params *qbusiness.ListMessagesInput, optFns ...func(*qbusiness.Options)) (*qbusiness.ListMessagesOutput, error)
}

// Client reads conversation transcripts from Amazon Q Business
type Client struct {
	api ListMessagesAPI
}

// NewClient wraps a Q Business API client
func NewClient(api ListMessagesAPI) *Client {
	return &Client{api: api}
}

// NewClientFromConfig builds the Q Business client from a loaded AWS config
func NewClientFromConfig(cfg aws.Config) *Client {
	return NewClient(qbusiness.NewFromConfig(cfg))
}

type citation struct {
	Title          string     `json:"title,omitempty"`
	Snippet        string     `json:"snippet,omitempty"`
	URL            string     `json:"url,omitempty"`
	CitationNumber *int32     `json:"citationNumber,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// ListMessages returns up to limit recent messages, most recent first
func (c *Client) ListMessages(ctx context.Context, applicationID, conversationID, userID string, limit int) ([]types.TranscriptMessage, error) {
	input := &qbusiness.ListMessagesInput{
		ApplicationId:  aws.String(applicationID),
		ConversationId: aws.String(conversationID),
		MaxResults:     aws.Int32(int32(limit)),
	}
	if userID != "" {
		input.UserId = aws.String(userID)
	}

	out, err := c.api.ListMessages(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list Q Business messages: %w", err)
	}

	messages := make([]types.TranscriptMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msg := types.TranscriptMessage{
			MessageID: aws.ToString(m.MessageId),
			Type:      string(m.Type),
			Body:      aws.ToString(m.Body),
		}
		if m.Time != nil {
			msg.Time = m.Time.UTC().Format(time.RFC3339)
		}

		attribution, err := encodeAttribution(m.SourceAttribution)
		if err != nil {
			return nil, err
		}
		msg.SourceAttribution = attribution

		messages = append(messages, msg)
	}

	return messages, nil
}

func encodeAttribution(sources []*qtypes.SourceAttribution) (json.RawMessage, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	citations := make([]citation, 0, len(sources))
	for _, s := range sources {
		if s == nil {
			continue
		}
		citations = append(citations, citation{
			Title:          aws.ToString(s.Title),
			Snippet:        aws.ToString(s.Snippet),
			URL:            aws.ToString(s.Url),
			CitationNumber: s.CitationNumber,
			UpdatedAt:      s.UpdatedAt,
		})
	}

	data, err := json.Marshal(citations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source attribution: %w", err)
	}
	return data, nil
}
