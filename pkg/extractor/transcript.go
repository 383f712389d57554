package extractor

import (
	"errors"
	"fmt"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

var (
	// ErrMessageNotFound means the rated message is not in the fetched transcript
	ErrMessageNotFound = errors.New("message not found in conversation transcript")
	// ErrNoPriorResponse means the rated message has no preceding turn to pair with
	ErrNoPriorResponse = errors.New("no response turn precedes the rated message")
)

// LocateTurns finds the rated (query) turn by id and pairs it with the
// transcript entry immediately before it, which is taken as the response.
func LocateTurns(transcript []types.TranscriptMessage, messageID string) (query, response types.TranscriptMessage, err error) {
	index := -1
	for i, msg := range transcript {
		if msg.MessageID == messageID {
			index = i
			break
		}
	}

	switch {
	case index < 0:
		return query, response, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
	case index == 0:
		return query, response, fmt.Errorf("%w: %s", ErrNoPriorResponse, messageID)
	}

	return transcript[index], transcript[index-1], nil
}
