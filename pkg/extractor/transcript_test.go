package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

func TestLocateTurns(t *testing.T) {
	transcript := []types.TranscriptMessage{
		{MessageID: "m2", Body: "newest"},
		{MessageID: "m1", Body: "middle"},
		{MessageID: "m0", Body: "oldest"},
	}

	query, response, err := LocateTurns(transcript, "m1")
	require.NoError(t, err)
	assert.Equal(t, "middle", query.Body)
	assert.Equal(t, "newest", response.Body)

	query, response, err = LocateTurns(transcript, "m0")
	require.NoError(t, err)
	assert.Equal(t, "oldest", query.Body)
	assert.Equal(t, "middle", response.Body)
}

func TestLocateTurns_FirstEntryHasNoPriorResponse(t *testing.T) {
	transcript := []types.TranscriptMessage{
		{MessageID: "m0", Body: "Q"},
		{MessageID: "m1", Body: "A"},
	}

	_, _, err := LocateTurns(transcript, "m0")
	assert.ErrorIs(t, err, ErrNoPriorResponse)
}

func TestLocateTurns_MessageNotFound(t *testing.T) {
	_, _, err := LocateTurns([]types.TranscriptMessage{{MessageID: "m0"}}, "missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.Contains(t, err.Error(), "missing")

	_, _, err = LocateTurns(nil, "m0")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
