package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPartitionKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "chatbot_db/feedback/year=2024/month=03/day=07/abc-1.json", PartitionKey("chatbot_db", "abc-1", now))
}

func TestPartitionKey_UsesUTCDate(t *testing.T) {
	tz := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2024, 1, 1, 3, 0, 0, 0, tz) // Dec 31 in UTC
	assert.Equal(t, "db/feedback/year=2023/month=12/day=31/x.json", PartitionKey("db", "x", now))
}
