package feedback

import (
	"fmt"
	"time"
)

// PartitionKey returns the object key for a record processed at now. The
// Hive-style year=/month=/day= layout is what the catalog crawler expects;
// changing it breaks downstream tables.
func PartitionKey(namespace, interactionID string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s/feedback/year=%04d/month=%02d/day=%02d/%s.json",
		namespace, now.Year(), int(now.Month()), now.Day(), interactionID)
}
