package extractor

import (
	"bytes"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// ExtractURLs returns every url from a citation list. Entries that are not
// objects or have no url are skipped, and a blob that does not parse yields
// an empty list. Citation problems never fail the extraction.
func ExtractURLs(blob json.RawMessage, logger logrus.FieldLogger) []string {
	urls := []string{}

	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return urls
	}

	var citations []json.RawMessage
	if err := json.Unmarshal(trimmed, &citations); err != nil {
		logger.WithError(err).Warn("Could not parse source attribution, continuing without urls")
		return urls
	}

	for i, entry := range citations {
		var citation map[string]any
		if err := json.Unmarshal(entry, &citation); err != nil || citation == nil {
			logger.WithField("index", i).Debug("Skipping citation that is not an object")
			continue
		}
		url, ok := citation["url"].(string)
		if !ok || url == "" {
			logger.WithField("index", i).Debug("Skipping citation without url")
			continue
		}
		urls = append(urls, url)
	}

	return urls
}
