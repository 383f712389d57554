package extractor

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestExtractURLs(t *testing.T) {
	logger, _ := test.NewNullLogger()

	tests := []struct {
		name string
		blob string
		want []string
	}{
		{"empty", ``, []string{}},
		{"null", `null`, []string{}},
		{"empty list", `[]`, []string{}},
		{"entry without url skipped", `[{"url":"http://x"},{"title":"no url"}]`, []string{"http://x"}},
		{"non-string url skipped", `[{"url":42},{"url":"http://y"}]`, []string{"http://y"}},
		{"non-object entries skipped", `[{"url":"http://x"},"junk",{"title":"t"},null,7,{"url":"http://z"}]`, []string{"http://x", "http://z"}},
		{"keeps order", `[{"url":"http://a"},{"url":"http://b"}]`, []string{"http://a", "http://b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURLs(json.RawMessage(tt.blob), logger))
		})
	}
}

func TestExtractURLs_UnparseableDegradesToEmpty(t *testing.T) {
	logger, hook := test.NewNullLogger()

	for _, blob := range []string{`not json`, `{"url":"http://x"}`, `"http://x"`} {
		hook.Reset()
		assert.Equal(t, []string{}, ExtractURLs(json.RawMessage(blob), logger), blob)
		if assert.NotNil(t, hook.LastEntry(), blob) {
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		}
	}
}
