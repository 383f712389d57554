package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

type okSubmitter struct{}

func (okSubmitter) Submit(context.Context, []byte) (*types.Response, error) {
	return &types.Response{StatusCode: http.StatusOK, Body: `{}`}, nil
}

type okProcessor struct{}

func (okProcessor) Process(context.Context, []byte) (*types.Response, error) {
	return &types.Response{StatusCode: http.StatusOK, Body: `{}`}, nil
}

func TestRoutes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	mux := New("0", "secret", okSubmitter{}, okProcessor{}, logger).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"health is open", http.MethodGet, "/health", "", http.StatusOK},
		{"feedback needs token", http.MethodPost, "/feedback", "", http.StatusUnauthorized},
		{"feedback with token", http.MethodPost, "/feedback", "Bearer secret", http.StatusOK},
		{"events with token", http.MethodPost, "/events/qbusiness", "Bearer secret", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutes_NoExtractor(t *testing.T) {
	logger, _ := test.NewNullLogger()
	mux := New("0", "", okSubmitter{}, nil, logger).Routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/qbusiness", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStart_StopsOnCancel(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := New("0", "", okSubmitter{}, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Start(ctx))
}
