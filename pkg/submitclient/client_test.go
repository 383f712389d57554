package submitclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitSignsWithSigV4(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/prod/feedback", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/"), auth)
		assert.Contains(t, auth, "/us-west-2/execute-api/aws4_request")
		assert.NotEmpty(t, r.Header.Get("X-Amz-Date"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"feedback":"useful"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	client, err := NewClient(Config{
		Endpoint:    server.URL + "/prod/feedback",
		Region:      "us-west-2",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		Timeout:     time.Second,
	}, logger)
	require.NoError(t, err)

	resp, err := client.Submit(context.Background(), []byte(`{"feedback":"useful"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"feedback":"useful"}`, resp.Body)
}

func TestClient_SubmitWithBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	client, err := NewClient(Config{Endpoint: server.URL, AuthToken: "test-token"}, logger)
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), []byte(`{}`))
	require.NoError(t, err)
}

func TestClient_NonOKIsReturnedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Error: parameter feedback is a required parameter"))
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	client, err := NewClient(Config{Endpoint: server.URL, AuthToken: "t"}, logger)
	require.NoError(t, err)

	resp, err := client.Submit(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Error: parameter feedback is a required parameter", resp.Body)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	client, err := NewClient(Config{Endpoint: server.URL, AuthToken: "t", Timeout: 20 * time.Millisecond}, logger)
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestNewClient_Validation(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := NewClient(Config{AuthToken: "t"}, logger)
	assert.Error(t, err, "endpoint required")

	_, err = NewClient(Config{Endpoint: "http://localhost/feedback"}, logger)
	assert.Error(t, err, "credentials or token required")
}
