package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

func TestAPIGatewayFunc(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sub := &stubSubmitter{resp: &types.Response{StatusCode: http.StatusOK, Body: `{"interactionId":"abc-1"}`}}
	fn := NewAPIGatewayFunc(sub, logger)

	resp, err := fn(context.Background(), events.APIGatewayProxyRequest{Body: `{"feedback":"useful"}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, `{"interactionId":"abc-1"}`, resp.Body)
	assert.Equal(t, `{"feedback":"useful"}`, string(sub.body))
}

func TestAPIGatewayFunc_Base64Body(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sub := &stubSubmitter{resp: &types.Response{StatusCode: http.StatusOK, Body: `{}`}}
	fn := NewAPIGatewayFunc(sub, logger)

	_, err := fn(context.Background(), events.APIGatewayProxyRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"feedback":"useful"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"feedback":"useful"}`, string(sub.body))

	resp, err := fn(context.Background(), events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIGatewayFunc_StoreFailureReturnsError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	boom := errors.New("throttled")
	fn := NewAPIGatewayFunc(&stubSubmitter{err: boom}, logger)

	_, err := fn(context.Background(), events.APIGatewayProxyRequest{Body: `{}`})
	assert.ErrorIs(t, err, boom)
}

func TestEventBridgeFunc(t *testing.T) {
	logger, _ := test.NewNullLogger()
	want := &types.Response{StatusCode: http.StatusOK, Body: `{}`}
	fn := NewEventBridgeFunc(&stubProcessor{resp: want}, logger)

	resp, err := fn(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, want, resp)

	boom := errors.New("transcript unavailable")
	fn = NewEventBridgeFunc(&stubProcessor{err: boom}, logger)
	_, err = fn(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, boom)
}
