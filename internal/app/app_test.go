package app

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/chatbot-feedback/internal/config"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return &App{
		Config:    cfg,
		Logger:    logger,
		AWSConfig: aws.Config{Region: "us-east-1"},
	}
}

func TestInitSubmitter_LocalStore(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, &config.Config{GlueDatabaseName: "chatbot_db", LocalStoreDir: dir})

	require.NoError(t, a.initSubmitter(context.Background()))
	assert.NotNil(t, a.Submitter)
	assert.Equal(t, dir, a.storeLocation())
}

func TestInitSubmitter_S3Store(t *testing.T) {
	a := newTestApp(t, &config.Config{GlueDatabaseName: "chatbot_db", S3Bucket: "feedback-bucket"})

	require.NoError(t, a.initSubmitter(context.Background()))
	assert.Equal(t, "s3://feedback-bucket", a.storeLocation())
}

func TestInitSubmitter_LambdaWithoutBucketFails(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, &config.Config{
		GlueDatabaseName:   "chatbot_db",
		LocalStoreDir:      dir,
		LambdaFunctionName: "feedback-submitter",
	})

	err := a.initSubmitter(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_DATA_BUCKET")
	assert.Nil(t, a.Submitter)
}

func TestInitExtractor_UsesConfiguredEndpoint(t *testing.T) {
	a := newTestApp(t, &config.Config{
		GlueDatabaseName:   "chatbot_db",
		FeedbackAPIURL:     "https://abc.execute-api.us-east-1.amazonaws.com/prod/feedback",
		WebhookAuthToken:   "t",
		TranscriptPageSize: 10,
		MissingTurnPolicy:  "reject",
	})

	require.NoError(t, a.initExtractor())
	assert.NotNil(t, a.Extractor)
	assert.Equal(t, "https://abc.execute-api.us-east-1.amazonaws.com/prod/feedback", a.client.Endpoint())
}
