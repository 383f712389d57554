package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	LogLevel string
	// Store
	S3Bucket         string // S3_DATA_BUCKET; empty selects the local file store
	LocalStoreDir    string
	GlueDatabaseName string // Key namespace, matches the catalog database
	IndexDatabaseURL string // Optional Postgres feedback index
	// AWS
	AWSRegion              string
	QBusinessApplicationID string
	// Extractor
	FeedbackAPIURL     string // Empty disables the extractor
	TranscriptPageSize int
	TranscriptTimeout  time.Duration
	SubmitTimeout      time.Duration
	MissingTurnPolicy  string // "reject" or "skip"
	// Shared bearer token for inbound and outbound calls
	WebhookAuthToken string
	// Set by the Lambda runtime
	LambdaFunctionName string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		S3Bucket:               getEnv("S3_DATA_BUCKET", ""),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", "./data"),
		GlueDatabaseName:       getEnv("GLUE_DATABASE_NAME", "chatbot_db"),
		IndexDatabaseURL:       getEnv("INDEX_DATABASE_URL", ""),
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		QBusinessApplicationID: getEnv("QBUSINESS_APPLICATION_ID", ""),
		FeedbackAPIURL:         getEnv("FEEDBACK_API_URL", getEnv("API_GATEWAY_URL", "")),
		TranscriptPageSize:     getEnvInt("TRANSCRIPT_PAGE_SIZE", 10),
		TranscriptTimeout:      getEnvDuration("TRANSCRIPT_TIMEOUT", 10*time.Second),
		SubmitTimeout:          getEnvDuration("SUBMIT_TIMEOUT", 10*time.Second),
		MissingTurnPolicy:      getEnv("EXTRACTOR_MISSING_TURN_POLICY", "reject"),
		WebhookAuthToken:       getEnv("WEBHOOK_AUTH_TOKEN", ""),
		LambdaFunctionName:     getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.GlueDatabaseName == "" {
		return fmt.Errorf("GLUE_DATABASE_NAME is required")
	}
	if c.TranscriptPageSize <= 0 {
		return fmt.Errorf("TRANSCRIPT_PAGE_SIZE must be positive, got %d", c.TranscriptPageSize)
	}
	switch c.MissingTurnPolicy {
	case "reject", "skip":
	default:
		return fmt.Errorf("unknown EXTRACTOR_MISSING_TURN_POLICY: %s (supported: reject, skip)", c.MissingTurnPolicy)
	}
	return nil
}

// ValidateStore checks the store settings. The local file store is for
// development only; a Lambda filesystem is read-only outside /tmp.
func (c *Config) ValidateStore() error {
	if c.S3Bucket == "" && c.OnLambda() {
		return fmt.Errorf("S3_DATA_BUCKET is required when running on AWS Lambda (function %s)", c.LambdaFunctionName)
	}
	return nil
}

// OnLambda reports whether the process runs inside the Lambda runtime
func (c *Config) OnLambda() bool {
	return c.LambdaFunctionName != ""
}

// ExtractorEnabled reports whether audit events can be forwarded
func (c *Config) ExtractorEnabled() bool {
	return c.FeedbackAPIURL != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an int environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable ("10s", "1m") with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
