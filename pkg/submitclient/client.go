package submitclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// signingService is the SigV4 service name for API Gateway endpoints
const signingService = "execute-api"

// Config holds submit client settings. When AuthToken is set the request
// carries a bearer token; otherwise it is SigV4-signed with Credentials.
type Config struct {
	Endpoint    string
	Region      string
	Credentials aws.CredentialsProvider
	AuthToken   string
	Timeout     time.Duration
}

// Client posts feedback bodies to the submitter API as this service's own identity
type Client struct {
	endpoint    string
	region      string
	credentials aws.CredentialsProvider
	authToken   string
	signer      *v4.Signer
	client      *http.Client
	now         func() time.Time
	logger      logrus.FieldLogger
}

// NewClient creates a submit client
func NewClient(cfg Config, logger logrus.FieldLogger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("feedback API endpoint is required")
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid feedback API endpoint: %w", err)
	}
	if cfg.AuthToken == "" && cfg.Credentials == nil {
		return nil, fmt.Errorf("either an auth token or AWS credentials are required")
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		region:      cfg.Region,
		credentials: cfg.Credentials,
		authToken:   cfg.AuthToken,
		signer:      v4.NewSigner(),
		client:      &http.Client{Timeout: cfg.Timeout},
		now:         time.Now,
		logger:      logger,
	}, nil
}

// Endpoint returns the target URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts body and returns the API's status and body as received.
// Non-200 answers are not errors; only transport failures are.
func (c *Client) Submit(ctx context.Context, body []byte) (*types.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.authorize(ctx, req, body); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post feedback: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback API response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint":   c.endpoint,
		"statusCode": resp.StatusCode,
	}).Debug("Feedback API responded")

	return &types.Response{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request, body []byte) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
		return nil
	}

	creds, err := c.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	sum := sha256.Sum256(body)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), signingService, c.region, c.now()); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}
	return nil
}
