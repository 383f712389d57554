package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/internal/config"
	"github.com/valentinpelus/chatbot-feedback/internal/handler"
	"github.com/valentinpelus/chatbot-feedback/pkg/extractor"
	"github.com/valentinpelus/chatbot-feedback/pkg/feedback"
	"github.com/valentinpelus/chatbot-feedback/pkg/qbusiness"
	"github.com/valentinpelus/chatbot-feedback/pkg/store"
	"github.com/valentinpelus/chatbot-feedback/pkg/submitclient"
)

// App holds all application dependencies
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	AWSConfig aws.Config
	Store     store.Store
	Index     *store.PostgresIndex // nil unless INDEX_DATABASE_URL is set
	Submitter *feedback.Submitter
	Extractor *extractor.Extractor // nil unless FEEDBACK_API_URL is set

	primary store.Store
	client  *submitclient.Client
}

// New initializes the submitter and, when configured, the extractor
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a, err := newBase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := a.initSubmitter(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.ExtractorEnabled() {
		if err := a.initExtractor(); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// NewSubmitterOnly initializes just the submitter and its store
func NewSubmitterOnly(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a, err := newBase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.initSubmitter(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// NewExtractorOnly initializes just the extractor and its outbound client
func NewExtractorOnly(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if !cfg.ExtractorEnabled() {
		return nil, fmt.Errorf("FEEDBACK_API_URL is required for the extractor")
	}
	a, err := newBase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.initExtractor(); err != nil {
		return nil, err
	}
	return a, nil
}

func newBase(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Credentials come from the environment/IAM role and are resolved lazily
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		AWSConfig: awsCfg,
	}, nil
}

func (a *App) initSubmitter(ctx context.Context) error {
	if err := a.Config.ValidateStore(); err != nil {
		return err
	}

	var primary store.Store
	if a.Config.S3Bucket != "" {
		s3Store, err := store.NewS3StoreFromConfig(a.AWSConfig, a.Config.S3Bucket)
		if err != nil {
			return err
		}
		primary = s3Store
	} else {
		fileStore, err := store.NewFileStore(a.Config.LocalStoreDir)
		if err != nil {
			return err
		}
		a.Logger.WithField("dir", fileStore.Root()).Warn("S3_DATA_BUCKET not set, writing feedback to local directory")
		primary = fileStore
	}

	a.Store = primary
	a.primary = primary
	if a.Config.IndexDatabaseURL != "" {
		index, err := store.NewPostgresIndex(ctx, a.Config.IndexDatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize feedback index: %w", err)
		}
		a.Index = index
		a.Store = store.NewMulti(a.Logger.WithField("component", "store"), primary, index)
	}

	submitter, err := feedback.NewSubmitter(a.Store, a.Config.GlueDatabaseName, a.Logger.WithField("component", "submitter"))
	if err != nil {
		return err
	}
	a.Submitter = submitter
	return nil
}

func (a *App) initExtractor() error {
	clientCfg := submitclient.Config{
		Endpoint:  a.Config.FeedbackAPIURL,
		Region:    a.Config.AWSRegion,
		AuthToken: a.Config.WebhookAuthToken,
		Timeout:   a.Config.SubmitTimeout,
	}
	if clientCfg.AuthToken == "" {
		clientCfg.Credentials = a.AWSConfig.Credentials
	}

	client, err := submitclient.NewClient(clientCfg, a.Logger.WithField("component", "submitclient"))
	if err != nil {
		return err
	}

	a.client = client
	a.Extractor, err = a.newExtractor(client)
	return err
}

// LocalExtractor returns an extractor that stores through this process's
// submitter instead of posting to the feedback API
func (a *App) LocalExtractor() (*extractor.Extractor, error) {
	if a.Submitter == nil {
		return nil, fmt.Errorf("submitter is not initialized")
	}
	return a.newExtractor(a.Submitter)
}

func (a *App) newExtractor(submitter extractor.Submitter) (*extractor.Extractor, error) {
	policy, err := extractor.ParseMissingTurnPolicy(a.Config.MissingTurnPolicy)
	if err != nil {
		return nil, err
	}

	return extractor.New(
		qbusiness.NewClientFromConfig(a.AWSConfig),
		submitter,
		extractor.Config{
			PageSize:          a.Config.TranscriptPageSize,
			TranscriptTimeout: a.Config.TranscriptTimeout,
			Policy:            policy,
		},
		a.Logger.WithField("component", "extractor"),
	), nil
}

// EventProcessor returns the extractor as a handler dependency, or nil when disabled
func (a *App) EventProcessor() handler.EventProcessor {
	if a.Extractor == nil {
		return nil
	}
	return a.Extractor
}

// Close releases held connections
func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	log := a.Logger.WithField("port", a.Config.Port)
	log.Info("Starting chatbot feedback service")

	if location := a.storeLocation(); location != "" {
		log.Infof("Feedback store: %s/%s/feedback/", location, a.Config.GlueDatabaseName)
	}

	if a.Index != nil {
		log.Info("Feedback index: enabled (PostgreSQL)")
	}

	if a.Config.WebhookAuthToken != "" {
		log.Info("Feedback authentication: enabled (Bearer token required)")
	} else {
		log.Warn("Feedback authentication: disabled (anyone can submit feedback)")
	}

	if a.Extractor != nil {
		log.WithFields(logrus.Fields{
			"endpoint":          a.client.Endpoint(),
			"applicationId":     a.Config.QBusinessApplicationID,
			"missingTurnPolicy": a.Config.MissingTurnPolicy,
		}).Info("Audit event extractor: enabled")
	} else {
		log.Info("Audit event extractor: disabled")
	}
}

func (a *App) storeLocation() string {
	switch s := a.primary.(type) {
	case *store.S3Store:
		return "s3://" + s.Bucket()
	case *store.FileStore:
		return s.Root()
	default:
		return ""
	}
}
