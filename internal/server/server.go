package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/internal/handler"
	"github.com/valentinpelus/chatbot-feedback/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server
type Server struct {
	port            string
	feedbackHandler *handler.FeedbackHandler
	eventHandler    *handler.EventHandler
	authMiddleware  *middleware.AuthMiddleware
	logger          logrus.FieldLogger
}

// New creates a new HTTP server. processor may be nil, in which case the
// audit event route is not registered.
func New(port string, authToken string, submitter handler.Submitter, processor handler.EventProcessor, logger logrus.FieldLogger) *Server {
	s := &Server{
		port:            port,
		feedbackHandler: handler.NewFeedbackHandler(submitter, logger),
		authMiddleware:  middleware.NewAuthMiddleware(authToken, logger),
		logger:          logger,
	}
	if processor != nil {
		s.eventHandler = handler.NewEventHandler(processor, logger)
	}
	return s
}

// Routes builds the request multiplexer
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/feedback", s.authMiddleware.Authenticate(s.feedbackHandler.HandleFeedback))
	if s.eventHandler != nil {
		mux.HandleFunc("/events/qbusiness", s.authMiddleware.Authenticate(s.eventHandler.HandleEvent))
	}
	mux.HandleFunc("/health", handler.HandleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on :%s", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
