package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// AuthMiddleware validates the Bearer token on feedback endpoints
type AuthMiddleware struct {
	authToken string
	logger    logrus.FieldLogger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authToken string, logger logrus.FieldLogger) *AuthMiddleware {
	return &AuthMiddleware{
		authToken: authToken,
		logger:    logger,
	}
}

// Enabled reports whether a token is required
func (m *AuthMiddleware) Enabled() bool {
	return m.authToken != ""
}

// Authenticate validates the Bearer token in the request
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If no auth token is configured, skip authentication
		if m.authToken == "" {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, r, "Unauthorized: Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(w, r, "Unauthorized: Invalid Authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.authToken)) != 1 {
			m.reject(w, r, "Unauthorized: Invalid token")
			return
		}

		next(w, r)
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, reason string) {
	m.logger.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	}).Warn(reason)
	http.Error(w, reason, http.StatusUnauthorized)
}
