package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"watizat/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyUser contextKey = "user"

const accessTokenCookie = "watizat_access_token"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth resolves the caller from a bearer token or the access token
// cookie and stores their profile in the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := s.accessToken(r)
		if err != nil {
			s.logger.WithError(err).Debug("no usable access token")
			s.writeError(w, r, types.ErrUnauthenticated)
			return
		}

		userID, err := s.verifier.Verify(ctx, token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.users.User(ctx, userID)
		if err != nil {
			if errors.Is(err, types.ErrUserNotFound) {
				s.logger.WithField("user_id", userID).Warn("verified token for unknown user")
				err = types.ErrUnauthenticated
			}
			s.writeError(w, r, err)
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role":    user.Role,
		}).Debug("authenticated user")

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, contextKeyUser, user)))
	})
}

func (s *Service) accessToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", errors.New("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return "", err
	}

	var token string
	if err := s.cookie.Decode(accessTokenCookie, cookie.Value, &token); err != nil {
		return "", err
	}

	return token, nil
}

func userFromContext(ctx context.Context) (*types.User, error) {
	user, ok := ctx.Value(contextKeyUser).(*types.User)
	if !ok || user == nil {
		return nil, types.ErrUnauthenticated
	}
	return user, nil
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
