package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"watizat/internal/auth"
	"watizat/internal/directory"
	"watizat/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type PostStore interface {
	Post(ctx context.Context, postID string) (*types.Post, error)
	Posts(ctx context.Context, filter types.PostFilter) ([]*types.Post, error)
	CreatePost(ctx context.Context, post *types.Post) error
	UpdatePost(ctx context.Context, post *types.Post) error
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) error
	UpdateHelpCategories(ctx context.Context, userID string, categories []types.Category) error
}

type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name string) (string, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	locations *directory.Directory
	posts     PostStore
	users     UserStore

	identity IdentityProvider
	verifier TokenVerifier
	cookie   *securecookie.SecureCookie

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	locations *directory.Directory,
	posts PostStore,
	users UserStore,
	identity IdentityProvider,
	verifier TokenVerifier,
) (*Service, error) {
	cookie, err := newSecureCookie(config, logger)
	if err != nil {
		return nil, err
	}

	mux := flow.New()

	s := &Service{
		logger:    logger,
		config:    config,
		locations: locations,
		posts:     posts,
		users:     users,
		identity:  identity,
		verifier:  verifier,
		cookie:    cookie,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	// flow only runs middleware for matched routes, so trailing slashes are
	// handled in front of the router.
	s.handler = s.StripTrailingSlash(mux)
	s.server.Handler = s.handler

	return s, nil
}

// newSecureCookie decodes the configured keys. Without a hash key a random
// one is generated, so cookies do not survive a restart.
func newSecureCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}

	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, using an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(32)
	}

	if len(blockKey) == 0 {
		blockKey = nil
	}

	return securecookie.New(hashKey, blockKey), nil
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleBanner, http.MethodGet)
	r.HandleFunc("/api", s.handleBanner, http.MethodGet)
	r.HandleFunc("/health", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/help-locations", s.handleListLocations, http.MethodGet)
	r.HandleFunc("/api/help-locations/categories", s.handleLocationCategories, http.MethodGet)
	r.HandleFunc("/api/help-locations/nearest", s.handleNearestLocation, http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/auth/me", s.handleMe, http.MethodGet)
		r.HandleFunc("/api/auth/me/help-categories", s.handleUpdateHelpCategories, http.MethodPut)

		r.HandleFunc("/api/posts", s.handleListPosts, http.MethodGet)
		r.HandleFunc("/api/posts", s.handleCreatePost, http.MethodPost)
		r.HandleFunc("/api/posts/helpable", s.handleHelpablePosts, http.MethodGet)
		r.HandleFunc("/api/posts/:id", s.handleGetPost, http.MethodGet)
		r.HandleFunc("/api/posts/:id", s.handleUpdatePost, http.MethodPut)
	})
}

func (s *Service) handleBanner(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"service": "watizat",
		"message": "help locations and community posts for people settling in France",
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
