package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"watizat/internal/auth"
	"watizat/internal/directory"
	"watizat/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePosts struct {
	mu    sync.Mutex
	seq   int
	posts []*types.Post
}

func clonePost(p *types.Post) *types.Post {
	c := *p
	c.Categories = slices.Clone(p.Categories)
	return &c
}

func (f *fakePosts) Post(_ context.Context, postID string) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.ID == postID {
			return clonePost(p), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", types.ErrPostNotFound, postID)
}

func (f *fakePosts) Posts(_ context.Context, filter types.PostFilter) ([]*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*types.Post{}
	for i := len(f.posts) - 1; i >= 0; i-- {
		p := f.posts[i]
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && filter.Category != types.CategoryAll && !slices.Contains(p.Categories, filter.Category) {
			continue
		}
		out = append(out, clonePost(p))
		if filter.Limit > 0 && uint64(len(out)) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakePosts) CreatePost(_ context.Context, post *types.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	post.ID = fmt.Sprintf("post_%d", f.seq)
	post.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	post.UpdatedAt = post.CreatedAt
	f.posts = append(f.posts, clonePost(post))
	return nil
}

func (f *fakePosts) UpdatePost(_ context.Context, post *types.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts[i] = clonePost(post)
			return nil
		}
	}
	return types.ErrPostNotFound
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*types.User
}

func (f *fakeUsers) User(_ context.Context, userID string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, user *types.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUsers) UpdateHelpCategories(_ context.Context, userID string, categories []types.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	u.HelpCategories = categories
	return nil
}

// fakeIdentity issues "token-<user id>" for every known account.
type fakeIdentity struct {
	mu        sync.Mutex
	passwords map[string]string
	subs      map[string]string
	signInErr error
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.passwords[email]; ok {
		return "", types.ErrAccountExists
	}
	f.passwords[email] = password
	f.subs[email] = "sub-" + email
	return f.subs[email], nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, types.ErrInvalidCredentials
	}
	return &auth.Session{AccessToken: "token-" + f.subs[email], ExpiresIn: 3600}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	if len(token) <= len("token-") || token[:len("token-")] != "token-" {
		return "", fmt.Errorf("%w: bad token", types.ErrUnauthenticated)
	}
	return token[len("token-"):], nil
}

type harness struct {
	t        *testing.T
	svc      *Service
	posts    *fakePosts
	users    *fakeUsers
	identity *fakeIdentity
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	locations, err := directory.Embedded()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment:    "test",
		ServerPort:     8080,
		CookieHashKey:  base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("h"), 32)),
		CookieBlockKey: base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("b"), 32)),
	}

	h := &harness{
		t:        t,
		posts:    &fakePosts{},
		users:    &fakeUsers{users: map[string]*types.User{}},
		identity: &fakeIdentity{passwords: map[string]string{}, subs: map[string]string{}},
	}

	h.svc, err = New(config, logger, locations, h.posts, h.users, h.identity, fakeVerifier{})
	require.NoError(t, err)

	return h
}

func (h *harness) addUser(id string, role types.Role, helpCategories ...types.Category) string {
	h.users.users[id] = &types.User{
		ID:             id,
		Email:          id + "@example.org",
		Name:           "User " + id,
		Role:           role,
		Languages:      []string{"fr"},
		HelpCategories: helpCategories,
	}
	return "token-" + id
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.svc.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorKindOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, rec).Error
}
