package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"watizat/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(role string, helpCategories ...string) map[string]any {
	return map[string]any{
		"email":           "claire@example.org",
		"password":        "TestPass123!",
		"name":            "Claire",
		"role":            role,
		"languages":       []string{"fr", "en"},
		"help_categories": helpCategories,
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/register", "", registerBody("volunteer", "legal", "housing", "legal"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[tokenResponse](t, rec)
	assert.Equal(t, "token-sub-claire@example.org", body.Token)
	assert.Equal(t, 3600, body.ExpiresIn)
	require.NotNil(t, body.User)
	assert.Equal(t, "sub-claire@example.org", body.User.ID)
	assert.Equal(t, types.RoleVolunteer, body.User.Role)
	assert.Equal(t, []types.Category{types.CategoryLegal, types.CategoryHousing}, body.User.HelpCategories)

	stored, err := h.users.User(t.Context(), body.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "en"}, stored.Languages)

	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, accessTokenCookie, rec.Result().Cookies()[0].Name)

	rec = h.do(http.MethodPost, "/api/auth/register", "", registerBody("volunteer"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "account_exists", errorKindOf(t, rec))
}

func TestRegisterWithoutImmediateSession(t *testing.T) {
	h := newHarness(t)
	h.identity.signInErr = errors.New("UserNotConfirmedException")

	rec := h.do(http.MethodPost, "/api/auth/register", "", registerBody("migrant"))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[tokenResponse](t, rec)
	assert.Empty(t, body.Token)
	require.NotNil(t, body.User)
	assert.Empty(t, body.User.HelpCategories)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRegisterRejected(t *testing.T) {
	h := newHarness(t)

	weak := registerBody("migrant")
	weak["password"] = "short"

	badEmail := registerBody("migrant")
	badEmail["email"] = "not-an-email"

	tests := []struct {
		name string
		body map[string]any
		kind string
	}{
		{"unknown role", registerBody("tourist"), "invalid_role"},
		{"admin cannot self register", registerBody("admin"), "invalid_role"},
		{"invalid help category", registerBody("volunteer", "legal", "all"), "invalid_category"},
		{"weak password", weak, "validation_failed"},
		{"bad email", badEmail, "validation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.kind, errorKindOf(t, rec))
		})
	}

	assert.Empty(t, h.users.users)
}

func TestLoginSetsCookie(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/register", "", registerBody("volunteer", "legal"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "claire@example.org", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", errorKindOf(t, rec))

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "claire@example.org", "password": "TestPass123!"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[tokenResponse](t, rec)
	assert.Equal(t, "token-sub-claire@example.org", body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "sub-claire@example.org", body.User.ID)
	assert.Equal(t, types.RoleVolunteer, body.User.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEqual(t, body.Token, cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	h.svc.Handler().ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	user := decode[types.User](t, me)
	assert.Equal(t, "sub-claire@example.org", user.ID)
	assert.Equal(t, []types.Category{types.CategoryLegal}, user.HelpCategories)
}

func TestTamperedCookieRejected(t *testing.T) {
	h := newHarness(t)
	h.addUser("amina", types.RoleMigrant)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "token-amina"})
	rec := httptest.NewRecorder()
	h.svc.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateHelpCategories(t *testing.T) {
	h := newHarness(t)
	volunteer := h.addUser("claire", types.RoleVolunteer)
	migrant := h.addUser("amina", types.RoleMigrant)

	post := h.createPost(migrant, postBody("work", "work", "education"))

	rec := h.do(http.MethodGet, "/api/posts/"+post.ID, volunteer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *decode[postJSON](t, rec).CanHelp)

	rec = h.do(http.MethodPut, "/api/auth/me/help-categories", volunteer, map[string]any{"help_categories": []string{"education", "education"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []types.Category{types.CategoryEducation}, decode[types.User](t, rec).HelpCategories)

	rec = h.do(http.MethodGet, "/api/posts/"+post.ID, volunteer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *decode[postJSON](t, rec).CanHelp)

	rec = h.do(http.MethodPut, "/api/auth/me/help-categories", volunteer, map[string]any{"help_categories": []string{"bikes"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_category", errorKindOf(t, rec))
}

func TestClassifyError(t *testing.T) {
	status, kind := classifyError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", kind)

	status, kind = classifyError(invalidPostType("x"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_post_type", kind)
}

func TestLoginWithoutProfile(t *testing.T) {
	h := newHarness(t)

	h.identity.passwords["ghost@example.org"] = "TestPass123!"
	h.identity.subs["ghost@example.org"] = "sub-ghost"

	rec := h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@example.org", "password": "TestPass123!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", errorKindOf(t, rec))
	assert.Empty(t, rec.Result().Cookies())
}
