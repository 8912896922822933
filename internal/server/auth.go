package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"watizat/internal/taxonomy"
	"watizat/pkg/types"

	"github.com/sirupsen/logrus"
)

type registerRequest struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Languages      []string `json:"languages"`
	HelpCategories []string `json:"help_categories"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type helpCategoriesRequest struct {
	HelpCategories []string `json:"help_categories"`
}

type tokenResponse struct {
	Token     string      `json:"token,omitempty"`
	ExpiresIn int         `json:"expires_in,omitempty"`
	User      *types.User `json:"user,omitempty"`
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(req *registerRequest) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required."
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	password := req.Password
	if len(password) < 12 ||
		!hasUpperReg.MatchString(password) ||
		!hasLowerReg.MatchString(password) ||
		!hasDigitReg.MatchString(password) ||
		!hasSymbolReg.MatchString(password) {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol."
	}

	return errs
}

// parseHelpCategories validates and de-duplicates a volunteer's help
// categories. Any number is allowed, including none.
func parseHelpCategories(values []string) ([]types.Category, error) {
	parsed, err := taxonomy.ParseAll(values)
	if err != nil {
		return nil, err
	}
	return taxonomy.Dedupe(parsed), nil
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	role := types.Role(req.Role)
	if !role.Valid() || role == types.RoleAdmin {
		s.writeError(w, r, invalidRole(req.Role))
		return
	}

	helpCategories, err := parseHelpCategories(req.HelpCategories)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if fieldErrs := validateRegisterInput(&req); len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during registration")
		s.writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "validation_failed",
			Message: "Please fix the highlighted fields.",
			Fields:  fieldErrs,
		})
		return
	}

	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)

	userID, err := s.identity.SignUp(ctx, email, req.Password, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := &types.User{
		ID:             userID,
		Email:          email,
		Name:           name,
		Role:           role,
		Languages:      req.Languages,
		HelpCategories: helpCategories,
	}
	if user.Languages == nil {
		user.Languages = []string{}
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")

	resp := tokenResponse{User: user}

	// Pools that require email confirmation refuse the first sign in; the
	// client then logs in after confirming.
	session, err := s.identity.SignIn(ctx, email, req.Password)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Info("sign in after registration failed")
	} else {
		resp.Token = session.AccessToken
		resp.ExpiresIn = session.ExpiresIn
		s.setAccessTokenCookie(w, session.AccessToken, session.ExpiresIn)
	}

	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()

	session, err := s.identity.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := s.verifier.Verify(ctx, session.AccessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// A Cognito account without a stored profile cannot use the API.
	user, err := s.users.User(ctx, sub)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			err = fmt.Errorf("%w: no profile for account", types.ErrInvalidCredentials)
		}
		s.writeError(w, r, err)
		return
	}

	s.setAccessTokenCookie(w, session.AccessToken, session.ExpiresIn)

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: session.AccessToken, ExpiresIn: session.ExpiresIn, User: user})
}

func (s *Service) setAccessTokenCookie(w http.ResponseWriter, token string, expiresIn int) {
	encrypted, err := s.cookie.Encode(accessTokenCookie, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    encrypted,
		HttpOnly: true,
		Secure:   s.config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateHelpCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := userFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req helpCategoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	categories, err := parseHelpCategories(req.HelpCategories)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.UpdateHelpCategories(ctx, user.ID, categories); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated := *user
	updated.HelpCategories = categories

	s.writeJSON(w, http.StatusOK, &updated)
}
