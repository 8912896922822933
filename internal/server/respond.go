package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"watizat/pkg/types"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorKind struct {
	target error
	status int
	kind   string
}

// errorKinds is checked in order; the first match decides the response.
var errorKinds = []errorKind{
	{types.ErrInvalidCategory, http.StatusBadRequest, "invalid_category"},
	{types.ErrTooManyCategories, http.StatusBadRequest, "too_many_categories"},
	{types.ErrEmptyCategories, http.StatusBadRequest, "empty_categories"},
	{types.ErrPrimaryNotInSet, http.StatusBadRequest, "primary_not_in_set"},
	{types.ErrInvalidPostType, http.StatusBadRequest, "invalid_post_type"},
	{types.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{types.ErrInvalidCoordinates, http.StatusBadRequest, "invalid_coordinates"},
	{types.ErrInvalidPassword, http.StatusBadRequest, "invalid_password"},
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{types.ErrPostNotFound, http.StatusNotFound, "not_found"},
	{types.ErrNoLocationFound, http.StatusNotFound, "not_found"},
	{types.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{types.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{types.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{types.ErrForbidden, http.StatusForbidden, "forbidden"},
	{types.ErrAccountExists, http.StatusConflict, "account_exists"},
}

func classifyError(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError responds with the status for err. Unclassified errors are logged
// and reported without detail.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classifyError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		message = "internal server error"
	}

	s.writeJSON(w, status, errorBody{Error: kind, Message: message})
}

func invalidPostType(value string) error {
	return fmt.Errorf("%w: %q", types.ErrInvalidPostType, value)
}

func invalidRole(value string) error {
	return fmt.Errorf("%w: %q", types.ErrInvalidRole, value)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v); err != nil {
		return badRequest("invalid json body: %s", err)
	}
	return nil
}

func decodeQuery(r *http.Request, v any) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return badRequest("invalid query: %s", err)
	}
	return nil
}
