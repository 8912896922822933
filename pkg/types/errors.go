package types

import "errors"

var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrTooManyCategories  = errors.New("too many categories")
	ErrEmptyCategories    = errors.New("empty categories")
	ErrPrimaryNotInSet    = errors.New("primary category not in category set")
	ErrInvalidPostType    = errors.New("invalid post type")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	ErrPostNotFound      = errors.New("post not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNoLocationFound   = errors.New("no help location found")
	ErrDuplicateLocation = errors.New("duplicate help location id")

	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidPassword    = errors.New("password does not meet requirements")
)
