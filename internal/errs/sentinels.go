// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across library layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCSRF indicates a missing, mismatched, or forged CSRF token.
	ErrCSRF = errors.New("CSRF token missing or invalid")

	// ErrBadRequest indicates a malformed request body (multipart, JSON, oversize).
	ErrBadRequest = errors.New("bad request")

	// ErrStorage indicates upload storage could not persist bytes.
	ErrStorage = errors.New("storage failure")

	// ErrImage indicates an image could not be decoded, resized, or encoded.
	ErrImage = errors.New("image processing failure")

	// ErrUnsupportedMedia indicates a MIME type outside the image processor's set.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrConfig indicates a missing required setting or an unparseable value.
	ErrConfig = errors.New("configuration error")

	// ErrDB indicates a database execution failure of any origin.
	ErrDB = errors.New("execution failure")
)

// NotFoundError reports that an entity of the named kind does not exist.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Entity string
}

// NewNotFound constructs a NotFoundError for entity.
func NewNotFound(entity string) *NotFoundError { return &NotFoundError{Entity: entity} }

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
