package youtube

import (
	"errors"
	"fmt"

	"github.com/gauthierbraillon/tubedata/internal/jsonval"
)

// Error kinds surfaced by parsing, serialization and entity mutation.
// All errors returned by this package match one of these with errors.Is.
var (
	// ErrMissingRequired reports a required field that was absent or empty.
	ErrMissingRequired = jsonval.ErrMissing
	// ErrDuplicateField reports a field populated twice.
	ErrDuplicateField = jsonval.ErrDuplicate
	// ErrFormat reports a field that did not match its grammar.
	ErrFormat = jsonval.ErrFormat
	// ErrUnknownValue reports a token outside the closed set expected at
	// its position.
	ErrUnknownValue = errors.New("unknown value")
	// ErrNotFound reports a single-entry query whose list response held no
	// items.
	ErrNotFound = errors.New("resource not found")
	// ErrUnsupportedOperation reports an operation the service does not
	// support, such as deleting a video comment.
	ErrUnsupportedOperation = errors.New("operation not supported")
	// ErrInvalidArgument reports a caller-supplied value that failed
	// validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrQuotaExceeded reports that the daily quota or the per-client rate
	// limit was hit.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrForbidden reports an operation the credentials do not permit.
	ErrForbidden = errors.New("access forbidden")
	// ErrInvalidKey reports a rejected API key or access token.
	ErrInvalidKey = errors.New("invalid credentials")
)

func unknownValueErr(field, value string) error {
	return fmt.Errorf("%s: %w: %q", field, ErrUnknownValue, value)
}

func invalidArgErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
