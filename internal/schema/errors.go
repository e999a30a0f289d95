package schema

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a user-correctable problem with a candidate
// field: an empty name or a case-insensitive name collision. The
// operation that produced it has not mutated the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports an operation against a field id the store does
// not hold. A stale id is an integrity problem, not a retryable one.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("field %s not found", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// Generation-time validation failures. Raised only by
// ValidatedSnapshot; the caller must fix the schema before retrying.
var (
	ErrEmptySchema  = errors.New("schema has no fields")
	ErrNoPrimaryKey = errors.New("no field is marked as primary key")
)
