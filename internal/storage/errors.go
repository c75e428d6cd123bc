// ABOUTME: Shared error values for the storage layer
// ABOUTME: Lets callers classify failures without importing the sqlite package
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrThreadNotFound is returned when a thread id does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrMessageNotFound is returned when a message id does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrConstraint is returned when a uniqueness constraint is
	// violated (duplicate thread name or id collision). Not retried.
	ErrConstraint = errors.New("constraint violation")

	// ErrAmbiguousID is returned when a short id prefix matches more
	// than one record.
	ErrAmbiguousID = errors.New("ambiguous short id")
)

// AmbiguousIDError reports how many records matched a short id prefix.
func AmbiguousIDError(shortID string, count int) error {
	return fmt.Errorf("%w: %q matched %d records", ErrAmbiguousID, shortID, count)
}
