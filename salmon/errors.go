package salmon

import (
	"errors"
	"fmt"
)

// Key discovery errors.
var (
	// ErrKeyNotFound is returned when no usable magic-public-key link is
	// published for a signer.
	ErrKeyNotFound = errors.New("salmon: magic public key not found")

	// ErrKeyHref is returned when a magic-public-key href is not an inline
	// data URL.
	ErrKeyHref = errors.New("salmon: unsupported magic public key href")
)

// Entry errors.
var (
	// ErrEntryAuthor is returned when an entry is built without an author URI.
	ErrEntryAuthor = errors.New("salmon: entry requires an author uri")
)

// DeliveryError reports a Salmon endpoint that rejected an envelope.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("salmon: %s rejected envelope: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("salmon: %s rejected envelope: status %d", e.Endpoint, e.StatusCode)
}
