package webfinger

import (
	"errors"
	"fmt"
)

// Identifier errors.
var (
	// ErrParse is returned when an identifier does not have the
	// local-part@domain shape required for discovery.
	ErrParse = errors.New("webfinger: cannot parse identifier")
)

// Document errors.
var (
	// ErrFetch is matched by every *FetchError.
	ErrFetch = errors.New("webfinger: fetch failed")

	// ErrFormat is returned when a discovery document cannot be parsed.
	ErrFormat = errors.New("webfinger: malformed discovery document")
)

// FetchError describes a discovery document that could not be retrieved,
// either because the request failed or because the server answered with a
// status other than 200 OK.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webfinger: could not fetch %s: %v", e.URL, e.Err)
	}

	return fmt.Sprintf("webfinger: could not fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
