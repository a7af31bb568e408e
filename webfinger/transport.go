package webfinger

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// acceptXRD is sent on every discovery request.
	acceptXRD = "application/xrd+xml, application/xml;q=0.9, text/xml;q=0.8"

	// defaultUserAgent identifies discovery requests.
	defaultUserAgent = "salmon-webfinger/1"

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"
)

// TransportConfig configures the headers Transport adds to discovery
// requests.
type TransportConfig struct {
	// UserAgent overrides the User-Agent header. Defaults to
	// "salmon-webfinger/1".
	UserAgent string

	// GenerateRequestID returns a new correlation ID. Defaults to
	// GenerateRequestID (UUIDv7). Return "" to omit the header.
	GenerateRequestID func() string
}

// Transport is an http.RoundTripper that prepares outgoing discovery
// requests: it asks for XRD documents and stamps a User-Agent and a
// correlation ID.
type Transport struct {
	base      http.RoundTripper
	userAgent string
	requestID func() string
}

// NewTransport creates a Transport that delegates to base. When base is
// nil, a clone of http.DefaultTransport is used, giving an independent
// connection pool with default proxy, TLS, and timeout settings.
func NewTransport(base *http.Transport, cfg TransportConfig) *Transport {
	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	requestID := cfg.GenerateRequestID
	if requestID == nil {
		requestID = GenerateRequestID
	}

	return &Transport{
		base:      rt,
		userAgent: userAgent,
		requestID: requestID,
	}
}

// RoundTrip adds the discovery headers and delegates to the base
// transport. The original request is cloned so the caller's headers are
// not mutated; headers the caller already set are kept.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", acceptXRD)
	}

	if clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}

	if clone.Header.Get(RequestIDHeader) == "" {
		if id := t.requestID(); id != "" {
			clone.Header.Set(RequestIDHeader, id)
		}
	}

	return t.base.RoundTrip(clone)
}

// GenerateRequestID returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
func GenerateRequestID() string {
	return uuid.Must(uuid.NewV7()).String()
}
