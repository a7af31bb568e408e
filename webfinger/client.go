package webfinger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	// WellKnownPath is where a domain publishes its host-meta document.
	WellKnownPath = "/.well-known/host-meta"

	// DefaultMaxDocumentSize caps the size of fetched discovery documents.
	DefaultMaxDocumentSize = 1 << 20
)

// Client resolves account identifiers to their service descriptions using
// the two-hop host-meta/LRDD discovery protocol. A Client holds no
// per-lookup state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	scheme     string
	maxSize    int64
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for fetches. Timeouts and
// redirects are governed by this client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithScheme sets the scheme of the host-meta URL. Defaults to "https".
func WithScheme(scheme string) Option {
	return func(cl *Client) {
		cl.scheme = scheme
	}
}

// WithLogger sets the logger for fetch diagnostics. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// WithMaxDocumentSize limits how many bytes of a discovery document are
// read. Larger documents are rejected with ErrFormat.
func WithMaxDocumentSize(n int64) Option {
	return func(cl *Client) {
		cl.maxSize = n
	}
}

// NewClient creates a Client. Without WithHTTPClient it uses an
// http.Client backed by NewTransport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		scheme:  "https",
		maxSize: DefaultMaxDocumentSize,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: NewTransport(nil, TransportConfig{})}
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

// HostMetaURL returns the host-meta URL for domain.
func (c *Client) HostMetaURL(domain string) string {
	u := url.URL{Scheme: c.scheme, Host: domain, Path: WellKnownPath}
	return u.String()
}

// Lookup discovers the service descriptions of the account id.
//
// The domain-level host-meta document is fetched first; failure to fetch
// or parse it aborts the lookup. Each lrdd link of host-meta is then
// resolved, templates first, and fetched in order. Failures of individual
// links are logged and skipped, so the result may be shorter than the
// number of links, including empty. Cancellation of ctx is never skipped:
// it aborts the lookup with a *FetchError wrapping ctx.Err().
func (c *Client) Lookup(ctx context.Context, id string) ([]*XRD, error) {
	account, err := ParseAccount(id)
	if err != nil {
		return nil, err
	}

	links, err := c.serviceLinks(ctx, account.Domain)
	if err != nil {
		return nil, err
	}

	var descriptions []*XRD

	for _, link := range links {
		for _, target := range serviceURLs(link, account.ID) {
			desc, err := c.fetchXRD(ctx, target)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, &FetchError{URL: target, Err: ctxErr}
				}

				c.logger.Warn("skipping service description",
					zap.String("account", account.ID),
					zap.String("url", target),
					zap.Error(err))

				continue
			}

			descriptions = append(descriptions, desc)
		}
	}

	return descriptions, nil
}

// serviceLinks fetches host-meta for domain and returns its lrdd links.
func (c *Client) serviceLinks(ctx context.Context, domain string) ([]Link, error) {
	hostMeta, err := c.fetchXRD(ctx, c.HostMetaURL(domain))
	if err != nil {
		return nil, err
	}

	return hostMeta.LinksByRel(RelLRDD), nil
}

// serviceURLs returns the URLs a service link points to for id.
func serviceURLs(link Link, id string) []string {
	var out []string

	if link.Template != "" {
		out = append(out, Interpolate(link.Template, id))
	}

	if link.Href != "" {
		out = append(out, link.Href)
	}

	return out
}

// fetchXRD fetches and parses a discovery document.
func (c *Client) fetchXRD(ctx context.Context, target string) (*XRD, error) {
	body, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	doc, err := ParseXRD(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}

	return doc, nil
}

// fetch returns the body of target on 200 OK.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	c.logger.Debug("fetching discovery document", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)

		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	if int64(len(body)) > c.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFormat, target, c.maxSize)
	}

	return body, nil
}
