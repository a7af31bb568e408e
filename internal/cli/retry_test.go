package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitalvas/salmon/webfinger"
)

type scriptedDiscoverer struct {
	errs  []error
	calls int
}

func (s *scriptedDiscoverer) Lookup(context.Context, string) ([]*webfinger.XRD, error) {
	s.calls++

	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]

		if err != nil {
			return nil, err
		}
	}

	return []*webfinger.XRD{{Subject: "acct:alice@example.com"}}, nil
}

func newTestRetrying(next *scriptedDiscoverer, retries uint64) *retryingDiscoverer {
	d := newRetryingDiscoverer(next, retries, zap.NewNop())
	d.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	return d
}

func TestRetryingDiscoverer(t *testing.T) {
	ctx := context.Background()
	unavailable := &webfinger.FetchError{URL: "https://example.com/.well-known/host-meta", StatusCode: http.StatusServiceUnavailable}

	t.Run("recovers from transient failures", func(t *testing.T) {
		next := &scriptedDiscoverer{errs: []error{unavailable, unavailable}}

		descriptions, err := newTestRetrying(next, 3).Lookup(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Len(t, descriptions, 1)
		assert.Equal(t, 3, next.calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		next := &scriptedDiscoverer{errs: []error{unavailable, unavailable, unavailable}}

		_, err := newTestRetrying(next, 2).Lookup(ctx, "alice@example.com")
		assert.ErrorIs(t, err, webfinger.ErrFetch)
		assert.Equal(t, 3, next.calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
		}{
			{"parse", fmt.Errorf("%w: bad", webfinger.ErrParse)},
			{"format", fmt.Errorf("host-meta: %w", webfinger.ErrFormat)},
			{"not found", &webfinger.FetchError{URL: "u", StatusCode: http.StatusNotFound}},
			{"cancelled", &webfinger.FetchError{URL: "u", Err: context.Canceled}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				next := &scriptedDiscoverer{errs: []error{tt.err}}

				_, err := newTestRetrying(next, 5).Lookup(ctx, "alice@example.com")
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, 1, next.calls)
			})
		}
	})
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"network", &webfinger.FetchError{URL: "u", Err: errors.New("connection refused")}, true},
		{"server error", &webfinger.FetchError{URL: "u", StatusCode: http.StatusBadGateway}, true},
		{"too many requests", &webfinger.FetchError{URL: "u", StatusCode: http.StatusTooManyRequests}, true},
		{"request timeout", &webfinger.FetchError{URL: "u", StatusCode: http.StatusRequestTimeout}, true},
		{"forbidden", &webfinger.FetchError{URL: "u", StatusCode: http.StatusForbidden}, false},
		{"deadline", &webfinger.FetchError{URL: "u", Err: context.DeadlineExceeded}, false},
		{"parse", webfinger.ErrParse, false},
		{"format", webfinger.ErrFormat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, retryable(tt.err))
		})
	}
}
