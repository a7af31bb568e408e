package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/vitalvas/salmon/salmon"
	"github.com/vitalvas/salmon/webfinger"
)

// retryingDiscoverer retries transient discovery failures with exponential
// backoff. Malformed identifiers and documents, client errors and context
// cancellation are not retried.
type retryingDiscoverer struct {
	next       salmon.Discoverer
	retries    uint64
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

func newRetryingDiscoverer(next salmon.Discoverer, retries uint64, logger *zap.Logger) *retryingDiscoverer {
	return &retryingDiscoverer{
		next:    next,
		retries: retries,
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second

			return b
		},
	}
}

func (d *retryingDiscoverer) Lookup(ctx context.Context, id string) ([]*webfinger.XRD, error) {
	var descriptions []*webfinger.XRD

	b := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), d.retries), ctx)

	err := backoff.RetryNotify(func() error {
		result, err := d.next.Lookup(ctx, id)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		descriptions = result

		return nil
	}, b, func(err error, wait time.Duration) {
		d.logger.Warn("discovery failed, retrying",
			zap.String("account", id),
			zap.Duration("wait", wait),
			zap.Error(err))
	})

	return descriptions, err
}

// retryable reports whether a discovery error may succeed on a later
// attempt.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, webfinger.ErrParse), errors.Is(err, webfinger.ErrFormat):
		return false
	}

	var fetchErr *webfinger.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode >= 400 && fetchErr.StatusCode < 500 {
		return fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode == http.StatusRequestTimeout
	}

	return true
}
