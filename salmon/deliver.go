package salmon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vitalvas/salmon/magicsig"
)

const (
	// DefaultDeliveryConcurrency bounds parallel posts in DeliverAll.
	DefaultDeliveryConcurrency = 4

	// maxErrorBody is how much of a rejection response is kept.
	maxErrorBody = 512
)

// Deliver posts env as a standalone envelope document to a Salmon endpoint.
// Any status outside 2xx is reported as a *DeliveryError. A nil client
// means http.DefaultClient.
func Deliver(ctx context.Context, client *http.Client, endpoint string, env *magicsig.Envelope) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(env.Marshal()))
	if err != nil {
		return fmt.Errorf("salmon: deliver to %s: %w", endpoint, err)
	}

	req.Header.Set("Content-Type", magicsig.MediaType)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("salmon: deliver to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return &DeliveryError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// Result is the outcome of delivering to one endpoint.
type Result struct {
	Endpoint string
	Err      error
}

// DeliverAll posts env to every endpoint with at most limit requests in
// flight (DefaultDeliveryConcurrency when limit <= 0). Every endpoint is
// attempted; results are returned in endpoint order.
func DeliverAll(ctx context.Context, client *http.Client, endpoints []string, env *magicsig.Envelope, limit int) []Result {
	if limit <= 0 {
		limit = DefaultDeliveryConcurrency
	}

	results := make([]Result, len(endpoints))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, endpoint := range endpoints {
		i, endpoint := i, endpoint
		g.Go(func() error {
			results[i] = Result{
				Endpoint: endpoint,
				Err:      Deliver(ctx, client, endpoint, env),
			}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
