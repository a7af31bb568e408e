package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalvas/salmon/magicsig"
	"github.com/vitalvas/salmon/salmon"
	"github.com/vitalvas/salmon/webfinger"
)

// readInput returns the contents of the file named by path, or stdin when
// path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// loadKey reads a key token from path, falling back to the configured key
// file.
func (a *app) loadKey(path string) (*magicsig.KeyMaterial, error) {
	if path == "" {
		path = a.cfg.KeyFile
	}

	if path == "" {
		return nil, fmt.Errorf("no key file: set --key or key_file in the config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := magicsig.ParseKey(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %s: %w", path, err)
	}

	return key, nil
}

func (a *app) protocol(resolver magicsig.KeyResolver) *magicsig.Protocol {
	return &magicsig.Protocol{
		Resolver:  resolver,
		Algorithm: a.cfg.Algorithm(),
		Padding:   a.cfg.Padding(),
	}
}

// roundTripper applies the transport hook, if any, to rt.
func (a *app) roundTripper(rt http.RoundTripper) http.RoundTripper {
	if a.wrapTransport != nil {
		return a.wrapTransport(rt)
	}

	return rt
}

// discoveryClient builds a WebFinger client from the configuration.
func (a *app) discoveryClient() *webfinger.Client {
	transport := webfinger.NewTransport(nil, webfinger.TransportConfig{
		UserAgent: "salmon/" + a.build.Version,
	})

	return webfinger.NewClient(
		webfinger.WithHTTPClient(&http.Client{
			Timeout:   a.cfg.DiscoveryTimeout(),
			Transport: a.roundTripper(transport),
		}),
		webfinger.WithScheme(a.cfg.Discovery.Scheme),
		webfinger.WithLogger(a.logger.Named("webfinger")),
	)
}

// discoverer wraps the discovery client with the configured retry budget.
func (a *app) discoverer() salmon.Discoverer {
	return newRetryingDiscoverer(a.discoveryClient(), a.cfg.DiscoveryRetries(), a.logger)
}

// keyResolver resolves signer keys through discovery, cached when a cache
// TTL is configured.
func (a *app) keyResolver() magicsig.KeyResolver {
	resolver := salmon.NewKeyResolver(a.discoverer())

	if ttl := a.cfg.CacheTTL(); ttl > 0 {
		return salmon.NewCachingResolver(resolver, ttl).Resolve
	}

	return resolver
}

func (a *app) deliveryClient() *http.Client {
	return &http.Client{
		Timeout:   a.cfg.DeliveryTimeout(),
		Transport: a.roundTripper(http.DefaultTransport),
	}
}
