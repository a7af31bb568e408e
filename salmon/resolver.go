package salmon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalvas/salmon/magicsig"
	"github.com/vitalvas/salmon/webfinger"
)

// MagicKeyDataPrefix prefixes magic-public-key hrefs that carry the key
// inline.
const MagicKeyDataPrefix = "data:application/magic-public-key,"

// Discoverer looks up the service descriptions of an account.
// *webfinger.Client satisfies it.
type Discoverer interface {
	Lookup(ctx context.Context, id string) ([]*webfinger.XRD, error)
}

// ParseMagicKeyHref extracts the key from a
// data:application/magic-public-key,<token> href.
func ParseMagicKeyHref(href string) (*magicsig.KeyMaterial, error) {
	token, ok := strings.CutPrefix(strings.TrimSpace(href), MagicKeyDataPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyHref, href)
	}

	return magicsig.ParseKey(token)
}

// NewKeyResolver returns a KeyResolver that discovers signer keys through
// d. The first magic-public-key link, across all service descriptions in
// order, whose href holds a parseable inline key wins.
func NewKeyResolver(d Discoverer) magicsig.KeyResolver {
	return func(ctx context.Context, signerURI string) (*magicsig.KeyMaterial, error) {
		descriptions, err := d.Lookup(ctx, signerURI)
		if err != nil {
			return nil, err
		}

		var errs []error

		for _, xrd := range descriptions {
			for _, link := range xrd.LinksByRel(webfinger.RelMagicPublicKey) {
				key, err := ParseMagicKeyHref(link.Href)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				return key, nil
			}
		}

		if len(errs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, signerURI)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrKeyNotFound, signerURI, errors.Join(errs...))
	}
}
