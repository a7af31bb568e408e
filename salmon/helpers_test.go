package salmon

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitalvas/salmon/magicsig"
	"github.com/vitalvas/salmon/webfinger"
)

func newTestKey(t *testing.T) *magicsig.KeyMaterial {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := magicsig.NewKeyMaterial(priv)
	require.NoError(t, err)

	return key
}

// fakeDiscoverer answers lookups from a fixed table and counts calls.
type fakeDiscoverer struct {
	mu      sync.Mutex
	docs    map[string][]*webfinger.XRD
	err     error
	lookups []string
}

func (f *fakeDiscoverer) Lookup(_ context.Context, id string) ([]*webfinger.XRD, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups = append(f.lookups, id)

	if f.err != nil {
		return nil, f.err
	}

	return f.docs[id], nil
}

func (f *fakeDiscoverer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.lookups)
}

func keyLink(key *magicsig.KeyMaterial) webfinger.Link {
	return webfinger.Link{
		Rel:  webfinger.RelMagicPublicKey,
		Href: MagicKeyDataPrefix + key.Public().Serialize(false),
	}
}
