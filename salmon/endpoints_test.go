package salmon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/salmon/webfinger"
)

func TestEndpoints(t *testing.T) {
	ctx := context.Background()

	d := &fakeDiscoverer{docs: map[string][]*webfinger.XRD{
		"acct:bob@example.org": {
			{Links: []webfinger.Link{
				{Rel: webfinger.RelSalmon, Href: "https://example.org/salmon/bob"},
				{Rel: webfinger.RelProfilePage, Href: "https://example.org/bob"},
				{Rel: webfinger.RelSalmonMention, Href: "https://example.org/mention/bob"},
			}},
			{Links: []webfinger.Link{
				{Rel: webfinger.RelSalmon, Template: "https://example.org/salmon/{id}"},
				{Rel: webfinger.RelSalmon, Href: "https://example.org/salmon/bob"},
				{Rel: webfinger.RelSalmon, Href: "https://backup.example.org/salmon/bob"},
			}},
		},
	}}

	t.Run("salmon endpoints in order without repeats", func(t *testing.T) {
		endpoints, err := Endpoints(ctx, d, "acct:bob@example.org", webfinger.RelSalmon)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.org/salmon/bob",
			"https://backup.example.org/salmon/bob",
		}, endpoints)
	})

	t.Run("other relations", func(t *testing.T) {
		mentions, err := Endpoints(ctx, d, "acct:bob@example.org", webfinger.RelSalmonMention)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.org/mention/bob"}, mentions)

		profiles, err := Endpoints(ctx, d, "acct:bob@example.org", webfinger.RelProfilePage)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.org/bob"}, profiles)
	})

	t.Run("unknown account", func(t *testing.T) {
		endpoints, err := Endpoints(ctx, d, "acct:carol@example.org", webfinger.RelSalmon)
		require.NoError(t, err)
		assert.Empty(t, endpoints)
	})

	t.Run("lookup error", func(t *testing.T) {
		errDown := errors.New("down")

		_, err := Endpoints(ctx, &fakeDiscoverer{err: errDown}, "acct:bob@example.org", webfinger.RelSalmon)
		assert.ErrorIs(t, err, errDown)
	})
}
