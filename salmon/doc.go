// Package salmon ties Magic Signatures to discovery and delivery: it
// resolves signer keys through WebFinger, builds Atom entries, and posts
// signed envelopes to Salmon endpoints.
//
// # Verifying with Discovered Keys
//
//	client := webfinger.NewClient()
//	keys := salmon.NewCachingResolver(salmon.NewKeyResolver(client), 10*time.Minute)
//
//	protocol := &magicsig.Protocol{Resolver: keys.Resolve}
//	ok, err := protocol.Verify(ctx, env)
//
// # Sending a Salmon
//
//	entry, err := salmon.NewEntry(salmon.EntryConfig{
//	    AuthorURI: "acct:alice@example.com",
//	    Title:     "Reply",
//	    Content:   "Salmon swim upstream!",
//	})
//
//	env, err := protocol.SignMessage(entry, magicsig.AtomMediaType, "acct:alice@example.com", key)
//
//	endpoints, err := salmon.Endpoints(ctx, client, "acct:bob@example.org", webfinger.RelSalmon)
//	results := salmon.DeliverAll(ctx, http.DefaultClient, endpoints, env, 0)
package salmon
