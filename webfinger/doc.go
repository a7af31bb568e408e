// Package webfinger implements the two-hop discovery used to locate an
// account's Magic Signatures key and Salmon endpoints.
//
// # Discovery
//
// Lookup resolves an identifier such as "acct:alice@example.com" in two
// steps. First the domain's host-meta document is fetched from
// https://<domain>/.well-known/host-meta. Then every "lrdd" link in it is
// followed to the account's service description:
//
//	client := webfinger.NewClient(webfinger.WithLogger(logger))
//
//	descriptions, err := client.Lookup(ctx, "acct:alice@example.com")
//	if err != nil {
//	    return err
//	}
//
//	for _, xrd := range descriptions {
//	    for _, link := range xrd.LinksByRel(webfinger.RelMagicPublicKey) {
//	        fmt.Println(link.Href)
//	    }
//	}
//
// A host-meta failure aborts the lookup. Failures of individual lrdd links
// are logged and skipped, so a lookup may succeed with fewer descriptions
// than links.
//
// # Templates
//
// lrdd links may carry a URI template. The placeholders {id}, {%id}, {uri}
// and {%uri} are all replaced with the percent-encoded identifier without
// its acct: scheme. A link carrying both a template and an href yields two
// fetches, template first.
//
// # Client Transport
//
// The default HTTP client uses Transport, which sets Accept, User-Agent and
// an X-Request-ID header on each request. Supply a custom client with
// WithHTTPClient to control timeouts and redirects:
//
//	client := webfinger.NewClient(webfinger.WithHTTPClient(&http.Client{
//	    Timeout:   10 * time.Second,
//	    Transport: webfinger.NewTransport(nil, webfinger.TransportConfig{}),
//	}))
package webfinger
