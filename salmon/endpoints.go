package salmon

import (
	"context"

	"github.com/vitalvas/salmon/webfinger"
)

// Endpoints discovers the hrefs of rel links published for id, in
// discovery order. Repeated hrefs are reported once.
func Endpoints(ctx context.Context, d Discoverer, id, rel string) ([]string, error) {
	descriptions, err := d.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	return collectHrefs(descriptions, rel), nil
}

func collectHrefs(descriptions []*webfinger.XRD, rel string) []string {
	var out []string

	seen := make(map[string]struct{})

	for _, xrd := range descriptions {
		for _, link := range xrd.LinksByRel(rel) {
			if link.Href == "" {
				continue
			}

			if _, ok := seen[link.Href]; ok {
				continue
			}

			seen[link.Href] = struct{}{}
			out = append(out, link.Href)
		}
	}

	return out
}
