package webfinger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// A simplified RFC 2822 addr-spec: dot-atom local part and domain. Letters
// and digits from any script are allowed so that internationalized domains
// reach the IDNA conversion.
const (
	atext   = `[\p{L}\p{N}_!#$%&'*+\-/=?^` + "`" + `{|}~]`
	dotAtom = `(?:` + atext + `+(?:\.` + atext + `+)*)`
)

var addrSpecRe = regexp.MustCompile(`^(` + dotAtom + `)@(` + dotAtom + `)$`)

// templateVariables are the placeholders substituted in lrdd templates.
var templateVariables = []string{"{uri}", "{%uri}", "{id}", "{%id}"}

// Account is an identifier split into its local part and domain.
type Account struct {
	// ID is the identifier without any acct: scheme.
	ID string

	// LocalPart is the portion before the @.
	LocalPart string

	// Domain is the host name, converted to its ASCII (punycode) form.
	Domain string
}

// ParseAccount strips an acct: or acct:// prefix from id and splits the
// remainder into local part and domain. Identifiers that do not match the
// local-part@domain grammar yield ErrParse.
func ParseAccount(id string) (*Account, error) {
	id = stripAcct(strings.TrimSpace(id))

	m := addrSpecRe.FindStringSubmatch(id)
	if m == nil {
		return nil, fmt.Errorf("%w: %q is not local-part@domain", ErrParse, id)
	}

	domain, err := idna.Lookup.ToASCII(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: domain %q: %v", ErrParse, m[2], err)
	}

	return &Account{ID: id, LocalPart: m[1], Domain: domain}, nil
}

// stripAcct removes a leading acct:// or acct: scheme.
func stripAcct(id string) string {
	if rest, ok := strings.CutPrefix(id, "acct://"); ok {
		return rest
	}

	if rest, ok := strings.CutPrefix(id, "acct:"); ok {
		return rest
	}

	return id
}

// Interpolate replaces every {id}, {%id}, {uri} and {%uri} placeholder in
// template with the percent-encoded identifier.
func Interpolate(template, id string) string {
	escaped := quote(id)

	for _, variable := range templateVariables {
		template = strings.ReplaceAll(template, variable, escaped)
	}

	return template
}

// quote percent-encodes s for use inside a URL, leaving slashes intact.
func quote(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")

	return strings.ReplaceAll(escaped, "%2F", "/")
}
