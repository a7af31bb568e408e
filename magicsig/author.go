package magicsig

import "strings"

// Normalize turns a user-supplied identifier into an account URI.
//
// Identifiers that already carry an http, https or acct scheme are returned
// trimmed but otherwise unchanged. A bare user@domain becomes
// acct:user@domain, and anything else is assumed to be a web address.
func Normalize(raw string) string {
	id := strings.TrimSpace(raw)

	for _, scheme := range []string{"http:", "https:", "acct:"} {
		if strings.HasPrefix(id, scheme) {
			return id
		}
	}

	if strings.Index(id, "@") > 0 {
		return "acct:" + id
	}

	return "http://" + id
}

// FirstAuthor returns the normalized URI of the first author of an Atom
// entry. Only the first author block in document order is considered, even
// when the entry lists several. An empty string is returned when the
// document is not an entry, has no author, or its first author has no uri.
func FirstAuthor(content []byte) (string, error) {
	root, err := parseTree(content)
	if err != nil {
		return "", err
	}

	return firstAuthor(root), nil
}

func firstAuthor(root *node) string {
	if root.name.Local != "entry" {
		return ""
	}

	authors := root.descendants("", "author")
	if len(authors) == 0 {
		return ""
	}

	uris := authors[0].descendants("", "uri")
	if len(uris) == 0 {
		return ""
	}

	uri := strings.TrimSpace(uris[0].text.String())
	if uri == "" {
		return ""
	}

	return Normalize(uri)
}

// CheckAuthorship reports whether claimed, once normalized, is the first
// author of content. It does not check any signature.
func CheckAuthorship(content []byte, claimed string) (bool, error) {
	author, err := FirstAuthor(content)
	if err != nil {
		return false, err
	}

	return author != "" && author == Normalize(claimed), nil
}
