package salmon

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/salmon/magicsig"
)

// EntryConfig describes an Atom entry to be sent as a Salmon.
type EntryConfig struct {
	// ID of the entry. Defaults to a random urn:uuid.
	ID string

	// AuthorName is the display name of the author.
	AuthorName string

	// AuthorURI identifies the author and must name the signer. A bare
	// user@domain is normalized to acct:user@domain.
	AuthorURI string

	Title   string
	Content string

	// InReplyTo is the id of the entry this one responds to, if any.
	InReplyTo string

	// Updated defaults to the current time.
	Updated time.Time
}

type atomEntry struct {
	XMLName   xml.Name       `xml:"http://www.w3.org/2005/Atom entry"`
	ID        string         `xml:"id"`
	Author    atomAuthor     `xml:"author"`
	Title     string         `xml:"title"`
	Content   atomContent    `xml:"content"`
	Updated   string         `xml:"updated"`
	InReplyTo *atomInReplyTo `xml:"http://purl.org/syndication/thread/1.0 in-reply-to,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name,omitempty"`
	URI  string `xml:"uri"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type atomInReplyTo struct {
	Ref string `xml:"ref,attr"`
}

// NewEntry renders cfg as a standalone Atom entry document suitable for
// Protocol.SignMessage.
func NewEntry(cfg EntryConfig) ([]byte, error) {
	authorURI := strings.TrimSpace(cfg.AuthorURI)
	if authorURI == "" {
		return nil, ErrEntryAuthor
	}

	id := cfg.ID
	if id == "" {
		id = "urn:uuid:" + uuid.NewString()
	}

	updated := cfg.Updated
	if updated.IsZero() {
		updated = time.Now()
	}

	entry := atomEntry{
		ID: id,
		Author: atomAuthor{
			Name: cfg.AuthorName,
			URI:  magicsig.Normalize(authorURI),
		},
		Title:   cfg.Title,
		Content: atomContent{Type: "text", Text: cfg.Content},
		Updated: updated.UTC().Format(time.RFC3339),
	}

	if cfg.InReplyTo != "" {
		entry.InReplyTo = &atomInReplyTo{Ref: cfg.InReplyTo}
	}

	body, err := xml.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
