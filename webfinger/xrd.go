package webfinger

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

// XRDNamespace is the XML namespace of XRD 1.0 documents.
const XRDNamespace = "http://docs.oasis-open.org/ns/xri/xrd-1.0"

// Link relations used during discovery.
const (
	// RelLRDD marks host-meta links that lead to per-account descriptors.
	RelLRDD = "lrdd"

	// RelMagicPublicKey marks the signer's Magic Signatures public key.
	RelMagicPublicKey = "magic-public-key"

	// RelSalmon marks the account's Salmon endpoint.
	RelSalmon = "salmon"

	// RelSalmonMention marks the endpoint that accepts mention notifications.
	RelSalmonMention = "http://salmon-protocol.org/ns/salmon-mention"

	// RelProfilePage marks the account's human-readable profile.
	RelProfilePage = "http://webfinger.net/rel/profile-page"
)

// XRD is a discovery document: a subject and an ordered list of typed
// links. Host-meta and account descriptors share this shape.
type XRD struct {
	XMLName xml.Name `xml:"http://docs.oasis-open.org/ns/xri/xrd-1.0 XRD"`
	Subject string   `xml:"Subject,omitempty"`
	Aliases []string `xml:"Alias,omitempty"`
	Links   []Link   `xml:"Link"`
}

// Link is a single XRD link. A link carries either a direct Href or a URI
// Template, occasionally both.
type Link struct {
	Rel      string `xml:"rel,attr,omitempty"`
	Type     string `xml:"type,attr,omitempty"`
	Href     string `xml:"href,attr,omitempty"`
	Template string `xml:"template,attr,omitempty"`
}

// ParseXRD decodes an XRD 1.0 document. Declared charsets other than UTF-8
// are honoured.
func ParseXRD(data []byte) (*XRD, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var doc XRD
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	doc.Subject = strings.TrimSpace(doc.Subject)

	for i, alias := range doc.Aliases {
		doc.Aliases[i] = strings.TrimSpace(alias)
	}

	for i := range doc.Links {
		link := &doc.Links[i]
		link.Rel = strings.TrimSpace(link.Rel)
		link.Type = strings.TrimSpace(link.Type)
		link.Href = strings.TrimSpace(link.Href)
		link.Template = strings.TrimSpace(link.Template)
	}

	return &doc, nil
}

// Marshal renders the document as XRD 1.0 with an XML declaration.
func (x *XRD) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}

// LinksByRel returns the links whose relation equals rel, in document
// order.
func (x *XRD) LinksByRel(rel string) []Link {
	var out []Link

	for _, link := range x.Links {
		if link.Rel == rel {
			out = append(out, link)
		}
	}

	return out
}
