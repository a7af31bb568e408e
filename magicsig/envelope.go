package magicsig

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Namespace is the XML namespace of Magic Envelope elements.
	Namespace = "http://salmon-protocol.org/ns/magic-env"

	// EncodingBase64URL is the only data encoding defined for envelopes.
	EncodingBase64URL = "base64url"

	// MediaType is the media type of a standalone envelope document.
	MediaType = "application/magic-envelope+xml"

	// AtomMediaType is the media type of Atom entries carried in envelopes.
	AtomMediaType = "application/atom+xml"
)

// Envelope holds the fields of a Magic Envelope. Sig is computed over the
// exact bytes of Data as encoded, never over the decoded content.
type Envelope struct {
	Data     string
	Encoding string
	DataType string
	Alg      string
	Sig      string
}

// Content decodes Data back into the wrapped document.
func (e *Envelope) Content() ([]byte, error) {
	if e.Encoding != EncodingBase64URL {
		return nil, fmt.Errorf("%w: unsupported data encoding %q", ErrFormat, e.Encoding)
	}

	raw, err := decodeB64(strings.Join(strings.Fields(e.Data), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: data is not base64url: %v", ErrFormat, err)
	}

	return raw, nil
}

// Parse reads an envelope from either a standalone me:env document or an
// Atom entry carrying a single me:provenance element. For an entry, the
// provenance element is searched among all descendants of the root, not
// only its direct children. Exactly one data, alg and sig element must be
// in scope.
func Parse(text []byte) (*Envelope, error) {
	root, err := parseTree(text)
	if err != nil {
		return nil, err
	}

	var env *node

	switch {
	case root.name.Space == Namespace && root.name.Local == "env":
		env = root
	case root.name.Local == "entry":
		env, err = root.single(Namespace, "provenance")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized root element %q", ErrFormat, root.name.Local)
	}

	data, err := env.single(Namespace, "data")
	if err != nil {
		return nil, err
	}

	alg, err := env.single(Namespace, "alg")
	if err != nil {
		return nil, err
	}

	sig, err := env.single(Namespace, "sig")
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Data:     strings.TrimSpace(data.text.String()),
		Encoding: strings.TrimSpace(data.attr("encoding")),
		DataType: strings.TrimSpace(data.attr("type")),
		Alg:      strings.TrimSpace(alg.text.String()),
		Sig:      strings.TrimSpace(sig.text.String()),
	}, nil
}

// Marshal renders e as a standalone envelope document.
func (e *Envelope) Marshal() []byte {
	var b bytes.Buffer

	b.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	b.WriteString("<me:env xmlns:me='" + Namespace + "'>\n")
	writeEnvelopeFields(&b, e, "  ", "\n")
	b.WriteString("</me:env>\n")

	return b.Bytes()
}

// provenance renders e as an me:provenance element.
func (e *Envelope) provenance() []byte {
	var b bytes.Buffer

	b.WriteString("<me:provenance xmlns:me='" + Namespace + "'>")
	writeEnvelopeFields(&b, e, "", "")
	b.WriteString("</me:provenance>")

	return b.Bytes()
}

func writeEnvelopeFields(b *bytes.Buffer, e *Envelope, indent, newline string) {
	b.WriteString(indent + "<me:data type='")
	escape(b, e.DataType)
	b.WriteString("' encoding='")
	escape(b, e.Encoding)
	b.WriteString("'>")
	escape(b, e.Data)
	b.WriteString("</me:data>" + newline)

	b.WriteString(indent + "<me:alg>")
	escape(b, e.Alg)
	b.WriteString("</me:alg>" + newline)

	b.WriteString(indent + "<me:sig>")
	escape(b, e.Sig)
	b.WriteString("</me:sig>" + newline)
}

func escape(b *bytes.Buffer, s string) {
	// Writes to a bytes.Buffer cannot fail.
	_ = xml.EscapeText(b, []byte(s))
}

// Unfold decodes the envelope data, which must be a single Atom entry, and
// appends an me:provenance element carrying the envelope fields as the last
// child of the entry. The rest of the document is returned byte for byte.
func Unfold(e *Envelope) ([]byte, error) {
	content, err := e.Content()
	if err != nil {
		return nil, err
	}

	root, err := parseTree(content)
	if err != nil {
		return nil, err
	}

	if root.name.Local != "entry" {
		return nil, fmt.Errorf("%w: envelope data is not an entry, got %q", ErrFormat, root.name.Local)
	}

	if len(root.descendants(Namespace, "provenance")) > 0 {
		return nil, fmt.Errorf("%w: entry already carries a provenance element", ErrFormat)
	}

	start, end, err := rootEndTag(content)
	if err != nil {
		return nil, err
	}

	prov := e.provenance()

	var out bytes.Buffer
	out.Grow(len(content) + len(prov) + 16)

	if start == end {
		// Self-closing root: <entry .../> becomes <entry ...>prov</entry>.
		selfClose := bytes.LastIndex(content[:end], []byte("/>"))
		if selfClose < 0 {
			return nil, fmt.Errorf("%w: cannot locate end of root element", ErrFormat)
		}

		out.Write(content[:selfClose])
		out.WriteByte('>')
		out.Write(prov)
		out.WriteString("</" + rootQName(content) + ">")
		out.Write(content[end:])

		return out.Bytes(), nil
	}

	out.Write(content[:start])
	out.Write(prov)
	out.Write(content[start:])

	return out.Bytes(), nil
}

// rootEndTag returns the byte offsets at which the root end tag starts and
// ends. For a self-closing root both offsets equal the end of the start tag.
// Offsets are only meaningful on untranscoded input, so documents declaring
// a charset other than UTF-8 are rejected here. A leading byte-order mark
// is skipped and counted in the offsets.
func rootEndTag(content []byte) (int, int, error) {
	body := bytes.TrimPrefix(content, utf8BOM)
	skipped := len(content) - len(body)

	dec := xml.NewDecoder(bytes.NewReader(body))
	depth := 0

	for {
		before := int(dec.InputOffset())

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return 0, 0, fmt.Errorf("%w: no root element", ErrFormat)
		}
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrFormat, err)
		}

		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return skipped + before, skipped + int(dec.InputOffset()), nil
			}
		}
	}
}

// rootQName returns the qualified name of the root element as written.
func rootQName(content []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))

	for {
		tok, err := dec.RawToken()
		if err != nil {
			return "entry"
		}

		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Space != "" {
				return se.Name.Space + ":" + se.Name.Local
			}

			return se.Name.Local
		}
	}
}
