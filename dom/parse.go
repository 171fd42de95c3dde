package dom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Parse builds a Document from XML text. It reads raw tokens so that
// namespace declarations stay distinct from ordinary attributes, resolving
// prefixes itself as the tree grows. Documents in legacy encodings are
// converted through the charset reader; the tree always holds UTF-8.
//
// Attribute types come out as AttrUndeclared since no DTD is read; callers
// holding DTD information can assign types afterwards.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := NewDocument()
	var open []*Element

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			if len(open) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return doc, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Space, t.Name.Local, "")
			var plain []xml.Attr
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					el.DeclareNamespace("", a.Value)
				case a.Name.Space == "xmlns":
					el.DeclareNamespace(a.Name.Local, a.Value)
				default:
					plain = append(plain, a)
				}
			}
			if len(open) > 0 {
				open[len(open)-1].AppendChild(el)
			} else {
				doc.AppendChild(el)
			}
			uri, ok := el.LookupNamespaceURI(el.prefix)
			if el.prefix != "" && !ok {
				return nil, fmt.Errorf("dom: undeclared namespace prefix %q on element %s", el.prefix, el.QName())
			}
			el.uri = uri
			for _, a := range plain {
				attrURI := ""
				if a.Name.Space != "" {
					u, ok := el.LookupNamespaceURI(a.Name.Space)
					if !ok {
						return nil, fmt.Errorf("dom: undeclared namespace prefix %q on attribute %s", a.Name.Space, a.Name.Local)
					}
					attrURI = u
				}
				el.AppendAttr(NewAttr(a.Name.Space, a.Name.Local, attrURI, a.Value))
			}
			open = append(open, el)

		case xml.EndElement:
			if len(open) == 0 {
				return nil, fmt.Errorf("dom: unexpected end tag </%s>", rawName(t.Name))
			}
			top := open[len(open)-1]
			if t.Name.Space != top.prefix || t.Name.Local != top.local {
				return nil, fmt.Errorf("dom: end tag </%s> does not match <%s>", rawName(t.Name), top.QName())
			}
			open = open[:len(open)-1]

		case xml.CharData:
			if len(open) == 0 {
				// whitespace between top-level nodes carries no information
				continue
			}
			open[len(open)-1].AppendChild(NewText(string(t)))

		case xml.Comment:
			c := NewComment(string(t))
			if len(open) > 0 {
				open[len(open)-1].AppendChild(c)
			} else {
				doc.AppendChild(c)
			}

		case xml.ProcInst:
			if t.Target == "xml" && len(open) == 0 {
				// the XML declaration is not a node of the tree
				continue
			}
			pi := NewProcInst(t.Target, string(t.Inst))
			if len(open) > 0 {
				open[len(open)-1].AppendChild(pi)
			} else {
				doc.AppendChild(pi)
			}

		case xml.Directive:
			if len(open) == 0 {
				if dt := parseDocType(string(t)); dt != nil {
					doc.AppendChild(dt)
				}
			}
		}
	}
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// parseDocType extracts the name and external identifiers from a DOCTYPE
// directive. Internal subsets are not interpreted. Returns nil if the
// directive is not a DOCTYPE.
func parseDocType(s string) *DocType {
	fields := strings.Fields(s)
	if len(fields) < 2 || fields[0] != "DOCTYPE" {
		return nil
	}
	name := fields[1]
	rest := strings.TrimSpace(s[len("DOCTYPE"):])
	rest = strings.TrimSpace(rest[len(name):])

	var publicID, systemID string
	switch {
	case strings.HasPrefix(rest, "PUBLIC"):
		rest = strings.TrimSpace(rest[len("PUBLIC"):])
		publicID, rest = takeLiteral(rest)
		systemID, _ = takeLiteral(strings.TrimSpace(rest))
	case strings.HasPrefix(rest, "SYSTEM"):
		rest = strings.TrimSpace(rest[len("SYSTEM"):])
		systemID, _ = takeLiteral(rest)
	}
	return NewDocType(name, publicID, systemID)
}

func takeLiteral(s string) (string, string) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return "", s
	}
	quote := s[0]
	if end := strings.IndexByte(s[1:], quote); end >= 0 {
		return s[1 : end+1], s[end+2:]
	}
	return "", s
}
