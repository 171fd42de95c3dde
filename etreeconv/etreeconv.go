// Package etreeconv converts beevik/etree documents into dom trees so they
// can be canonicalized.
//
// etree stores namespace declarations as xmlns pseudo-attributes and element
// and attribute namespaces as the prefix spelled in the source. The
// conversion splits the declarations out, resolves every prefix to its URI,
// and rejects trees that use prefixes with no declaration in scope.
package etreeconv

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/canonxml/c14n/dom"
)

// FromDocument converts a whole etree document. The XML declaration is
// dropped; other top-level processing instructions, comments, and a DOCTYPE
// directive carry over.
func FromDocument(src *etree.Document) (*dom.Document, error) {
	doc := dom.NewDocument()
	for _, tok := range src.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if err := convert(t, nil, doc); err != nil {
				return nil, err
			}
		case *etree.ProcInst:
			if t.Target == "xml" {
				continue
			}
			doc.AppendChild(dom.NewProcInst(t.Target, t.Inst))
		case *etree.Comment:
			doc.AppendChild(dom.NewComment(t.Data))
		case *etree.Directive:
			if fields := strings.Fields(t.Data); len(fields) >= 2 && fields[0] == "DOCTYPE" {
				doc.AppendChild(dom.NewDocType(fields[1], "", ""))
			}
		}
	}
	return doc, nil
}

// FromElement converts a subtree, detaching it under a fresh document.
// Namespace bindings the subtree inherits from etree ancestors are declared
// on the converted root so the subtree keeps its meaning on its own, the way
// signature tooling excises a signed element from its envelope.
func FromElement(src *etree.Element) (*dom.Element, error) {
	var inherited nsScope
	for p := src.Parent(); p != nil; p = p.Parent() {
		frame := declarations(p)
		if len(frame) > 0 {
			inherited = append(nsScope{frame}, inherited...)
		}
	}

	doc := dom.NewDocument()
	if err := convert(src, inherited, doc); err != nil {
		return nil, err
	}
	root := doc.Root()

	own := declarations(src)
	flat := map[string]string{}
	for _, frame := range inherited {
		for p, u := range frame {
			flat[p] = u
		}
	}
	for p, u := range flat {
		if _, redeclared := own[p]; redeclared {
			continue
		}
		if p == "" && u == "" {
			continue
		}
		root.DeclareNamespace(p, u)
	}
	return root, nil
}

// nsScope is a stack of prefix-to-URI maps, outermost first.
type nsScope []map[string]string

func (s nsScope) lookup(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return dom.XMLNamespace, true
	case "xmlns":
		return dom.XMLNSNamespace, true
	}
	for i := len(s) - 1; i >= 0; i-- {
		if u, ok := s[i][prefix]; ok {
			return u, true
		}
	}
	return "", false
}

// declarations extracts the xmlns pseudo-attributes of an etree element.
func declarations(e *etree.Element) map[string]string {
	decls := map[string]string{}
	for _, a := range e.Attr {
		switch {
		case a.Space == "" && a.Key == "xmlns":
			decls[""] = a.Value
		case a.Space == "xmlns":
			decls[a.Key] = a.Value
		}
	}
	return decls
}

type appender interface {
	AppendChild(dom.Node)
}

func convert(src *etree.Element, outer nsScope, parent appender) error {
	scope := append(outer, declarations(src))

	uri, ok := scope.lookup(src.Space)
	if src.Space != "" && !ok {
		return fmt.Errorf("etreeconv: undeclared namespace prefix %q on element %s", src.Space, src.FullTag())
	}
	el := dom.NewElement(src.Space, src.Tag, uri)

	for _, a := range src.Attr {
		switch {
		case a.Space == "" && a.Key == "xmlns":
			el.DeclareNamespace("", a.Value)
		case a.Space == "xmlns":
			el.DeclareNamespace(a.Key, a.Value)
		case a.Space == "":
			el.AppendAttr(dom.NewAttr("", a.Key, "", a.Value))
		default:
			attrURI, ok := scope.lookup(a.Space)
			if !ok {
				return fmt.Errorf("etreeconv: undeclared namespace prefix %q on attribute %s", a.Space, a.FullKey())
			}
			el.AppendAttr(dom.NewAttr(a.Space, a.Key, attrURI, a.Value))
		}
	}
	parent.AppendChild(el)

	for _, tok := range src.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if err := convert(t, scope, el); err != nil {
				return err
			}
		case *etree.CharData:
			el.AppendChild(dom.NewText(t.Data))
		case *etree.Comment:
			el.AppendChild(dom.NewComment(t.Data))
		case *etree.ProcInst:
			el.AppendChild(dom.NewProcInst(t.Target, t.Inst))
		}
	}
	return nil
}
