package dom_test

import (
	"testing"

	"github.com/canonxml/c14n/dom"
	"github.com/stretchr/testify/assert"
)

func TestElementNames(t *testing.T) {
	e := dom.NewElement("p", "local", "http://p/")
	assert.Equal(t, "p", e.Prefix())
	assert.Equal(t, "local", e.LocalName())
	assert.Equal(t, "http://p/", e.URI())
	assert.Equal(t, "p:local", e.QName())

	bare := dom.NewElement("", "local", "")
	assert.Equal(t, "local", bare.QName())
}

func TestDocumentRoot(t *testing.T) {
	doc := dom.NewDocument()
	assert.Nil(t, doc.Root())

	doc.AppendChild(dom.NewComment("prolog"))
	root := dom.NewElement("", "r", "")
	doc.AppendChild(root)
	doc.AppendChild(dom.NewComment("epilog"))

	assert.Equal(t, 3, doc.ChildCount())
	assert.Equal(t, root, doc.Root())
	assert.Equal(t, dom.Node(doc), root.Parent())
	assert.Nil(t, root.ParentElement())
}

func TestAttrLookup(t *testing.T) {
	e := dom.NewElement("", "e", "")
	a := dom.NewAttr("x", "id", "http://x/", "one")
	e.AppendAttr(a)
	e.AppendAttr(dom.NewAttr("", "id", "", "two"))

	assert.Equal(t, a, e.Attr("id", "http://x/"))
	assert.Equal(t, "two", e.Attr("id", "").Value())
	assert.Nil(t, e.Attr("id", "http://other/"))
	assert.Equal(t, e, a.OwnerElement())
}

func TestLookupNamespaceURI(t *testing.T) {
	outer := dom.NewElement("", "outer", "")
	outer.DeclareNamespace("a", "http://a/")
	outer.DeclareNamespace("", "http://default/")

	inner := dom.NewElement("", "inner", "http://default/")
	inner.DeclareNamespace("a", "http://shadow/")
	outer.AppendChild(inner)

	uri, ok := inner.LookupNamespaceURI("a")
	assert.True(t, ok)
	assert.Equal(t, "http://shadow/", uri)

	uri, ok = inner.LookupNamespaceURI("")
	assert.True(t, ok)
	assert.Equal(t, "http://default/", uri)

	uri, ok = outer.LookupNamespaceURI("a")
	assert.True(t, ok)
	assert.Equal(t, "http://a/", uri)

	_, ok = outer.LookupNamespaceURI("missing")
	assert.False(t, ok)

	uri, ok = inner.LookupNamespaceURI("xml")
	assert.True(t, ok)
	assert.Equal(t, dom.XMLNamespace, uri)

	uri, ok = inner.LookupNamespaceURI("xmlns")
	assert.True(t, ok)
	assert.Equal(t, dom.XMLNSNamespace, uri)
}

func TestAttrTypeTokenized(t *testing.T) {
	assert.False(t, dom.AttrUndeclared.Tokenized())
	assert.False(t, dom.AttrCDATA.Tokenized())
	assert.True(t, dom.AttrID.Tokenized())
	assert.True(t, dom.AttrIDRefs.Tokenized())
	assert.True(t, dom.AttrNmtokens.Tokenized())
	assert.True(t, dom.AttrNotation.Tokenized())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, dom.DocumentNode, dom.NewDocument().Kind())
	assert.Equal(t, dom.ElementNode, dom.NewElement("", "e", "").Kind())
	assert.Equal(t, dom.AttributeNode, dom.NewAttr("", "a", "", "").Kind())
	assert.Equal(t, dom.TextNode, dom.NewText("t").Kind())
	assert.Equal(t, dom.CommentNode, dom.NewComment("c").Kind())
	assert.Equal(t, dom.ProcInstNode, dom.NewProcInst("t", "d").Kind())
	assert.Equal(t, dom.DocTypeNode, dom.NewDocType("d", "", "").Kind())

	e := dom.NewElement("", "e", "")
	assert.Equal(t, dom.NamespaceNode, e.DeclareNamespace("p", "http://p/").Kind())
}
