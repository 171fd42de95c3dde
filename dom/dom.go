// Package dom is a read-only-oriented XML node tree for canonicalization.
//
// The tree distinguishes the node kinds the XPath data model distinguishes:
// documents, elements, attributes, text, comments, processing instructions,
// document types, and namespace declarations. Namespace declarations are not
// attributes; they live in their own per-element list and are materialized as
// Namespace nodes so they can be members of a NodeSet.
package dom

// Namespace URIs bound to the reserved prefixes on every element.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Kind identifies the type of a Node.
type Kind int

const (
	DocumentNode Kind = iota + 1
	ElementNode
	AttributeNode
	TextNode
	CommentNode
	ProcInstNode
	DocTypeNode
	NamespaceNode
)

// Node is any member of the tree. Node values of the concrete pointer types
// compare by identity, which is what NodeSet membership relies on.
type Node interface {
	Kind() Kind
	Parent() Node
}

// AttrType is the DTD-declared type of an attribute. Parsers that do not read
// a DTD leave attributes as AttrUndeclared, which canonicalization treats the
// same as AttrCDATA.
type AttrType int

const (
	AttrUndeclared AttrType = iota
	AttrCDATA
	AttrID
	AttrIDRef
	AttrIDRefs
	AttrEntity
	AttrEntities
	AttrNmtoken
	AttrNmtokens
	AttrNotation
)

// Tokenized reports whether values of the type get the whitespace
// normalization DTD-aware parsers apply to tokenized attribute types.
func (t AttrType) Tokenized() bool {
	return t != AttrUndeclared && t != AttrCDATA
}

// Document is the root of a tree: an ordered sequence of top-level children
// holding at most one element plus any comments, processing instructions, and
// an optional document type.
type Document struct {
	children []Node
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Kind() Kind { return DocumentNode }
func (d *Document) Parent() Node { return nil }

func (d *Document) ChildCount() int { return len(d.children) }
func (d *Document) Child(i int) Node { return d.children[i] }

// Root returns the document element, or nil if none has been attached.
func (d *Document) Root() *Element {
	for _, c := range d.children {
		if el, ok := c.(*Element); ok {
			return el
		}
	}
	return nil
}

func (d *Document) AppendChild(n Node) {
	n.(parented).setParent(d)
	d.children = append(d.children, n)
}

// Element is a named node with attributes, namespace declarations made on
// this element, and an ordered list of children.
type Element struct {
	prefix string
	local  string
	uri    string

	attrs    []*Attr
	decls    []*Namespace
	children []Node
	parent   Node
}

// NewElement makes a detached element. The prefix is the one that appeared in
// the source document; uri is the namespace the name is in, empty for none.
func NewElement(prefix, local, uri string) *Element {
	return &Element{prefix: prefix, local: local, uri: uri}
}

func (e *Element) Kind() Kind { return ElementNode }

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// ParentElement returns the parent if it is an element, nil otherwise.
func (e *Element) ParentElement() *Element {
	el, _ := e.parent.(*Element)
	return el
}

func (e *Element) Prefix() string { return e.prefix }
func (e *Element) LocalName() string { return e.local }
func (e *Element) URI() string { return e.uri }

// QName returns the qualified name as it appeared in the source document.
func (e *Element) QName() string {
	if e.prefix == "" {
		return e.local
	}
	return e.prefix + ":" + e.local
}

func (e *Element) AttrCount() int { return len(e.attrs) }
func (e *Element) AttrAt(i int) *Attr { return e.attrs[i] }

// Attr returns the attribute with the given local name and namespace URI, or
// nil if the element has no such attribute.
func (e *Element) Attr(local, uri string) *Attr {
	for _, a := range e.attrs {
		if a.local == local && a.uri == uri {
			return a
		}
	}
	return nil
}

func (e *Element) AppendAttr(a *Attr) {
	a.owner = e
	e.attrs = append(e.attrs, a)
}

func (e *Element) NamespaceCount() int { return len(e.decls) }
func (e *Element) NamespaceAt(i int) *Namespace { return e.decls[i] }

// DeclareNamespace records a namespace declaration made on this element and
// returns its Namespace node. An empty URI with an empty prefix records
// xmlns="", the undeclaration of the default namespace.
func (e *Element) DeclareNamespace(prefix, uri string) *Namespace {
	ns := &Namespace{prefix: prefix, uri: uri, owner: e}
	e.decls = append(e.decls, ns)
	return ns
}

func (e *Element) ChildCount() int { return len(e.children) }
func (e *Element) Child(i int) Node { return e.children[i] }

func (e *Element) AppendChild(n Node) {
	n.(parented).setParent(e)
	e.children = append(e.children, n)
}

// LookupNamespaceURI resolves a prefix against the declarations in scope on
// this element, walking self and ancestors. The xml and xmlns prefixes are
// permanently bound. ok is false if the prefix is not bound in scope.
func (e *Element) LookupNamespaceURI(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return XMLNamespace, true
	case "xmlns":
		return XMLNSNamespace, true
	}
	for el := e; el != nil; el = el.ParentElement() {
		for _, ns := range el.decls {
			if ns.prefix == prefix {
				return ns.uri, true
			}
		}
	}
	return "", false
}

func (e *Element) setParent(p Node) { e.parent = p }

// Attr is an attribute of an element. Namespace declarations are never
// represented as attributes.
type Attr struct {
	prefix string
	local  string
	uri    string
	value  string
	typ    AttrType
	owner  *Element
}

// NewAttr makes a detached attribute of type AttrUndeclared.
func NewAttr(prefix, local, uri, value string) *Attr {
	return &Attr{prefix: prefix, local: local, uri: uri, value: value}
}

func (a *Attr) Kind() Kind { return AttributeNode }

func (a *Attr) Parent() Node {
	if a.owner == nil {
		return nil
	}
	return a.owner
}

func (a *Attr) OwnerElement() *Element { return a.owner }

func (a *Attr) Prefix() string { return a.prefix }
func (a *Attr) LocalName() string { return a.local }
func (a *Attr) URI() string { return a.uri }
func (a *Attr) Value() string { return a.value }
func (a *Attr) Type() AttrType { return a.typ }

func (a *Attr) QName() string {
	if a.prefix == "" {
		return a.local
	}
	return a.prefix + ":" + a.local
}

// SetType assigns the DTD-declared type. Callers with access to DTD
// information set this after parsing; it changes how the canonical form
// normalizes the value.
func (a *Attr) SetType(t AttrType) { a.typ = t }

func (a *Attr) setParent(p Node) { a.owner, _ = p.(*Element) }

// Namespace is a namespace declaration made on an element. As a member of a
// NodeSet it means "this declaration is selected on this element".
type Namespace struct {
	prefix string
	uri    string
	owner  *Element
}

func (n *Namespace) Kind() Kind { return NamespaceNode }

func (n *Namespace) Parent() Node {
	if n.owner == nil {
		return nil
	}
	return n.owner
}

func (n *Namespace) Prefix() string { return n.prefix }
func (n *Namespace) URI() string { return n.uri }

func (n *Namespace) setParent(p Node) { n.owner, _ = p.(*Element) }

// Text is character data.
type Text struct {
	data   string
	parent Node
}

func NewText(data string) *Text { return &Text{data: data} }

func (t *Text) Kind() Kind { return TextNode }
func (t *Text) Parent() Node { return t.parent }
func (t *Text) Data() string { return t.data }
func (t *Text) setParent(p Node) { t.parent = p }

// Comment is a comment node.
type Comment struct {
	data   string
	parent Node
}

func NewComment(data string) *Comment { return &Comment{data: data} }

func (c *Comment) Kind() Kind { return CommentNode }
func (c *Comment) Parent() Node { return c.parent }
func (c *Comment) Data() string { return c.data }
func (c *Comment) setParent(p Node) { c.parent = p }

// ProcInst is a processing instruction.
type ProcInst struct {
	target string
	data   string
	parent Node
}

func NewProcInst(target, data string) *ProcInst {
	return &ProcInst{target: target, data: data}
}

func (p *ProcInst) Kind() Kind { return ProcInstNode }
func (p *ProcInst) Parent() Node { return p.parent }
func (p *ProcInst) Target() string { return p.target }
func (p *ProcInst) Data() string { return p.data }
func (p *ProcInst) setParent(n Node) { p.parent = n }

// DocType is a document type declaration. Canonical forms never contain one;
// it is carried so a parsed document round-trips through the tree.
type DocType struct {
	name     string
	publicID string
	systemID string
	parent   Node
}

func NewDocType(name, publicID, systemID string) *DocType {
	return &DocType{name: name, publicID: publicID, systemID: systemID}
}

func (d *DocType) Kind() Kind { return DocTypeNode }
func (d *DocType) Parent() Node { return d.parent }
func (d *DocType) Name() string { return d.name }
func (d *DocType) PublicID() string { return d.publicID }
func (d *DocType) SystemID() string { return d.systemID }
func (d *DocType) setParent(n Node) { d.parent = n }

type parented interface {
	setParent(Node)
}
