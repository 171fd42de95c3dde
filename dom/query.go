package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/xpath"
)

// QueryError reports an XPath expression that could not be compiled.
type QueryError struct {
	Expr string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("dom: invalid xpath %q: %v", e.Expr, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Query evaluates an XPath 1.0 expression with the document as the context
// node and returns the matching nodes in document order. A syntactically
// invalid expression returns a *QueryError.
//
// The navigator exposes elements, attributes, text, and comments; namespace
// nodes and processing instructions are not addressable through XPath here
// and are placed into node-sets directly via NodeSet.Add.
func (d *Document) Query(expr string) (*NodeSet, error) {
	return query(d, expr, nil)
}

// QueryNS is Query with prefix bindings for prefixes used in the expression.
func (d *Document) QueryNS(expr string, ns map[string]string) (*NodeSet, error) {
	return query(d, expr, ns)
}

// Query evaluates an XPath 1.0 expression with the element as the context
// node. See Document.Query.
func (e *Element) Query(expr string) (*NodeSet, error) {
	return query(e, expr, nil)
}

// QueryNS is Query with prefix bindings for prefixes used in the expression.
func (e *Element) QueryNS(expr string, ns map[string]string) (*NodeSet, error) {
	return query(e, expr, ns)
}

func query(ctx Node, expr string, ns map[string]string) (*NodeSet, error) {
	var compiled *xpath.Expr
	var err error
	if len(ns) == 0 {
		compiled, err = xpath.Compile(expr)
	} else {
		compiled, err = xpath.CompileWithNS(expr, ns)
	}
	if err != nil {
		return nil, &QueryError{Expr: expr, Err: err}
	}

	root := rootOf(ctx)
	nav := &navigator{root: root, cur: ctx, attr: -1}
	out := NewNodeSet()
	v := compiled.Evaluate(nav)
	iter, ok := v.(*xpath.NodeIterator)
	if !ok {
		return nil, fmt.Errorf("dom: xpath %q does not evaluate to a node-set", expr)
	}
	for iter.MoveNext() {
		out.Add(iter.Current().(*navigator).node())
	}
	out.SortDocumentOrder(root)
	return out, nil
}

func rootOf(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// navigator adapts the tree to xpath.NodeNavigator. The position is a node
// plus an attribute index; attr >= 0 means the navigator sits on that
// attribute of the current element.
type navigator struct {
	root Node
	cur  Node
	attr int
}

func (n *navigator) node() Node {
	if n.attr >= 0 {
		return n.cur.(*Element).AttrAt(n.attr)
	}
	return n.cur
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr >= 0 {
		return xpath.AttributeNode
	}
	switch n.cur.(type) {
	case *Document:
		return xpath.RootNode
	case *Element:
		return xpath.ElementNode
	case *Text:
		return xpath.TextNode
	case *Comment:
		return xpath.CommentNode
	}
	return xpath.RootNode
}

func (n *navigator) LocalName() string {
	if n.attr >= 0 {
		return n.cur.(*Element).AttrAt(n.attr).LocalName()
	}
	if el, ok := n.cur.(*Element); ok {
		return el.LocalName()
	}
	return ""
}

func (n *navigator) Prefix() string {
	if n.attr >= 0 {
		return n.cur.(*Element).AttrAt(n.attr).Prefix()
	}
	if el, ok := n.cur.(*Element); ok {
		return el.Prefix()
	}
	return ""
}

// NamespaceURL lets expressions compiled with prefix bindings match on
// namespace URI rather than on the source document's prefix spelling.
func (n *navigator) NamespaceURL() string {
	if n.attr >= 0 {
		return n.cur.(*Element).AttrAt(n.attr).URI()
	}
	if el, ok := n.cur.(*Element); ok {
		return el.URI()
	}
	return ""
}

func (n *navigator) Value() string {
	if n.attr >= 0 {
		return n.cur.(*Element).AttrAt(n.attr).Value()
	}
	switch cur := n.cur.(type) {
	case *Text:
		return cur.Data()
	case *Comment:
		return cur.Data()
	default:
		return textContent(n.cur)
	}
}

func (n *navigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *navigator) MoveToRoot() {
	n.cur, n.attr = n.root, -1
}

func (n *navigator) MoveToParent() bool {
	if n.attr >= 0 {
		n.attr = -1
		return true
	}
	p := n.cur.Parent()
	if p == nil {
		return false
	}
	n.cur = p
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	el, ok := n.cur.(*Element)
	if !ok {
		return false
	}
	if n.attr+1 >= el.AttrCount() {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr >= 0 {
		return false
	}
	kids := navigableChildren(n.cur)
	if len(kids) == 0 {
		return false
	}
	n.cur = kids[0]
	return true
}

func (n *navigator) MoveToFirst() bool {
	if n.attr >= 0 {
		return false
	}
	p := n.cur.Parent()
	if p == nil {
		return false
	}
	kids := navigableChildren(p)
	if len(kids) == 0 {
		return false
	}
	n.cur = kids[0]
	return true
}

func (n *navigator) MoveToNext() bool {
	return n.moveSibling(1)
}

func (n *navigator) MoveToPrevious() bool {
	return n.moveSibling(-1)
}

func (n *navigator) moveSibling(delta int) bool {
	if n.attr >= 0 {
		return false
	}
	p := n.cur.Parent()
	if p == nil {
		return false
	}
	kids := navigableChildren(p)
	for i, k := range kids {
		if k == n.cur {
			if j := i + delta; j >= 0 && j < len(kids) {
				n.cur = kids[j]
				return true
			}
			return false
		}
	}
	return false
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}
	n.cur, n.attr = o.cur, o.attr
	return true
}

func navigableChildren(n Node) []Node {
	var count int
	var child func(i int) Node
	switch n := n.(type) {
	case *Document:
		count, child = n.ChildCount(), n.Child
	case *Element:
		count, child = n.ChildCount(), n.Child
	default:
		return nil
	}
	kids := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		switch c := child(i).(type) {
		case *Element, *Text, *Comment:
			kids = append(kids, c)
		}
	}
	return kids
}

// textContent concatenates the descendant text of a node in document order.
func textContent(n Node) string {
	var sb strings.Builder
	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch cur := cur.(type) {
		case *Text:
			sb.WriteString(cur.Data())
		case *Document:
			for i := cur.ChildCount() - 1; i >= 0; i-- {
				stack = append(stack, cur.Child(i))
			}
		case *Element:
			for i := cur.ChildCount() - 1; i >= 0; i-- {
				stack = append(stack, cur.Child(i))
			}
		}
	}
	return sb.String()
}
