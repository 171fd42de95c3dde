package c14n

import (
	"sort"

	"github.com/canonxml/c14n/dom"
	"github.com/canonxml/c14n/internal/sortattr"
)

// document emits prolog, root element, and epilog. From the spec:
//
// "a #xA is rendered after the closing PI symbol for PI children of the root
// node with a lesser document order than the document element, and a leading
// #xA is rendered before the opening PI symbol of PI children of the root
// node with a greater document order than the document element."
//
// https://www.w3.org/TR/2001/REC-xml-c14n-20010315#ProcessingModel
//
// Comments get the same placement when comments are enabled. Document type
// nodes are never emitted.
func (r *run) document(doc *dom.Document) {
	n := doc.ChildCount()
	rootIdx := -1
	var root *dom.Element
	for i := 0; i < n; i++ {
		if el, ok := doc.Child(i).(*dom.Element); ok {
			root, rootIdx = el, i
			break
		}
	}

	end := n
	if rootIdx >= 0 {
		end = rootIdx
	}
	for i := 0; i < end; i++ {
		switch c := doc.Child(i).(type) {
		case *dom.ProcInst:
			if r.inSubset(c) {
				r.procInst(c)
				r.w.WriteByte('\n')
			}
		case *dom.Comment:
			if r.comments && r.inSubset(c) {
				r.comment(c)
				r.w.WriteByte('\n')
			}
		}
	}

	if root == nil {
		return
	}
	r.element(root)

	for i := rootIdx + 1; i < n; i++ {
		switch c := doc.Child(i).(type) {
		case *dom.ProcInst:
			if r.inSubset(c) {
				r.w.WriteByte('\n')
				r.procInst(c)
			}
		case *dom.Comment:
			if r.comments && r.inSubset(c) {
				r.w.WriteByte('\n')
				r.comment(c)
			}
		}
	}
}

// frame is one level of the walker's explicit stack: the element and the
// index of the child being visited.
type frame struct {
	el    *dom.Element
	child int
}

// element walks the subtree rooted at el depth-first on an explicit stack.
// Document depth is attacker-controlled; recursion here would let a deep
// tree exhaust the goroutine stack.
func (r *run) element(el *dom.Element) {
	r.startTag(el)
	stack := make([]frame, 1, 16)
	stack[0] = frame{el: el}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.child >= f.el.ChildCount() {
			r.endTag(f.el)
			stack = stack[:len(stack)-1]
			continue
		}
		c := f.el.Child(f.child)
		f.child++
		switch c := c.(type) {
		case *dom.Element:
			r.startTag(c)
			stack = append(stack, frame{el: c})
		case *dom.Text:
			if r.inSubset(c) {
				r.text(c.Data())
			}
		case *dom.Comment:
			if r.comments && r.inSubset(c) {
				r.comment(c)
			}
		case *dom.ProcInst:
			if r.inSubset(c) {
				r.procInst(c)
			}
		}
	}
}

// startTag opens el's scope frame and, when el is part of the output, writes
// the open bracket, qualified name, namespace declarations sorted by prefix,
// attributes in canonical order, and the closing bracket. Elements outside
// the output subset write nothing but still hold a scope frame so their
// emitted descendants see the right rendered bindings.
func (r *run) startTag(el *dom.Element) {
	r.scope.Push()
	if !r.inSubset(el) {
		return
	}

	r.w.WriteByte('<')
	r.qname(el.Prefix(), el.LocalName())

	decls := r.namespacesToRender(el)
	prefixes := make([]string, 0, len(decls))
	for p := range decls {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		r.namespaceDecl(p, decls[p])
		r.scope.Declare(p, decls[p])
	}

	attrs := r.collectAttrs(el)
	sort.Stable(sortattr.SortAttr{Attrs: attrs})
	for _, a := range attrs {
		r.attribute(a)
	}
	r.w.WriteByte('>')
}

// endTag writes the close tag when el is part of the output and pops the
// scope frame pushed by the matching startTag.
func (r *run) endTag(el *dom.Element) {
	if r.inSubset(el) {
		r.w.WriteString("</")
		r.qname(el.Prefix(), el.LocalName())
		r.w.WriteByte('>')
	}
	r.scope.Pop()
}

// namespacesToRender computes the declarations to write on el's start tag,
// keyed by prefix. The scope holds only declarations rendered on emitted
// ancestors, so a lookup answers "what would this prefix mean in the output
// if nothing were written here". The empty prefix keys the default namespace
// declaration.
func (r *run) namespacesToRender(el *dom.Element) map[string]string {
	decls := map[string]string{}

	if r.set == nil {
		for i := 0; i < el.NamespaceCount(); i++ {
			ns := el.NamespaceAt(i)
			p, u := ns.Prefix(), ns.URI()
			if cur, ok := r.scope.URI(p); ok && cur == u {
				continue
			}
			if r.exclusive {
				if u == "" {
					// nothing to undeclare unless a default namespace has
					// been rendered
					if cur, ok := r.scope.URI(""); !ok || cur == "" {
						continue
					}
				}
				if r.visiblyUtilized(el, p) {
					decls[p] = u
				}
				continue
			}
			if u == "" {
				if el.ParentElement() == nil {
					continue
				}
				if cur, ok := r.scope.URI(""); !ok || cur == "" {
					continue
				}
			}
			decls[p] = u
		}
		return decls
	}

	// Subset mode. An element in no namespace must undeclare the default
	// namespace when the nearest emitted ancestor rendered a non-empty one.
	if r.set.Contains(el) && el.URI() == "" {
		if cur, ok := r.scope.URI(""); ok && cur != "" {
			decls[""] = ""
		}
	}

	// The declarations selected for el are the run of Namespace nodes
	// immediately following it in the node-set.
	if idx := r.set.IndexOf(el); idx >= 0 {
		for i := idx + 1; i < r.set.Len(); i++ {
			ns, ok := r.set.Get(i).(*dom.Namespace)
			if !ok {
				break
			}
			p, u := ns.Prefix(), ns.URI()
			if cur, ok := r.scope.URI(p); ok && cur == u {
				continue
			}
			if r.exclusive && !r.visiblyUtilized(el, p) {
				continue
			}
			decls[p] = u
		}
	}
	return decls
}

// visiblyUtilized reports whether prefix is referenced by the qualified name
// of el or of any emitted element or attribute in el's subtree, not counting
// subtrees under an element that redeclares the prefix. Redundancy against
// ancestor declarations is the caller's scope check.
func (r *run) visiblyUtilized(el *dom.Element, prefix string) bool {
	if r.usesPrefix(el, prefix) {
		return true
	}
	var stack []*dom.Element
	for i := 0; i < el.ChildCount(); i++ {
		if c, ok := el.Child(i).(*dom.Element); ok {
			stack = append(stack, c)
		}
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if redeclaresPrefix(e, prefix) {
			continue
		}
		if r.usesPrefix(e, prefix) {
			return true
		}
		for i := 0; i < e.ChildCount(); i++ {
			if c, ok := e.Child(i).(*dom.Element); ok {
				stack = append(stack, c)
			}
		}
	}
	return false
}

// usesPrefix reports whether the element's own name, or one of its emitted
// attributes, is written with the prefix. Unprefixed attributes are in no
// namespace and never count toward the default prefix.
func (r *run) usesPrefix(el *dom.Element, prefix string) bool {
	if !r.inSubset(el) {
		return false
	}
	if el.Prefix() == prefix {
		return true
	}
	if prefix == "" {
		return false
	}
	for i := 0; i < el.AttrCount(); i++ {
		a := el.AttrAt(i)
		if a.Prefix() == prefix && r.inSubset(a) {
			return true
		}
	}
	return false
}

func redeclaresPrefix(el *dom.Element, prefix string) bool {
	for i := 0; i < el.NamespaceCount(); i++ {
		if el.NamespaceAt(i).Prefix() == prefix {
			return true
		}
	}
	return false
}

// collectAttrs gathers the attributes to write on el's start tag: el's own
// attributes that are part of the output, plus, in subset mode, the xml:*
// attributes inherited from ancestors outside the subset. Exclusive
// canonicalization treats xml:* attributes as ordinary attributes and does
// not inherit them.
func (r *run) collectAttrs(el *dom.Element) []*dom.Attr {
	var attrs []*dom.Attr
	for i := 0; i < el.AttrCount(); i++ {
		if a := el.AttrAt(i); r.inSubset(a) {
			attrs = append(attrs, a)
		}
	}
	if r.set != nil && !r.exclusive && r.set.Contains(el) {
		attrs = append(attrs, r.inheritedXMLAttrs(el)...)
	}
	return attrs
}

// inheritedXMLAttrs walks ancestors nearest-first collecting the xml:*
// attributes still in force on el. An xml:* attribute el carries itself wins;
// so does a nearer ancestor's. An ancestor inside the subset contributes
// nothing because its own start tag already carries the attribute.
func (r *run) inheritedXMLAttrs(el *dom.Element) []*dom.Attr {
	seen := map[string]bool{}
	for i := 0; i < el.AttrCount(); i++ {
		if a := el.AttrAt(i); a.URI() == dom.XMLNamespace {
			seen[a.LocalName()] = true
		}
	}
	var inherited []*dom.Attr
	for p := el.ParentElement(); p != nil; p = p.ParentElement() {
		for i := 0; i < p.AttrCount(); i++ {
			a := p.AttrAt(i)
			if a.URI() != dom.XMLNamespace || seen[a.LocalName()] {
				continue
			}
			seen[a.LocalName()] = true
			if !r.set.Contains(p) {
				inherited = append(inherited, a)
			}
		}
	}
	return inherited
}

func (r *run) qname(prefix, local string) {
	if prefix != "" {
		r.w.WriteString(prefix)
		r.w.WriteByte(':')
	}
	r.w.WriteString(local)
}

func (r *run) namespaceDecl(prefix, uri string) {
	if prefix == "" {
		r.w.WriteString(` xmlns="`)
	} else {
		r.w.WriteString(" xmlns:")
		r.w.WriteString(prefix)
		r.w.WriteString(`="`)
	}
	r.attrValue(uri)
	r.w.WriteByte('"')
}

func (r *run) attribute(a *dom.Attr) {
	r.w.WriteByte(' ')
	r.qname(a.Prefix(), a.LocalName())
	r.w.WriteString(`="`)
	if a.Type().Tokenized() {
		r.normalizedAttrValue(a.Value())
	} else {
		r.attrValue(a.Value())
	}
	r.w.WriteByte('"')
}

func (r *run) comment(c *dom.Comment) {
	r.w.WriteString("<!--")
	r.w.WriteString(c.Data())
	r.w.WriteString("-->")
}

func (r *run) procInst(p *dom.ProcInst) {
	r.w.WriteString("<?")
	r.w.WriteString(p.Target())
	if p.Data() != "" {
		r.w.WriteByte(' ')
		r.w.WriteString(p.Data())
	}
	r.w.WriteString("?>")
}
