// Package sortattr orders attributes the way the canonical form requires.
package sortattr

import "github.com/canonxml/c14n/dom"

// SortAttr sorts attributes in compliance with the c14n specification.
//
// From https://www.w3.org/TR/2001/REC-xml-c14n-20010315#DocumentOrder:
//
// "An element's attribute nodes are sorted lexicographically with namespace
// URI as the primary key and local name as the secondary key (an empty
// namespace URI is lexicographically least)."
//
// Namespace declarations never appear in the slice; they are rendered
// separately, ahead of the attributes, sorted by prefix.
type SortAttr struct {
	Attrs []*dom.Attr
}

// Len implements Sort.
func (s SortAttr) Len() int {
	return len(s.Attrs)
}

// Swap implements Sort.
func (s SortAttr) Swap(i, j int) {
	s.Attrs[i], s.Attrs[j] = s.Attrs[j], s.Attrs[i]
}

// Less implements Sort.
func (s SortAttr) Less(i, j int) bool {
	a, b := s.Attrs[i], s.Attrs[j]
	if a.URI() == b.URI() {
		return a.LocalName() < b.LocalName()
	}
	if a.URI() == "" {
		return true
	}
	if b.URI() == "" {
		return false
	}
	return a.URI() < b.URI()
}
