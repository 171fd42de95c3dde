// Package c14n serializes XML node trees into the byte-exact normal forms
// defined by the W3C Canonical XML and Exclusive XML Canonicalization
// recommendations (commonly abbreviated "c14n").
//
// https://www.w3.org/TR/2001/REC-xml-c14n-20010315
// https://www.w3.org/TR/xml-exc-c14n/
//
// The output is what signature and digest pipelines consume: UTF-8, LF line
// endings, double-quoted attributes in a fixed order, no XML declaration, no
// DOCTYPE, and empty elements written as a start-tag/end-tag pair.
package c14n

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/canonxml/c14n/dom"
	"github.com/canonxml/c14n/internal/scope"
)

// The algorithm identifiers understood by NewWithAlgorithm.
const (
	// AlgorithmCanonical is Canonical XML 1.0 without comments.
	AlgorithmCanonical = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"

	// AlgorithmCanonicalWithComments is Canonical XML 1.0 with comments.
	AlgorithmCanonicalWithComments = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315#WithComments"

	// AlgorithmExclusive is Exclusive XML Canonicalization 1.0 without
	// comments, the variant the SAML and XML-DSig ecosystems default to.
	AlgorithmExclusive = "http://www.w3.org/2001/10/xml-exc-c14n#"

	// AlgorithmExclusiveWithComments is Exclusive XML Canonicalization 1.0
	// with comments.
	AlgorithmExclusiveWithComments = "http://www.w3.org/2001/10/xml-exc-c14n#WithComments"
)

var (
	// ErrUnknownAlgorithm is returned by NewWithAlgorithm for a URI that is
	// not one of the four Algorithm constants.
	ErrUnknownAlgorithm = errors.New("c14n: unknown canonicalization algorithm")

	// ErrNilAlgorithm is returned by NewWithAlgorithm when no algorithm URI
	// is given.
	ErrNilAlgorithm = errors.New("c14n: no canonicalization algorithm given")
)

// A Canonicalizer writes the canonical form of documents to an output sink.
//
// The canonicalizer never mutates the tree it serializes. It owns the sink
// for the duration of each Write call and flushes before returning; a failed
// sink surfaces as the error of the Write call, and partial output may be
// present in the sink when that happens. Concurrent Write calls on one
// Canonicalizer are undefined; separate instances are independent.
type Canonicalizer struct {
	w         *bufio.Writer
	comments  bool
	exclusive bool
}

// New returns a Canonicalizer writing to w. withComments selects whether
// comment nodes appear in the output; exclusive selects Exclusive XML
// Canonicalization.
func New(w io.Writer, withComments, exclusive bool) *Canonicalizer {
	return &Canonicalizer{
		w:         bufio.NewWriter(w),
		comments:  withComments,
		exclusive: exclusive,
	}
}

// NewWithAlgorithm returns a Canonicalizer for one of the four W3C algorithm
// URIs. It returns ErrNilAlgorithm for an empty URI and ErrUnknownAlgorithm
// for any URI that is not one of the Algorithm constants.
func NewWithAlgorithm(w io.Writer, algorithm string) (*Canonicalizer, error) {
	switch algorithm {
	case "":
		return nil, ErrNilAlgorithm
	case AlgorithmCanonical:
		return New(w, false, false), nil
	case AlgorithmCanonicalWithComments:
		return New(w, true, false), nil
	case AlgorithmExclusive:
		return New(w, false, true), nil
	case AlgorithmExclusiveWithComments:
		return New(w, true, true), nil
	}
	return nil, ErrUnknownAlgorithm
}

// Write serializes the entire document.
func (c *Canonicalizer) Write(doc *dom.Document) error {
	return c.write(doc, nil)
}

// WriteNodeSet serializes the subset of the document identified by set.
// Membership is by node identity. A nil set serializes the whole document.
func (c *Canonicalizer) WriteNodeSet(doc *dom.Document, set *dom.NodeSet) error {
	return c.write(doc, set)
}

// WriteSelected resolves an XPath 1.0 expression against the document and
// serializes the resulting node-set. ns supplies prefix bindings for prefixes
// used in the expression and may be nil. A syntactically invalid expression
// returns a *dom.QueryError.
func (c *Canonicalizer) WriteSelected(doc *dom.Document, expr string, ns map[string]string) error {
	set, err := doc.QueryNS(expr, ns)
	if err != nil {
		return err
	}
	return c.write(doc, set)
}

func (c *Canonicalizer) write(doc *dom.Document, set *dom.NodeSet) error {
	r := &run{
		w:         c.w,
		set:       set,
		comments:  c.comments,
		exclusive: c.exclusive,
	}
	r.document(doc)
	return c.w.Flush()
}

// Canonicalize returns the canonical form of a whole document under the
// given algorithm URI.
func Canonicalize(doc *dom.Document, algorithm string) ([]byte, error) {
	var buf bytes.Buffer
	c, err := NewWithAlgorithm(&buf, algorithm)
	if err != nil {
		return nil, err
	}
	if err := c.Write(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// run is the scratch state of a single write call.
type run struct {
	w         *bufio.Writer
	set       *dom.NodeSet
	scope     scope.Stack
	comments  bool
	exclusive bool
}

// inSubset reports whether a node is part of the output. With no node-set the
// whole document is.
func (r *run) inSubset(n dom.Node) bool {
	return r.set == nil || r.set.Contains(n)
}
