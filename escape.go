package c14n

// The replacement sequences of the canonical form. The character references
// are uppercase hexadecimal with no leading zeroes, per the spec.
var (
	escAmp  = []byte("&amp;")
	escLt   = []byte("&lt;")
	escGt   = []byte("&gt;")
	escQuot = []byte("&quot;")
	escTab  = []byte("&#x9;")
	escNL   = []byte("&#xA;")
	escCR   = []byte("&#xD;")
)

// text emits character data. From the spec:
//
// "Text Nodes- the string value, except all ampersands are replaced by &amp;,
// all open angle brackets (<) are replaced by &lt;, all closing angle
// brackets (>) are replaced by &gt;, and all #xD characters are replaced by
// &#xD;."
//
// Every character needing replacement is a single byte, so the scan stays on
// bytes; multi-byte UTF-8 sequences pass through untouched.
func (r *run) text(s string) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc []byte
		switch s[i] {
		case '&':
			esc = escAmp
		case '<':
			esc = escLt
		case '>':
			esc = escGt
		case '\r':
			esc = escCR
		default:
			continue
		}
		r.w.WriteString(s[last:i])
		r.w.Write(esc)
		last = i + 1
	}
	r.w.WriteString(s[last:])
}

// attrValue emits an attribute value of CDATA (or undeclared) type. From the
// spec:
//
// "The string value of the node is modified by replacing all ampersands (&)
// with &amp;, all open angle brackets (<) with &lt;, all quotation mark
// characters with &quot;, and the whitespace characters #x9, #xA, and #xD,
// with character references."
//
// The closing angle bracket is not escaped in attribute values. Namespace
// declaration URIs take this path too.
func (r *run) attrValue(s string) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc []byte
		switch s[i] {
		case '&':
			esc = escAmp
		case '<':
			esc = escLt
		case '"':
			esc = escQuot
		case '\t':
			esc = escTab
		case '\n':
			esc = escNL
		case '\r':
			esc = escCR
		default:
			continue
		}
		r.w.WriteString(s[last:i])
		r.w.Write(esc)
		last = i + 1
	}
	r.w.WriteString(s[last:])
}

// normalizedAttrValue emits an attribute value of a tokenized type (ID,
// IDREF, NMTOKEN, ENTITY, NOTATION and their list forms): runs of #x20
// collapse to a single space and leading and trailing spaces are dropped,
// the way a validating parser normalizes such values. Tab, line feed and
// carriage return are not spaces for this purpose and still come out as
// character references.
func (r *run) normalizedAttrValue(s string) {
	pending := false
	wrote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			pending = wrote
			continue
		}
		if pending {
			r.w.WriteByte(' ')
			pending = false
		}
		wrote = true
		switch c {
		case '&':
			r.w.Write(escAmp)
		case '<':
			r.w.Write(escLt)
		case '"':
			r.w.Write(escQuot)
		case '\t':
			r.w.Write(escTab)
		case '\n':
			r.w.Write(escNL)
		case '\r':
			r.w.Write(escCR)
		default:
			r.w.WriteByte(c)
		}
	}
}
