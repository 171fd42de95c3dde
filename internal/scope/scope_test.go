package scope_test

import (
	"testing"

	"github.com/canonxml/c14n/internal/scope"
	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	var s scope.Stack

	_, ok := s.URI("foo")
	assert.False(t, ok)

	s.Push()
	s.Declare("foo", "http://a/")
	s.Declare("", "http://default/")

	uri, ok := s.URI("foo")
	assert.True(t, ok)
	assert.Equal(t, "http://a/", uri)

	uri, ok = s.URI("")
	assert.True(t, ok)
	assert.Equal(t, "http://default/", uri)

	s.Push()
	uri, ok = s.URI("foo")
	assert.True(t, ok)
	assert.Equal(t, "http://a/", uri)

	s.Declare("foo", "http://b/")
	uri, ok = s.URI("foo")
	assert.True(t, ok)
	assert.Equal(t, "http://b/", uri)

	s.Pop()
	uri, ok = s.URI("foo")
	assert.True(t, ok)
	assert.Equal(t, "http://a/", uri)

	s.Pop()
	assert.Equal(t, 0, s.Len())
	_, ok = s.URI("foo")
	assert.False(t, ok)
}

func TestStackEmptyURI(t *testing.T) {
	var s scope.Stack
	s.Push()
	s.Declare("", "http://default/")
	s.Push()
	s.Declare("", "")

	uri, ok := s.URI("")
	assert.True(t, ok)
	assert.Equal(t, "", uri)
}

func TestStackReservedPrefixes(t *testing.T) {
	var s scope.Stack

	uri, ok := s.URI("xml")
	assert.True(t, ok)
	assert.Equal(t, scope.XMLNamespace, uri)

	uri, ok = s.URI("xmlns")
	assert.True(t, ok)
	assert.Equal(t, scope.XMLNSNamespace, uri)

	// frames cannot shadow the reserved prefixes
	s.Push()
	s.Declare("xml", "http://wrong/")
	uri, ok = s.URI("xml")
	assert.True(t, ok)
	assert.Equal(t, scope.XMLNamespace, uri)
}
