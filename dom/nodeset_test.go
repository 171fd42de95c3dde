package dom_test

import (
	"testing"

	"github.com/canonxml/c14n/dom"
	"github.com/stretchr/testify/assert"
)

func TestNodeSetIdentity(t *testing.T) {
	t1 := dom.NewText("same")
	t2 := dom.NewText("same")

	set := dom.NewNodeSet(t1)
	assert.True(t, set.Contains(t1))
	assert.False(t, set.Contains(t2))
	assert.Equal(t, 0, set.IndexOf(t1))
	assert.Equal(t, -1, set.IndexOf(t2))
}

func TestNodeSetAddDeduplicates(t *testing.T) {
	n := dom.NewText("x")
	set := dom.NewNodeSet()
	set.Add(n)
	set.Add(n)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, dom.Node(n), set.Get(0))
}

func TestNodeSetNil(t *testing.T) {
	var set *dom.NodeSet
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(dom.NewText("x")))
	assert.Equal(t, -1, set.IndexOf(dom.NewText("x")))
}

func TestNodeSetSortDocumentOrder(t *testing.T) {
	doc := dom.NewDocument()
	root := dom.NewElement("", "root", "")
	doc.AppendChild(root)

	ns := root.DeclareNamespace("a", "http://a/")
	attr := dom.NewAttr("", "id", "", "1")
	root.AppendAttr(attr)

	first := dom.NewElement("", "first", "")
	root.AppendChild(first)
	text := dom.NewText("t")
	first.AppendChild(text)
	second := dom.NewElement("", "second", "")
	root.AppendChild(second)

	set := dom.NewNodeSet(second, text, attr, root, ns, first)
	set.SortDocumentOrder(doc)

	got := make([]dom.Node, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		got = append(got, set.Get(i))
	}
	assert.Equal(t, []dom.Node{root, ns, attr, first, text, second}, got)

	// the index stays consistent after sorting
	assert.Equal(t, 0, set.IndexOf(root))
	assert.Equal(t, 5, set.IndexOf(second))
}
