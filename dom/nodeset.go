package dom

import "sort"

// NodeSet is an ordered selection of nodes, typically the result of a query.
// Membership is by node identity: two structurally identical nodes are
// distinct members.
type NodeSet struct {
	nodes []Node
	index map[Node]int
}

// NewNodeSet makes a set holding the given nodes in order.
func NewNodeSet(nodes ...Node) *NodeSet {
	s := &NodeSet{index: make(map[Node]int, len(nodes))}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add appends a node. Adding a node already in the set is a no-op.
func (s *NodeSet) Add(n Node) {
	if _, ok := s.index[n]; ok {
		return
	}
	s.index[n] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

func (s *NodeSet) Get(i int) Node { return s.nodes[i] }

// Contains reports membership by identity.
func (s *NodeSet) Contains(n Node) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[n]
	return ok
}

// IndexOf returns the position of n in the set, or -1.
func (s *NodeSet) IndexOf(n Node) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[n]; ok {
		return i
	}
	return -1
}

// SortDocumentOrder reorders the set into the document order of the tree
// rooted at root. An element precedes its namespace nodes, which precede its
// attributes, which precede its children. Nodes not reachable from root keep
// their relative order after all reachable ones.
func (s *NodeSet) SortDocumentOrder(root Node) {
	pos := make(map[Node]int, len(s.nodes))
	next := 0
	number := func(n Node) {
		if _, ok := pos[n]; !ok {
			pos[n] = next
			next++
		}
	}

	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		number(n)
		switch n := n.(type) {
		case *Document:
			for i := n.ChildCount() - 1; i >= 0; i-- {
				stack = append(stack, n.Child(i))
			}
		case *Element:
			for i := 0; i < n.NamespaceCount(); i++ {
				number(n.NamespaceAt(i))
			}
			for i := 0; i < n.AttrCount(); i++ {
				number(n.AttrAt(i))
			}
			for i := n.ChildCount() - 1; i >= 0; i-- {
				stack = append(stack, n.Child(i))
			}
		}
	}

	sort.SliceStable(s.nodes, func(i, j int) bool {
		pi, iok := pos[s.nodes[i]]
		pj, jok := pos[s.nodes[j]]
		if iok != jok {
			return iok
		}
		return iok && pi < pj
	})
	for i, n := range s.nodes {
		s.index[n] = i
	}
}
