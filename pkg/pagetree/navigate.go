package pagetree

import "github.com/charmbracelet/log"

// Find returns the node with the given ID, or false if it does not exist.
func (t Tree) Find(id string) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FindByPageIndex returns the node bound to the given page index, or false
// if no node references that page.
func (t Tree) FindByPageIndex(pageIndex int) (Node, bool) {
	for _, n := range t.Nodes {
		if n.PageIndex == pageIndex {
			return n, true
		}
	}
	return Node{}, false
}

// Path walks the parent chain from the given node up to the root and returns
// the nodes in root-to-node order. Returns nil if the node does not exist.
// The walk is bounded by the node count, so a corrupt parent cycle
// terminates instead of looping.
func (t Tree) Path(id string) []Node {
	idx := t.index()
	i, ok := idx[id]
	if !ok {
		return nil
	}
	var reversed []Node
	for steps := 0; ; steps++ {
		if steps > len(t.Nodes) {
			log.Warn("parent chain exceeds node count, possible cycle", "node", id)
			return nil
		}
		n := t.Nodes[i]
		reversed = append(reversed, n)
		if n.ParentID == "" {
			break
		}
		i, ok = idx[n.ParentID]
		if !ok {
			break
		}
	}
	path := make([]Node, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path
}

// Descendants returns the node and every node below it in depth-first order.
// Returns nil if the node does not exist. A visited set guards against
// corrupt child cycles: a revisited ID is logged and not expanded again.
func (t Tree) Descendants(id string) []Node {
	idx := t.index()
	if _, ok := idx[id]; !ok {
		return nil
	}
	var out []Node
	visited := make(map[string]bool, len(t.Nodes))
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			log.Warn("revisited node during descendant walk, possible cycle", "node", id)
			return
		}
		visited[id] = true
		i, ok := idx[id]
		if !ok {
			return
		}
		out = append(out, t.Nodes[i])
		for _, c := range t.Nodes[i].Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether id lies in the subtree rooted at ancestorID
// (a node counts as its own descendant).
func (t Tree) IsDescendant(ancestorID, id string) bool {
	for _, n := range t.Descendants(ancestorID) {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Leaves returns every node with no children.
func (t Tree) Leaves() []Node {
	var out []Node
	for _, n := range t.Nodes {
		if len(n.Children) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Flatten traverses the tree main-route-first (child 0 before any branch)
// and returns the page indices in visit order. Virtual nodes are skipped.
// For a tree built by [NewLinear] this reproduces [0, 1, ..., n-1].
func (t Tree) Flatten() []int {
	if t.RootID == "" {
		return nil
	}
	idx := t.index()
	var out []int
	visited := make(map[string]bool, len(t.Nodes))
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			log.Warn("revisited node during flatten, possible cycle", "node", id)
			return
		}
		visited[id] = true
		i, ok := idx[id]
		if !ok {
			return
		}
		if !t.Nodes[i].IsVirtual() {
			out = append(out, t.Nodes[i].PageIndex)
		}
		for _, c := range t.Nodes[i].Children {
			walk(c)
		}
	}
	walk(t.RootID)
	return out
}
