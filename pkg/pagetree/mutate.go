package pagetree

import (
	"slices"
	"sort"
)

// AddBranch appends a fresh leaf node for the given page as the last child
// of parentID, opening a new alternative continuation from that point.
// Returns ErrUnknownParent if parentID does not resolve.
func (t Tree) AddBranch(parentID string, pageIndex int) (Tree, error) {
	idx := t.index()
	pi, ok := idx[parentID]
	if !ok {
		return t, ErrUnknownParent
	}
	out := t.clone()
	id := NewNodeID()
	out.Nodes[pi].Children = append(out.Nodes[pi].Children, id)
	out.Nodes = append(out.Nodes, Node{ID: id, ParentID: parentID, PageIndex: pageIndex})
	return out, nil
}

// Insert splices a fresh node for the given page between parentID and its
// first child. The former first child is re-parented under the new node;
// any other children stay attached to the parent. Only the main route is
// rerouted through the new node. Returns ErrUnknownParent if parentID does
// not resolve.
func (t Tree) Insert(parentID string, pageIndex int) (Tree, error) {
	idx := t.index()
	pi, ok := idx[parentID]
	if !ok {
		return t, ErrUnknownParent
	}
	out := t.clone()
	id := NewNodeID()
	n := Node{ID: id, ParentID: parentID, PageIndex: pageIndex}
	if len(out.Nodes[pi].Children) > 0 {
		first := out.Nodes[pi].Children[0]
		n.Children = []string{first}
		if fi, ok := idx[first]; ok {
			out.Nodes[fi].ParentID = id
		}
		out.Nodes[pi].Children[0] = id
	} else {
		out.Nodes[pi].Children = []string{id}
	}
	out.Nodes = append(out.Nodes, n)
	return out, nil
}

// Remove deletes the node with the given ID. With cascade, the whole subtree
// below it goes too; without, its children are re-parented to its former
// parent at the exact position the node occupied, so sibling order is
// preserved.
//
// Removing an unknown ID is a no-op, as is removing the sole remaining node.
// When the root is removed without cascade its first child is promoted to
// root and the remaining children become trailing children of the new root;
// with cascade the tree becomes empty.
func (t Tree) Remove(id string, cascade bool) Tree {
	idx := t.index()
	if _, ok := idx[id]; !ok {
		return t
	}
	if len(t.Nodes) == 1 {
		return t
	}

	if cascade {
		if id == t.RootID {
			return Tree{Version: t.Version}
		}
		doomed := make(map[string]bool)
		for _, n := range t.Descendants(id) {
			doomed[n.ID] = true
		}
		out := Tree{RootID: t.RootID, Version: t.Version}
		for _, n := range t.Nodes {
			if doomed[n.ID] {
				continue
			}
			c := n
			c.Children = slices.DeleteFunc(append([]string(nil), n.Children...), func(s string) bool {
				return doomed[s]
			})
			out.Nodes = append(out.Nodes, c)
		}
		return out
	}

	out := t.clone()
	detachNode(&out, id)
	i := out.index()[id]
	out.Nodes = append(out.Nodes[:i], out.Nodes[i+1:]...)
	return out
}

// detachNode unhooks the node from its parent in place, re-parenting its
// children into the slot it occupied. If the node is the root, its first
// child is promoted to new root and the remaining children are appended to
// the new root's own children. Afterwards the node floats free with no
// parent and no children; the caller either deletes it or re-attaches it.
func detachNode(t *Tree, id string) {
	idx := t.index()
	i := idx[id]
	children := t.Nodes[i].Children

	if t.Nodes[i].ParentID == "" {
		if len(children) > 0 {
			first := children[0]
			fi := idx[first]
			t.Nodes[fi].ParentID = ""
			t.RootID = first
			for _, c := range children[1:] {
				if ci, ok := idx[c]; ok {
					t.Nodes[ci].ParentID = first
				}
				t.Nodes[fi].Children = append(t.Nodes[fi].Children, c)
			}
		}
	} else if pi, ok := idx[t.Nodes[i].ParentID]; ok {
		for _, c := range children {
			if ci, ok := idx[c]; ok {
				t.Nodes[ci].ParentID = t.Nodes[i].ParentID
			}
		}
		pos := slices.Index(t.Nodes[pi].Children, id)
		if pos < 0 {
			// Parent does not list the node; nothing to splice out.
			t.Nodes[pi].Children = append(t.Nodes[pi].Children, children...)
		} else {
			spliced := make([]string, 0, len(t.Nodes[pi].Children)-1+len(children))
			spliced = append(spliced, t.Nodes[pi].Children[:pos]...)
			spliced = append(spliced, children...)
			spliced = append(spliced, t.Nodes[pi].Children[pos+1:]...)
			t.Nodes[pi].Children = spliced
		}
	}

	t.Nodes[i].ParentID = ""
	t.Nodes[i].Children = nil
}

// RemapPageIndices rewrites every node's page index through the old → new
// map. Nodes whose current index is absent from the map are left unchanged.
// The map is deliberately not validated for full coverage or bijectivity;
// a partial map produces a partially remapped tree.
func (t Tree) RemapPageIndices(m map[int]int) Tree {
	out := t.clone()
	for i := range out.Nodes {
		if next, ok := m[out.Nodes[i].PageIndex]; ok {
			out.Nodes[i].PageIndex = next
		}
	}
	return out
}

// InsertPage couples an insertion into the external page sequence to the
// tree: every node whose page index is at or beyond insertIndex shifts up by
// one, and a fresh node for the inserted page is spliced between the node
// for parentPageIndex and its former first child, exactly like [Tree.Insert].
// Returns ErrUnknownParent if no node is bound to parentPageIndex.
func (t Tree) InsertPage(insertIndex, parentPageIndex int) (Tree, error) {
	parent, ok := t.FindByPageIndex(parentPageIndex)
	if !ok {
		return t, ErrUnknownParent
	}
	out := t.clone()
	for i := range out.Nodes {
		if out.Nodes[i].PageIndex >= insertIndex {
			out.Nodes[i].PageIndex++
		}
	}
	return out.Insert(parent.ID, insertIndex)
}

// PageInsert describes one page insertion for [Tree.InsertPages].
type PageInsert struct {
	Index           int // position the new page takes in the page sequence
	ParentPageIndex int // page whose node becomes the new node's parent
}

// InsertPages applies a batch of page insertions in order.
func (t Tree) InsertPages(inserts []PageInsert) (Tree, error) {
	out := t
	for _, ins := range inserts {
		var err error
		if out, err = out.InsertPage(ins.Index, ins.ParentPageIndex); err != nil {
			return t, err
		}
	}
	return out, nil
}

// RemovePage couples a removal from the external page sequence to the tree:
// the node bound to removeIndex is excised with its children re-parented
// (per [Tree.Remove] without cascade), then every node whose page index lies
// beyond removeIndex shifts down by one. Unknown indices are a no-op, as is
// removing the last remaining page.
func (t Tree) RemovePage(removeIndex int) Tree {
	n, ok := t.FindByPageIndex(removeIndex)
	if !ok {
		return t
	}
	if len(t.Nodes) == 1 {
		return t
	}
	out := t.Remove(n.ID, false)
	for i := range out.Nodes {
		if out.Nodes[i].PageIndex > removeIndex {
			out.Nodes[i].PageIndex--
		}
	}
	return out
}

// RemovePages removes a batch of pages. Indices are processed from highest
// to lowest so earlier removals don't shift the targets of later ones.
func (t Tree) RemovePages(indices []int) Tree {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	out := t
	for _, i := range sorted {
		out = out.RemovePage(i)
	}
	return out
}
