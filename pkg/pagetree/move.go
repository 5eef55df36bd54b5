package pagetree

import "slices"

// MoveOptions tunes the [Tree.CanMove] check.
type MoveOptions struct {
	// AllowDescendant permits a target inside the source's own subtree.
	// Because the move operations leave the source's children behind, such
	// a move cannot form a cycle; the flag exists for drag targets adjacent
	// to the source's descendants. The target may still never be the source
	// itself.
	AllowDescendant bool
}

// CanMove reports whether the node srcID may be attached under dstID.
// The root is immovable, a node can never be moved onto itself, and unless
// AllowDescendant is set the target must lie outside the source's subtree.
// Unknown IDs are never movable.
func (t Tree) CanMove(srcID, dstID string, opts MoveOptions) bool {
	if srcID == dstID {
		return false
	}
	if _, ok := t.Find(srcID); !ok {
		return false
	}
	if _, ok := t.Find(dstID); !ok {
		return false
	}
	if srcID == t.RootID {
		return false
	}
	if !opts.AllowDescendant && t.IsDescendant(srcID, dstID) {
		return false
	}
	return true
}

// MoveToInsertPosition relocates srcID to become dstID's new first child,
// with dstID's former first child re-parented as srcID's sole child. This
// mirrors [Tree.Insert] for a pre-existing node.
//
// The source's own children do not travel with it: they are re-attached at
// the slot the source occupied in its old parent's children list. If the
// source was the root, its first child is promoted to new root first.
// Callers gate moves with [Tree.CanMove]; unknown IDs and src == dst are
// no-ops here.
func (t Tree) MoveToInsertPosition(srcID, dstID string) Tree {
	if !t.moveArgsOK(srcID, dstID) {
		return t
	}
	out := t.clone()
	detachNode(&out, srcID)
	idx := out.index()
	si, di := idx[srcID], idx[dstID]
	out.Nodes[si].ParentID = dstID
	if len(out.Nodes[di].Children) > 0 {
		first := out.Nodes[di].Children[0]
		out.Nodes[si].Children = []string{first}
		if fi, ok := idx[first]; ok {
			out.Nodes[fi].ParentID = srcID
		}
		out.Nodes[di].Children[0] = srcID
	} else {
		out.Nodes[di].Children = []string{srcID}
	}
	return out
}

// MoveToParent relocates srcID to become the last child of dstID, opening a
// new branch rather than splicing into the trunk. Detach semantics match
// [Tree.MoveToInsertPosition]: the source's children stay behind in its old
// slot. Unknown IDs and src == dst are no-ops.
func (t Tree) MoveToParent(srcID, dstID string) Tree {
	if !t.moveArgsOK(srcID, dstID) {
		return t
	}
	out := t.clone()
	detachNode(&out, srcID)
	idx := out.index()
	out.Nodes[idx[srcID]].ParentID = dstID
	out.Nodes[idx[dstID]].Children = append(out.Nodes[idx[dstID]].Children, srcID)
	return out
}

// MoveWithRightSiblings relocates srcID together with every sibling to its
// right, in original order, as new trailing children of dstID. Unlike the
// single-node moves the whole subtree under each moved sibling travels with
// it, so every member of the run must pass [Tree.CanMove] against the
// target; otherwise the call is a no-op.
func (t Tree) MoveWithRightSiblings(srcID, dstID string) Tree {
	idx := t.index()
	si, ok := idx[srcID]
	if !ok {
		return t
	}
	if _, ok := idx[dstID]; !ok {
		return t
	}
	parentID := t.Nodes[si].ParentID
	if parentID == "" {
		return t
	}
	pi := idx[parentID]
	pos := slices.Index(t.Nodes[pi].Children, srcID)
	if pos < 0 {
		return t
	}
	run := t.Nodes[pi].Children[pos:]
	for _, id := range run {
		if !t.CanMove(id, dstID, MoveOptions{}) {
			return t
		}
	}

	out := t.clone()
	idx = out.index()
	moved := append([]string(nil), run...)
	out.Nodes[idx[parentID]].Children = out.Nodes[idx[parentID]].Children[:pos]
	for _, id := range moved {
		out.Nodes[idx[id]].ParentID = dstID
	}
	out.Nodes[idx[dstID]].Children = append(out.Nodes[idx[dstID]].Children, moved...)
	return out
}

// Reorder moves srcID next to dstID among dstID's siblings: immediately
// before it when before is set, immediately after otherwise. Within a shared
// parent this is a pure sibling reshuffle. Across parents the source travels
// with its subtree, guarded by a descendant check so the move cannot close a
// cycle. The root can never be reordered. Invalid arguments are no-ops.
func (t Tree) Reorder(srcID, dstID string, before bool) Tree {
	if srcID == dstID || srcID == t.RootID {
		return t
	}
	idx := t.index()
	si, ok := idx[srcID]
	if !ok {
		return t
	}
	di, ok := idx[dstID]
	if !ok {
		return t
	}
	srcParent := t.Nodes[si].ParentID
	dstParent := t.Nodes[di].ParentID
	if srcParent == "" {
		return t
	}
	if dstParent == "" {
		// Target is the root; there is no sibling list to join.
		return t
	}
	if srcParent != dstParent && t.IsDescendant(srcID, dstParent) {
		return t
	}

	out := t.clone()
	idx = out.index()
	spi, ok := idx[srcParent]
	if !ok {
		return t
	}
	dpi, ok := idx[dstParent]
	if !ok {
		return t
	}
	out.Nodes[spi].Children = slices.DeleteFunc(out.Nodes[spi].Children, func(s string) bool {
		return s == srcID
	})
	pos := slices.Index(out.Nodes[dpi].Children, dstID)
	if pos < 0 {
		return t
	}
	if !before {
		pos++
	}
	out.Nodes[idx[srcID]].ParentID = dstParent
	out.Nodes[dpi].Children = slices.Insert(out.Nodes[dpi].Children, pos, srcID)
	return out
}

// moveArgsOK applies the shared no-op conditions for the single-node moves.
func (t Tree) moveArgsOK(srcID, dstID string) bool {
	if srcID == dstID {
		return false
	}
	if _, ok := t.Find(srcID); !ok {
		return false
	}
	if _, ok := t.Find(dstID); !ok {
		return false
	}
	return true
}
