package pagetree

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUnknownParent is returned by [Tree.AddBranch] and [Tree.Insert] when
	// the named parent node does not exist. Unlike the no-op behavior of the
	// other mutations, a missing attach point is a programmer error and fails
	// loudly.
	ErrUnknownParent = errors.New("unknown parent node")
)

// SchemaVersion is the schema tag carried by every [Tree] value. It is
// written into the legacy JSON wire form and bumped only on incompatible
// format changes.
const SchemaVersion = 1

// VirtualPageIndex marks a node that is not backed by any page in the
// external page sequence. Virtual nodes are synthetic attachment points
// (for example a virtual root unifying several top-level branches) and are
// skipped by [Tree.Flatten].
const VirtualPageIndex = -1

// Node is a single vertex of the page tree. Nodes reference each other by
// opaque ID into the flat node list of a [Tree] rather than by pointer, so a
// Node value can be copied freely.
//
// Children is ordered: index 0 is the main route (the path a default
// depth-first flatten follows), every later index is an alternative branch.
type Node struct {
	ID        string   `json:"id" bson:"id"`
	ParentID  string   `json:"parentId,omitempty" bson:"parent_id,omitempty"` // "" for the root
	PageIndex int      `json:"pageIndex" bson:"page_index"`                   // index into the external page sequence, or VirtualPageIndex
	Children  []string `json:"childrenIds" bson:"children"`
}

// IsVirtual reports whether the node has no backing page.
func (n Node) IsVirtual() bool { return n.PageIndex == VirtualPageIndex }

// Tree is an immutable branching history of page states. Every node is
// reachable from RootID; RootID is empty only when Nodes is empty.
//
// All operations are copy-on-write: they never modify their receiver and
// always return a fresh Tree value. Previously returned trees therefore stay
// valid indefinitely, which makes it safe to retain old values in an
// undo/redo stack without aliasing hazards.
//
// The zero value is a valid empty tree.
type Tree struct {
	Nodes   []Node `json:"nodes" bson:"nodes"`
	RootID  string `json:"rootId,omitempty" bson:"root_id,omitempty"`
	Version int    `json:"version" bson:"version"`
}

// New returns an empty tree.
func New() Tree {
	return Tree{Version: SchemaVersion}
}

// NewLinear builds a tree for a freshly loaded page sequence: a strictly
// linear chain where the node for page i is the parent of the node for page
// i+1. A pageCount of zero (or less) yields an empty tree.
func NewLinear(pageCount int) Tree {
	t := New()
	if pageCount <= 0 {
		return t
	}
	t.Nodes = make([]Node, pageCount)
	prev := ""
	for i := 0; i < pageCount; i++ {
		id := NewNodeID()
		t.Nodes[i] = Node{ID: id, ParentID: prev, PageIndex: i}
		if prev != "" {
			t.Nodes[i-1].Children = []string{id}
		}
		prev = id
	}
	t.RootID = t.Nodes[0].ID
	return t
}

// NewNodeID mints a fresh opaque node identifier. IDs are unique for the
// lifetime of the process and are never part of the wire format: the codec
// re-mints them on every decode.
func NewNodeID() string {
	return uuid.NewString()
}

// Len returns the number of nodes.
func (t Tree) Len() int { return len(t.Nodes) }

// Empty reports whether the tree has no nodes.
func (t Tree) Empty() bool { return len(t.Nodes) == 0 }

// clone returns a deep copy of the tree. Children slices are copied so the
// clone shares no mutable state with the receiver.
func (t Tree) clone() Tree {
	out := Tree{RootID: t.RootID, Version: t.Version}
	if t.Nodes == nil {
		return out
	}
	out.Nodes = make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		c := n
		if n.Children != nil {
			c.Children = append([]string(nil), n.Children...)
		}
		out.Nodes[i] = c
	}
	return out
}

// index builds an id → position lookup over the node list.
func (t Tree) index() map[string]int {
	m := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		m[n.ID] = i
	}
	return m
}
