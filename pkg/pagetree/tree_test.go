package pagetree

import (
	"reflect"
	"testing"
)

// node builds a Node literal for hand-assembled test trees.
func node(id, parent string, page int, children ...string) Node {
	return Node{ID: id, ParentID: parent, PageIndex: page, Children: children}
}

// linear3 is a hand-built root→n1→n2 chain over pages 0..2.
func linear3() Tree {
	return Tree{
		Nodes: []Node{
			node("r", "", 0, "n1"),
			node("n1", "r", 1, "n2"),
			node("n2", "n1", 2),
		},
		RootID:  "r",
		Version: SchemaVersion,
	}
}

// branched is a root with a trunk child and a branch child, each with one leaf:
//
//	r ─ a ─ c
//	  └ b ─ d
func branched() Tree {
	return Tree{
		Nodes: []Node{
			node("r", "", 0, "a", "b"),
			node("a", "r", 1, "c"),
			node("b", "r", 3, "d"),
			node("c", "a", 2),
			node("d", "b", 4),
		},
		RootID:  "r",
		Version: SchemaVersion,
	}
}

func TestNewLinear(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		wantNodes int
		wantRoot  bool
	}{
		{name: "Empty", pageCount: 0, wantNodes: 0},
		{name: "Negative", pageCount: -3, wantNodes: 0},
		{name: "Single", pageCount: 1, wantNodes: 1, wantRoot: true},
		{name: "Chain", pageCount: 5, wantNodes: 5, wantRoot: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewLinear(tt.pageCount)

			if got := tr.Len(); got != tt.wantNodes {
				t.Fatalf("Len() = %d, want %d", got, tt.wantNodes)
			}
			if (tr.RootID != "") != tt.wantRoot {
				t.Errorf("RootID = %q, want root present = %v", tr.RootID, tt.wantRoot)
			}
			for _, n := range tr.Nodes {
				if len(n.Children) > 1 {
					t.Errorf("node %q has %d children, want at most 1", n.ID, len(n.Children))
				}
			}
			if res := tr.Validate(); !res.Valid {
				t.Errorf("Validate() problems = %v", res.Problems)
			}
		})
	}
}

func TestFlattenReproducesPageOrder(t *testing.T) {
	for _, count := range []int{1, 2, 7} {
		tr := NewLinear(count)
		got := tr.Flatten()
		if len(got) != count {
			t.Fatalf("Flatten() of %d pages = %v", count, got)
		}
		for i, pi := range got {
			if pi != i {
				t.Errorf("Flatten()[%d] = %d, want %d", i, pi, i)
			}
		}
	}
}

func TestFlattenMainRouteFirst(t *testing.T) {
	got := branched().Flatten()
	want := []int{0, 1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestFlattenSkipsVirtualNodes(t *testing.T) {
	tr := Tree{
		Nodes: []Node{
			node("v", "", VirtualPageIndex, "a", "b"),
			node("a", "v", 0),
			node("b", "v", 1),
		},
		RootID:  "v",
		Version: SchemaVersion,
	}
	got := tr.Flatten()
	want := []int{0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := branched()
	dup := orig.clone()
	dup.Nodes[0].Children[0] = "mutated"
	if orig.Nodes[0].Children[0] != "a" {
		t.Error("mutating a clone leaked into the original")
	}
}

func TestNewNodeIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewNodeID()
		if id == "" || seen[id] {
			t.Fatalf("NewNodeID() produced duplicate or empty id %q", id)
		}
		seen[id] = true
	}
}
