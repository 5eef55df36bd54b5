package pagetree

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tree    Tree
		valid   bool
		problem string // substring expected among the problems
	}{
		{
			name:  "Empty",
			tree:  New(),
			valid: true,
		},
		{
			name:  "Linear",
			tree:  linear3(),
			valid: true,
		},
		{
			name:  "Branched",
			tree:  branched(),
			valid: true,
		},
		{
			name: "VirtualRoot",
			tree: Tree{
				Nodes: []Node{
					node("v", "", VirtualPageIndex, "a", "b"),
					node("a", "v", 0),
					node("b", "v", 1),
				},
				RootID:  "v",
				Version: SchemaVersion,
			},
			valid: true,
		},
		{
			name: "NodesWithoutRoot",
			tree: Tree{
				Nodes:   []Node{node("a", "", 0)},
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "no root",
		},
		{
			name: "MissingRootNode",
			tree: Tree{
				Nodes:   []Node{node("a", "", 0)},
				RootID:  "ghost",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "not among the nodes",
		},
		{
			name: "MissingParent",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0, "a"),
					node("a", "r", 1),
					node("b", "ghost", 2),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "missing parent",
		},
		{
			name: "ParentDoesNotListChild",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0),
					node("a", "r", 1),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "lists child",
		},
		{
			name: "MissingChild",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0, "ghost"),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "missing child",
		},
		{
			name: "DuplicateID",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0, "a"),
					node("a", "r", 1),
					node("a", "r", 2),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "duplicate node id",
		},
		{
			name: "NegativePageIndex",
			tree: Tree{
				Nodes: []Node{
					node("r", "", -7),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "negative page index",
		},
		{
			name: "DuplicatePageIndex",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0, "a"),
					node("a", "r", 0),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "bound to both",
		},
		{
			name: "ParentCycle",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0, "a"),
					node("a", "b", 1, "b"),
					node("b", "a", 2, "a"),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "cycle suspected",
		},
		{
			name: "SecondRoot",
			tree: Tree{
				Nodes: []Node{
					node("r", "", 0),
					node("x", "", 1),
				},
				RootID:  "r",
				Version: SchemaVersion,
			},
			valid:   false,
			problem: "not the root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.tree.Validate()
			if res.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (problems: %v)", res.Valid, tt.valid, res.Problems)
			}
			if tt.problem == "" {
				return
			}
			for _, p := range res.Problems {
				if strings.Contains(p, tt.problem) {
					return
				}
			}
			t.Errorf("problems %v do not mention %q", res.Problems, tt.problem)
		})
	}
}
