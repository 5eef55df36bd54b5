// Package layout assigns 2-D coordinates to page-tree nodes for
// visualization.
//
// The layout is a depth-first walk from the root: x is the depth (edge count
// from the root) and y is the lane. A node's main-route child inherits its
// parent's lane; every branch child is allocated a fresh lane from a single
// monotonically increasing counter, so lanes are never reused. Callers size
// their viewport from MaxDepth and MaxLane.
package layout

import (
	"github.com/charmbracelet/log"

	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

// Position is the grid coordinate of one node: X is depth, Y is lane.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Edge is one parent → child connection. Branch is set when the child is not
// the parent's main-route continuation (child index > 0).
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Branch bool   `json:"branch,omitempty" bson:"branch,omitempty"`
}

// Layout is the computed visualization geometry for a tree.
type Layout struct {
	Positions map[string]Position `json:"positions" bson:"positions"`
	Edges     []Edge              `json:"edges" bson:"edges"`
	MaxDepth  int                 `json:"maxDepth" bson:"max_depth"`
	MaxLane   int                 `json:"maxLane" bson:"max_lane"`
}

// Calculate produces the layout for the tree. A corrupt tree with a child
// cycle yields a partial layout: the revisited branch is logged and not
// expanded further.
func Calculate(t pagetree.Tree) Layout {
	l := Layout{Positions: make(map[string]Position, t.Len())}
	if t.RootID == "" {
		return l
	}

	idx := make(map[string]pagetree.Node, t.Len())
	for _, n := range t.Nodes {
		idx[n.ID] = n
	}

	visited := make(map[string]bool, t.Len())
	laneCounter := 0

	var walk func(id string, depth, lane int)
	walk = func(id string, depth, lane int) {
		if visited[id] {
			log.Warn("revisited node during layout, stopping branch", "node", id)
			return
		}
		visited[id] = true
		n, ok := idx[id]
		if !ok {
			return
		}
		l.Positions[id] = Position{X: depth, Y: lane}
		if depth > l.MaxDepth {
			l.MaxDepth = depth
		}
		if lane > l.MaxLane {
			l.MaxLane = lane
		}
		for ci, c := range n.Children {
			childLane := lane
			branch := ci > 0
			if branch {
				laneCounter++
				childLane = laneCounter
			}
			l.Edges = append(l.Edges, Edge{From: id, To: c, Branch: branch})
			walk(c, depth+1, childLane)
		}
	}
	walk(t.RootID, 0, 0)
	return l
}
