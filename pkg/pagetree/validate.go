package pagetree

import "fmt"

// ValidationResult is the outcome of [Tree.Validate]. Problems are
// human-readable descriptions of every violated structural invariant.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// Validate checks the tree's structural invariants and reports every
// violation found. It never panics and never stops at the first problem.
// An empty tree is valid.
//
// Checks: the root resolves and has no parent, every parent/child reference
// resolves and is consistent both ways, node IDs are unique, page indices
// are non-negative (apart from the virtual sentinel) and unique among real
// nodes, and every node's ancestor chain terminates within the node count
// (a cheap, non-authoritative cycle detector).
func (t Tree) Validate() ValidationResult {
	var problems []string

	if t.RootID == "" {
		if len(t.Nodes) > 0 {
			problems = append(problems, fmt.Sprintf("tree has %d nodes but no root", len(t.Nodes)))
		}
		return result(problems)
	}

	idx := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if _, dup := idx[n.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", n.ID))
			continue
		}
		idx[n.ID] = i
	}

	ri, ok := idx[t.RootID]
	if !ok {
		problems = append(problems, fmt.Sprintf("root %q is not among the nodes", t.RootID))
	} else if t.Nodes[ri].ParentID != "" {
		problems = append(problems, fmt.Sprintf("root %q has parent %q", t.RootID, t.Nodes[ri].ParentID))
	}

	pageSeen := make(map[int]string, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.ParentID == "" && n.ID != t.RootID {
			problems = append(problems, fmt.Sprintf("node %q has no parent but is not the root", n.ID))
		}
		if n.ParentID != "" {
			pi, ok := idx[n.ParentID]
			if !ok {
				problems = append(problems, fmt.Sprintf("node %q references missing parent %q", n.ID, n.ParentID))
			} else if count := occurrences(t.Nodes[pi].Children, n.ID); count != 1 {
				problems = append(problems, fmt.Sprintf("parent %q lists child %q %d times, want 1", n.ParentID, n.ID, count))
			}
		}
		for _, c := range n.Children {
			ci, ok := idx[c]
			if !ok {
				problems = append(problems, fmt.Sprintf("node %q references missing child %q", n.ID, c))
			} else if t.Nodes[ci].ParentID != n.ID {
				problems = append(problems, fmt.Sprintf("child %q of %q claims parent %q", c, n.ID, t.Nodes[ci].ParentID))
			}
		}
		if n.PageIndex < 0 && !n.IsVirtual() {
			problems = append(problems, fmt.Sprintf("node %q has negative page index %d", n.ID, n.PageIndex))
		}
		if !n.IsVirtual() {
			if other, dup := pageSeen[n.PageIndex]; dup {
				problems = append(problems, fmt.Sprintf("page index %d bound to both %q and %q", n.PageIndex, other, n.ID))
			}
			pageSeen[n.PageIndex] = n.ID
		}
	}

	// Bounded ancestor walk per node. Exceeding the node count means the
	// parent chain loops.
	for _, n := range t.Nodes {
		steps := 0
		cur := n
		for cur.ParentID != "" {
			steps++
			if steps > len(t.Nodes) {
				problems = append(problems, fmt.Sprintf("ancestor chain of %q exceeds node count, cycle suspected", n.ID))
				break
			}
			pi, ok := idx[cur.ParentID]
			if !ok {
				break
			}
			cur = t.Nodes[pi]
		}
	}

	return result(problems)
}

func result(problems []string) ValidationResult {
	return ValidationResult{Valid: len(problems) == 0, Problems: problems}
}

func occurrences(list []string, s string) int {
	count := 0
	for _, v := range list {
		if v == s {
			count++
		}
	}
	return count
}
