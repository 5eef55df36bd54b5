package pagetree

import (
	"reflect"
	"testing"
)

func TestFind(t *testing.T) {
	tr := branched()

	if n, ok := tr.Find("c"); !ok || n.PageIndex != 2 {
		t.Errorf("Find(c) = %+v, %v", n, ok)
	}
	if _, ok := tr.Find("ghost"); ok {
		t.Error("Find(ghost) = true, want false")
	}
}

func TestFindByPageIndex(t *testing.T) {
	tr := branched()

	if n, ok := tr.FindByPageIndex(3); !ok || n.ID != "b" {
		t.Errorf("FindByPageIndex(3) = %+v, %v, want b", n, ok)
	}
	if _, ok := tr.FindByPageIndex(42); ok {
		t.Error("FindByPageIndex(42) = true, want false")
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want []string
	}{
		{name: "Leaf", id: "d", want: []string{"r", "b", "d"}},
		{name: "Root", id: "r", want: []string{"r"}},
		{name: "Unknown", id: "ghost", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, n := range branched().Path(tt.id) {
				got = append(got, n.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestDescendants(t *testing.T) {
	tr := branched()

	var got []string
	for _, n := range tr.Descendants("r") {
		got = append(got, n.ID)
	}
	want := []string{"r", "a", "c", "b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Descendants(r) = %v, want %v", got, want)
	}

	if ds := tr.Descendants("ghost"); ds != nil {
		t.Errorf("Descendants(ghost) = %v, want nil", ds)
	}
}

func TestDescendantsCycleGuard(t *testing.T) {
	// Deliberately corrupt: a and b list each other as children.
	tr := Tree{
		Nodes: []Node{
			node("a", "", 0, "b"),
			node("b", "a", 1, "a"),
		},
		RootID:  "a",
		Version: SchemaVersion,
	}

	got := tr.Descendants("a")
	if len(got) != 2 {
		t.Errorf("Descendants on cyclic tree returned %d nodes, want 2", len(got))
	}
}

func TestIsDescendant(t *testing.T) {
	tr := branched()

	if !tr.IsDescendant("a", "c") {
		t.Error("IsDescendant(a, c) = false, want true")
	}
	if !tr.IsDescendant("a", "a") {
		t.Error("IsDescendant(a, a) = false, want true")
	}
	if tr.IsDescendant("a", "d") {
		t.Error("IsDescendant(a, d) = true, want false")
	}
}

func TestLeaves(t *testing.T) {
	var got []string
	for _, n := range branched().Leaves() {
		got = append(got, n.ID)
	}
	want := []string{"c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaves() = %v, want %v", got, want)
	}
}
