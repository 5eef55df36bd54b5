package fumen

import "testing"

func TestCommentOwner(t *testing.T) {
	pages := []Page{
		{CommentRef: 2},
		{Comment: "b", CommentRef: NoCommentRef},
		{Comment: "c", CommentRef: 1},
	}

	tests := []struct {
		name string
		i    int
		want int
	}{
		{name: "FollowsChain", i: 0, want: 1}, // 0 → 2 → 1
		{name: "Direct", i: 1, want: 1},
		{name: "SingleHop", i: 2, want: 1},
		{name: "OutOfRange", i: 9, want: -1},
		{name: "Negative", i: -1, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommentOwner(pages, tt.i); got != tt.want {
				t.Errorf("CommentOwner(%d) = %d, want %d", tt.i, got, tt.want)
			}
		})
	}
}

func TestCommentOwnerRefLoop(t *testing.T) {
	pages := []Page{
		{CommentRef: 1},
		{CommentRef: 0},
	}
	// A ref loop terminates inside the bounded walk instead of spinning.
	got := CommentOwner(pages, 0)
	if got != 0 && got != 1 {
		t.Errorf("CommentOwner on ref loop = %d, want 0 or 1", got)
	}
}

func TestCommentText(t *testing.T) {
	pages := []Page{
		{CommentRef: 1},
		{Comment: "shared", CommentRef: NoCommentRef},
	}
	if got := CommentText(pages, 0); got != "shared" {
		t.Errorf("CommentText(0) = %q, want %q", got, "shared")
	}
	if got := CommentText(pages, 5); got != "" {
		t.Errorf("CommentText(5) = %q, want \"\"", got)
	}
}

func TestWithComment(t *testing.T) {
	pages := []Page{
		{CommentRef: 1},
		{Comment: "old", CommentRef: NoCommentRef},
	}

	out := WithComment(pages, 0, "new")

	if pages[1].Comment != "old" {
		t.Fatal("input pages mutated")
	}
	if out[1].Comment != "new" {
		t.Errorf("owner comment = %q, want %q", out[1].Comment, "new")
	}
	if out[0].CommentRef != 1 {
		t.Errorf("ref page changed: %+v", out[0])
	}
}
