// Package fumen holds the minimal contract the tree engine has with the
// externally owned page sequence. A page is addressed by its 0-based index
// and exposes exactly one field the engine cares about: a comment slot that
// either stores text directly or refers to another page's slot. Nothing else
// about page content (field grid, piece data) is interpreted here.
package fumen

// NoCommentRef marks a page that stores its own comment text.
const NoCommentRef = -1

// Page is one board-state snapshot as seen by the tree engine.
type Page struct {
	Comment    string `json:"comment"`
	CommentRef int    `json:"commentRef"` // index of the page owning the displayed comment, or NoCommentRef
}

// CommentOwner resolves the ref indirection starting at page i and returns
// the index of the page that actually stores the text. The walk is bounded
// by the page count so a ref loop terminates at the last page visited.
// Returns -1 if i is out of range.
func CommentOwner(pages []Page, i int) int {
	if i < 0 || i >= len(pages) {
		return -1
	}
	for steps := 0; steps < len(pages); steps++ {
		ref := pages[i].CommentRef
		if ref == NoCommentRef || ref == i || ref < 0 || ref >= len(pages) {
			return i
		}
		i = ref
	}
	return i
}

// CommentText returns the comment text page i displays, following ref
// indirection. Returns "" for an out-of-range index.
func CommentText(pages []Page, i int) string {
	owner := CommentOwner(pages, i)
	if owner < 0 {
		return ""
	}
	return pages[owner].Comment
}

// WithComment returns a copy of pages with the comment text displayed by
// page i replaced. The write lands on the owning page when i's slot is a
// ref. The input slice is never modified.
func WithComment(pages []Page, i int, text string) []Page {
	owner := CommentOwner(pages, i)
	if owner < 0 {
		return pages
	}
	out := append([]Page(nil), pages...)
	out[owner].Comment = text
	out[owner].CommentRef = NoCommentRef
	return out
}
