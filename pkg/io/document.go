package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fumen-tools/fumetree/pkg/fumen"
)

type document struct {
	Pages []page `json:"pages"`
}

type page struct {
	Comment    string `json:"comment,omitempty"`
	CommentRef *int   `json:"commentRef,omitempty"`
}

// ReadDocument decodes a JSON page document from r.
//
// Comment references are validated to point at an earlier page; a page with
// neither comment nor reference gets an empty comment of its own.
// ReadDocument does not close r.
func ReadDocument(r io.Reader) ([]fumen.Page, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	pages := make([]fumen.Page, len(data.Pages))
	for i, p := range data.Pages {
		ref := fumen.NoCommentRef
		if p.CommentRef != nil {
			ref = *p.CommentRef
			if ref < 0 || ref >= i {
				return nil, fmt.Errorf("page %d: commentRef %d must point at an earlier page", i, ref)
			}
		}
		pages[i] = fumen.Page{Comment: p.Comment, CommentRef: ref}
	}
	return pages, nil
}

// ImportDocument reads a JSON page document from the file at path.
func ImportDocument(path string) ([]fumen.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument encodes pages as a JSON page document and writes it to w.
// Comment references are preserved, not materialized, so the output
// re-imports with [ReadDocument] identically.
func WriteDocument(pages []fumen.Page, w io.Writer) error {
	out := document{Pages: make([]page, len(pages))}
	for i, p := range pages {
		pg := page{Comment: p.Comment}
		if p.CommentRef != fumen.NoCommentRef {
			ref := p.CommentRef
			pg.CommentRef = &ref
			pg.Comment = ""
		}
		out.Pages[i] = pg
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDocument writes pages to a JSON file at path.
// This is a convenience wrapper around [WriteDocument] for file-based output.
func ExportDocument(pages []fumen.Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(pages, f)
}
