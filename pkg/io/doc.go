// Package io provides JSON import and export for fumen page documents.
//
// # Overview
//
// A page document is the on-disk form of a fumen page sequence: an ordered
// list of pages, each carrying its comment text or a reference to an earlier
// page's comment. Tree data travels inside a page comment as a marker line,
// so a document round-trips through this package without the tree being
// interpreted.
//
// # JSON Format
//
//	{
//	  "pages": [
//	    {"comment": "opener #tree=MDswLC0xLDE7MSww"},
//	    {"commentRef": 0},
//	    {"comment": "midgame"}
//	  ]
//	}
//
// Each page has either a "comment" string or a "commentRef" pointing at the
// index of the page that owns its comment. A page with neither has an empty
// comment of its own.
//
// # Import and Export
//
// Use [ImportDocument] to read a document from a file path, or
// [ReadDocument] to read from any io.Reader:
//
//	pages, err := io.ImportDocument("study.json")
//
// Use [ExportDocument] and [WriteDocument] for the reverse direction. The
// export preserves comment references rather than materializing them, so a
// document re-imports identically.
package io
