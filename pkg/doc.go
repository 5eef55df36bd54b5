// Package pkg provides the core libraries for Fumetree page-tree editing.
//
// # Overview
//
// Fumetree works with branching page trees embedded in fumen comments: a
// linear page sequence stays the main route, while alternative continuations
// branch off any page. The pkg directory is organized into five main areas:
//
//  1. [pagetree] - Domain logic (tree structure, navigation, mutation, moves)
//  2. [pagetree/codec] - Wire format (marker parsing, base64 payloads)
//  3. [pagetree/layout] - Visualization geometry (depth/lane coordinates)
//  4. [render] - Diagram output (DOT, SVG, PDF, PNG)
//  5. [cache], [store] - Infrastructure (derived-artifact caching, named-tree
//     persistence)
//
// # Architecture
//
// The typical data flow through Fumetree:
//
//	fumen comment
//	         ↓
//	    [pagetree/codec] package (extract + decode tree data)
//	         ↓
//	    [pagetree] package (tree structure + edits)
//	         ↓
//	    [pagetree/layout] package (depth/lane geometry)
//	         ↓
//	    [render] package (DOT → SVG/PDF/PNG)
//
// # Quick Start
//
// Decode a tree from a comment, lay it out, and render it:
//
//	t, ok := codec.Decode(comment)
//	if !ok {
//	    // no tree data in the comment
//	}
//	lay := layout.Calculate(t)
//	svg, err := render.RenderSVG(render.ToDOT(t, lay, render.Options{}))
//
// Edits return new trees and never mutate the receiver:
//
//	t2, err := t.AddBranch(parentID, pageIndex)
//	t3 := t2.MoveToParent(srcID, dstID)
//
// # Supporting Packages
//
//   - [fumen] - Page comments and comment-reference resolution
//   - [io] - JSON page-document import and export
//   - [errors] - Structured error codes shared by CLI and API
//   - [observability] - Optional hooks for metrics and tracing
//   - [buildinfo] - Build-time version information
package pkg
