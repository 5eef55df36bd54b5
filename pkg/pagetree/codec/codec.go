// Package codec serializes page trees into the comment slot of a page
// sequence for sharing and export.
//
// The wire form is an ASCII marker immediately followed by a base64 payload,
// on its own line inside the first page's comment. The payload grammar is
// compact and positional:
//
//	rootIndex;pageIndex,parentIndex,child0,child1,...;...
//
// Node records are separated by semicolons, fields by commas, and every
// index refers to a position in the node list. -1 marks "no parent". Node
// IDs are never part of the wire format: decoding always mints fresh IDs
// from positional indices.
//
// Older exports carried base64 of a UTF-8 JSON object
// {nodes, rootId, version}; [Decode] falls back to that form when the
// payload does not match the compact grammar.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fumen-tools/fumetree/pkg/fumen"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

// Marker introduces the serialized tree inside a comment line.
const Marker = "#tree="

// compactRe distinguishes the compact grammar from the legacy JSON payload.
var compactRe = regexp.MustCompile(`^\d+;`)

// Encode serializes the tree to its marker-prefixed wire line. Empty and
// rootless trees encode to "".
func Encode(t pagetree.Tree) string {
	if t.Empty() || t.RootID == "" {
		return ""
	}
	pos := make(map[string]int, t.Len())
	for i, n := range t.Nodes {
		pos[n.ID] = i
	}
	rootIdx, ok := pos[t.RootID]
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(rootIdx))
	for _, n := range t.Nodes {
		parentIdx := -1
		if n.ParentID != "" {
			if pi, ok := pos[n.ParentID]; ok {
				parentIdx = pi
			}
		}
		fmt.Fprintf(&b, ";%d,%d", n.PageIndex, parentIdx)
		for _, c := range n.Children {
			if ci, ok := pos[c]; ok {
				fmt.Fprintf(&b, ",%d", ci)
			}
		}
	}
	return Marker + base64.StdEncoding.EncodeToString([]byte(b.String()))
}

// Decode extracts the tree embedded in a comment. The second return value
// reports whether a tree was present and intact. A malformed payload
// (invalid base64, broken grammar, invalid legacy JSON) is logged as a
// warning and reported as absent; Decode never returns an error or panics.
func Decode(comment string) (pagetree.Tree, bool) {
	start := strings.Index(comment, Marker)
	if start < 0 {
		return pagetree.Tree{}, false
	}
	rest := comment[start+len(Marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.TrimSpace(rest)

	raw, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		log.Warn("embedded tree payload is not valid base64", "err", err)
		return pagetree.Tree{}, false
	}
	if compactRe.Match(raw) {
		return decodeCompact(string(raw))
	}
	return decodeLegacy(raw)
}

// decodeCompact parses the positional grammar, minting node IDs from list
// positions.
func decodeCompact(payload string) (pagetree.Tree, bool) {
	parts := strings.Split(payload, ";")
	rootIdx, err := strconv.Atoi(parts[0])
	if err != nil {
		log.Warn("embedded tree has malformed root index", "payload", parts[0])
		return pagetree.Tree{}, false
	}
	records := parts[1:]
	if len(records) == 0 || rootIdx < 0 || rootIdx >= len(records) {
		log.Warn("embedded tree root index out of range", "root", rootIdx, "nodes", len(records))
		return pagetree.Tree{}, false
	}

	ids := make([]string, len(records))
	for i := range records {
		ids[i] = mintedID(i)
	}

	nodes := make([]pagetree.Node, len(records))
	for i, rec := range records {
		fields := strings.Split(rec, ",")
		if len(fields) < 2 {
			log.Warn("embedded tree has truncated node record", "record", rec)
			return pagetree.Tree{}, false
		}
		pageIndex, err := strconv.Atoi(fields[0])
		if err != nil {
			log.Warn("embedded tree has malformed page index", "record", rec)
			return pagetree.Tree{}, false
		}
		parentIdx, err := strconv.Atoi(fields[1])
		if err != nil || parentIdx < -1 || parentIdx >= len(records) {
			log.Warn("embedded tree has malformed parent index", "record", rec)
			return pagetree.Tree{}, false
		}
		n := pagetree.Node{ID: ids[i], PageIndex: pageIndex}
		if parentIdx >= 0 {
			n.ParentID = ids[parentIdx]
		}
		for _, f := range fields[2:] {
			ci, err := strconv.Atoi(f)
			if err != nil || ci < 0 || ci >= len(records) {
				log.Warn("embedded tree has malformed child index", "record", rec)
				return pagetree.Tree{}, false
			}
			n.Children = append(n.Children, ids[ci])
		}
		nodes[i] = n
	}

	return pagetree.Tree{Nodes: nodes, RootID: ids[rootIdx], Version: pagetree.SchemaVersion}, true
}

// legacyTree mirrors the JSON shape of older exports.
type legacyTree struct {
	Nodes []struct {
		ID        string   `json:"id"`
		ParentID  *string  `json:"parentId"`
		PageIndex int      `json:"pageIndex"`
		Children  []string `json:"childrenIds"`
	} `json:"nodes"`
	RootID  *string `json:"rootId"`
	Version int     `json:"version"`
}

// decodeLegacy parses the legacy JSON payload, re-minting positional IDs so
// wire IDs never leak into the reconstructed tree.
func decodeLegacy(raw []byte) (pagetree.Tree, bool) {
	var wire legacyTree
	if err := json.Unmarshal(raw, &wire); err != nil {
		log.Warn("embedded tree matches neither compact grammar nor legacy JSON", "err", err)
		return pagetree.Tree{}, false
	}

	minted := make(map[string]string, len(wire.Nodes))
	for i, n := range wire.Nodes {
		minted[n.ID] = mintedID(i)
	}

	t := pagetree.Tree{Version: pagetree.SchemaVersion}
	for i, n := range wire.Nodes {
		out := pagetree.Node{ID: mintedID(i), PageIndex: n.PageIndex}
		if n.ParentID != nil {
			if id, ok := minted[*n.ParentID]; ok {
				out.ParentID = id
			}
		}
		for _, c := range n.Children {
			if id, ok := minted[c]; ok {
				out.Children = append(out.Children, id)
			}
		}
		t.Nodes = append(t.Nodes, out)
	}
	if wire.RootID != nil {
		if id, ok := minted[*wire.RootID]; ok {
			t.RootID = id
		}
	}
	if len(t.Nodes) > 0 && t.RootID == "" {
		log.Warn("legacy embedded tree has nodes but no resolvable root")
		return pagetree.Tree{}, false
	}
	return t, true
}

// mintedID builds the fresh ID for the node at list position i.
func mintedID(i int) string {
	return fmt.Sprintf("node-%d", i)
}

// Strip removes the marker line from a comment, leaving every other line
// untouched. Comments without a marker are returned as-is.
func Strip(comment string) string {
	if !strings.Contains(comment, Marker) {
		return comment
	}
	lines := strings.Split(comment, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, Marker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSuffix(strings.Join(kept, "\n"), "\n")
}

// Append attaches the tree's wire line to a comment, replacing any previous
// marker line. An empty tree just strips the old line.
func Append(comment string, t pagetree.Tree) string {
	base := Strip(comment)
	encoded := Encode(t)
	if encoded == "" {
		return base
	}
	if base == "" {
		return encoded
	}
	return base + "\n" + encoded
}

// EmbedInPages returns a copy of pages with the tree written into (or, when
// enabled is false, stripped from) the comment displayed by page 0. Ref
// indirection is resolved first, so the write lands on the page that owns
// the text. Pages with no elements are returned unchanged.
func EmbedInPages(pages []fumen.Page, t pagetree.Tree, enabled bool) []fumen.Page {
	if len(pages) == 0 {
		return pages
	}
	current := fumen.CommentText(pages, 0)
	next := Strip(current)
	if enabled {
		next = Append(current, t)
	}
	if next == current {
		return pages
	}
	return fumen.WithComment(pages, 0, next)
}

// ExtractFromPages decodes the tree embedded in the comment displayed by
// page 0. The bool reports whether an intact tree was present.
func ExtractFromPages(pages []fumen.Page) (pagetree.Tree, bool) {
	if len(pages) == 0 {
		return pagetree.Tree{}, false
	}
	return Decode(fumen.CommentText(pages, 0))
}
