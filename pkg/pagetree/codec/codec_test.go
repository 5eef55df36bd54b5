package codec

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/fumen-tools/fumetree/pkg/fumen"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

func node(id, parent string, page int, children ...string) pagetree.Node {
	return pagetree.Node{ID: id, ParentID: parent, PageIndex: page, Children: children}
}

func branched() pagetree.Tree {
	return pagetree.Tree{
		Nodes: []pagetree.Node{
			node("r", "", 0, "a", "b"),
			node("a", "r", 1, "c"),
			node("b", "r", 3),
			node("c", "a", 2),
		},
		RootID:  "r",
		Version: pagetree.SchemaVersion,
	}
}

// shape captures pageIndex-keyed topology so trees with different node IDs
// can be compared.
func shape(t pagetree.Tree) map[int][]int {
	byID := make(map[string]pagetree.Node)
	for _, n := range t.Nodes {
		byID[n.ID] = n
	}
	out := make(map[int][]int)
	for _, n := range t.Nodes {
		children := []int{}
		for _, c := range n.Children {
			children = append(children, byID[c].PageIndex)
		}
		out[n.PageIndex] = children
	}
	return out
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(pagetree.New()); got != "" {
		t.Errorf("Encode(empty) = %q, want \"\"", got)
	}
}

func TestEncodeHasMarkerAndBase64(t *testing.T) {
	enc := Encode(branched())
	if !strings.HasPrefix(enc, Marker) {
		t.Fatalf("Encode() = %q, want %q prefix", enc, Marker)
	}
	raw, err := base64.StdEncoding.DecodeString(enc[len(Marker):])
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if got := string(raw); got != "0;0,-1,1,2;1,0,3;3,0;2,1" {
		t.Errorf("payload = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tree pagetree.Tree
	}{
		{name: "Linear", tree: pagetree.NewLinear(4)},
		{name: "Branched", tree: branched()},
		{name: "SingleNode", tree: pagetree.NewLinear(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, ok := Decode(Encode(tt.tree))
			if !ok {
				t.Fatal("Decode reported no tree")
			}
			if got, want := shape(decoded), shape(tt.tree); len(got) != len(want) {
				t.Fatalf("node count = %d, want %d", len(got), len(want))
			} else {
				for page, children := range want {
					gotChildren, ok := got[page]
					if !ok {
						t.Fatalf("page %d missing after round trip", page)
					}
					if len(gotChildren) != len(children) {
						t.Fatalf("page %d children = %v, want %v", page, gotChildren, children)
					}
					for i := range children {
						if gotChildren[i] != children[i] {
							t.Errorf("page %d children = %v, want %v", page, gotChildren, children)
						}
					}
				}
			}
			// IDs are re-minted, never reused from the input.
			for _, n := range decoded.Nodes {
				if _, collides := tt.tree.Find(n.ID); collides && n.ID != "" {
					// Positional IDs can only collide with hand-built fixtures,
					// not uuid-minted ones; flag either way.
					t.Errorf("decoded node reused input id %q", n.ID)
				}
			}
			if res := decoded.Validate(); !res.Valid {
				t.Errorf("Validate() problems = %v", res.Problems)
			}
		})
	}
}

func TestDecodeAbsentAndMalformed(t *testing.T) {
	tests := []struct {
		name    string
		comment string
	}{
		{name: "Empty", comment: ""},
		{name: "NoMarker", comment: "just a note\nsecond line"},
		{name: "BadBase64", comment: Marker + "!!!not-base64!!!"},
		{name: "TruncatedRecord", comment: Marker + base64.StdEncoding.EncodeToString([]byte("0;5"))},
		{name: "RootOutOfRange", comment: Marker + base64.StdEncoding.EncodeToString([]byte("7;0,-1"))},
		{name: "ChildOutOfRange", comment: Marker + base64.StdEncoding.EncodeToString([]byte("0;0,-1,9"))},
		{name: "NeitherGrammar", comment: Marker + base64.StdEncoding.EncodeToString([]byte("hello world"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Decode(tt.comment); ok {
				t.Error("Decode = true, want absent")
			}
		})
	}
}

func TestDecodeLegacyJSON(t *testing.T) {
	legacy := `{"nodes":[` +
		`{"id":"x1","parentId":null,"pageIndex":0,"childrenIds":["x2"]},` +
		`{"id":"x2","parentId":"x1","pageIndex":1,"childrenIds":[]}` +
		`],"rootId":"x1","version":1}`
	comment := Marker + base64.StdEncoding.EncodeToString([]byte(legacy))

	decoded, ok := Decode(comment)
	if !ok {
		t.Fatal("Decode reported no tree")
	}
	if decoded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", decoded.Len())
	}
	root, ok := decoded.Find(decoded.RootID)
	if !ok || root.PageIndex != 0 {
		t.Fatalf("root = %+v", root)
	}
	// Wire IDs never survive decoding.
	if root.ID == "x1" {
		t.Error("legacy wire id leaked into decoded tree")
	}
	if len(root.Children) != 1 {
		t.Fatalf("root.Children = %v", root.Children)
	}
	child, _ := decoded.Find(root.Children[0])
	if child.PageIndex != 1 || child.ParentID != root.ID {
		t.Errorf("child = %+v", child)
	}
}

func TestStripAndAppend(t *testing.T) {
	tree := branched()
	encoded := Encode(tree)

	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{name: "NoMarker", comment: "hello", want: "hello"},
		{name: "OnlyMarker", comment: encoded, want: ""},
		{name: "MarkerAmongLines", comment: "hello\n" + encoded + "\nworld", want: "hello\nworld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.comment); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.comment, got, tt.want)
			}
		})
	}

	appended := Append("hello", tree)
	if appended != "hello\n"+encoded {
		t.Errorf("Append = %q", appended)
	}
	// Appending twice does not stack marker lines.
	if again := Append(appended, tree); again != appended {
		t.Errorf("second Append = %q, want unchanged", again)
	}
	// Appending an empty tree strips.
	if got := Append(appended, pagetree.New()); got != "hello" {
		t.Errorf("Append(empty tree) = %q, want %q", got, "hello")
	}
}

func TestEmbedAndExtract(t *testing.T) {
	tree := branched()
	pages := []fumen.Page{
		{Comment: "opening", CommentRef: fumen.NoCommentRef},
		{Comment: "", CommentRef: fumen.NoCommentRef},
	}

	embedded := EmbedInPages(pages, tree, true)
	if pages[0].Comment != "opening" {
		t.Fatal("input pages mutated")
	}
	if !strings.Contains(embedded[0].Comment, Marker) {
		t.Fatalf("page 0 comment = %q, want marker", embedded[0].Comment)
	}

	extracted, ok := ExtractFromPages(embedded)
	if !ok {
		t.Fatal("ExtractFromPages reported no tree")
	}
	if extracted.Len() != tree.Len() {
		t.Errorf("Len() = %d, want %d", extracted.Len(), tree.Len())
	}

	stripped := EmbedInPages(embedded, tree, false)
	if stripped[0].Comment != "opening" {
		t.Errorf("stripped comment = %q, want %q", stripped[0].Comment, "opening")
	}
	if _, ok := ExtractFromPages(stripped); ok {
		t.Error("tree still extractable after strip")
	}
}

func TestEmbedResolvesCommentRef(t *testing.T) {
	tree := branched()
	// Page 0 displays page 1's comment.
	pages := []fumen.Page{
		{CommentRef: 1},
		{Comment: "shared", CommentRef: fumen.NoCommentRef},
	}

	embedded := EmbedInPages(pages, tree, true)

	if !strings.Contains(embedded[1].Comment, Marker) {
		t.Errorf("owning page comment = %q, want marker", embedded[1].Comment)
	}
	if _, ok := ExtractFromPages(embedded); !ok {
		t.Error("tree not extractable through comment ref")
	}
}
