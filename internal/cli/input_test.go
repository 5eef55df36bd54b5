package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fumen-tools/fumetree/pkg/cache"
	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
	"github.com/fumen-tools/fumetree/pkg/pagetree/codec"
)

func testCLI() *CLI {
	return &CLI{
		Logger: newLogger(io.Discard, log.ErrorLevel),
		Config: DefaultConfig(),
	}
}

func TestReadCommentLiteral(t *testing.T) {
	got, err := readComment("some fumen comment")
	if err != nil {
		t.Fatalf("readComment: %v", err)
	}
	if got != "some fumen comment" {
		t.Errorf("readComment = %q", got)
	}
}

func TestReadCommentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comment.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readComment(path)
	if err != nil {
		t.Fatalf("readComment: %v", err)
	}
	if got != "from file" {
		t.Errorf("readComment = %q", got)
	}
}

func TestReadCommentPageDocument(t *testing.T) {
	tree := pagetree.NewLinear(2)
	comment := codec.Append("opener", tree)

	doc := `{"pages": [{"comment": ` + strconv.Quote(comment) + `}, {"commentRef": 0}]}`
	path := filepath.Join(t.TempDir(), "study.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readComment(path)
	if err != nil {
		t.Fatalf("readComment: %v", err)
	}
	if got != comment {
		t.Errorf("readComment = %q, want tree-bearing comment", got)
	}

	decoded, ok := codec.Decode(got)
	if !ok || decoded.Len() != 2 {
		t.Errorf("decoded %d nodes (ok=%v), want 2", decoded.Len(), ok)
	}
}

func TestDecodeTree(t *testing.T) {
	c := testCLI()
	ctx := context.Background()

	tree := pagetree.NewLinear(3)
	comment := codec.Append("opener study", tree)

	t.Run("valid comment", func(t *testing.T) {
		got, cached, err := c.decodeTree(ctx, cache.NewNullCache(), comment)
		if err != nil {
			t.Fatalf("decodeTree: %v", err)
		}
		if cached {
			t.Error("null cache should never report a hit")
		}
		if got.Len() != 3 {
			t.Errorf("decoded %d nodes, want 3", got.Len())
		}
	})

	t.Run("no tree data", func(t *testing.T) {
		_, _, err := c.decodeTree(ctx, cache.NewNullCache(), "plain comment")
		if !apperrors.Is(err, apperrors.ErrCodeInvalidComment) {
			t.Errorf("error = %v, want INVALID_COMMENT", err)
		}
	})

	t.Run("second decode hits cache", func(t *testing.T) {
		fc, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		if _, cached, err := c.decodeTree(ctx, fc, comment); err != nil || cached {
			t.Fatalf("first decode = (cached=%v, err=%v)", cached, err)
		}
		got, cached, err := c.decodeTree(ctx, fc, comment)
		if err != nil {
			t.Fatalf("second decode: %v", err)
		}
		if !cached {
			t.Error("second decode should hit the cache")
		}
		if got.Len() != 3 {
			t.Errorf("cached tree has %d nodes, want 3", got.Len())
		}
	})
}

func TestCountBranches(t *testing.T) {
	tree := pagetree.NewLinear(2)
	if got := countBranches(tree); got != 0 {
		t.Errorf("countBranches(linear) = %d, want 0", got)
	}

	tree, err := tree.AddBranch(tree.RootID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := countBranches(tree); got != 1 {
		t.Errorf("countBranches = %d, want 1", got)
	}
}
