package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fumen-tools/fumetree/pkg/cache"
	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/fumen"
	pageio "github.com/fumen-tools/fumetree/pkg/io"
	"github.com/fumen-tools/fumetree/pkg/observability"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
	"github.com/fumen-tools/fumetree/pkg/pagetree/codec"
)

// readComment resolves a command argument into comment text. The argument is
// "-" for stdin, a path to a readable file, or the comment itself. Files
// holding a JSON page document yield the comment of the tree-bearing page.
func readComment(arg string) (string, error) {
	var content string
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	default:
		info, err := os.Stat(arg)
		if err != nil || info.IsDir() {
			return arg, nil
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", arg, err)
		}
		content = string(data)
	}

	if comment, ok := commentFromDocument(content); ok {
		return comment, nil
	}
	return content, nil
}

// commentFromDocument treats content as a JSON page document and returns the
// resolved comment of the first page carrying tree data.
func commentFromDocument(content string) (string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(content), "{") {
		return "", false
	}
	pages, err := pageio.ReadDocument(strings.NewReader(content))
	if err != nil {
		return "", false
	}
	for i := range pages {
		comment := fumen.CommentText(pages, i)
		if strings.Contains(comment, codec.Marker) {
			return comment, true
		}
	}
	return "", false
}

// decodeTree extracts the tree from comment text, consulting the cache
// first. The second return reports whether the result came from the cache.
func (c *CLI) decodeTree(ctx context.Context, store cache.Cache, comment string) (pagetree.Tree, bool, error) {
	key := cache.TreeKey(comment)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		var t pagetree.Tree
		if err := json.Unmarshal(data, &t); err == nil {
			observability.Cache().OnCacheHit(ctx, "tree")
			return t, true, nil
		}
		_ = store.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "tree")

	start := time.Now()
	observability.Tree().OnDecodeStart(ctx, len(comment))
	t, ok := codec.Decode(comment)
	observability.Tree().OnDecodeComplete(ctx, t.Len(), time.Since(start), ok)
	if !ok {
		return pagetree.Tree{}, false, apperrors.New(apperrors.ErrCodeInvalidComment, "no decodable tree data in comment")
	}

	if data, err := json.Marshal(t); err == nil {
		if err := store.Set(ctx, key, data, c.cacheTTL()); err != nil {
			c.Logger.Debug("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}
	return t, false, nil
}

// cacheTTL converts the configured TTL to a duration.
func (c *CLI) cacheTTL() time.Duration {
	return time.Duration(c.Config.Serve.CacheTTLMinutes) * time.Minute
}

// countBranches counts nodes with more than one child, i.e. branch points.
func countBranches(t pagetree.Tree) int {
	n := 0
	for _, node := range t.Nodes {
		if len(node.Children) > 1 {
			n++
		}
	}
	return n
}
