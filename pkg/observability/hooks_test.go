package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Tree hooks
	h := NoopTreeHooks{}
	h.OnDecodeStart(ctx, 128)
	h.OnDecodeComplete(ctx, 12, time.Second, true)
	h.OnLayoutStart(ctx, 12)
	h.OnLayoutComplete(ctx, time.Millisecond)
	h.OnRenderStart(ctx, "svg")
	h.OnRenderComplete(ctx, "svg", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tree")
	c.OnCacheMiss(ctx, "tree")
	c.OnCacheSet(ctx, "tree", 1024)
}

func TestDefaultsAreNoop(t *testing.T) {
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("default tree hooks should be NoopTreeHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("default cache hooks should be NoopCacheHooks")
	}
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(ctx context.Context, keyType string) { h.hits++ }

func TestSetCacheHooks(t *testing.T) {
	defer SetCacheHooks(NoopCacheHooks{})

	h := &countingCacheHooks{}
	SetCacheHooks(h)

	Cache().OnCacheHit(context.Background(), "tree")
	if h.hits != 1 {
		t.Errorf("hits = %d, want 1", h.hits)
	}

	// nil registration is ignored
	SetCacheHooks(nil)
	Cache().OnCacheHit(context.Background(), "tree")
	if h.hits != 2 {
		t.Errorf("hits = %d, want 2", h.hits)
	}
}
