package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, 10)
	p.OnBuildComplete(ctx, 7, 6, time.Millisecond, nil)
	p.OnLayoutStart(ctx, "collapsible", 7)
	p.OnLayoutComplete(ctx, "collapsible", time.Millisecond, nil)
	p.OnRenderStart(ctx, "treegraph", "svg")
	p.OnRenderComplete(ctx, "treegraph", "svg", 2048, time.Millisecond, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tree")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
	c.OnCacheError(ctx, "artifact", errors.New("down"))

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/render")
	s.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should default to NoopServerHooks")
	}

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetServerHooks(rec)
	if Pipeline() != rec || Cache() != rec || Server() != rec {
		t.Fatal("Set*Hooks should register custom hooks")
	}

	ctx := context.Background()
	Pipeline().OnBuildStart(ctx, 3)
	Cache().OnCacheHit(ctx, "tree")
	Server().OnRequest(ctx, "GET", "/healthz")
	if rec.builds != 1 || rec.hits != 1 || rec.requests != 1 {
		t.Errorf("recorded %+v", rec)
	}

	SetPipelineHooks(nil)
	if Pipeline() != rec {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore the no-op hooks")
	}
}

type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopServerHooks
	builds, hits, requests int
}

func (r *recorder) OnBuildStart(context.Context, int)         { r.builds++ }
func (r *recorder) OnCacheHit(context.Context, string)        { r.hits++ }
func (r *recorder) OnRequest(context.Context, string, string) { r.requests++ }
