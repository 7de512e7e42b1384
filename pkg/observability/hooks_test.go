package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	f := NoopFetchHooks{}
	f.OnFetchStart(ctx, "acme/1.0.0/acme.1.0.0.nupkg")
	f.OnFetchComplete(ctx, "acme/1.0.0/acme.1.0.0.nupkg", true, time.Second, nil)

	r := NoopResolveHooks{}
	r.OnResolveComplete(ctx, "acme/widget/1.0.0/widget-1.0.0.dll", "library", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "index")
	c.OnCacheMiss(ctx, "index")
	c.OnCacheSet(ctx, "index", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.nuget.org", "/v3-flatcontainer/acme/index.json")
	h.OnResponse(ctx, "GET", "api.nuget.org", "/v3-flatcontainer/acme/index.json", 200, time.Second)
	h.OnError(ctx, "GET", "api.nuget.org", "/v3-flatcontainer/acme/index.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Fetch() should return NoopFetchHooks by default")
	}
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customFetch := &testFetchHooks{}
	SetFetchHooks(customFetch)
	if Fetch() != customFetch {
		t.Error("SetFetchHooks should set custom hooks")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Reset() should restore NoopFetchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testFetchHooks{}
	SetFetchHooks(custom)
	SetFetchHooks(nil)
	if Fetch() != custom {
		t.Error("SetFetchHooks(nil) should not replace registered hooks")
	}
}

type testFetchHooks struct{ NoopFetchHooks }
type testResolveHooks struct{ NoopResolveHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
