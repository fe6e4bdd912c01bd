package walletcheckout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type testHandle struct {
	capabilities map[string]bool
}

func (h *testHandle) HasCapability(name string) bool { return h.capabilities[name] }

func handleWith(names ...string) *testHandle {
	caps := make(map[string]bool, len(names))
	for _, n := range names {
		caps[n] = true
	}
	return &testHandle{capabilities: caps}
}

func cacheConfig() Config {
	return Config{ClientID: "client-1", Currency: "USD", Environment: EnvironmentSandbox}
}

func TestSDKCacheLoadOnce(t *testing.T) {
	cache := NewSDKCache()
	var fetches int32

	fetch := func(ctx context.Context, cfg Config) (SDKHandle, error) {
		atomic.AddInt32(&fetches, 1)
		return handleWith("buttons"), nil
	}

	h1, err := cache.Load(context.Background(), cacheConfig(), "buttons", fetch)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	h2, err := cache.Load(context.Background(), cacheConfig(), "buttons", fetch)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if h1 != h2 {
		t.Error("expected the cached handle on the second load")
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestSDKCacheConcurrentLoads(t *testing.T) {
	cache := NewSDKCache()
	var fetches int32
	release := make(chan struct{})

	fetch := func(ctx context.Context, cfg Config) (SDKHandle, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return handleWith("buttons"), nil
	}

	const goroutines = 20
	handles := make([]SDKHandle, goroutines)
	errs := make([]error, goroutines)
	var started, done sync.WaitGroup
	started.Add(goroutines)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			started.Done()
			handles[i], errs[i] = cache.Load(context.Background(), cacheConfig(), "buttons", fetch)
			done.Done()
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Errorf("goroutine %d got a different handle", i)
		}
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestSDKCacheFailureAllowsRetry(t *testing.T) {
	cache := NewSDKCache()
	var fetches int32

	failing := func(ctx context.Context, cfg Config) (SDKHandle, error) {
		atomic.AddInt32(&fetches, 1)
		return nil, errors.New("script blocked")
	}
	_, err := cache.Load(context.Background(), cacheConfig(), "buttons", failing)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := ErrorCode(err); code != ErrCodeSDKUnavailable {
		t.Errorf("error code = %q, want %q", code, ErrCodeSDKUnavailable)
	}

	working := func(ctx context.Context, cfg Config) (SDKHandle, error) {
		atomic.AddInt32(&fetches, 1)
		return handleWith("buttons"), nil
	}
	if _, err := cache.Load(context.Background(), cacheConfig(), "buttons", working); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if n := atomic.LoadInt32(&fetches); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestSDKCacheStaleCapabilityReloads(t *testing.T) {
	cache := NewSDKCache()

	if _, err := cache.Load(context.Background(), cacheConfig(), "buttons", func(ctx context.Context, cfg Config) (SDKHandle, error) {
		return handleWith("buttons"), nil
	}); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	// The cached handle lacks the capability the next caller needs; the
	// cache must drop it and load fresh.
	h, err := cache.Load(context.Background(), cacheConfig(), "venmo", func(ctx context.Context, cfg Config) (SDKHandle, error) {
		return handleWith("buttons", "venmo"), nil
	})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !h.HasCapability("venmo") {
		t.Error("expected the fresh handle")
	}
}

func TestSDKCacheAdoptHandle(t *testing.T) {
	cache := NewSDKCache()
	adopted := handleWith("buttons")

	if !cache.AdoptHandle(cacheConfig(), adopted) {
		t.Fatal("adoption rejected for an empty cache")
	}

	h, err := cache.Load(context.Background(), cacheConfig(), "buttons", func(ctx context.Context, cfg Config) (SDKHandle, error) {
		t.Error("fetch must not run for an adopted handle")
		return nil, errors.New("unreachable")
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if h != SDKHandle(adopted) {
		t.Error("expected the adopted handle")
	}

	if cache.AdoptHandle(cacheConfig(), handleWith("buttons")) {
		t.Error("adoption over a cached handle must be ignored")
	}
	if cache.AdoptHandle(cacheConfig(), nil) {
		t.Error("nil handle must be rejected")
	}
}

func TestSDKCacheWaiterSeesFailure(t *testing.T) {
	cache := NewSDKCache()
	release := make(chan struct{})
	entered := make(chan struct{})

	go func() {
		cache.Load(context.Background(), cacheConfig(), "buttons", func(ctx context.Context, cfg Config) (SDKHandle, error) {
			close(entered)
			<-release
			return nil, errors.New("script blocked")
		})
	}()
	<-entered

	// Whether this call waits on the in-flight load or arrives after it
	// finished, the fetcher fails the same way and the caller must see an
	// sdk_unavailable error either way.
	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Load(context.Background(), cacheConfig(), "buttons", func(ctx context.Context, cfg Config) (SDKHandle, error) {
			return nil, errors.New("script blocked")
		})
		errCh <- err
	}()

	close(release)
	err := <-errCh
	if err == nil {
		t.Fatal("expected the waiter to observe the failure")
	}
	if code := ErrorCode(err); code != ErrCodeSDKUnavailable {
		t.Errorf("error code = %q, want %q", code, ErrCodeSDKUnavailable)
	}
}

func TestSDKCacheWaiterRespectsContext(t *testing.T) {
	cache := NewSDKCache()
	release := make(chan struct{})
	entered := make(chan struct{})
	defer close(release)

	go func() {
		cache.Load(context.Background(), cacheConfig(), "buttons", func(ctx context.Context, cfg Config) (SDKHandle, error) {
			close(entered)
			<-release
			return handleWith("buttons"), nil
		})
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Load(ctx, cacheConfig(), "buttons", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
