package walletcheckout

import (
	"context"
	"sync"
)

// SDKCache memoizes wallet SDK loads by config key and tracks in-flight
// loads. Multiple independent wallet adapters on one page share a single
// cache, so identical configs never trigger duplicate loads: concurrent
// callers wait on the same load instead of issuing their own.
//
// A load failure invalidates the entry so a later caller may retry; the cache
// never retries on its own.
type SDKCache struct {
	mu       sync.Mutex
	handles  map[string]SDKHandle
	inFlight map[string]chan struct{}
}

// NewSDKCache creates an empty cache.
func NewSDKCache() *SDKCache {
	return &SDKCache{
		handles:  make(map[string]SDKHandle),
		inFlight: make(map[string]chan struct{}),
	}
}

// Load returns the SDK handle for cfg, fetching it at most once per key.
// A cached handle is re-probed for capability before reuse; a handle that no
// longer exposes it is dropped and loaded fresh. An empty capability skips
// the probe.
func (c *SDKCache) Load(ctx context.Context, cfg Config, capability string, fetch SDKFetcher) (SDKHandle, error) {
	key := cfg.CacheKey()

	c.mu.Lock()
	if h, ok := c.handles[key]; ok {
		if capability == "" || h.HasCapability(capability) {
			c.mu.Unlock()
			return h, nil
		}
		// Stale handle: a different adapter's load may have replaced the
		// SDK variant. Drop it and load fresh.
		delete(c.handles, key)
	}

	if done, ok := c.inFlight[key]; ok {
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		c.mu.Lock()
		h, ok := c.handles[key]
		c.mu.Unlock()
		if !ok {
			return nil, NewWalletError(ErrCodeSDKUnavailable, "sdk load failed", nil)
		}
		if capability != "" && !h.HasCapability(capability) {
			return nil, NewWalletError(ErrCodeSDKUnavailable, "loaded sdk does not expose "+capability, nil)
		}
		return h, nil
	}

	done := make(chan struct{})
	c.inFlight[key] = done
	c.mu.Unlock()

	h, err := fetch(ctx, cfg)

	c.mu.Lock()
	delete(c.inFlight, key)
	if err == nil && h != nil {
		c.handles[key] = h
	}
	close(done)
	c.mu.Unlock()

	if err != nil {
		return nil, WrapWalletError(ErrCodeSDKUnavailable, "sdk load failed", err)
	}
	if h == nil {
		return nil, NewWalletError(ErrCodeSDKUnavailable, "sdk fetcher returned no handle", nil)
	}
	if capability != "" && !h.HasCapability(capability) {
		return h, NewWalletError(ErrCodeSDKUnavailable, "loaded sdk does not expose "+capability, nil)
	}
	return h, nil
}

// AdoptHandle registers a handle the host page already loaded, so the cache
// reuses it instead of fetching a second copy. A handle adopted while a load
// for the same key is cached is ignored.
func (c *SDKCache) AdoptHandle(cfg Config, h SDKHandle) bool {
	if h == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cfg.CacheKey()
	if _, ok := c.handles[key]; ok {
		return false
	}
	c.handles[key] = h
	return true
}

// Invalidate drops any cached handle for cfg.
func (c *SDKCache) Invalidate(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, cfg.CacheKey())
}
