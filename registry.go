package walletcheckout

import "sync"

// Registry is the page-scoped shared state for every wallet adapter running
// on one checkout page: the SDK cache, the submission bridge, and per-module
// rendered/active-session bookkeeping. One Registry lives for the page's
// lifetime; sharing it is what keeps multiple independent wallet modules from
// double-loading scripts or double-rendering buttons.
type Registry struct {
	mu       sync.Mutex
	sdk      *SDKCache
	bridge   *SubmissionBridge
	rendered map[string]bool
	active   map[string]*Session
}

// RegistryOption configures the registry.
type RegistryOption func(*Registry)

// WithSDKCache substitutes a pre-populated SDK cache.
func WithSDKCache(cache *SDKCache) RegistryOption {
	return func(r *Registry) {
		r.sdk = cache
	}
}

// WithRegistryMetrics attaches a recorder to the submission bridge.
func WithRegistryMetrics(m MetricsRecorder) RegistryOption {
	return func(r *Registry) {
		r.bridge.SetMetrics(m)
	}
}

// NewRegistry creates the shared state for one checkout page.
func NewRegistry(host HostPage, opts ...RegistryOption) *Registry {
	r := &Registry{
		sdk:      NewSDKCache(),
		bridge:   NewSubmissionBridge(host),
		rendered: make(map[string]bool),
		active:   make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SDK returns the shared SDK cache.
func (r *Registry) SDK() *SDKCache {
	return r.sdk
}

// Bridge returns the shared submission bridge.
func (r *Registry) Bridge() *SubmissionBridge {
	return r.bridge
}

// MarkRendered records that the module's button is mounted. Returns false if
// it was already rendered, making double-render a no-op.
func (r *Registry) MarkRendered(module string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rendered[module] {
		return false
	}
	r.rendered[module] = true
	return true
}

// Rendered reports whether the module's button is mounted.
func (r *Registry) Rendered(module string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered[module]
}

// TrySetActive registers s as the module's active session unless a
// non-terminal session already exists, in which case that session is
// returned and the caller decides whether to abort it or back off.
func (r *Registry) TrySetActive(module string, s *Session) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.active[module]; ok && cur != nil && cur != s && !cur.Terminal() {
		return cur, false
	}
	r.active[module] = s
	return nil, true
}

// ForceSetActive replaces the module's active session unconditionally. Used
// after the caller has aborted the prior session.
func (r *Registry) ForceSetActive(module string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[module] = s
}

// ClearActive removes s as the module's active session. A session that was
// already superseded is left alone.
func (r *Registry) ClearActive(module string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[module] == s {
		delete(r.active, module)
	}
}

// ActiveSession returns the module's current session, or nil.
func (r *Registry) ActiveSession(module string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[module]
}
