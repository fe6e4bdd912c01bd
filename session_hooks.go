package walletcheckout

import (
	"context"
	"time"
)

// ============================================================================
// Session Hook Context Types
// ============================================================================

// OrderCreateContext is passed to order-creation hooks.
type OrderCreateContext struct {
	Ctx       context.Context
	SessionID string
	Module    string
	ProductID string
	Timestamp time.Time
}

// ConfirmResultContext carries a successful confirmation and its timing.
type ConfirmResultContext struct {
	SessionID string
	Module    string
	OrderID   string
	Result    ConfirmResult
	Duration  time.Duration
}

// SessionFailureContext describes a session that ended in failure.
type SessionFailureContext struct {
	SessionID string
	Module    string
	Code      string
	Reason    string
	Err       error
}

// ============================================================================
// Session Hook Function Types
// ============================================================================

// BeforeOrderCreateResult aborts deferred order creation when Abort is true.
type BeforeOrderCreateResult struct {
	Abort  bool
	Reason string
}

// BeforeOrderCreateHook runs before the backend order is created. Returning
// a result with Abort=true fails the payment attempt without an order.
type BeforeOrderCreateHook func(OrderCreateContext) (*BeforeOrderCreateResult, error)

// AfterConfirmHook runs after a successful wallet confirmation. Errors are
// logged but do not affect the session outcome.
type AfterConfirmHook func(ConfirmResultContext) error

// OnFailureHook runs whenever a session terminates in failure.
type OnFailureHook func(SessionFailureContext)

// ============================================================================
// Session Hook Registration Options
// ============================================================================

// SessionOption configures a session at construction time.
type SessionOption func(*Session)

// WithBeforeOrderCreateHook registers a hook to run before order creation.
func WithBeforeOrderCreateHook(hook BeforeOrderCreateHook) SessionOption {
	return func(s *Session) {
		s.beforeOrderCreateHooks = append(s.beforeOrderCreateHooks, hook)
	}
}

// WithAfterConfirmHook registers a hook to run after wallet confirmation.
func WithAfterConfirmHook(hook AfterConfirmHook) SessionOption {
	return func(s *Session) {
		s.afterConfirmHooks = append(s.afterConfirmHooks, hook)
	}
}

// WithOnFailureHook registers a hook to run when the session fails.
func WithOnFailureHook(hook OnFailureHook) SessionOption {
	return func(s *Session) {
		s.onFailureHooks = append(s.onFailureHooks, hook)
	}
}
