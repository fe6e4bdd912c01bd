package walletcheckout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState is the phase of one wallet payment attempt.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingValidation
	StateAwaitingShipping
	StateAwaitingAuthorization
	StateConfirming
	StateSubmitting
	StateTerminal
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingValidation:
		return "awaiting-validation"
	case StateAwaitingShipping:
		return "awaiting-shipping"
	case StateAwaitingAuthorization:
		return "awaiting-authorization"
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// ReclickPolicy governs what happens when the wallet button is activated
// while a session for the same module is still live.
type ReclickPolicy int

const (
	// ReclickIgnore makes the second activation a no-op (native sheets:
	// the sheet is already open).
	ReclickIgnore ReclickPolicy = iota
	// ReclickAbortPrior aborts the live session and starts fresh (hosted
	// buttons: the provider popup was dismissed without a cancel event).
	ReclickAbortPrior
)

// SessionConfig wires one payment attempt to its collaborators.
type SessionConfig struct {
	Module   string
	Config   Config
	Backend  BackendClient
	Gateway  WalletGateway
	Host     HostPage
	Registry *Registry
	// Bridge is nil when the cart needs no shipping.
	Bridge    *ShippingBridge
	Metrics   MetricsRecorder
	Logger    *log.Logger
	SignedIn  bool
	ProductID string
	Reclick   ReclickPolicy
	// TotalLabel is the label shown on the sheet's total line.
	TotalLabel string
}

// ShippingUpdate is what the session hands back to the wallet sheet after a
// shipping event. Unserviceable means the backend rejected the address; the
// sheet stays open so the user can pick another one.
type ShippingUpdate struct {
	Total         Totals
	Options       []ShippingOption
	LineItems     []LineItem
	Unserviceable bool
}

// AuthorizedContacts carries the contact data the sheet returns at
// authorization time.
type AuthorizedContacts struct {
	Billing  *Address
	Shipping *Address
}

// Session owns one wallet payment attempt end-to-end: validation, shipping
// renegotiation, deferred order creation, confirmation, and checkout
// submission. It is discarded after reaching the terminal state.
type Session struct {
	mu  sync.Mutex
	id  string
	cfg SessionConfig

	state        SessionState
	order        *Order
	orderCreated bool
	lastContact  *Address
	lastOptionID string
	lastTotal    Totals
	renegSeq     uint64
	abortReason  string

	beforeOrderCreateHooks []BeforeOrderCreateHook
	afterConfirmHooks      []AfterConfirmHook
	onFailureHooks         []OnFailureHook
}

// NewSession creates an idle session for one payment attempt.
func NewSession(cfg SessionConfig, opts ...SessionOption) *Session {
	if cfg.TotalLabel == "" {
		cfg.TotalLabel = "Total"
	}
	s := &Session{
		id:    uuid.NewString(),
		cfg:   cfg,
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's correlation id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current phase.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Terminal reports whether the session has ended.
func (s *Session) Terminal() bool {
	return s.State() == StateTerminal
}

// OrderID returns the backend order id, or "" before deferred creation.
func (s *Session) OrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return ""
	}
	return s.order.ID
}

// LastShippingContact returns the most recently cached shipping contact.
func (s *Session) LastShippingContact() *Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastContact == nil {
		return nil
	}
	contact := *s.lastContact
	return &contact
}

// SelectedShippingOptionID returns the last shipping option the user chose.
func (s *Session) SelectedShippingOptionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOptionID
}

// Begin moves the session out of idle inside the button activation's gesture
// window. It performs no I/O: the wallet sheet constructor has to run on the
// same call stack as the user's click, and any asynchronous work here would
// invalidate the gesture context. The returned total is the best-effort
// visible page total for the sheet constructor.
func (s *Session) Begin() (Totals, error) {
	if s.cfg.Registry != nil {
		prev, ok := s.cfg.Registry.TrySetActive(s.cfg.Module, s)
		if !ok {
			if s.cfg.Reclick == ReclickIgnore {
				return Totals{}, NewWalletError(ErrCodeSessionState, "a payment attempt is already in progress", nil)
			}
			prev.Abort("superseded by a new payment attempt")
			s.cfg.Registry.ForceSetActive(s.cfg.Module, s)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return Totals{}, NewWalletError(ErrCodeSessionState, "session already started", nil)
	}

	s.cfg.Host.SelectPaymentMethod(s.cfg.Module)

	amount := ZeroAmount
	if display, ok := s.cfg.Host.VisibleTotal(); ok {
		if normalized, ok := NormalizeAmount(display); ok {
			amount = normalized
		}
	}
	if amount == ZeroAmount {
		s.logf("session %s: no visible total at activation, opening sheet at zero", s.id)
	}

	s.lastTotal = Totals{
		Label:    s.cfg.TotalLabel,
		Amount:   amount,
		Currency: s.cfg.Config.Currency,
	}
	s.state = StateAwaitingValidation
	return s.lastTotal, nil
}

// HandleMerchantValidation forwards the sheet's opaque validation token.
// Order creation never happens here. A non-nil return means the caller must
// abort the sheet; the session records the reason and waits for the cancel
// callback to go terminal.
func (s *Session) HandleMerchantValidation(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.state != StateAwaitingValidation {
		state := s.state
		s.mu.Unlock()
		return NewWalletError(ErrCodeSessionState, "merchant validation in state "+state.String(), nil)
	}
	s.mu.Unlock()

	if err := s.cfg.Gateway.ValidateMerchant(ctx, token); err != nil {
		s.mu.Lock()
		s.abortReason = "merchant validation failed: " + err.Error()
		s.mu.Unlock()
		s.logf("session %s: %s", s.id, "merchant validation failed")
		return WrapWalletError(ErrCodeValidation, "merchant validation failed", err)
	}

	s.advancePastValidation()
	return nil
}

// AdvancePastValidation is used by wallets whose protocol has no merchant
// validation step (hosted buttons); it moves the session straight to the
// shipping or authorization phase.
func (s *Session) AdvancePastValidation() {
	s.advancePastValidation()
}

func (s *Session) advancePastValidation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingValidation {
		return
	}
	if s.cfg.Config.CartRequiresShipping {
		s.state = StateAwaitingShipping
	} else {
		s.state = StateAwaitingAuthorization
	}
}

// SetShippingContact caches a shipping contact without renegotiating. Hosted
// buttons use it when a single provider event carries both the address and
// the selected option.
func (s *Session) SetShippingContact(addr Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact := addr
	s.lastContact = &contact
}

// HandleShippingContactSelected renegotiates shipping for a new address from
// the sheet. The contact is cached because some wallets omit it from the
// shipping-option change event and it must be replayed from here.
func (s *Session) HandleShippingContactSelected(ctx context.Context, addr Address) ShippingUpdate {
	s.mu.Lock()
	contact := addr
	s.lastContact = &contact
	optionID := s.lastOptionID
	s.renegSeq++
	seq := s.renegSeq
	s.mu.Unlock()

	return s.renegotiate(ctx, contact, optionID, seq)
}

// HandleShippingOptionSelected renegotiates for a newly selected shipping
// option, replaying the cached contact. With no cached contact this is a
// should-not-happen path: the last known total is returned unchanged and a
// warning is logged, but the sheet is not failed.
func (s *Session) HandleShippingOptionSelected(ctx context.Context, optionID string) ShippingUpdate {
	s.mu.Lock()
	if s.lastContact == nil {
		upd := ShippingUpdate{Total: s.lastTotal}
		s.mu.Unlock()
		s.logf("session %s: shipping option %q selected with no cached contact, returning last total", s.id, optionID)
		return upd
	}
	s.lastOptionID = optionID
	contact := *s.lastContact
	s.renegSeq++
	seq := s.renegSeq
	s.mu.Unlock()

	return s.renegotiate(ctx, contact, optionID, seq)
}

// renegotiate performs one round trip and applies the result with
// last-write-wins semantics: a slow response from a superseded request still
// completes, but only the most recent one updates the session total.
func (s *Session) renegotiate(ctx context.Context, contact Address, optionID string, seq uint64) ShippingUpdate {
	s.mu.Lock()
	lastTotal := s.lastTotal
	bridge := s.cfg.Bridge
	s.mu.Unlock()

	if bridge == nil {
		return ShippingUpdate{Total: lastTotal}
	}

	quote, err := bridge.Renegotiate(ctx, contact, optionID)
	if err != nil {
		if IsAddressUnserviceable(err) {
			s.recordRenegotiation("unserviceable")
			return ShippingUpdate{Total: lastTotal, Unserviceable: true}
		}
		s.logf("session %s: shipping renegotiation failed in transit: %v", s.id, err)
		s.recordRenegotiation("error")
		return SafeShippingDefault(lastTotal.Label, lastTotal.Currency)
	}

	total := quote.Total
	if total.Label == "" {
		total.Label = lastTotal.Label
	}
	if total.Currency == "" {
		total.Currency = lastTotal.Currency
	}

	s.mu.Lock()
	if seq == s.renegSeq {
		s.lastTotal = total
	}
	s.mu.Unlock()

	s.recordRenegotiation("ok")
	return ShippingUpdate{
		Total:     total,
		Options:   quote.Options,
		LineItems: quote.LineItems,
	}
}

// EnsureOrder creates the backend order if the session does not have one
// yet. Order creation is idempotent per session: hosted-button wallets call
// this from their create-order callback, native sheets reach it through
// HandleAuthorized, and in both cases it runs at most once.
func (s *Session) EnsureOrder(ctx context.Context) (*Order, error) {
	s.mu.Lock()
	if s.order != nil {
		order := *s.order
		s.mu.Unlock()
		return &order, nil
	}
	if s.orderCreated {
		// A previous attempt failed; the whole session must be re-initiated
		// by the user rather than retried here.
		s.mu.Unlock()
		return nil, NewWalletError(ErrCodeOrderCreate, "order creation already attempted for this session", nil)
	}
	s.orderCreated = true
	s.mu.Unlock()

	hookCtx := OrderCreateContext{
		Ctx:       ctx,
		SessionID: s.id,
		Module:    s.cfg.Module,
		ProductID: s.cfg.ProductID,
		Timestamp: time.Now(),
	}
	for _, hook := range s.beforeOrderCreateHooks {
		result, err := hook(hookCtx)
		if err != nil {
			s.logf("session %s: before-order-create hook error: %v", s.id, err)
			continue
		}
		if result != nil && result.Abort {
			return nil, NewWalletError(ErrCodeOrderCreate, "order creation aborted: "+result.Reason, nil)
		}
	}

	order, err := s.cfg.Backend.CreateOrder(ctx, OrderRequest{
		Wallet:    s.cfg.Module,
		ProductID: s.cfg.ProductID,
	})
	if err != nil {
		return nil, WrapWalletError(ErrCodeOrderCreate, "order creation failed", err)
	}
	if order == nil || order.ID == "" {
		return nil, NewWalletError(ErrCodeOrderCreate, "order creation returned no order id", nil)
	}

	s.mu.Lock()
	s.order = order
	s.mu.Unlock()
	return order, nil
}

// HandleAuthorized runs the back half of the session: deferred order
// creation, wallet confirmation, payload assembly, and checkout submission.
// Creating the order earlier would orphan orders for abandoned sheets, so it
// happens only now. Any error maps to a generic payment failure for the
// sheet; the log carries the detail.
func (s *Session) HandleAuthorized(ctx context.Context, authorizationToken string, contacts AuthorizedContacts) (*SubmitResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateAwaitingShipping, StateAwaitingAuthorization:
	default:
		state := s.state
		s.mu.Unlock()
		return nil, NewWalletError(ErrCodeSessionState, "authorization in state "+state.String(), nil)
	}
	s.mu.Unlock()

	order, err := s.EnsureOrder(ctx)
	if err != nil {
		return nil, s.fail(ErrCodeOrderCreate, "order creation failed", err)
	}

	s.mu.Lock()
	s.state = StateConfirming
	s.mu.Unlock()

	started := time.Now()
	confirm, err := s.cfg.Gateway.ConfirmOrder(ctx, order.ID, authorizationToken)
	if err != nil {
		// Decline, transport failure, and malformed response all look the
		// same to the user; the code distinguishes them in the log.
		s.logf("session %s: confirmation failed (class=%s): %v", s.id, confirmFailureClass(err), err)
		return nil, s.fail(ErrCodeAuthorization, "payment confirmation failed", err)
	}

	confirmCtx := ConfirmResultContext{
		SessionID: s.id,
		Module:    s.cfg.Module,
		OrderID:   order.ID,
		Result:    *confirm,
		Duration:  time.Since(started),
	}
	for _, hook := range s.afterConfirmHooks {
		if err := hook(confirmCtx); err != nil {
			s.logf("session %s: after-confirm hook error: %v", s.id, err)
		}
	}

	payload, err := s.buildPayload(order, contacts)
	if err != nil {
		return nil, s.fail(ErrCodeSubmission, "checkout payload incomplete", err)
	}

	s.mu.Lock()
	s.state = StateSubmitting
	s.mu.Unlock()

	bridge := s.bridge()
	if bridge != nil {
		bridge.SetPayload(s.cfg.Module, payload)
	}

	result, err := s.cfg.Backend.SubmitCheckout(ctx, payload)
	if err != nil {
		s.clearPayload()
		return nil, s.fail(ErrCodeSubmission, "checkout submission failed", err)
	}
	if result.Status != SubmitStatusSuccess && result.RedirectURL == "" {
		s.clearPayload()
		return nil, s.fail(ErrCodeSubmission, "checkout rejected: "+result.Message, nil)
	}

	if result.RedirectURL != "" {
		s.cfg.Host.Redirect(result.RedirectURL)
	}

	s.mu.Lock()
	s.state = StateTerminal
	s.mu.Unlock()
	if s.cfg.Registry != nil {
		s.cfg.Registry.ClearActive(s.cfg.Module, s)
	}
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionFinished(s.cfg.Module, "success")
	}
	return result, nil
}

// HandleCancel processes the sheet's cancellation callback: clear the
// payload, release the overlay, terminal state. A cancel after the session
// had already aborted itself logs the original reason but is not a second
// error.
func (s *Session) HandleCancel() {
	s.mu.Lock()
	reason := s.abortReason
	wasTerminal := s.state == StateTerminal
	s.state = StateTerminal
	s.mu.Unlock()

	s.clearPayload()
	s.cfg.Host.HideProcessing()
	if s.cfg.Registry != nil {
		s.cfg.Registry.ClearActive(s.cfg.Module, s)
	}
	if reason != "" {
		s.logf("session %s: sheet cancelled after abort: %s", s.id, reason)
	}
	if !wasTerminal && s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionFinished(s.cfg.Module, "cancelled")
	}
}

// Abort terminates the session from outside the sheet's own callbacks, e.g.
// when a new activation supersedes it or the SDK reported a hard error.
func (s *Session) Abort(reason string) {
	s.mu.Lock()
	if s.state == StateTerminal {
		s.mu.Unlock()
		return
	}
	s.abortReason = reason
	s.state = StateTerminal
	s.mu.Unlock()

	s.clearPayload()
	s.cfg.Host.HideProcessing()
	if s.cfg.Registry != nil {
		s.cfg.Registry.ClearActive(s.cfg.Module, s)
	}
	s.logf("session %s: aborted: %s", s.id, reason)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionFinished(s.cfg.Module, "aborted")
	}
}

// buildPayload assembles the checkout payload from sheet contacts, falling
// back between billing and shipping contact for the email, then the host
// session. Session email is not assumed populated: an absent email fails the
// attempt when the backend requires one.
func (s *Session) buildPayload(order *Order, contacts AuthorizedContacts) (CheckoutPayload, error) {
	email := ""
	if contacts.Billing != nil && contacts.Billing.Email != "" {
		email = contacts.Billing.Email
	} else if contacts.Shipping != nil && contacts.Shipping.Email != "" {
		email = contacts.Shipping.Email
	} else {
		email = s.cfg.Host.SessionEmail()
	}
	if email == "" && s.cfg.Config.GuestEmailRequired && !s.cfg.SignedIn {
		return CheckoutPayload{}, NewWalletError(ErrCodeSubmission, "no email available for guest checkout", nil)
	}

	shipping := contacts.Shipping
	if shipping == nil {
		shipping = s.LastShippingContact()
	}

	total := order.Amount
	if total == "" {
		s.mu.Lock()
		total = s.lastTotal.Amount
		s.mu.Unlock()
	}
	currency := order.Currency
	if currency == "" {
		currency = s.cfg.Config.Currency
	}

	return CheckoutPayload{
		OrderID:         order.ID,
		Total:           total,
		Currency:        currency,
		Email:           email,
		ShippingAddress: shipping,
		BillingAddress:  contacts.Billing,
		Module:          s.cfg.Module,
	}, nil
}

// fail terminates the session, restores the UI to a retryable state, and
// returns the coded error for the caller to surface generically.
func (s *Session) fail(code, reason string, cause error) error {
	s.mu.Lock()
	s.abortReason = reason
	s.state = StateTerminal
	s.mu.Unlock()

	s.cfg.Host.HideProcessing()
	if s.cfg.Registry != nil {
		s.cfg.Registry.ClearActive(s.cfg.Module, s)
	}
	s.logf("session %s: failed (%s): %s: %v", s.id, code, reason, cause)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionFinished(s.cfg.Module, "failure")
	}

	failCtx := SessionFailureContext{
		SessionID: s.id,
		Module:    s.cfg.Module,
		Code:      code,
		Reason:    reason,
		Err:       cause,
	}
	for _, hook := range s.onFailureHooks {
		hook(failCtx)
	}

	if cause != nil {
		return WrapWalletError(code, reason, cause)
	}
	return NewWalletError(code, reason, nil)
}

func (s *Session) bridge() *SubmissionBridge {
	if s.cfg.Registry == nil {
		return nil
	}
	return s.cfg.Registry.Bridge()
}

func (s *Session) clearPayload() {
	if bridge := s.bridge(); bridge != nil {
		bridge.SetPayload(s.cfg.Module, CheckoutPayload{})
	}
}

func (s *Session) recordRenegotiation(result string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RenegotiationFinished(s.cfg.Module, result)
	}
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// confirmFailureClass maps a confirmation error to its log classification:
// an SDK-reported decline, a transport failure, or a malformed response.
func confirmFailureClass(err error) string {
	switch ErrorCode(err) {
	case ErrCodeAuthorization:
		return "decline"
	case ErrCodeTransport:
		return "transport"
	default:
		return "malformed"
	}
}
