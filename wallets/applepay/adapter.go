// Package applepay adapts the native payment sheet wallet to the checkout
// engine. The sheet owns the UI; this adapter owns eligibility, the session
// lifecycle behind the sheet's callbacks, and the translation between the
// sheet's contact shapes and the engine's canonical ones.
package applepay

import (
	"context"
	"log"
	"sync"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

// ModuleCode identifies this wallet to the backend and the host page.
const ModuleCode = "applepay"

// CapabilityPaymentSession is the SDK sub-API the sheet constructor needs.
const CapabilityPaymentSession = "payment-session"

// AdapterConfig wires the adapter to its collaborators.
type AdapterConfig struct {
	Backend  walletcheckout.BackendClient
	Gateway  walletcheckout.WalletGateway
	Host     walletcheckout.HostPage
	Registry *walletcheckout.Registry
	Device   walletcheckout.DeviceCapabilities

	// Fetch loads the wallet SDK. The shared cache guarantees at most one
	// load per config key.
	Fetch walletcheckout.SDKFetcher

	Metrics walletcheckout.MetricsRecorder
	Logger  *log.Logger

	// ProductID is the buy-now context on product pages, "" on cart pages.
	ProductID string
	SignedIn  bool

	// CountryCode for the sheet request. Defaults to "US".
	CountryCode string
	// TotalLabel shown on the sheet's bottom line. Defaults to the store name
	// the host passes, or "Total".
	TotalLabel string
}

// Adapter drives one payment-method container for the native sheet wallet.
type Adapter struct {
	cfg AdapterConfig

	mu       sync.Mutex
	config   *walletcheckout.Config
	decision walletcheckout.Decision
	cart     walletcheckout.CartInfo
	session  *walletcheckout.Session
}

// New creates an adapter. Render must run before any sheet interaction.
func New(cfg AdapterConfig) *Adapter {
	if cfg.CountryCode == "" {
		cfg.CountryCode = "US"
	}
	return &Adapter{cfg: cfg}
}

// Render fetches configuration, gates eligibility, and loads the SDK. An
// ineligible or misconfigured wallet hides the whole payment-method container;
// a disabled wallet is configuration, not an error the user can act on, so
// Render reports it on the decision rather than as an error.
func (a *Adapter) Render(ctx context.Context, cart walletcheckout.CartInfo) (walletcheckout.Decision, error) {
	cfg, err := a.cfg.Backend.FetchConfig(ctx, walletcheckout.ConfigRequest{
		Wallet:     ModuleCode,
		ConfigOnly: true,
		ProductID:  cart.ProductID,
	})
	if err != nil {
		a.cfg.Host.HidePaymentMethod(ModuleCode)
		a.logf("%s: config fetch failed, hiding payment method: %v", ModuleCode, err)
		return walletcheckout.Decision{Reason: "wallet configuration unavailable"}, err
	}

	decision := walletcheckout.CheckEligibility(a.cfg.Device, ModuleCode, cfg, cart, a.cfg.SignedIn, true)
	a.mu.Lock()
	a.config = cfg
	a.decision = decision
	a.cart = cart
	a.mu.Unlock()

	if !decision.Eligible {
		a.cfg.Host.HidePaymentMethod(ModuleCode)
		a.logf("%s: not eligible: %s", ModuleCode, decision.Reason)
		return decision, nil
	}

	_, err = a.cfg.Registry.SDK().Load(ctx, *cfg, CapabilityPaymentSession, a.cfg.Fetch)
	if a.cfg.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		a.cfg.Metrics.SDKLoadFinished(result)
	}
	if err != nil {
		a.cfg.Host.HidePaymentMethod(ModuleCode)
		a.logf("%s: sdk load failed, hiding payment method: %v", ModuleCode, err)
		return walletcheckout.Decision{Reason: "wallet sdk unavailable"}, err
	}

	if !a.cfg.Registry.MarkRendered(ModuleCode) {
		a.logf("%s: button already rendered, skipping", ModuleCode)
	}
	return decision, nil
}

// BeginPayment starts a session for a button activation and returns the sheet
// request. It must run synchronously inside the activation gesture, so it does
// no I/O. A re-click while the sheet is already open is a no-op and returns an
// invalid-state error the caller discards.
func (a *Adapter) BeginPayment() (*SheetRequest, error) {
	a.mu.Lock()
	cfg := a.config
	decision := a.decision
	cart := a.cart
	a.mu.Unlock()

	if cfg == nil || !decision.Eligible {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "wallet not rendered", nil)
	}

	var bridge *walletcheckout.ShippingBridge
	if cfg.CartRequiresShipping {
		bridge = walletcheckout.NewShippingBridge(a.cfg.Backend, ModuleCode, cart.ProductID)
	}

	session := walletcheckout.NewSession(walletcheckout.SessionConfig{
		Module:     ModuleCode,
		Config:     *cfg,
		Backend:    a.cfg.Backend,
		Gateway:    a.cfg.Gateway,
		Host:       a.cfg.Host,
		Registry:   a.cfg.Registry,
		Bridge:     bridge,
		Metrics:    a.cfg.Metrics,
		Logger:     a.cfg.Logger,
		SignedIn:   a.cfg.SignedIn,
		ProductID:  cart.ProductID,
		Reclick:    walletcheckout.ReclickIgnore,
		TotalLabel: a.cfg.TotalLabel,
	})

	total, err := session.Begin()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	req := &SheetRequest{
		CountryCode:        a.cfg.CountryCode,
		CurrencyCode:       cfg.Currency,
		MerchantIdentifier: cfg.MerchantID,
		SupportedNetworks:  cfg.AllowedPaymentMethods,
		Total:              Total{Label: total.Label, Amount: total.Amount},
	}
	if cfg.CartRequiresShipping {
		req.RequiredShippingContactFields = []string{"postalAddress", "name", "phone"}
	}
	req.RequiredBillingContactFields = []string{"postalAddress"}
	if decision.RequestEmail {
		req.RequiredShippingContactFields = append(req.RequiredShippingContactFields, "email")
	}
	return req, nil
}

// OnValidateMerchant handles the sheet's merchant validation callback. A
// non-nil return means the caller must abort the sheet.
func (a *Adapter) OnValidateMerchant(ctx context.Context, validationToken string) error {
	s := a.currentSession()
	if s == nil {
		return walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "no active payment attempt", nil)
	}
	return s.HandleMerchantValidation(ctx, validationToken)
}

// OnShippingContactSelected renegotiates shipping for the (possibly redacted)
// contact the sheet reveals. An unserviceable address keeps the sheet open
// with a field-level error.
func (a *Adapter) OnShippingContactSelected(ctx context.Context, contact PaymentContact) PaymentRequestUpdate {
	s := a.currentSession()
	if s == nil {
		return PaymentRequestUpdate{Errors: []SheetError{{
			Code:    "unknown",
			Message: "no active payment attempt",
		}}}
	}
	return sheetUpdate(s.HandleShippingContactSelected(ctx, contact.Canonical()))
}

// OnShippingMethodSelected renegotiates for a new method, replaying the cached
// contact.
func (a *Adapter) OnShippingMethodSelected(ctx context.Context, identifier string) PaymentRequestUpdate {
	s := a.currentSession()
	if s == nil {
		return PaymentRequestUpdate{Errors: []SheetError{{
			Code:    "unknown",
			Message: "no active payment attempt",
		}}}
	}
	return sheetUpdate(s.HandleShippingOptionSelected(ctx, identifier))
}

// OnPaymentAuthorized runs the back half of the attempt and reports the
// result code for the sheet to display. Every failure class maps to the same
// generic failure status; the detail lives in the log.
func (a *Adapter) OnPaymentAuthorized(ctx context.Context, authorizationToken string, billing, shipping *PaymentContact) int {
	s := a.currentSession()
	if s == nil {
		return StatusFailure
	}

	contacts := walletcheckout.AuthorizedContacts{}
	if billing != nil {
		addr := billing.Canonical()
		contacts.Billing = &addr
	}
	if shipping != nil {
		addr := shipping.Canonical()
		contacts.Shipping = &addr
	}

	if _, err := s.HandleAuthorized(ctx, authorizationToken, contacts); err != nil {
		a.logf("%s: payment attempt failed: %v", ModuleCode, err)
		return StatusFailure
	}
	return StatusSuccess
}

// OnCancel handles the sheet's cancel callback, which also fires after a
// programmatic abort.
func (a *Adapter) OnCancel() {
	if s := a.currentSession(); s != nil {
		s.HandleCancel()
	}
}

func (a *Adapter) currentSession() *walletcheckout.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *Adapter) logf(format string, args ...interface{}) {
	if a.cfg.Logger != nil {
		a.cfg.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// sheetUpdate translates a session shipping update into the sheet's response
// shape. Unserviceable becomes a shippingContactInvalid field error so the
// sheet stays open.
func sheetUpdate(upd walletcheckout.ShippingUpdate) PaymentRequestUpdate {
	out := PaymentRequestUpdate{
		NewTotal:           Total{Label: upd.Total.Label, Amount: upd.Total.Amount},
		NewShippingMethods: shippingMethods(upd.Options),
		NewLineItems:       lineItems(upd.LineItems),
	}
	if upd.Unserviceable {
		out.Errors = []SheetError{{
			Code:         ErrorCodeShippingContactInvalid,
			ContactField: "postalAddress",
			Message:      "We can't ship to this address.",
		}}
	}
	return out
}
