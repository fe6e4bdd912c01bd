// Package paypal adapts provider-hosted buttons to the checkout engine. The
// provider popup owns the UI; the adapter maps its callback protocol (click,
// create-order, shipping-change, approve, cancel, error) onto the session
// machine. The same adapter serves secondary funding sources that ride the
// provider's SDK with a different funding code.
package paypal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

// DefaultModule is the primary funding source's module code.
const DefaultModule = "paypal"

// DefaultCapability is the SDK sub-API the hosted buttons need.
const DefaultCapability = "buttons"

// AdapterConfig wires the adapter to its collaborators.
type AdapterConfig struct {
	Backend  walletcheckout.BackendClient
	Gateway  walletcheckout.WalletGateway
	Host     walletcheckout.HostPage
	Registry *walletcheckout.Registry
	Device   walletcheckout.DeviceCapabilities

	Fetch walletcheckout.SDKFetcher

	Metrics walletcheckout.MetricsRecorder
	Logger  *log.Logger

	ProductID string
	SignedIn  bool

	// Module identifies this button to the backend and host page. Secondary
	// funding sources override it. Defaults to "paypal".
	Module string
	// Funding is the SDK funding-source code. Defaults to Module.
	Funding string
	// Capability is the SDK sub-API to probe for. Defaults to "buttons".
	Capability string

	TotalLabel string
}

// Adapter drives one hosted-button payment-method container.
type Adapter struct {
	cfg AdapterConfig

	mu       sync.Mutex
	config   *walletcheckout.Config
	decision walletcheckout.Decision
	cart     walletcheckout.CartInfo
	session  *walletcheckout.Session
}

// New creates a hosted-button adapter.
func New(cfg AdapterConfig) *Adapter {
	if cfg.Module == "" {
		cfg.Module = DefaultModule
	}
	if cfg.Funding == "" {
		cfg.Funding = cfg.Module
	}
	if cfg.Capability == "" {
		cfg.Capability = DefaultCapability
	}
	return &Adapter{cfg: cfg}
}

// Module returns the module code this adapter renders under.
func (a *Adapter) Module() string {
	return a.cfg.Module
}

// Funding returns the SDK funding-source code.
func (a *Adapter) Funding() string {
	return a.cfg.Funding
}

// Render fetches configuration, gates eligibility, and loads the button SDK.
// Hosted buttons collect shipping in the provider popup against the client id
// alone, so no merchant identifier is required for shipping carts.
func (a *Adapter) Render(ctx context.Context, cart walletcheckout.CartInfo) (walletcheckout.Decision, error) {
	cfg, err := a.cfg.Backend.FetchConfig(ctx, walletcheckout.ConfigRequest{
		Wallet:     a.cfg.Module,
		ConfigOnly: true,
		ProductID:  cart.ProductID,
	})
	if err != nil {
		a.cfg.Host.HidePaymentMethod(a.cfg.Module)
		a.logf("%s: config fetch failed, hiding payment method: %v", a.cfg.Module, err)
		return walletcheckout.Decision{Reason: "wallet configuration unavailable"}, err
	}

	decision := walletcheckout.CheckEligibility(a.cfg.Device, a.cfg.Module, cfg, cart, a.cfg.SignedIn, false)
	a.mu.Lock()
	a.config = cfg
	a.decision = decision
	a.cart = cart
	a.mu.Unlock()

	if !decision.Eligible {
		a.cfg.Host.HidePaymentMethod(a.cfg.Module)
		a.logf("%s: not eligible: %s", a.cfg.Module, decision.Reason)
		return decision, nil
	}

	_, err = a.cfg.Registry.SDK().Load(ctx, *cfg, a.cfg.Capability, a.cfg.Fetch)
	if a.cfg.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		a.cfg.Metrics.SDKLoadFinished(result)
	}
	if err != nil {
		a.cfg.Host.HidePaymentMethod(a.cfg.Module)
		a.logf("%s: sdk load failed, hiding payment method: %v", a.cfg.Module, err)
		return walletcheckout.Decision{Reason: "wallet sdk unavailable"}, err
	}

	if !a.cfg.Registry.MarkRendered(a.cfg.Module) {
		a.logf("%s: button already rendered, skipping", a.cfg.Module)
	}
	return decision, nil
}

// OnClick starts a session for a button activation. The provider popup has no
// merchant validation step, so the session advances straight past it. A click
// while a prior attempt is still live aborts that attempt: the popup was
// dismissed without firing cancel, and the stale session would otherwise block
// the retry.
func (a *Adapter) OnClick() error {
	a.mu.Lock()
	cfg := a.config
	decision := a.decision
	cart := a.cart
	a.mu.Unlock()

	if cfg == nil || !decision.Eligible {
		return walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "wallet not rendered", nil)
	}

	var bridge *walletcheckout.ShippingBridge
	if cfg.CartRequiresShipping {
		bridge = walletcheckout.NewShippingBridge(a.cfg.Backend, a.cfg.Module, cart.ProductID)
	}

	session := walletcheckout.NewSession(walletcheckout.SessionConfig{
		Module:     a.cfg.Module,
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
		Reclick:    walletcheckout.ReclickAbortPrior,
		TotalLabel: a.cfg.TotalLabel,
	})

	if _, err := session.Begin(); err != nil {
		return err
	}
	session.AdvancePastValidation()

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	return nil
}

// CreateOrder is the provider's create-order callback. The popup opens before
// any order exists, so this is where deferred creation happens; re-entry on
// the same attempt returns the same order id.
func (a *Adapter) CreateOrder(ctx context.Context) (string, error) {
	s := a.currentSession()
	if s == nil {
		return "", walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "no active payment attempt", nil)
	}
	order, err := s.EnsureOrder(ctx)
	if err != nil {
		a.logf("%s: order creation failed: %v", a.cfg.Module, err)
		return "", err
	}
	return order.ID, nil
}

// OnShippingChange renegotiates for the popup's shipping-change event. The
// provider sends both the address and the selected option in one event, so
// the contact is cached first and the renegotiation keyed to whichever part
// changed. A non-nil error tells the caller to reject the change, which keeps
// the popup open on the previous state.
func (a *Adapter) OnShippingChange(ctx context.Context, change ShippingChange) (*ShippingChangeResult, error) {
	s := a.currentSession()
	if s == nil {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "no active payment attempt", nil)
	}

	addr := change.ShippingAddress.Canonical()
	var upd walletcheckout.ShippingUpdate
	if change.SelectedShippingOption != nil {
		s.SetShippingContact(addr)
		upd = s.HandleShippingOptionSelected(ctx, change.SelectedShippingOption.ID)
	} else {
		upd = s.HandleShippingContactSelected(ctx, addr)
	}

	if upd.Unserviceable {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeShipping, "address not serviceable", nil)
	}
	return &ShippingChangeResult{
		Total:   upd.Total,
		Options: upd.Options,
	}, nil
}

// OnApprove runs the back half of the attempt after the user approved in the
// popup. The provider's order id must match the session's; a mismatch means
// the popup and the session drifted apart and the attempt is unsafe to
// capture.
func (a *Adapter) OnApprove(ctx context.Context, data ApproveData, payer *Payer) (*walletcheckout.SubmitResult, error) {
	s := a.currentSession()
	if s == nil {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeSessionState, "no active payment attempt", nil)
	}
	if have := s.OrderID(); have != "" && data.OrderID != "" && have != data.OrderID {
		s.Abort(fmt.Sprintf("approval order id %s does not match session order %s", data.OrderID, have))
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeAuthorization, "approval does not match this payment attempt", nil)
	}

	contacts := walletcheckout.AuthorizedContacts{}
	if payer != nil {
		billing := walletcheckout.Address{
			Name:  strings.TrimSpace(payer.Name.GivenName + " " + payer.Name.Surname),
			Email: payer.EmailAddress,
		}
		contacts.Billing = &billing
		if payer.Address != nil {
			shipping := payer.Address.Canonical()
			contacts.Shipping = &shipping
		}
	}

	return s.HandleAuthorized(ctx, data.PayerID, contacts)
}

// OnCancel handles the popup's cancel callback.
func (a *Adapter) OnCancel() {
	if s := a.currentSession(); s != nil {
		s.HandleCancel()
	}
}

// OnError handles the popup's hard-error callback.
func (a *Adapter) OnError(err error) {
	if s := a.currentSession(); s != nil {
		s.Abort(fmt.Sprintf("provider reported error: %v", err))
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
