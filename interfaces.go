package walletcheckout

import "context"

// SDKHandle is a loaded wallet SDK surface.
type SDKHandle interface {
	// HasCapability reports whether the handle exposes the named sub-API
	// (e.g. the payment-session constructor or a funding source). Cached
	// handles are re-probed before reuse.
	HasCapability(name string) bool
}

// SDKFetcher performs the actual SDK load for a config. The cache guarantees
// at most one fetch is in flight per config key.
type SDKFetcher func(ctx context.Context, cfg Config) (SDKHandle, error)

// BackendClient is the checkout backend boundary: configuration, order
// creation, shipping renegotiation, and checkout submission.
type BackendClient interface {
	// FetchConfig requests render-time configuration. It must not create an
	// order. Any error means "do not render".
	FetchConfig(ctx context.Context, req ConfigRequest) (*Config, error)

	// CreateOrder creates the backend order for an authorized payment attempt.
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)

	// RenegotiateShipping recomputes shipping options and totals for an
	// address. A server-reported unserviceable address is returned as an
	// error with code ErrCodeShipping.
	RenegotiateShipping(ctx context.Context, req ShippingRequest) (*ShippingQuote, error)

	// SubmitCheckout posts the completed payload to the checkout endpoint.
	SubmitCheckout(ctx context.Context, payload CheckoutPayload) (*SubmitResult, error)
}

// WalletGateway is the slice of a wallet SDK the session machine drives.
// Each adapter translates its SDK's shape into this interface; the session
// machine never sees provider-specific types.
type WalletGateway interface {
	// ValidateMerchant forwards an opaque merchant-validation token. Wallets
	// without a validation step return nil unconditionally.
	ValidateMerchant(ctx context.Context, token string) error

	// ConfirmOrder confirms the backend order with the wallet SDK using the
	// authorization token from the sheet.
	ConfirmOrder(ctx context.Context, orderID, authorizationToken string) (*ConfirmResult, error)
}

// DeviceCapabilities is the capability probe consulted before rendering.
type DeviceCapabilities interface {
	// SupportsWallet reports whether the device/browser exposes the wallet
	// API at all.
	SupportsWallet(module string) bool

	// CanMakePayments reports whether the wallet is usable for payment on
	// this device (card provisioned, wallet set up).
	CanMakePayments(module string) bool
}

// HostPage is the checkout page surface the engine drives. Implementations
// must be safe for concurrent use.
type HostPage interface {
	// SelectPaymentMethod checks the payment-method radio for the module.
	// The radio is the single source of truth for the active method.
	SelectPaymentMethod(module string)

	// VisibleTotal returns the order total currently displayed to the user.
	// The session reads it synchronously at button activation so the sheet
	// opens with a real amount, not a placeholder.
	VisibleTotal() (string, bool)

	// SetHiddenField writes a hidden form field. An empty value clears it.
	SetHiddenField(name, value string)

	// SubmitCheckoutForm triggers the host form's native submission.
	SubmitCheckoutForm()

	ShowProcessing()
	HideProcessing()

	// HidePaymentMethod hides the module's entire payment-method container,
	// not just the button.
	HidePaymentMethod(module string)

	// DispatchPayloadEvent publishes the payload so the host page can react
	// without a hard dependency on any one wallet module.
	DispatchPayloadEvent(module string, payload CheckoutPayload)

	// Redirect navigates to a checkout result URL.
	Redirect(url string)

	// SessionEmail returns the logged-in user's email, or "" for guests.
	SessionEmail() string
}

// MetricsRecorder lets hosts observe engine outcomes. Implementations must be
// safe for concurrent use; a nil recorder disables metrics.
type MetricsRecorder interface {
	SessionFinished(module, outcome string)
	RenegotiationFinished(module, result string)
	SubmissionFired(module string)
	SDKLoadFinished(result string)
}
