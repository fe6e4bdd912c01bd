package walletcheckout

import "strings"

// Environment selects which provider endpoints a wallet SDK talks to.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Config is the render-time wallet configuration fetched from the backend.
// It is immutable for the lifetime of a page session.
type Config struct {
	ClientID              string      `json:"clientId"`
	Currency              string      `json:"currency"`
	MerchantID            string      `json:"merchantId,omitempty"`
	Environment           Environment `json:"environment"`
	CartRequiresShipping  bool        `json:"cartRequiresShipping"`
	GuestEmailRequired    bool        `json:"guestEmailRequired,omitempty"`
	AllowedPaymentMethods []string    `json:"allowedPaymentMethods,omitempty"`
}

// CacheKey identifies the SDK variant this config requires. Two configs with
// the same key can share a loaded SDK handle.
func (c Config) CacheKey() string {
	return strings.Join([]string{c.ClientID, c.Currency, c.MerchantID, string(c.Environment)}, "|")
}

// Address is the canonical contact record shared by all wallet adapters.
// Each wallet package converts its provider-specific shape to and from this.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Totals is the amount line displayed at the bottom of a payment sheet.
type Totals struct {
	Label    string `json:"label"`
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// ShippingOption is one selectable shipping method inside the payment sheet.
type ShippingOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Selected    bool   `json:"selected,omitempty"`
}

// LineItem is a display row above the total.
type LineItem struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// ShippingQuote is the backend's answer to a shipping renegotiation.
type ShippingQuote struct {
	Total     Totals           `json:"newTotal"`
	Options   []ShippingOption `json:"newShippingOptions"`
	LineItems []LineItem       `json:"newLineItems,omitempty"`
}

// Order is a backend order created for a single payment attempt.
type Order struct {
	ID       string `json:"orderID"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// CheckoutPayload is the normalized result of a completed wallet session,
// written into the host checkout form before submission.
type CheckoutPayload struct {
	OrderID         string   `json:"orderId"`
	Total           string   `json:"total"`
	Currency        string   `json:"currency"`
	Email           string   `json:"email"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	Module          string   `json:"module"`
}

// IsEmpty reports whether this payload clears rather than arms the
// submission bridge.
func (p CheckoutPayload) IsEmpty() bool {
	return p.OrderID == ""
}

// ConfigRequest asks the backend for wallet configuration. ConfigOnly requests
// guarantee no order side effect; ProductID carries buy-now page context.
type ConfigRequest struct {
	Wallet     string `json:"wallet"`
	ConfigOnly bool   `json:"config_only,omitempty"`
	ProductID  string `json:"products_id,omitempty"`
}

// OrderRequest creates a backend order for an authorized payment attempt.
type OrderRequest struct {
	Wallet    string `json:"wallet"`
	ProductID string `json:"products_id,omitempty"`
}

// ShippingRequest is the body of a shipping renegotiation round trip.
// SelectedShippingOptionID is omitted on the wire when no option has been
// chosen yet.
type ShippingRequest struct {
	Module                   string  `json:"module"`
	ShippingAddress          Address `json:"shippingAddress"`
	SelectedShippingOptionID string  `json:"selectedShippingOptionId,omitempty"`
	ProductID                string  `json:"products_id,omitempty"`
}

// SubmitResult is the checkout endpoint's response.
type SubmitResult struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// SubmitStatusSuccess is the checkout endpoint's accepted status.
const SubmitStatusSuccess = "success"

// ConfirmResult is the wallet SDK's order confirmation response.
type ConfirmResult struct {
	Status string
	Payer  string
}

// CartInfo describes the cart shape relevant to eligibility decisions.
type CartInfo struct {
	RequiresShipping bool
	// ProductID is non-empty on buy-now product pages.
	ProductID string
}
