package paypal

import (
	walletcheckout "github.com/walletcheckout/sdk/go"
)

// ============================================================================
// Provider Button Wire Types
// ============================================================================

// ButtonAddress is the provider's address shape.
type ButtonAddress struct {
	RecipientName string `json:"recipient_name,omitempty"`
	Line1         string `json:"line1,omitempty"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Canonical converts the provider address to the engine's shape.
func (a ButtonAddress) Canonical() walletcheckout.Address {
	return walletcheckout.Address{
		Name:       a.RecipientName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.State,
		PostalCode: a.PostalCode,
		Country:    a.CountryCode,
		Phone:      a.Phone,
	}
}

// AddressToButton converts a canonical address to the provider shape.
func AddressToButton(addr walletcheckout.Address) ButtonAddress {
	return ButtonAddress{
		RecipientName: addr.Name,
		Line1:         addr.Line1,
		Line2:         addr.Line2,
		City:          addr.City,
		State:         addr.Region,
		PostalCode:    addr.PostalCode,
		CountryCode:   addr.Country,
		Phone:         addr.Phone,
	}
}

// SelectedShippingOption is the option chosen inside the provider popup.
type SelectedShippingOption struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// ShippingChange is the popup's shipping-change event. The provider sends the
// address on every change and the selected option only when the user changed
// it.
type ShippingChange struct {
	ShippingAddress        ButtonAddress           `json:"shipping_address"`
	SelectedShippingOption *SelectedShippingOption `json:"selected_shipping_option,omitempty"`
}

// ShippingChangeResult is the accepted response to a shipping change.
type ShippingChangeResult struct {
	Total   walletcheckout.Totals           `json:"amount"`
	Options []walletcheckout.ShippingOption `json:"shipping_options,omitempty"`
}

// PayerName is the payer's name as reported at approval.
type PayerName struct {
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

// Payer is the approval event's payer record.
type Payer struct {
	EmailAddress string         `json:"email_address,omitempty"`
	Name         PayerName      `json:"name,omitempty"`
	Address      *ButtonAddress `json:"address,omitempty"`
}

// ApproveData is the approval event's identifiers.
type ApproveData struct {
	OrderID string `json:"orderID"`
	PayerID string `json:"payerID,omitempty"`
}
