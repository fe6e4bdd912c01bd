package applepay

import (
	"strings"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

// ============================================================================
// Sheet Wire Types
// ============================================================================

// PaymentContact is the payment sheet's contact shape. Redacted contacts are
// normal before authorization: the sheet reveals only enough for shipping
// quotes (locality, region, postal code, country).
type PaymentContact struct {
	GivenName          string   `json:"givenName,omitempty"`
	FamilyName         string   `json:"familyName,omitempty"`
	AddressLines       []string `json:"addressLines,omitempty"`
	Locality           string   `json:"locality,omitempty"`
	AdministrativeArea string   `json:"administrativeArea,omitempty"`
	PostalCode         string   `json:"postalCode,omitempty"`
	CountryCode        string   `json:"countryCode,omitempty"`
	PhoneNumber        string   `json:"phoneNumber,omitempty"`
	EmailAddress       string   `json:"emailAddress,omitempty"`
}

// Canonical converts the sheet contact to the engine's address shape.
func (c PaymentContact) Canonical() walletcheckout.Address {
	addr := walletcheckout.Address{
		Name:       strings.TrimSpace(c.GivenName + " " + c.FamilyName),
		City:       c.Locality,
		Region:     c.AdministrativeArea,
		PostalCode: c.PostalCode,
		Country:    c.CountryCode,
		Phone:      c.PhoneNumber,
		Email:      c.EmailAddress,
	}
	if len(c.AddressLines) > 0 {
		addr.Line1 = c.AddressLines[0]
	}
	if len(c.AddressLines) > 1 {
		addr.Line2 = c.AddressLines[1]
	}
	return addr
}

// ContactFromAddress converts a canonical address back to the sheet shape.
func ContactFromAddress(addr walletcheckout.Address) PaymentContact {
	c := PaymentContact{
		Locality:           addr.City,
		AdministrativeArea: addr.Region,
		PostalCode:         addr.PostalCode,
		CountryCode:        addr.Country,
		PhoneNumber:        addr.Phone,
		EmailAddress:       addr.Email,
	}
	if addr.Name != "" {
		parts := strings.SplitN(addr.Name, " ", 2)
		c.GivenName = parts[0]
		if len(parts) > 1 {
			c.FamilyName = parts[1]
		}
	}
	if addr.Line1 != "" {
		c.AddressLines = append(c.AddressLines, addr.Line1)
	}
	if addr.Line2 != "" {
		c.AddressLines = append(c.AddressLines, addr.Line2)
	}
	return c
}

// ShippingMethod is one selectable method in the sheet.
type ShippingMethod struct {
	Identifier string `json:"identifier"`
	Label      string `json:"label"`
	Detail     string `json:"detail,omitempty"`
	Amount     string `json:"amount"`
}

func shippingMethods(options []walletcheckout.ShippingOption) []ShippingMethod {
	methods := make([]ShippingMethod, 0, len(options))
	for _, opt := range options {
		methods = append(methods, ShippingMethod{
			Identifier: opt.ID,
			Label:      opt.Label,
			Detail:     opt.Description,
			Amount:     opt.Amount,
		})
	}
	return methods
}

// LineItem is a display row above the sheet total.
type LineItem struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

func lineItems(items []walletcheckout.LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{Label: item.Label, Amount: item.Amount})
	}
	return out
}

// Total is the sheet's bottom line.
type Total struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// SheetError tells the sheet why an update was rejected. The sheet stays open
// and highlights the offending field.
type SheetError struct {
	Code         string `json:"code"`
	ContactField string `json:"contactField,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ErrorCodeShippingContactInvalid marks an address the store cannot ship to.
const ErrorCodeShippingContactInvalid = "shippingContactInvalid"

// PaymentRequestUpdate is the response to a shipping contact or method change.
// A nil Errors slice means the update was accepted.
type PaymentRequestUpdate struct {
	NewTotal           Total            `json:"newTotal"`
	NewShippingMethods []ShippingMethod `json:"newShippingMethods"`
	NewLineItems       []LineItem       `json:"newLineItems,omitempty"`
	Errors             []SheetError     `json:"errors,omitempty"`
}

// SheetRequest is the payment request handed to the sheet constructor inside
// the activation gesture window.
type SheetRequest struct {
	CountryCode                   string   `json:"countryCode"`
	CurrencyCode                  string   `json:"currencyCode"`
	MerchantIdentifier            string   `json:"merchantIdentifier,omitempty"`
	SupportedNetworks             []string `json:"supportedNetworks"`
	Total                         Total    `json:"total"`
	RequiredShippingContactFields []string `json:"requiredShippingContactFields,omitempty"`
	RequiredBillingContactFields  []string `json:"requiredBillingContactFields,omitempty"`
}

// Authorization result codes reported back to the sheet.
const (
	StatusSuccess = 0
	StatusFailure = 1
)
