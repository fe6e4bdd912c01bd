package walletcheckout

import "context"

// ShippingBridge drives the shared shipping-quote endpoint for one wallet
// module. Wallet adapters convert their provider address shape to the
// canonical Address before calling it; the bridge adds buy-now product
// context and leaves error translation to the caller.
type ShippingBridge struct {
	backend   BackendClient
	module    string
	productID string
}

// NewShippingBridge creates a bridge for a module. productID is the buy-now
// context on product-detail pages, "" on cart pages.
func NewShippingBridge(backend BackendClient, module, productID string) *ShippingBridge {
	return &ShippingBridge{
		backend:   backend,
		module:    module,
		productID: productID,
	}
}

// Renegotiate posts the address (and, when set, the selected option) to the
// shipping endpoint. A server-reported unserviceable address surfaces as an
// error with code ErrCodeShipping; a transport failure as any other error,
// and the caller must produce a safe default rather than leaving the sheet
// hanging.
func (b *ShippingBridge) Renegotiate(ctx context.Context, addr Address, selectedOptionID string) (*ShippingQuote, error) {
	req := ShippingRequest{
		Module:                   b.module,
		ShippingAddress:          addr,
		SelectedShippingOptionID: selectedOptionID,
		ProductID:                b.productID,
	}
	return b.backend.RenegotiateShipping(ctx, req)
}

// SafeShippingDefault is the quote returned to a sheet when renegotiation
// failed in transit: zeroed total, no options. The sheet shows an unusable
// but responsive state instead of hanging.
func SafeShippingDefault(label, currency string) ShippingUpdate {
	return ShippingUpdate{
		Total:   Totals{Label: label, Amount: ZeroAmount, Currency: currency},
		Options: []ShippingOption{},
	}
}
