package walletcheckout

// Decision is the outcome of the eligibility gate, evaluated strictly before
// rendering a wallet button.
type Decision struct {
	Eligible bool
	// Reason explains a negative decision for diagnostics.
	Reason string
	// RequestEmail asks the wallet sheet for an email contact field. Only
	// guests need it; logged-in users' email comes from the session.
	RequestEmail bool
}

// CheckEligibility applies the render-time rules for a wallet button.
// needsInSheetShipping marks wallets that select shipping options inside
// their own sheet and therefore require a verified merchant identifier when
// the cart ships.
//
// A negative decision means the whole payment-method container must be
// hidden, not just the button; a disabled wallet is configuration, not a
// transient error.
func CheckEligibility(device DeviceCapabilities, module string, cfg *Config, cart CartInfo, signedIn, needsInSheetShipping bool) Decision {
	if device == nil || !device.SupportsWallet(module) {
		return Decision{Reason: "wallet capability not present on this device"}
	}
	if !device.CanMakePayments(module) {
		return Decision{Reason: "device reports wallet not usable for payment"}
	}
	if cfg == nil {
		return Decision{Reason: "wallet configuration unavailable"}
	}
	if len(cfg.AllowedPaymentMethods) == 0 {
		return Decision{Reason: "wallet not enabled server-side"}
	}
	if cart.RequiresShipping && needsInSheetShipping && cfg.MerchantID == "" {
		// Rendering anyway would dead-end the user at option selection.
		return Decision{Reason: "shipping cart requires a verified merchant id"}
	}
	return Decision{
		Eligible:     true,
		RequestEmail: !signedIn,
	}
}
