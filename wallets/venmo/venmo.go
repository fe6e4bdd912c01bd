// Package venmo renders the secondary funding source that rides the hosted
// button provider's SDK. The callback protocol, session handling, and wire
// shapes are identical to the primary funding source; only the module and
// funding codes differ, so the backend and host page track it as its own
// payment method.
package venmo

import (
	"github.com/walletcheckout/sdk/go/wallets/paypal"
)

// ModuleCode identifies this funding source to the backend and host page.
const ModuleCode = "venmo"

// Adapter drives the secondary funding source's payment-method container.
type Adapter = paypal.Adapter

// New creates an adapter bound to the venmo funding source. Module, funding,
// and capability settings on cfg are overridden.
func New(cfg paypal.AdapterConfig) *Adapter {
	cfg.Module = ModuleCode
	cfg.Funding = ModuleCode
	cfg.Capability = ModuleCode
	return paypal.New(cfg)
}
