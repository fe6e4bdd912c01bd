// Package hostpage provides an in-memory implementation of the host checkout
// page surface. Browser hosts bind the same interface to their DOM; this
// implementation records every interaction, which also makes it the standard
// host for tests and examples.
package hostpage

import (
	"sync"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

// PayloadEvent is one dispatched payload notification.
type PayloadEvent struct {
	Module  string
	Payload walletcheckout.CheckoutPayload
}

// Page is a recording host checkout page.
type Page struct {
	mu sync.Mutex

	total string
	email string

	selectedMethod  string
	fields          map[string]string
	submissions     int
	processingShown bool
	hiddenMethods   map[string]bool
	events          []PayloadEvent
	redirectedTo    string
}

// New creates a page displaying the given total, with the logged-in user's
// email ("" for guests).
func New(visibleTotal, sessionEmail string) *Page {
	return &Page{
		total:         visibleTotal,
		email:         sessionEmail,
		fields:        make(map[string]string),
		hiddenMethods: make(map[string]bool),
	}
}

// SetVisibleTotal updates the displayed order total, as the cart subsystem
// would after a "total changed" event.
func (p *Page) SetVisibleTotal(total string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *Page) SelectPaymentMethod(module string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectedMethod = module
}

func (p *Page) VisibleTotal() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total == "" {
		return "", false
	}
	return p.total, true
}

func (p *Page) SetHiddenField(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if value == "" {
		delete(p.fields, name)
		return
	}
	p.fields[name] = value
}

func (p *Page) SubmitCheckoutForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submissions++
}

func (p *Page) ShowProcessing() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processingShown = true
}

func (p *Page) HideProcessing() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processingShown = false
}

func (p *Page) HidePaymentMethod(module string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hiddenMethods[module] = true
}

func (p *Page) DispatchPayloadEvent(module string, payload walletcheckout.CheckoutPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PayloadEvent{Module: module, Payload: payload})
}

func (p *Page) Redirect(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redirectedTo = url
}

func (p *Page) SessionEmail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.email
}

// ============================================================================
// Inspection helpers
// ============================================================================

// SelectedMethod returns the checked payment-method radio.
func (p *Page) SelectedMethod() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedMethod
}

// Field returns the current value of a hidden field ("" when cleared).
func (p *Page) Field(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fields[name]
}

// SubmitCount returns how many native form submissions fired.
func (p *Page) SubmitCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submissions
}

// ProcessingShown reports whether the overlay is up.
func (p *Page) ProcessingShown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processingShown
}

// MethodHidden reports whether the module's container was hidden.
func (p *Page) MethodHidden(module string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hiddenMethods[module]
}

// Events returns all dispatched payload events.
func (p *Page) Events() []PayloadEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PayloadEvent, len(p.events))
	copy(out, p.events)
	return out
}

// RedirectedTo returns the last redirect target ("" if none).
func (p *Page) RedirectedTo() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redirectedTo
}
