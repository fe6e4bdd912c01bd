package walletcheckout

import (
	"encoding/json"
	"sync"
)

// SubmissionBridge funnels every wallet's checkout result through a single
// native form submission. It is the one choke point preventing
// double-submission across all wallet adapters on a page: once armed, further
// payloads update the hidden fields but never fire a second submission until
// an empty payload resets the bridge.
type SubmissionBridge struct {
	mu         sync.Mutex
	host       HostPage
	metrics    MetricsRecorder
	submitting bool
}

// NewSubmissionBridge creates a bridge for the host checkout form.
func NewSubmissionBridge(host HostPage) *SubmissionBridge {
	return &SubmissionBridge{host: host}
}

// SetMetrics attaches an optional recorder.
func (b *SubmissionBridge) SetMetrics(m MetricsRecorder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics = m
}

// StatusApproved is written to the module's status field for a live payload.
const StatusApproved = "approved"

// SetPayload serializes the payload into the module's hidden fields and, iff
// the payload is non-empty and no submission is in flight, shows the
// processing overlay and triggers the host form's native submission exactly
// once. An empty payload clears the fields and re-arms the bridge. Returns
// whether a submission was fired.
func (b *SubmissionBridge) SetPayload(module string, p CheckoutPayload) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.IsEmpty() {
		b.host.SetHiddenField(payloadField(module), "")
		b.host.SetHiddenField(statusField(module), "")
		b.submitting = false
		return false
	}

	raw, err := json.Marshal(p)
	if err != nil {
		// Payload structs marshal unconditionally; treat this as empty.
		return false
	}
	b.host.SetHiddenField(payloadField(module), string(raw))
	b.host.SetHiddenField(statusField(module), StatusApproved)
	b.host.DispatchPayloadEvent(module, p)

	if b.submitting {
		return false
	}
	b.submitting = true
	b.host.ShowProcessing()
	b.host.SubmitCheckoutForm()
	if b.metrics != nil {
		b.metrics.SubmissionFired(module)
	}
	return true
}

// Submitting reports whether a submission is in flight.
func (b *SubmissionBridge) Submitting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitting
}

func payloadField(module string) string { return module + "_payload" }
func statusField(module string) string  { return module + "_status" }
