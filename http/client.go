package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

// ============================================================================
// HTTP Checkout Backend Client
// ============================================================================

// HTTPBackendClient talks to the checkout backend's wallet endpoints.
// Implements walletcheckout.BackendClient.
type HTTPBackendClient struct {
	baseURL      string
	httpClient   *http.Client
	configPath   string
	shippingPath string
	checkoutPath string
}

// BackendConfig configures the HTTP backend client.
type BackendConfig struct {
	// BaseURL is the checkout site origin.
	BaseURL string

	// HTTPClient is the HTTP client to use (optional)
	HTTPClient *http.Client

	// Timeout for requests (optional, defaults to 30s)
	Timeout time.Duration

	// Endpoint paths (optional)
	ConfigPath   string
	ShippingPath string
	CheckoutPath string
}

// Default endpoint paths.
const (
	DefaultConfigPath   = "/wallet/config"
	DefaultShippingPath = "/wallet/shipping"
	DefaultCheckoutPath = "/wallet/checkout"
)

// NewHTTPBackendClient creates a backend client.
func NewHTTPBackendClient(config *BackendConfig) *HTTPBackendClient {
	if config == nil {
		config = &BackendConfig{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	c := &HTTPBackendClient{
		baseURL:      config.BaseURL,
		httpClient:   httpClient,
		configPath:   config.ConfigPath,
		shippingPath: config.ShippingPath,
		checkoutPath: config.CheckoutPath,
	}
	if c.configPath == "" {
		c.configPath = DefaultConfigPath
	}
	if c.shippingPath == "" {
		c.shippingPath = DefaultShippingPath
	}
	if c.checkoutPath == "" {
		c.checkoutPath = DefaultCheckoutPath
	}
	return c
}

// configEnvelope is the config/order endpoint's response body.
type configEnvelope struct {
	Success               bool     `json:"success"`
	Message               string   `json:"message,omitempty"`
	ClientID              string   `json:"clientId,omitempty"`
	Currency              string   `json:"currency,omitempty"`
	MerchantID            string   `json:"merchantId,omitempty"`
	Environment           string   `json:"environment,omitempty"`
	CartRequiresShipping  bool     `json:"cartRequiresShipping,omitempty"`
	GuestEmailRequired    bool     `json:"guestEmailRequired,omitempty"`
	AllowedPaymentMethods []string `json:"allowedPaymentMethods,omitempty"`
	OrderID               string   `json:"orderID,omitempty"`
	Amount                string   `json:"amount,omitempty"`
}

// shippingEnvelope is the shipping endpoint's response body.
type shippingEnvelope struct {
	Error     string                          `json:"error,omitempty"`
	Total     walletcheckout.Totals           `json:"newTotal"`
	Options   []walletcheckout.ShippingOption `json:"newShippingOptions"`
	LineItems []walletcheckout.LineItem       `json:"newLineItems,omitempty"`
}

// FetchConfig requests render-time configuration; no order is created.
// Network and non-JSON failures come back as transport errors, a
// success:false body as a config error; callers treat either as "do not
// render".
func (c *HTTPBackendClient) FetchConfig(ctx context.Context, req walletcheckout.ConfigRequest) (*walletcheckout.Config, error) {
	body, err := c.post(ctx, c.configPath, req)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfigResponse(body); err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeConfig, "config response failed validation", err)
	}

	var envelope configEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "config endpoint returned non-JSON response", err)
	}
	if !envelope.Success {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeConfig, configFailureMessage(envelope.Message), nil)
	}

	return &walletcheckout.Config{
		ClientID:              envelope.ClientID,
		Currency:              envelope.Currency,
		MerchantID:            envelope.MerchantID,
		Environment:           walletcheckout.Environment(envelope.Environment),
		CartRequiresShipping:  envelope.CartRequiresShipping,
		GuestEmailRequired:    envelope.GuestEmailRequired,
		AllowedPaymentMethods: envelope.AllowedPaymentMethods,
	}, nil
}

// CreateOrder creates the backend order for an authorized payment attempt.
func (c *HTTPBackendClient) CreateOrder(ctx context.Context, req walletcheckout.OrderRequest) (*walletcheckout.Order, error) {
	body, err := c.post(ctx, c.configPath, req)
	if err != nil {
		return nil, err
	}

	var envelope configEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "order endpoint returned non-JSON response", err)
	}
	if !envelope.Success {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeOrderCreate, configFailureMessage(envelope.Message), nil)
	}
	if envelope.OrderID == "" {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeOrderCreate, "order endpoint returned no order id", nil)
	}

	return &walletcheckout.Order{
		ID:       envelope.OrderID,
		Amount:   envelope.Amount,
		Currency: envelope.Currency,
	}, nil
}

// RenegotiateShipping posts an address change to the shipping endpoint. A
// server-reported error becomes a shipping_unserviceable error; the caller
// translates it into its wallet's own reason vocabulary.
func (c *HTTPBackendClient) RenegotiateShipping(ctx context.Context, req walletcheckout.ShippingRequest) (*walletcheckout.ShippingQuote, error) {
	body, err := c.post(ctx, c.shippingPath, req)
	if err != nil {
		return nil, err
	}

	var envelope shippingEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "shipping endpoint returned non-JSON response", err)
	}
	if envelope.Error != "" {
		return nil, walletcheckout.NewWalletError(walletcheckout.ErrCodeShipping, envelope.Error, nil)
	}

	return &walletcheckout.ShippingQuote{
		Total:     envelope.Total,
		Options:   envelope.Options,
		LineItems: envelope.LineItems,
	}, nil
}

// SubmitCheckout posts the completed payload. A well-formed non-success
// response is returned as a result, not an error; the session surfaces it
// inline and re-arms the bridge.
func (c *HTTPBackendClient) SubmitCheckout(ctx context.Context, payload walletcheckout.CheckoutPayload) (*walletcheckout.SubmitResult, error) {
	body, err := c.post(ctx, c.checkoutPath, payload)
	if err != nil {
		return nil, err
	}

	var result walletcheckout.SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "checkout endpoint returned non-JSON response", err)
	}
	return &result, nil
}

// post sends one JSON request and reads the body. Transport failures and
// non-2xx statuses are normalized to transport errors.
func (c *HTTPBackendClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "request failed", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, walletcheckout.WrapWalletError(walletcheckout.ErrCodeTransport, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, walletcheckout.NewWalletError(
			walletcheckout.ErrCodeTransport,
			fmt.Sprintf("backend returned %d: %s", resp.StatusCode, truncate(responseBody, 256)),
			nil,
		)
	}
	return responseBody, nil
}

func configFailureMessage(message string) string {
	if message == "" {
		return "wallet not configured"
	}
	return message
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
