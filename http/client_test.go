package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	walletcheckout "github.com/walletcheckout/sdk/go"
)

func TestFetchConfig(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  string
		wantCheck func(t *testing.T, cfg *walletcheckout.Config)
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{"success":true,"clientId":"client-1","currency":"USD","merchantId":"merchant.com.example",
				"environment":"sandbox","cartRequiresShipping":true,"guestEmailRequired":true,
				"allowedPaymentMethods":["visa","masterCard"]}`,
			wantCheck: func(t *testing.T, cfg *walletcheckout.Config) {
				if cfg.ClientID != "client-1" {
					t.Errorf("ClientID = %q, want client-1", cfg.ClientID)
				}
				if cfg.Currency != "USD" {
					t.Errorf("Currency = %q, want USD", cfg.Currency)
				}
				if cfg.Environment != walletcheckout.EnvironmentSandbox {
					t.Errorf("Environment = %q, want sandbox", cfg.Environment)
				}
				if !cfg.CartRequiresShipping {
					t.Error("expected CartRequiresShipping")
				}
				if !cfg.GuestEmailRequired {
					t.Error("expected GuestEmailRequired")
				}
				if len(cfg.AllowedPaymentMethods) != 2 {
					t.Errorf("AllowedPaymentMethods = %v, want 2 entries", cfg.AllowedPaymentMethods)
				}
			},
		},
		{
			name:     "wallet disabled",
			status:   http.StatusOK,
			body:     `{"success":false,"message":"wallet disabled for store"}`,
			wantCode: walletcheckout.ErrCodeConfig,
		},
		{
			name:     "schema violation",
			status:   http.StatusOK,
			body:     `{"success":true,"currency":"us dollars"}`,
			wantCode: walletcheckout.ErrCodeConfig,
		},
		{
			name:     "non-JSON body",
			status:   http.StatusOK,
			body:     `<html>maintenance</html>`,
			wantCode: walletcheckout.ErrCodeConfig,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `boom`,
			wantCode: walletcheckout.ErrCodeTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != DefaultConfigPath {
					t.Errorf("path = %q, want %q", r.URL.Path, DefaultConfigPath)
				}
				if r.Method != "POST" {
					t.Errorf("method = %q, want POST", r.Method)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
			cfg, err := client.FetchConfig(context.Background(), walletcheckout.ConfigRequest{
				Wallet:     "applepay",
				ConfigOnly: true,
			})

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if got := walletcheckout.ErrorCode(err); got != tt.wantCode {
					t.Errorf("error code = %q, want %q", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchConfig failed: %v", err)
			}
			tt.wantCheck(t, cfg)
		})
	}
}

func TestFetchConfigSendsRequestBody(t *testing.T) {
	var got walletcheckout.ConfigRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{"success":true,"clientId":"c","currency":"USD"}`))
	}))
	defer server.Close()

	client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
	_, err := client.FetchConfig(context.Background(), walletcheckout.ConfigRequest{
		Wallet:     "paypal",
		ConfigOnly: true,
		ProductID:  "prod-9",
	})
	if err != nil {
		t.Fatalf("FetchConfig failed: %v", err)
	}
	if got.Wallet != "paypal" || !got.ConfigOnly || got.ProductID != "prod-9" {
		t.Errorf("request body = %+v", got)
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantID   string
	}{
		{
			name:   "success",
			body:   `{"success":true,"orderID":"ORD-42","amount":"19.99","currency":"USD"}`,
			wantID: "ORD-42",
		},
		{
			name:     "success without order id",
			body:     `{"success":true}`,
			wantCode: walletcheckout.ErrCodeOrderCreate,
		},
		{
			name:     "declined",
			body:     `{"success":false,"message":"cart expired"}`,
			wantCode: walletcheckout.ErrCodeOrderCreate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
			order, err := client.CreateOrder(context.Background(), walletcheckout.OrderRequest{Wallet: "paypal"})

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if got := walletcheckout.ErrorCode(err); got != tt.wantCode {
					t.Errorf("error code = %q, want %q", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateOrder failed: %v", err)
			}
			if order.ID != tt.wantID {
				t.Errorf("order ID = %q, want %q", order.ID, tt.wantID)
			}
		})
	}
}

func TestRenegotiateShipping(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != DefaultShippingPath {
				t.Errorf("path = %q, want %q", r.URL.Path, DefaultShippingPath)
			}
			var req walletcheckout.ShippingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.ShippingAddress.PostalCode != "94105" {
				t.Errorf("postal code = %q, want 94105", req.ShippingAddress.PostalCode)
			}
			w.Write([]byte(`{
				"newTotal":{"label":"Total","amount":"27.49","currency":"USD"},
				"newShippingOptions":[
					{"id":"standard","label":"Standard","amount":"4.99","selected":true},
					{"id":"express","label":"Express","amount":"12.99"}
				],
				"newLineItems":[{"label":"Shipping","amount":"4.99"}]
			}`))
		}))
		defer server.Close()

		client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
		quote, err := client.RenegotiateShipping(context.Background(), walletcheckout.ShippingRequest{
			Module:          "applepay",
			ShippingAddress: walletcheckout.Address{PostalCode: "94105", Country: "US"},
		})
		if err != nil {
			t.Fatalf("RenegotiateShipping failed: %v", err)
		}
		if quote.Total.Amount != "27.49" {
			t.Errorf("total = %q, want 27.49", quote.Total.Amount)
		}
		if len(quote.Options) != 2 || !quote.Options[0].Selected {
			t.Errorf("options = %+v", quote.Options)
		}
	})

	t.Run("unserviceable address", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"no shipping methods for address"}`))
		}))
		defer server.Close()

		client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
		_, err := client.RenegotiateShipping(context.Background(), walletcheckout.ShippingRequest{Module: "applepay"})
		if err == nil {
			t.Fatal("expected error")
		}
		if !walletcheckout.IsAddressUnserviceable(err) {
			t.Errorf("expected shipping_unserviceable, got %v", err)
		}
	})
}

func TestSubmitCheckout(t *testing.T) {
	t.Run("success with redirect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != DefaultCheckoutPath {
				t.Errorf("path = %q, want %q", r.URL.Path, DefaultCheckoutPath)
			}
			w.Write([]byte(`{"status":"success","redirect_url":"/order/confirmation"}`))
		}))
		defer server.Close()

		client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
		result, err := client.SubmitCheckout(context.Background(), walletcheckout.CheckoutPayload{OrderID: "ORD-1"})
		if err != nil {
			t.Fatalf("SubmitCheckout failed: %v", err)
		}
		if result.Status != walletcheckout.SubmitStatusSuccess {
			t.Errorf("status = %q, want success", result.Status)
		}
		if result.RedirectURL != "/order/confirmation" {
			t.Errorf("redirect = %q", result.RedirectURL)
		}
	})

	t.Run("declined is a result, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","message":"payment could not be captured"}`))
		}))
		defer server.Close()

		client := NewHTTPBackendClient(&BackendConfig{BaseURL: server.URL})
		result, err := client.SubmitCheckout(context.Background(), walletcheckout.CheckoutPayload{OrderID: "ORD-1"})
		if err != nil {
			t.Fatalf("SubmitCheckout failed: %v", err)
		}
		if result.Status == walletcheckout.SubmitStatusSuccess {
			t.Error("expected non-success status")
		}
		if result.Message == "" {
			t.Error("expected message")
		}
	})
}

func TestValidateConfigResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"minimal", `{"success":false}`, false},
		{"full", `{"success":true,"clientId":"c","currency":"EUR","environment":"production"}`, false},
		{"missing success", `{"clientId":"c"}`, true},
		{"bad currency", `{"success":true,"currency":"euro"}`, true},
		{"bad environment", `{"success":true,"environment":"staging"}`, true},
		{"not JSON", `nope`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfigResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
