package walletcheckout

import "testing"

type stubDevice struct {
	supported bool
	usable    bool
}

func (d stubDevice) SupportsWallet(module string) bool  { return d.supported }
func (d stubDevice) CanMakePayments(module string) bool { return d.usable }

func enabledConfig(merchantID string) *Config {
	return &Config{
		ClientID:              "client-1",
		Currency:              "USD",
		MerchantID:            merchantID,
		AllowedPaymentMethods: []string{"visa"},
	}
}

func TestCheckEligibility(t *testing.T) {
	capable := stubDevice{supported: true, usable: true}

	tests := []struct {
		name                 string
		device               DeviceCapabilities
		cfg                  *Config
		cart                 CartInfo
		signedIn             bool
		needsInSheetShipping bool
		wantEligible         bool
		wantRequestEmail     bool
	}{
		{
			name:         "nil device",
			device:       nil,
			cfg:          enabledConfig("merchant.example"),
			wantEligible: false,
		},
		{
			name:         "wallet api absent",
			device:       stubDevice{supported: false},
			cfg:          enabledConfig("merchant.example"),
			wantEligible: false,
		},
		{
			name:         "wallet not usable for payment",
			device:       stubDevice{supported: true, usable: false},
			cfg:          enabledConfig("merchant.example"),
			wantEligible: false,
		},
		{
			name:         "no config",
			device:       capable,
			cfg:          nil,
			wantEligible: false,
		},
		{
			name:         "disabled server-side",
			device:       capable,
			cfg:          &Config{ClientID: "client-1"},
			wantEligible: false,
		},
		{
			name:                 "shipping cart without merchant id, in-sheet shipping",
			device:               capable,
			cfg:                  enabledConfig(""),
			cart:                 CartInfo{RequiresShipping: true},
			needsInSheetShipping: true,
			wantEligible:         false,
		},
		{
			name:                 "shipping cart without merchant id, popup shipping",
			device:               capable,
			cfg:                  enabledConfig(""),
			cart:                 CartInfo{RequiresShipping: true},
			needsInSheetShipping: false,
			wantEligible:         true,
			wantRequestEmail:     true,
		},
		{
			name:                 "non-shipping cart without merchant id",
			device:               capable,
			cfg:                  enabledConfig(""),
			cart:                 CartInfo{RequiresShipping: false},
			needsInSheetShipping: true,
			wantEligible:         true,
			wantRequestEmail:     true,
		},
		{
			name:                 "shipping cart with merchant id",
			device:               capable,
			cfg:                  enabledConfig("merchant.example"),
			cart:                 CartInfo{RequiresShipping: true},
			needsInSheetShipping: true,
			wantEligible:         true,
			wantRequestEmail:     true,
		},
		{
			name:             "signed-in user needs no email field",
			device:           capable,
			cfg:              enabledConfig("merchant.example"),
			signedIn:         true,
			wantEligible:     true,
			wantRequestEmail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckEligibility(tt.device, "applepay", tt.cfg, tt.cart, tt.signedIn, tt.needsInSheetShipping)
			if got.Eligible != tt.wantEligible {
				t.Errorf("Eligible = %v, want %v (reason %q)", got.Eligible, tt.wantEligible, got.Reason)
			}
			if got.RequestEmail != tt.wantRequestEmail {
				t.Errorf("RequestEmail = %v, want %v", got.RequestEmail, tt.wantRequestEmail)
			}
			if !got.Eligible && got.Reason == "" {
				t.Error("negative decision carries no reason")
			}
		})
	}
}
