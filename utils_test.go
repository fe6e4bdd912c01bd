package walletcheckout

import "testing"

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
		wantOK  bool
	}{
		{"plain", "25.00", "25.00", true},
		{"dollar sign", "$25.00", "25.00", true},
		{"thousands separator", "$1,234.56", "1234.56", true},
		{"comma decimal", "1234,56", "1234.56", true},
		{"repeated comma thousands", "1,234,567", "1234567.00", true},
		{"currency suffix", "25.00 USD", "25.00", true},
		{"euro prefix", "€9,99", "9.99", true},
		{"whole number", "42", "42.00", true},
		{"rounds to cents", "19.999", "20.00", true},
		{"empty", "", "", false},
		{"no digits", "Total:", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAmount(tt.display)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeAmount(%q) ok = %v, want %v", tt.display, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("NormalizeAmount(%q) = %q, want %q", tt.display, got, tt.want)
			}
		})
	}
}
