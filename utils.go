package walletcheckout

import (
	"fmt"
	"strconv"
	"strings"
)

// ZeroAmount is the canonical zero for display amounts.
const ZeroAmount = "0.00"

// NormalizeAmount converts a displayed total like "$1,234.56" into the plain
// decimal string the backend contract uses. Returns false when nothing
// numeric can be extracted.
func NormalizeAmount(display string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			return r
		default:
			return -1
		}
	}, display)

	if strings.Contains(cleaned, ".") {
		// "1,234.56" - commas are thousands separators
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else if strings.Count(cleaned, ",") == 1 {
		// "1234,56" - comma is the decimal separator
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%.2f", f), true
}
