package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configResponseSchema describes the config endpoint's envelope. Validation
// runs before decoding so a malformed backend deployment is reported as a
// schema problem instead of a zero-valued config.
const configResponseSchema = `{
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "clientId": {"type": "string"},
    "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
    "merchantId": {"type": "string"},
    "environment": {"type": "string", "enum": ["sandbox", "production"]},
    "cartRequiresShipping": {"type": "boolean"},
    "guestEmailRequired": {"type": "boolean"},
    "allowedPaymentMethods": {
      "type": "array",
      "items": {"type": "string"}
    },
    "orderID": {"type": "string"},
    "amount": {"type": "string"}
  }
}`

var configSchema = gojsonschema.NewStringLoader(configResponseSchema)

// ValidateConfigResponse checks a config endpoint body against the expected
// envelope shape.
func ValidateConfigResponse(body []byte) error {
	result, err := gojsonschema.Validate(configSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("config response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("config response schema violations: %s", strings.Join(problems, "; "))
}
