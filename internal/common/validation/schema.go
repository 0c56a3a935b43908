// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "email-ledger/internal/common/errors"
)

// processRequestSchema is the shape the mail watcher posts to /process.
// Everything beyond the three top-level fields is passed through untouched.
// An absent email_details is tolerated; the pipeline reports it as an email
// with no content rather than a protocol error.
const processRequestSchema = `{
	"type": "object",
	"properties": {
		"email_details": {
			"type": "object",
			"properties": {
				"from":    {"type": "string"},
				"subject": {"type": "string"},
				"body":    {"type": "object"}
			}
		},
		"parsed_data": {"type": "object"},
		"timestamp":   {"type": "string"}
	},
	"additionalProperties": true
}`

// ValidateProcessRequest checks an inbound /process payload against the
// request schema. A failure here is a caller bug, not an expected pipeline
// outcome, so the returned error is non-retryable.
func ValidateProcessRequest(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(processRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewValidationFailedError(fmt.Sprintf("schema validation error: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewValidationFailedError(strings.Join(errs, "; "))
	}

	return nil
}
