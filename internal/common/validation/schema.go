// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "sahachari/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Contract is a named JSON schema that a structured provider response must satisfy.
// The raw schema map is kept so providers can translate it into their own
// structured-output format.
type Contract struct {
	Name   string
	Schema map[string]interface{}

	compiled *gojsonschema.Schema
}

// NewContract compiles schema once so every Validate call reuses it.
func NewContract(name string, schema map[string]interface{}) (*Contract, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid %s schema: %w", name, err)
	}
	return &Contract{Name: name, Schema: schema, compiled: compiled}, nil
}

// MustContract is NewContract for package-level contracts.
func MustContract(name string, schema map[string]interface{}) *Contract {
	c, err := NewContract(name, schema)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks a decoded JSON document against the contract.
func (c *Contract) Validate(document interface{}) *ValidationResult {
	result, err := c.compiled.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return vr
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewResult starts an empty, valid result for request field checks.
func NewResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (vr *ValidationResult) AddError(field, message, code string) *ValidationResult {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
	return vr
}

// RequireString records message when value is blank.
func (vr *ValidationResult) RequireString(field, value, message string) *ValidationResult {
	if strings.TrimSpace(value) == "" {
		vr.AddError(field, message, "REQUIRED_FIELD_MISSING")
	}
	return vr
}

// RequireURL records an error unless value is an absolute http(s) URL.
func (vr *ValidationResult) RequireURL(field, value string) *ValidationResult {
	if !ValidateURL(value) {
		vr.AddError(field, "value must be an http or https URL", "INVALID_URL")
	}
	return vr
}

// Err converts a failed result to a BadRequest error. The first message becomes
// the error message and the rest go into details.
func (vr *ValidationResult) Err() error {
	if vr.Valid || len(vr.Errors) == 0 {
		return nil
	}
	return apperrors.NewBadRequestError(vr.Errors[0].Message, strings.Join(vr.GetErrorMessages(), "; "))
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateURL validates URL format
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
