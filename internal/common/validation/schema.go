// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line for logs and job error details.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// payloadSchema only checks shapes. Device attributes stay schema-less and
// unknown fields are allowed everywhere.
var payloadSchema = map[string]interface{}{
	"type": "object",
	"anyOf": []interface{}{
		map[string]interface{}{"required": []interface{}{"combinationId"}},
		map[string]interface{}{"required": []interface{}{"evaluationId"}},
	},
	"properties": map[string]interface{}{
		"combinationId":     map[string]interface{}{"type": "integer"},
		"evaluationId":      map[string]interface{}{"type": "integer"},
		"evaluationVersion": map[string]interface{}{"type": []interface{}{"integer", "null"}},
		"jobId":             map[string]interface{}{"type": []interface{}{"string", "null"}},
		"devices": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"type"},
				"properties": map[string]interface{}{
					"deviceId": map[string]interface{}{"type": []interface{}{"integer", "null"}},
					"id":       map[string]interface{}{"type": []interface{}{"integer", "null"}},
					"type":     map[string]interface{}{"type": "string"},
					"specs":    map[string]interface{}{"type": []interface{}{"object", "null"}},
				},
			},
		},
		"lifestyles": map[string]interface{}{
			"type":  []interface{}{"array", "null"},
			"items": map[string]interface{}{"type": []interface{}{"string", "null"}},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func evaluationPayloadSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(payloadSchema))
	})
	return compiledSchema, compileErr
}

// ValidatePayload checks a raw evaluation payload document against the payload
// schema. The error is non-nil only when the document cannot be read at all.
func ValidatePayload(raw []byte) (*ValidationResult, error) {
	schema, err := evaluationPayloadSchema()
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate payload: %w", err)
	}
	return toValidationResult(result), nil
}

func toValidationResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}
