// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidJobMessage    ErrorCode = "INVALID_JOB_MESSAGE"
	ErrCodePayloadFetchFailed   ErrorCode = "PAYLOAD_FETCH_FAILED"
	ErrCodePayloadNotFound      ErrorCode = "PAYLOAD_NOT_FOUND"
	ErrCodePayloadSchemaInvalid ErrorCode = "PAYLOAD_SCHEMA_INVALID"
	ErrCodeResultSubmitFailed   ErrorCode = "RESULT_SUBMIT_FAILED"
	ErrCodeBackendTimeout       ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeEventPublishFailed   ErrorCode = "EVENT_PUBLISH_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error type every worker-layer failure is normalized to.
// Retryable decides between failing the job with retries and throwing a BPMN error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func NewInvalidJobMessageError(details string) *StandardError {
	return newError(ErrCodeInvalidJobMessage, "Invalid evaluation job message", details, false, nil)
}

func NewPayloadFetchFailedError(combinationID int64, err error) *StandardError {
	return newError(ErrCodePayloadFetchFailed, "Failed to fetch evaluation payload",
		fmt.Sprintf("combinationId: %d, error: %s", combinationID, errDetails(err)), true, err)
}

func NewPayloadNotFoundError(combinationID int64) *StandardError {
	return newError(ErrCodePayloadNotFound, "Evaluation payload not found",
		fmt.Sprintf("combinationId: %d", combinationID), false, nil)
}

func NewPayloadSchemaInvalidError(details string) *StandardError {
	return newError(ErrCodePayloadSchemaInvalid, "Evaluation payload failed schema validation", details, false, nil)
}

func NewResultSubmitFailedError(combinationID int64, err error) *StandardError {
	return newError(ErrCodeResultSubmitFailed, "Failed to submit evaluation result",
		fmt.Sprintf("combinationId: %d, error: %s", combinationID, errDetails(err)), true, err)
}

func NewBackendTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeBackendTimeout, "Backend API timeout",
		fmt.Sprintf("operation: %s, error: %s", operation, errDetails(err)), true, err)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Submission ledger unavailable", errDetails(err), true, err)
}

func NewEventPublishFailedError(topic string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed, "Failed to publish evaluation event",
		fmt.Sprintf("topic: %s, error: %s", topic, errDetails(err)), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false, err)
}

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidJobMessage:    "INVALID_JOB_MESSAGE",
	ErrCodePayloadFetchFailed:   "PAYLOAD_FETCH_FAILED",
	ErrCodePayloadNotFound:      "PAYLOAD_NOT_FOUND",
	ErrCodePayloadSchemaInvalid: "PAYLOAD_INVALID",
	ErrCodeResultSubmitFailed:   "RESULT_SUBMIT_FAILED",
	ErrCodeBackendTimeout:       "BACKEND_TIMEOUT",
	ErrCodeCacheUnavailable:     "CACHE_UNAVAILABLE",
	ErrCodeEventPublishFailed:   "EVENT_PUBLISH_FAILED",
	ErrCodeInternal:             "EVALUATION_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePayloadFetchFailed,
		ErrCodeResultSubmitFailed,
		ErrCodeCacheUnavailable:
		return 3

	case ErrCodeBackendTimeout,
		ErrCodeEventPublishFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "JOB_MESSAGE") || strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "RESULT") || strings.Contains(codeStr, "BACKEND"):
		return "BACKEND"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "EVENT"):
		return "MESSAGING"
	default:
		return "OTHER"
	}
}
