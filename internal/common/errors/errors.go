// Package errors provides standardized error handling for the chat pipeline
// and its BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationAmbiguous ErrorCode = "CLASSIFICATION_AMBIGUOUS"
	ErrCodeEmptyMessage            ErrorCode = "EMPTY_MESSAGE"
	ErrCodeInvalidDomain           ErrorCode = "INVALID_DOMAIN"

	ErrCodeDataSourceUnavailable ErrorCode = "DATA_SOURCE_UNAVAILABLE"
	ErrCodeFetchFailed           ErrorCode = "FETCH_FAILED"
	ErrCodeMalformedUpstreamData ErrorCode = "MALFORMED_UPSTREAM_DATA"
	ErrCodeConnectFailed         ErrorCode = "CONNECT_FAILED"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound        ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeCacheFailed          ErrorCode = "CACHE_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working through
// sentinel values such as gateway.ErrUnavailable.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error and returns the receiver.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	return e
}

// WithMetadata adds a single metadata entry and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassificationAmbiguousError is never surfaced to users as an error; the
// workers use it to flag an unmatched message to the process.
func NewClassificationAmbiguousError(text string) *StandardError {
	return newError(ErrCodeClassificationAmbiguous, "No intent rule matched the message", fmt.Sprintf("message: %q", text), false)
}

func NewEmptyMessageError() *StandardError {
	return newError(ErrCodeEmptyMessage, "Message is empty", "message must contain non-whitespace text", false)
}

func NewInvalidDomainError(domain string) *StandardError {
	return newError(ErrCodeInvalidDomain, "Unsupported data domain", fmt.Sprintf("domain: %s", domain), false)
}

func NewDataSourceUnavailableError(domain string) *StandardError {
	return newError(ErrCodeDataSourceUnavailable, "Data source is not connected", fmt.Sprintf("domain: %s", domain), false)
}

// NewFetchFailedError creates a retryable fetch error.
func NewFetchFailedError(source, domain string, err error) *StandardError {
	return newError(ErrCodeFetchFailed, fmt.Sprintf("Fetch from %s failed", source),
		fmt.Sprintf("domain: %s, error: %v", domain, err), true).WithCause(err)
}

// NewMalformedUpstreamDataError reports data that does not fit the expected shape.
func NewMalformedUpstreamDataError(source, details string) *StandardError {
	return newError(ErrCodeMalformedUpstreamData, fmt.Sprintf("Malformed data from %s", source), details, false)
}

func NewConnectFailedError(details string) *StandardError {
	return newError(ErrCodeConnectFailed, "Could not connect to the data source", details, false)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(domain string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("domain: %s, error: %v", domain, err), true).WithCause(err)
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(domain string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("domain: %s", domain), true)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(domain string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("domain: %s, error: %v", domain, err), true).WithCause(err)
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("indexName: %s", indexName), false)
}

func NewCacheFailedError(op string, err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", fmt.Sprintf("op: %s, error: %v", op, err), true).WithCause(err)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true).WithCause(err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true).WithCause(err)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false)
}

// NewInvalidInputError reports job variables that fail their input schema.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes used by boundary
// events in the chat process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeClassificationAmbiguous: "CLASSIFICATION_AMBIGUOUS",
	ErrCodeEmptyMessage:            "EMPTY_MESSAGE",
	ErrCodeInvalidDomain:           "INVALID_DOMAIN",
	ErrCodeDataSourceUnavailable:   "DATA_SOURCE_UNAVAILABLE",
	ErrCodeFetchFailed:             "FETCH_FAILED",
	ErrCodeMalformedUpstreamData:   "MALFORMED_UPSTREAM_DATA",
	ErrCodeConnectFailed:           "CONNECT_FAILED",
	ErrCodeQueryExecutionFailed:    "FETCH_FAILED",
	ErrCodeQueryTimeout:            "FETCH_FAILED",
	ErrCodeSearchQueryFailed:       "FETCH_FAILED",
	ErrCodeIndexNotFound:           "FETCH_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeFetchFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeTimeout:
		return 2

	case ErrCodeCacheFailed:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// AsStandardError finds the first StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in err's chain, or
// INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "MESSAGE"):
		return "INTENT"
	case strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "FETCH") || strings.Contains(codeStr, "SOURCE") || strings.Contains(codeStr, "UPSTREAM"):
		return "DATA_SOURCE"
	case strings.Contains(codeStr, "CONNECT") || strings.Contains(codeStr, "AUTH"):
		return "CONNECTION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
