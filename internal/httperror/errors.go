package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/gemini"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/usecase/chat"
)

// ErrorCode: API error code.
type ErrorCode string

const (
	ErrorCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrorCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrorCodeMissingField      ErrorCode = "MISSING_FIELD"
	ErrorCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrorCodeHTTPRateLimit     ErrorCode = "HTTP_RATE_LIMIT"
	ErrorCodeCompletion        ErrorCode = "COMPLETION_ERROR"
	ErrorCodeCompletionTimeout ErrorCode = "COMPLETION_TIMEOUT"
)

// ErrorResponse: error body. Error carries the human-readable description.
type ErrorResponse struct {
	Error     string         `json:"error"`
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error: API error with its HTTP status.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Response: converts err into a status and body.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		Error:     apiErr.Message,
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError: maps err onto an API error. Unknown errors become internal errors carrying err's text.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, chat.ErrEmptyMessage) {
		return NewMissingField("message")
	}

	if errors.Is(err, completion.ErrEmptyPrompt) {
		return NewInvalidInput("Prompt is empty")
	}

	var backendErr *completion.Error
	backend := ""
	if errors.As(err, &backendErr) {
		backend = backendErr.Backend
	}

	if errors.Is(err, completion.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return NewCompletionTimeout(backend)
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return NewCompletionError(backend, "Missing Gemini API key", http.StatusServiceUnavailable)
	}

	if backendErr != nil {
		return NewCompletionError(backend, backendErr.Error(), http.StatusBadGateway)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError: 500.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
	}
}

// NewValidationError: 422 with per-field details.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewMissingField: 400 for a required field that is absent or blank.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput: 400.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
	}
}

// NewUnauthorized: 401.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded: 429.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewCompletionError: completion backend failure.
func NewCompletionError(backend string, message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeCompletion,
		Status:  status,
		Type:    "CompletionError",
		Message: message,
		Details: backendDetails(backend),
	}
}

// NewCompletionTimeout: 504.
func NewCompletionTimeout(backend string) *Error {
	return &Error{
		Code:    ErrorCodeCompletionTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "CompletionTimeoutError",
		Message: "Completion request timed out",
		Details: backendDetails(backend),
	}
}

func backendDetails(backend string) map[string]any {
	if backend == "" {
		return nil
	}
	return map[string]any{"backend": backend}
}

// FieldError: one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
