// Package shared holds the request binding and response writing used by every handler.
package shared

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/middleware"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

const contentTypeJSON = "application/json; charset=utf-8"

// WriteError writes the error body for err.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	WriteJSON(c, status, payload)
}

// WriteJSON encodes v without HTML escaping, so quiz text comes back as the model wrote it.
func WriteJSON(c *gin.Context, status int, v any) {
	var builder strings.Builder
	enc := json.NewEncoder(&builder)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode response: " + err.Error()})
		return
	}
	c.Data(status, contentTypeJSON, []byte(strings.TrimRight(builder.String(), "\n")))
}

// BindJSON decodes the request body into out and runs binding validation.
// On failure it writes the error response and returns false.
func BindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			WriteError(c, httperror.NewInvalidInput("Request body is empty"))
			return false
		}
		WriteError(c, httperror.NewInvalidInput("Invalid JSON body: "+err.Error()))
		return false
	}

	if err := binding.Validator.ValidateStruct(out); err != nil {
		WriteError(c, bindingError(err))
		return false
	}
	return true
}

// bindingError reports a missing required field as 400, anything else as a 422 validation error.
func bindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		if first.Tag() == "required" {
			return httperror.NewMissingField(lowerFirst(first.Field()))
		}
	}
	return httperror.NewValidationError(err)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
