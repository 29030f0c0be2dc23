package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (1MB).
	MaxRequestBodySize = 1 << 20
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes JSON from the request body with size limits.
// Unknown fields and trailing data are rejected.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var zeroValue T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() {
		_ = r.Body.Close()
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var v T
	if err := decoder.Decode(&v); err != nil {
		var syntaxErr *json.SyntaxError
		var unmarshalErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxErr):
			return zeroValue, fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
		case errors.As(err, &unmarshalErr):
			return zeroValue, fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
		case errors.As(err, &maxBytesErr):
			return zeroValue, fmt.Errorf("request body too large (max %d bytes)", MaxRequestBodySize)
		case errors.Is(err, io.EOF):
			return zeroValue, errors.New("request body is empty")
		default:
			return zeroValue, fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	if decoder.More() {
		return zeroValue, errors.New("request body contains multiple JSON objects")
	}

	return v, nil
}

// DecodeAndValidate decodes like DecodeJSON and then checks the `validate`
// struct tags of T. The first failing field is reported.
func DecodeAndValidate[T any](r *http.Request) (T, error) {
	var zeroValue T

	v, err := DecodeJSON[T](r)
	if err != nil {
		return zeroValue, err
	}
	if err := Validate(v); err != nil {
		return zeroValue, err
	}
	return v, nil
}

// Validate checks the `validate` struct tags of v.
func Validate(v any) error {
	err := requestValidator.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.New("invalid request payload")
	}

	first := validationErrors[0]
	field := jsonFieldName(first)
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return errors.New("invalid email format")
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, first.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s", field, first.Param())
	case "url", "http_url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "dive", "unique":
		return fmt.Errorf("invalid %s entries", field)
	default:
		return fmt.Errorf("invalid %s", field)
	}
}

// jsonFieldName lower-cases the first letter of the Go field name so messages
// match the request's JSON keys (DisplayName -> displayName).
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
