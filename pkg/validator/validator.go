package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/expense-tracker/pkg/httpx"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "numeric":
		return "Must be a numeric value"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// FormatDecodeError maps a JSON type mismatch to a per-field message.
// ok is false for anything that is not a field-level type error.
func FormatDecodeError(err error) (fields map[string]string, ok bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil, false
	}
	return map[string]string{typeErr.Field: "Must be " + describeKind(typeErr.Type)}, true
}

func describeKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a valid " + t.Kind().String()
	}
}

// Decode reads the JSON request body into T. An empty body decodes as the
// zero T; anything after the first JSON value other than whitespace is
// rejected. On failure it writes a 400 response and returns (nil, false).
func Decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	err := dec.Decode(&req)
	if errors.Is(err, io.EOF) {
		return &req, true
	}
	if err == nil {
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			return &req, true
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if fields, ok := FormatDecodeError(err); ok {
		writeValidationFailed(w, fields)
		return nil, false
	}
	httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
	return nil, false
}

// ValidateRequest decodes the JSON request body into T and validates it,
// writing a 400 response if either step fails.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req, ok := Decode[T](w, r)
	if !ok {
		return nil, false
	}
	if err := Validate(req); err != nil {
		writeValidationFailed(w, FormatValidationErrors(err))
		return nil, false
	}
	return req, true
}

func writeValidationFailed(w http.ResponseWriter, fields map[string]string) {
	httpx.JSON(w, http.StatusBadRequest, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}
