// Package errhttp turns domain errors into JSON HTTP responses.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
)

// NotFoundMessage is the body text for a missing item.
const NotFoundMessage = "Item not found"

// WriteError writes the response for err. Matching uses errors.Is/As, so
// wrapped errors are recognised. Anything unrecognised is a 500 whose body
// carries only the status text.
func WriteError(w http.ResponseWriter, err error) {
	var ve *itemdomain.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, itemdomain.ErrValidation):
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": map[string]string{},
		})
	case errors.Is(err, itemdomain.ErrItemNotFound):
		httpx.JSONError(w, http.StatusNotFound, NotFoundMessage)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// Status reports the status code WriteError would use for err.
func Status(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
