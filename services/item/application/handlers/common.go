package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/expense-tracker/pkg/errhttp"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/pkg/telemetry"
	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
)

// itemID reads the {id} route parameter. The route only matches digits, so
// the one failure left is overflow, which cannot name a stored row.
func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, itemdomain.ErrItemNotFound
	}
	return id, nil
}

// writeError reports server-side failures and writes the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if errhttp.Status(err) >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "item request failed", "error", err)
		telemetry.CaptureError(r.Context(), err)
	}
	errhttp.WriteError(w, err)
}
