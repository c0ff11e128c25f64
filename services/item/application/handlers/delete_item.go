package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// DeleteItemHandler handles DELETE /item/{id}.
type DeleteItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

func NewDeleteItemHandler(svc *appsvcs.Services, log logger.Logger) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, log: log}
}

// Execute removes an item and echoes what was deleted.
//
//	@Summary	Delete item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/item/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	item, err := h.svc.Item.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "item deleted", "item_id", id)
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
