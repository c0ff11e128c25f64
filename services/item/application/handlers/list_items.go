package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// ListItemsHandler handles GET /items.
type ListItemsHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

func NewListItemsHandler(svc *appsvcs.Services, log logger.Logger) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, log: log}
}

// Execute returns every item in id order; an empty store yields [].
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Success	200	{array}	ItemResponse
//	@Router		/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}
