package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	pkgvalidator "github.com/ghuser/expense-tracker/pkg/validator"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// PostItemHandler handles POST /item requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	category defaults to "uncategorized" and date_added to today (UTC)
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ItemRequest	true	"Item to create"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Router			/item [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), req.Attributes())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "item created", "item_id", item.ID)
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
