package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	pkgvalidator "github.com/ghuser/expense-tracker/pkg/validator"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// PutItemHandler handles PUT /item/{id}.
type PutItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

func NewPutItemHandler(svc *appsvcs.Services, log logger.Logger) *PutItemHandler {
	return &PutItemHandler{svc: svc, log: log}
}

// Execute replaces every mutable field of an item.
//
//	@Summary		Replace item
//	@Description	Omitted description and category reset to their defaults; omitted date_added keeps the stored date.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Item ID"
//	@Param			request	body		ItemRequest	true	"Replacement"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/item/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Replace(r.Context(), id, req.Attributes())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
