package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	pkgvalidator "github.com/ghuser/expense-tracker/pkg/validator"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
)

// PatchItemHandler handles PATCH /item/{id}.
type PatchItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

func NewPatchItemHandler(svc *appsvcs.Services, log logger.Logger) *PatchItemHandler {
	return &PatchItemHandler{svc: svc, log: log}
}

// Execute applies the fields present in the body, falsy values included.
//
//	@Summary		Update item fields
//	@Description	Any subset of the mutable fields. "quantity": 0 sets zero; "description": null clears it. An empty body changes nothing.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		PatchItemRequest	false	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/item/{id} [patch]
func (h *PatchItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.Decode[PatchItemRequest](w, r)
	if !ok {
		return
	}
	patch, nullErrs := req.Patch()
	if nullErrs != nil {
		ve := itemdomain.NewValidationError()
		for field, msg := range nullErrs {
			ve.Add(field, msg)
		}
		writeError(w, r, h.log, ve)
		return
	}

	item, err := h.svc.Item.Patch(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
