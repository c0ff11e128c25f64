package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
)

// Home handles GET /.
//
//	@Summary	Welcome message
//	@Tags		ops
//	@Produce	json
//	@Success	200	{object}	MessageResponse
//	@Router		/ [get]
func Home(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the expense tracker API!"})
}
