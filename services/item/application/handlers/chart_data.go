package handlers

import (
	"net/http"

	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// ChartDataHandler handles GET /chart-data.
type ChartDataHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

func NewChartDataHandler(svc *appsvcs.Services, log logger.Logger) *ChartDataHandler {
	return &ChartDataHandler{svc: svc, log: log}
}

// Execute returns spend per category.
//
//	@Summary		Spend by category
//	@Description	labels[i] is a category and values[i] the sum of price*quantity over its items, in first-seen order. Sums are exact decimal additions of the float64 line totals, so 0.1+0.1+0.1 reports 0.3; no currency rounding is applied.
//	@Tags			chart
//	@Produce		json
//	@Success		200	{object}	ChartDataResponse
//	@Router			/chart-data [get]
func (h *ChartDataHandler) Execute(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Chart.CategoryTotals(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toChartDataResponse(totals))
}
