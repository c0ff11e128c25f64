package handlers

import (
	"github.com/ghuser/expense-tracker/services/item/domain/models"
	domainsvcs "github.com/ghuser/expense-tracker/services/item/domain/services"
)

// ItemResponse is the public projection of an Item. Field order is the wire order.
type ItemResponse struct {
	ID          int64   `json:"id"          example:"1"`
	Name        string  `json:"name"        example:"Weekly groceries"`
	Description string  `json:"description" example:"Two bottles, semi-skimmed"`
	Item        string  `json:"item"        example:"Milk"`
	Price       float64 `json:"price"       example:"2.5"`
	Quantity    int     `json:"quantity"    example:"4"`
	Category    string  `json:"category"    example:"food"`
	DateAdded   string  `json:"date_added"  example:"2024-03-01"`
} // @name ItemResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Item:        item.Article.String(),
		Price:       item.Price,
		Quantity:    item.Quantity,
		Category:    item.Category.String(),
		DateAdded:   item.DateAdded.String(),
	}
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

// ChartDataResponse holds per-category spend as aligned arrays.
type ChartDataResponse struct {
	Labels []string  `json:"labels" example:"food,misc"`
	Values []float64 `json:"values" example:"25,12"`
} // @name ChartDataResponse

func toChartDataResponse(t domainsvcs.CategoryTotals) ChartDataResponse {
	return ChartDataResponse{Labels: t.Labels, Values: t.Values}
}

// ErrorResponse is returned on 404 and 5xx responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Item not found"`
} // @name ErrorResponse

// ValidationErrorResponse is returned on 400 responses.
type ValidationErrorResponse struct {
	Error  string            `json:"error"  example:"Validation failed"`
	Fields map[string]string `json:"fields"`
} // @name ValidationErrorResponse

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message" example:"Welcome to the expense tracker API!"`
} // @name MessageResponse
