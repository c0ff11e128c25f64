package services

import (
	"context"
	"fmt"

	"github.com/ghuser/expense-tracker/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/expense-tracker/services/item/domain/services"
)

// ChartService serves the spend-per-category chart.
type ChartService struct {
	repo repositories.ItemRepository
}

// NewChartService returns a ChartService reading from repo.
func NewChartService(repo repositories.ItemRepository) *ChartService {
	return &ChartService{repo: repo}
}

// CategoryTotals sums price*quantity per category over a snapshot of all items.
func (s *ChartService) CategoryTotals(ctx context.Context) (domainsvcs.CategoryTotals, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return domainsvcs.CategoryTotals{}, fmt.Errorf("list items: %w", err)
	}
	return domainsvcs.SumByCategory(items), nil
}
