package services

import (
	"time"

	"github.com/ghuser/expense-tracker/pkg/app"
	"github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/services/item/infrastructure/persistence/sqlstore"
)

// Services is the application-layer service container for the item context.
type Services struct {
	Item  *ItemService
	Chart *ChartService
}

// New wires the item services to the infrastructure held by a.
func New(a *app.Application) *Services {
	repo := sqlstore.NewItemRepository(a.Db, a.EventBus)

	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}

	return &Services{
		Item:  NewItemService(repo, itemCache, a.Logger, time.Now),
		Chart: NewChartService(repo),
	}
}
