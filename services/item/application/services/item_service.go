package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	pkgcache "github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/services/item/domain/models"
	"github.com/ghuser/expense-tracker/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/expense-tracker/services/item/domain/services"
)

const meterName = "github.com/ghuser/expense-tracker/services/item"

// ItemCache is the read-through cache consulted by ItemService.Get.
// *cache.ItemCache implements it.
type ItemCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, id int64) error
}

// ItemService runs the item use cases. Domain events are published by the
// repository inside the write transaction. Cache failures are logged and
// never fail a request.
type ItemService struct {
	repo      repositories.ItemRepository
	cache     ItemCache // nil disables caching
	log       logger.Logger
	now       func() time.Time
	mutations metric.Int64Counter
	// writes counts invalidations so a cache fill racing a write can tell
	// that its row may already be stale.
	writes atomic.Uint64
}

// NewItemService returns an ItemService. itemCache may be nil; now supplies
// the default date_added.
func NewItemService(repo repositories.ItemRepository, itemCache ItemCache, log logger.Logger, now func() time.Time) *ItemService {
	counter, err := otel.Meter(meterName).Int64Counter("items.mutations",
		metric.WithDescription("Item writes by operation"))
	if err != nil {
		log.Warn("items.mutations counter unavailable", "error", err)
		counter, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter("items.mutations")
	}
	return &ItemService{repo: repo, cache: itemCache, log: log, now: now, mutations: counter}
}

// Create validates attrs, fills defaults and stores the new Item.
func (s *ItemService) Create(ctx context.Context, attrs models.Attributes) (*models.Item, error) {
	item, err := domainsvcs.NewItem(attrs, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.record(ctx, "create")
	return item, nil
}

// Get returns the Item with id, serving from the cache when possible and
// filling it on a miss. A fill that overlapped a write in this process is
// evicted again.
func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			return fromCached(cached), nil
		case !errors.Is(err, pkgcache.ErrMiss):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	gen := s.writes.Load()
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCached(item)); err != nil {
			s.log.WarnContext(ctx, "item cache fill failed", "item_id", id, "error", err)
		} else if s.writes.Load() != gen {
			s.evict(ctx, id)
		}
	}
	return item, nil
}

// List returns every Item in id order.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Replace overwrites all mutable fields of the Item with id.
func (s *ItemService) Replace(ctx context.Context, id int64, attrs models.Attributes) (*models.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item, err := domainsvcs.Replace(existing, attrs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.invalidate(ctx, id)
	s.record(ctx, "replace")
	return item, nil
}

// Patch applies the fields present in p. An empty patch returns the stored
// Item untouched.
func (s *ItemService) Patch(ctx context.Context, id int64, p models.Patch) (*models.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if p.IsEmpty() {
		return existing, nil
	}
	item, err := domainsvcs.ApplyPatch(existing, p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.invalidate(ctx, id)
	s.record(ctx, "patch")
	return item, nil
}

// Delete removes the Item with id and returns what was stored.
func (s *ItemService) Delete(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	s.invalidate(ctx, id)
	s.record(ctx, "delete")
	return item, nil
}

// invalidate bumps the write generation before deleting, so a concurrent
// Get either fills after the delete and sees the bump, or fills before it
// and is deleted.
func (s *ItemService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	s.writes.Add(1)
	s.evict(ctx, id)
}

func (s *ItemService) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) record(ctx context.Context, op string) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

func toCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
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

func fromCached(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:          c.ID,
		Name:        models.ItemName(c.Name),
		Description: c.Description,
		Article:     models.ItemName(c.Item),
		Price:       c.Price,
		Quantity:    c.Quantity,
		Category:    models.Category(c.Category),
		DateAdded:   models.DateAdded(c.DateAdded),
	}
}
