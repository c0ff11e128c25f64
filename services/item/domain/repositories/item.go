package repositories

import (
	"context"

	"github.com/ghuser/expense-tracker/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Every mutating call commits before returning.
type ItemRepository interface {
	// Save inserts a new Item and sets item.ID to the store-assigned id.
	Save(ctx context.Context, item *models.Item) error

	// GetByID returns ErrItemNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// List returns every item in insertion (id) order.
	List(ctx context.Context) ([]*models.Item, error)

	// Update overwrites all mutable columns of the row with item.ID.
	// Returns ErrItemNotFound when the row does not exist.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes the row and returns it as it was.
	// Returns ErrItemNotFound when the row does not exist.
	Delete(ctx context.Context, id int64) (*models.Item, error)
}
