package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itemmigrations "github.com/ghuser/expense-tracker/migrations/item"
	"github.com/ghuser/expense-tracker/pkg/database"
	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
	"github.com/ghuser/expense-tracker/services/item/domain/models"
)

func newTestRepository(t *testing.T) *ItemRepository {
	t.Helper()
	return NewItemRepository(database.NewTestDB(t, itemmigrations.SQLite()), nil)
}

func sampleItem(name, category string, price float64, quantity int) *models.Item {
	return &models.Item{
		Name:        models.ItemName(name),
		Description: "weekly shop",
		Article:     models.ItemName("groceries"),
		Price:       price,
		Quantity:    quantity,
		Category:    models.Category(category),
		DateAdded:   models.DateAdded("2024-03-01"),
	}
}

func TestItemRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	item := sampleItem("Milk", "food", 2.5, 4)
	require.NoError(t, repo.Save(ctx, item))
	require.NotZero(t, item.ID)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestItemRepository_SaveAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	a := sampleItem("A", "food", 1, 1)
	b := sampleItem("B", "food", 1, 1)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))
	assert.Greater(t, b.ID, a.ID)
}

func TestItemRepository_GetByID_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), 99999)
	assert.True(t, errors.Is(err, itemdomain.ErrItemNotFound), "got %v", err)
}

func TestItemRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	t.Run("empty store returns empty slice", func(t *testing.T) {
		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("ordered by id", func(t *testing.T) {
		for _, name := range []string{"first", "second", "third"} {
			require.NoError(t, repo.Save(ctx, sampleItem(name, "misc", 1, 1)))
		}

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		for i := 1; i < len(items); i++ {
			assert.Less(t, items[i-1].ID, items[i].ID)
		}
		assert.Equal(t, models.ItemName("first"), items[0].Name)
	})
}

func TestItemRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	item := sampleItem("Milk", "food", 2.5, 4)
	require.NoError(t, repo.Save(ctx, item))

	item.Price = 3.75
	item.Quantity = 0
	item.Description = ""
	item.Category = models.Category("dairy")
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.75, got.Price)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, models.Category("dairy"), got.Category)
	assert.Equal(t, models.DateAdded("2024-03-01"), got.DateAdded)
}

func TestItemRepository_Update_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	item := sampleItem("Ghost", "misc", 1, 1)
	item.ID = 42
	err := repo.Update(context.Background(), item)
	assert.True(t, errors.Is(err, itemdomain.ErrItemNotFound), "got %v", err)
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	item := sampleItem("Bread", "food", 1.2, 2)
	require.NoError(t, repo.Save(ctx, item))

	deleted, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, deleted)

	_, err = repo.GetByID(ctx, item.ID)
	assert.True(t, errors.Is(err, itemdomain.ErrItemNotFound))

	_, err = repo.Delete(ctx, item.ID)
	assert.True(t, errors.Is(err, itemdomain.ErrItemNotFound), "second delete: %v", err)
}

func TestItemRepository_CheckConstraintRejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	err := repo.Save(ctx, sampleItem("Bad", "misc", 1, -1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, itemdomain.ErrValidation), "save: %v", err)

	item := sampleItem("Good", "misc", 1, 1)
	require.NoError(t, repo.Save(ctx, item))
	item.Price = -5
	err = repo.Update(ctx, item)
	assert.True(t, errors.Is(err, itemdomain.ErrValidation), "update: %v", err)
}

func TestItemRepository_QuantityOutsideColumnRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	err := repo.Save(ctx, sampleItem("Huge", "misc", 1, 1<<32+1))
	assert.True(t, errors.Is(err, itemdomain.ErrValidation), "save: %v", err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMapWriteError(t *testing.T) {
	plain := errors.New("connection reset")
	assert.False(t, errors.Is(mapWriteError("insert item", plain), itemdomain.ErrValidation))
	assert.True(t, errors.Is(mapWriteError("insert item", plain), plain))

	pgErr := &pgconn.PgError{Code: pgNotNullViolation, Message: "null value in column \"name\""}
	assert.True(t, errors.Is(mapWriteError("insert item", pgErr), itemdomain.ErrValidation))
}

func TestSnapshot(t *testing.T) {
	item := sampleItem("Milk", "food", 2.5, 4)
	item.ID = 7

	s := Snapshot(item)
	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "Milk", s.Name)
	assert.Equal(t, "groceries", s.Item)
	assert.Equal(t, "2024-03-01", s.DateAdded)
	assert.Equal(t, 4, s.Quantity)
}
