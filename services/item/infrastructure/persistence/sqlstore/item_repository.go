package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/events"
	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
	domainevents "github.com/ghuser/expense-tracker/services/item/domain/events"
	"github.com/ghuser/expense-tracker/services/item/domain/models"
	"github.com/ghuser/expense-tracker/services/item/infrastructure/persistence/sqlstore/db"
)

// PostgreSQL SQLSTATE codes mapped onto domain validation errors.
const (
	pgCheckViolation    = "23514"
	pgNotNullViolation  = "23502"
	pgStringDataTooLong = "22001"
)

// ItemRepository implements repositories.ItemRepository over database/sql.
// It works against both PostgreSQL and SQLite; the queries use only syntax
// the two share.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given database.
// When bus is non-nil every mutation also publishes a domain event inside the
// same transaction (outbox pattern). bus must be nil for SQLite.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Save inserts item and sets item.ID to the generated id.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	qty, err := quantityParam(item.Quantity)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		id, err := db.New(tx).InsertItem(ctx, db.InsertItemParams{
			Name:        item.Name.String(),
			Description: item.Description,
			Item:        item.Article.String(),
			Price:       item.Price,
			Quantity:    qty,
			Category:    item.Category.String(),
			DateAdded:   item.DateAdded.String(),
		})
		if err != nil {
			return mapWriteError("insert item", err)
		}
		item.ID = id

		if r.bus != nil {
			if err := r.publishChanged(tx, domainevents.TopicItemCreated, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// List returns all items ordered by id. The result is never nil.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

// Update overwrites every mutable column of the row identified by item.ID.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	qty, err := quantityParam(item.Quantity)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).UpdateItem(ctx, db.UpdateItemParams{
			ID:          item.ID,
			Name:        item.Name.String(),
			Description: item.Description,
			Item:        item.Article.String(),
			Price:       item.Price,
			Quantity:    qty,
			Category:    item.Category.String(),
			DateAdded:   item.DateAdded.String(),
		})
		if err != nil {
			return mapWriteError("update item", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		if r.bus != nil {
			if err := r.publishChanged(tx, domainevents.TopicItemUpdated, item); err != nil {
				return fmt.Errorf("publish item updated: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the row with id and returns its last state.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (*models.Item, error) {
	var deleted *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).DeleteItem(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.ErrItemNotFound
			}
			return fmt.Errorf("delete item: %w", err)
		}
		deleted = rowToItem(row)

		if r.bus != nil {
			if err := r.publishDeleted(tx, id); err != nil {
				return fmt.Errorf("publish item deleted: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *ItemRepository) publishChanged(tx *sql.Tx, topic string, item *models.Item) error {
	return r.publish(tx, topic, domainevents.ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		Item:       Snapshot(item),
		OccurredAt: time.Now().UTC(),
	})
}

func (r *ItemRepository) publishDeleted(tx *sql.Tx, id int64) error {
	return r.publish(tx, domainevents.TopicItemDeleted, domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     id,
		OccurredAt: time.Now().UTC(),
	})
}

func (r *ItemRepository) publish(tx *sql.Tx, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// quantityParam narrows q to the 32-bit quantity column.
func quantityParam(q int) (int32, error) {
	if q < math.MinInt32 || q > math.MaxInt32 {
		ve := itemdomain.NewValidationError()
		ve.Add("quantity", fmt.Sprintf("Must be less than or equal to %d", math.MaxInt32))
		return 0, ve
	}
	return int32(q), nil
}

// mapWriteError turns CHECK and NOT NULL violations raised by either
// dialect into ErrValidation. Domain validation normally catches these first.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation, pgNotNullViolation, pgStringDataTooLong:
			return fmt.Errorf("%s: %w: %s", op, itemdomain.ErrValidation, pgErr.Message)
		}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%s: %w: %s", op, itemdomain.ErrValidation, liteErr.Error())
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Snapshot copies item into its event representation.
func Snapshot(item *models.Item) domainevents.ItemSnapshot {
	return domainevents.ItemSnapshot{
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

// rowToItem maps a db.Item row to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	return &models.Item{
		ID:          row.ID,
		Name:        models.ItemName(row.Name),
		Description: row.Description,
		Article:     models.ItemName(row.Item),
		Price:       row.Price,
		Quantity:    int(row.Quantity),
		Category:    models.Category(row.Category),
		DateAdded:   models.DateAdded(row.DateAdded),
	}
}
