package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the item repository.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// Topics lists every item topic, for subscribers that handle them all.
var Topics = []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}

// ItemSnapshot is the full Item state carried by created/updated events.
type ItemSnapshot struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Item        string  `json:"item"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	DateAdded   string  `json:"date_added"`
}

// ItemChangedEvent is published after an Item is created or updated.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemChangedEvent struct {
	EventID    uuid.UUID    `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int          `json:"version"`  // Schema version; increment on breaking changes
	Item       ItemSnapshot `json:"item"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// ItemDeletedEvent is published after an Item is removed.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
