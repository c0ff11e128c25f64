// Package subscribers holds the item service's event consumers. They run in
// cmd/worker against the PostgreSQL event bus.
package subscribers

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/pkg/events"
	"github.com/ghuser/expense-tracker/pkg/logger"
	domainevents "github.com/ghuser/expense-tracker/services/item/domain/events"
)

// ItemCache is the part of *cache.ItemCache the sync needs.
type ItemCache interface {
	Set(ctx context.Context, item *cache.CachedItem) error
	Delete(ctx context.Context, id int64) error
}

// CacheSync keeps the Redis item cache in step with the item tables: created
// and updated events write the snapshot, deleted events evict the key.
// Without a cache it only logs what it sees.
type CacheSync struct {
	cache ItemCache // nil when Redis is off
	log   logger.Logger
}

func NewCacheSync(c ItemCache, log logger.Logger) *CacheSync {
	return &CacheSync{cache: c, log: log}
}

// Register subscribes to every item topic and drains the subscriber error
// channels into the log until they close.
func (s *CacheSync) Register(ctx context.Context, bus *events.EventBus) error {
	for _, topic := range domainevents.Topics {
		errCh, err := bus.Subscribe(ctx, topic, s.Handler(topic))
		if err != nil {
			return err
		}
		go func(topic string) {
			for err := range errCh {
				s.log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}
	s.log.Info("event subscribers registered", "topics", domainevents.Topics)
	return nil
}

// Handler returns the handler for topic.
func (s *CacheSync) Handler(topic string) events.Handler {
	if topic == domainevents.TopicItemDeleted {
		return s.handleDeleted
	}
	return s.handleChanged
}

// handleChanged writes the event's snapshot to the cache. Undecodable
// payloads are logged and acked; retrying them cannot succeed.
func (s *CacheSync) handleChanged(ctx context.Context, msg *message.Message) error {
	var evt domainevents.ItemChangedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		s.log.ErrorContext(ctx, "dropping undecodable item event",
			"message_uuid", msg.UUID, "error", err)
		return nil
	}

	if s.cache == nil {
		s.log.InfoContext(ctx, "item changed", "item_id", evt.Item.ID, "event_id", evt.EventID)
		return nil
	}
	if err := s.cache.Set(ctx, toCached(evt.Item)); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "cache refreshed", "item_id", evt.Item.ID, "event_id", evt.EventID)
	return nil
}

func (s *CacheSync) handleDeleted(ctx context.Context, msg *message.Message) error {
	var evt domainevents.ItemDeletedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		s.log.ErrorContext(ctx, "dropping undecodable item event",
			"message_uuid", msg.UUID, "error", err)
		return nil
	}

	if s.cache == nil {
		s.log.InfoContext(ctx, "item deleted", "item_id", evt.ItemID, "event_id", evt.EventID)
		return nil
	}
	if err := s.cache.Delete(ctx, evt.ItemID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "cache evicted", "item_id", evt.ItemID, "event_id", evt.EventID)
	return nil
}

func toCached(snap domainevents.ItemSnapshot) *cache.CachedItem {
	return &cache.CachedItem{
		ID:          snap.ID,
		Name:        snap.Name,
		Description: snap.Description,
		Item:        snap.Item,
		Price:       snap.Price,
		Quantity:    snap.Quantity,
		Category:    snap.Category,
		DateAdded:   snap.DateAdded,
	}
}
