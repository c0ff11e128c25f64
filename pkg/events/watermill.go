// Package events is the item service's pub/sub layer, built on Watermill.
//
// In production the bus stores messages in PostgreSQL through watermill-sql,
// sharing the application's *sql.DB so that a repository can write a row and
// its event in one transaction (see NewTxPublisher). Subscribers in the same
// ConsumerGroup split the stream between them; each message reaches one of
// them.
//
// NewInMemoryEventBus swaps the transport for Watermill's GoChannel. It is
// meant for tests and runs everything inside one process.
//
// Handlers must be idempotent. A failing handler is retried with exponential
// backoff; once the retries are spent the message is Nacked and the transport
// redelivers it.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/logger"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	drainTimeout      = 30 * time.Second
	errBufferSize     = 100
)

// ErrNotPostgres is returned by NewEventBus for a non-PostgreSQL database.
var ErrNotPostgres = errors.New("events: the SQL event bus requires PostgreSQL")

// Handler processes one message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// Options configures an EventBus. Zero values fall back to defaults.
type Options struct {
	// ConsumerGroup names the offset group subscribers share.
	ConsumerGroup string
	MaxRetries    int
	RetryDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

// EventBus publishes and consumes domain events.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB // nil for the in-memory transport
	log        logger.Logger
	opts       Options
	wg         sync.WaitGroup
}

// NewEventBus builds a PostgreSQL-backed bus on top of db. Watermill creates
// its message and offset tables on first use. The bus does not own db;
// closing the bus leaves the pool open.
func NewEventBus(db *database.Database, opts Options, log logger.Logger) (*EventBus, error) {
	if db.Dialect() != database.DialectPostgres {
		return nil, ErrNotPostgres
	}
	opts = opts.withDefaults()
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(
		db.DB(),
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(
		db.DB(),
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    opts.ConsumerGroup,
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{publisher: pub, subscriber: sub, db: db.DB(), log: log, opts: opts}, nil
}

// NewInMemoryEventBus returns a bus backed by a persistent GoChannel, so late
// subscribers still see earlier messages.
func NewInMemoryEventBus(opts Options, log logger.Logger) *EventBus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
		Persistent:          true,
	}, &slogAdapter{log: log})
	return &EventBus{publisher: ch, subscriber: ch, log: log, opts: opts.withDefaults()}
}

// InitTopics creates the storage for topics up front. Subscribing does this
// lazily; calling it at startup makes transactional publishers safe to use
// before any subscriber exists.
func (q *EventBus) InitTopics(topics ...string) error {
	initializer, ok := q.subscriber.(message.SubscribeInitializer)
	if !ok {
		return nil
	}
	for _, topic := range topics {
		if err := initializer.SubscribeInitialize(topic); err != nil {
			return fmt.Errorf("events: initialize %s: %w", topic, err)
		}
	}
	return nil
}

// NewTxPublisher returns a Publisher whose writes belong to tx. The event is
// visible to subscribers only if tx commits.
//
// For the in-memory transport the transaction is ignored and messages go out
// immediately.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	if q.db == nil {
		return q.publisher, nil
	}
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{}},
		&slogAdapter{log: q.log},
	)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return pub, nil
}

// Publish sends msgs to topic, carrying the trace from ctx in message metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	InjectTrace(ctx, msgs...)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// InjectTrace copies the OTel trace context of ctx into each message.
func InjectTrace(ctx context.Context, msgs ...*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// extractTrace restores the publisher's trace context onto ctx.
func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// Subscribe starts consuming topic in a background goroutine.
//
// A message is Acked when handler returns nil. Otherwise handler is retried
// (Options.MaxRetries attempts, doubling Options.RetryDelay between them) and
// the message is Nacked with the final error sent on the returned channel.
// The channel is buffered and closed when the subscription ends; callers
// should drain it:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	msgs, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBufferSize)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			err := retryWithBackoff(msgCtx, msg, handler, q.opts.MaxRetries, q.opts.RetryDelay, q.log)
			if err == nil {
				msg.Ack()
				continue
			}
			msg.Nack()
			select {
			case errCh <- fmt.Errorf("%s: %w", topic, err):
			default:
				q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", err, "topic", topic)
			}
		}
	}()

	return errCh, nil
}

func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	attempts int,
	delay time.Duration,
	log logger.Logger,
) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_uuid", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Ping reports whether the bus's storage is reachable. The in-memory
// transport is always healthy.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber, waits up to 30s for running handlers and then
// closes the publisher.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	if q.db == nil {
		return nil // GoChannel is both publisher and subscriber
	}
	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter lets Watermill log through logger.Logger.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
