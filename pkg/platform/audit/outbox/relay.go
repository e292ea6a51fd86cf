// Package outbox relays audit rows from the Postgres outbox table to Kafka.
// Rows are claimed with FOR UPDATE SKIP LOCKED so several relays can run.
package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client the relay needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Relay struct {
	db          *sql.DB
	producer    Producer
	topicPrefix string
	batchSize   int
	period      time.Duration
	logger      *slog.Logger
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithPeriod(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.period = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func New(db *sql.DB, producer Producer, topicPrefix string, opts ...Option) *Relay {
	r := &Relay{
		db:          db,
		producer:    producer,
		topicPrefix: topicPrefix,
		batchSize:   100,
		period:      time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Topic names the Kafka topic for a category.
func Topic(prefix, category string) string {
	return prefix + "audit." + category
}

// Run relays batches until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.DebugContext(ctx, "outbox relayed", "count", n)
			}
		}
	}
}

type row struct {
	id          string
	aggregateID string
	eventType   string
	category    string
	payload     []byte
}

// RelayOnce publishes one batch and marks it published. Rows are marked only
// after Kafka acknowledges every record in the batch.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, category, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("select outbox batch: %w", err)
	}
	var batch []row
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.id, &rw.aggregateID, &rw.eventType, &rw.category, &rw.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, rw)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox batch: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	records := make([]*kgo.Record, 0, len(batch))
	ids := make([]string, 0, len(batch))
	for _, rw := range batch {
		records = append(records, &kgo.Record{
			Topic: Topic(r.topicPrefix, rw.category),
			Key:   []byte(rw.aggregateID),
			Value: rw.payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(rw.eventType)},
				{Key: "outbox_id", Value: []byte(rw.id)},
			},
		})
		ids = append(ids, rw.id)
	}
	if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return 0, fmt.Errorf("produce outbox batch: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1::uuid[])`,
		pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}
	return len(batch), nil
}
