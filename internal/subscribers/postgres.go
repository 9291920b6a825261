package subscribers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"kinobot/core/logger"
	"kinobot/core/metrics"
	"log/slog"
)

// Postgres keeps the subscriber set in a single table. The database is the
// source of truth; every call hits it directly, so concurrent bot instances
// can share one set.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres verifies the subscribers table is reachable and returns the
// store. Migrations must have run before this is called.
func NewPostgres(ctx context.Context, db *sqlx.DB) (*Postgres, error) {
	if db == nil {
		return nil, fmt.Errorf("subscribers: nil db handle")
	}
	s := &Postgres{db: db}

	count, err := s.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribers: verify table: %w", err)
	}
	logger.Info(ctx, "store", "store.load",
		slog.String("driver", "postgres"),
		slog.Int("count", count),
	)
	return s, nil
}

// Add inserts id and reports true when it was not present before.
func (s *Postgres) Add(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (chat_id) VALUES ($1) ON CONFLICT (chat_id) DO NOTHING`, id)
	if err != nil {
		return false, s.writeFailed(ctx, "add", err)
	}
	metrics.StoreWrites.WithLabelValues("ok").Inc()
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("subscribers: add %d: %w", id, err)
	}
	return n > 0, nil
}

// Remove deletes id and reports true when it was present.
func (s *Postgres) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE chat_id = $1`, id)
	if err != nil {
		return false, s.writeFailed(ctx, "remove", err)
	}
	metrics.StoreWrites.WithLabelValues("ok").Inc()
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("subscribers: remove %d: %w", id, err)
	}
	return n > 0, nil
}

// Contains reports whether id is subscribed.
func (s *Postgres) Contains(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.db.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM subscribers WHERE chat_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("subscribers: contains %d: %w", id, err)
	}
	return ok, nil
}

// Count returns the current cardinality of the set.
func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subscribers`); err != nil {
		return 0, fmt.Errorf("subscribers: count: %w", err)
	}
	return count, nil
}

// All returns the subscribed chat IDs in ascending order.
func (s *Postgres) All(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT chat_id FROM subscribers ORDER BY chat_id`); err != nil {
		return nil, fmt.Errorf("subscribers: all: %w", err)
	}
	return ids, nil
}

func (s *Postgres) writeFailed(ctx context.Context, op string, err error) error {
	metrics.StoreWrites.WithLabelValues("fail").Inc()
	logger.Error(ctx, "store", "store.persist",
		slog.String("status", "fail"),
		slog.String("driver", "postgres"),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("subscribers: %s: %w", op, err)
}
