package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// Collection provides the record operations of one collection. Writes to
// a collection are serialized; each one runs in its own transaction.
type Collection[T any] struct {
	store *Store
	codec codec[T]
	mu    sync.Mutex
}

func newCollection[T any](s *Store, c codec[T]) *Collection[T] {
	return &Collection[T]{store: s, codec: c}
}

// Add inserts rec and returns its key. For auto-keyed collections a zero key
// is replaced by the next generated one.
func (c *Collection[T]) Add(ctx context.Context, rec T) (int64, error) {
	db, err := c.store.handle()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.codec.key(rec)
	err = db.WithTx(ctx, func(tx QueryInterceptor) error {
		if c.codec.collection.AutoKeyed() {
			key, err = nextKey(ctx, tx, c.codec.collection, key)
			if err != nil {
				return err
			}
		}
		return c.insert(ctx, tx, key, rec)
	})
	if err != nil {
		return 0, mapError(c.codec.collection, err)
	}

	zap.S().Named("store").Debugw("record added", "collection", c.codec.collection, "key", key)
	return key, nil
}

// GetAll returns every record of the collection matching opts. Callers must
// not rely on the order of the result.
func (c *Collection[T]) GetAll(ctx context.Context, opts ...ListOption[T]) ([]T, error) {
	db, err := c.store.handle()
	if err != nil {
		return nil, err
	}

	builder := sq.Select(c.codec.allColumns()...).From(c.codec.table())
	for _, opt := range opts {
		builder = opt(builder)
	}
	builder = builder.OrderBy(c.codec.keyColumn)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		rec, err := c.codec.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetByID returns the record stored at key, or nil when there is none.
func (c *Collection[T]) GetByID(ctx context.Context, key int64) (*T, error) {
	db, err := c.store.handle()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(c.codec.allColumns()...).
		From(c.codec.table()).
		Where(sq.Eq{c.codec.keyColumn: key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := c.codec.scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update replaces the record stored at rec's key, inserting it when the key
// is absent. On auto-keyed collections a zero key behaves like Add.
func (c *Collection[T]) Update(ctx context.Context, rec T) error {
	db, err := c.store.handle()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.codec.key(rec)
	err = db.WithTx(ctx, func(tx QueryInterceptor) error {
		if key == 0 && c.codec.collection.AutoKeyed() {
			key, err = nextKey(ctx, tx, c.codec.collection, 0)
			if err != nil {
				return err
			}
			return c.insert(ctx, tx, key, rec)
		}

		found, err := c.exists(ctx, tx, key)
		if err != nil {
			return err
		}
		if !found {
			if c.codec.collection.AutoKeyed() {
				if _, err := nextKey(ctx, tx, c.codec.collection, key); err != nil {
					return err
				}
			}
			return c.insert(ctx, tx, key, rec)
		}

		values, err := c.codec.values(rec)
		if err != nil {
			return err
		}
		set := make(map[string]any, len(values))
		for i, col := range c.codec.columns {
			set[col] = values[i]
		}

		query, args, err := sq.Update(c.codec.table()).
			SetMap(set).
			Where(sq.Eq{c.codec.keyColumn: key}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return mapError(c.codec.collection, err)
	}

	zap.S().Named("store").Debugw("record updated", "collection", c.codec.collection, "key", key)
	return nil
}

// Delete removes the record stored at key. Deleting an absent key is not an
// error.
func (c *Collection[T]) Delete(ctx context.Context, key int64) error {
	db, err := c.store.handle()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query, args, err := sq.Delete(c.codec.table()).
		Where(sq.Eq{c.codec.keyColumn: key}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, query, args...)
	return mapError(c.codec.collection, err)
}

// Count returns the number of records matching opts.
func (c *Collection[T]) Count(ctx context.Context, opts ...ListOption[T]) (int, error) {
	db, err := c.store.handle()
	if err != nil {
		return 0, err
	}

	builder := sq.Select("COUNT(*)").From(c.codec.table())
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (c *Collection[T]) insert(ctx context.Context, tx QueryInterceptor, key int64, rec T) error {
	values, err := c.codec.values(rec)
	if err != nil {
		return err
	}

	query, args, err := sq.Insert(c.codec.table()).
		Columns(c.codec.allColumns()...).
		Values(append([]any{key}, values...)...).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (c *Collection[T]) exists(ctx context.Context, tx QueryInterceptor, key int64) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(c.codec.table()).
		Where(sq.Eq{c.codec.keyColumn: key}).
		ToSql()
	if err != nil {
		return false, err
	}

	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
