package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/packagingcountry/stockroom/internal/models"
)

// ListOption narrows a GetAll or Count query on a collection of T.
type ListOption[T any] func(sq.SelectBuilder) sq.SelectBuilder

func ByCategory(categories ...string) ListOption[models.Product] {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(categories) == 0 {
			return b
		}
		return b.Where(sq.Eq{"category": categories})
	}
}

func BySupplier(suppliers ...string) ListOption[models.Product] {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(suppliers) == 0 {
			return b
		}
		return b.Where(sq.Eq{"supplier": suppliers})
	}
}

// ByDateRange keeps sales made in [from, to). A zero bound is open.
func ByDateRange(from, to time.Time) ListOption[models.Sale] {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if !from.IsZero() {
			b = b.Where(sq.GtOrEq{"sold_at": normalizeTime(from)})
		}
		if !to.IsZero() {
			b = b.Where(sq.Lt{"sold_at": normalizeTime(to)})
		}
		return b
	}
}

func WithLimit[T any](limit uint64) ListOption[T] {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset[T any](offset uint64) ListOption[T] {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
