package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/packagingcountry/stockroom/internal/models"
)

// nextKey allocates a key from the collection's key generator. A zero
// explicit key takes the generator's next value; any other explicit key is
// used as is and moves the generator forward when it is larger than the
// last key handed out. Must run inside the write transaction.
func nextKey(ctx context.Context, tx QueryInterceptor, collection models.Collection, explicit int64) (int64, error) {
	query, args, err := sq.Select(columnKeyGenLastKey).
		From(tableKeyGenerators).
		Where(sq.Eq{columnKeyGenCollection: collection.String()}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var last int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return 0, err
	}

	key := explicit
	if key == 0 {
		key = last + 1
	}
	if key <= last {
		return key, nil
	}

	query, args, err = sq.Update(tableKeyGenerators).
		Set(columnKeyGenLastKey, key).
		Where(sq.Eq{columnKeyGenCollection: collection.String()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}

	return key, nil
}
