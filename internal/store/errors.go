package store

import (
	"errors"

	duckdb "github.com/duckdb/duckdb-go/v2"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/packagingcountry/stockroom/internal/models"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// mapError converts engine constraint failures into ConstraintViolationError.
// Any other error is returned unchanged.
func mapError(collection models.Collection, err error) error {
	if err == nil {
		return nil
	}
	if isConstraintError(err) {
		return srvErrors.NewConstraintViolationError(collection.String(), err)
	}
	return err
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var duckErr *duckdb.Error
	if errors.As(err, &duckErr) {
		return duckErr.Type == duckdb.ErrorTypeConstraint
	}

	return false
}
