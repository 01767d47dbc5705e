package stores

import (
	"context"
	"database/sql"

	"github.com/zerocrud/zerocrud/pkg/entity"
)

// Store defines the operation set every storage backend implements for one
// model type. Absence is reported through the boolean results, never as an
// error: callers decide what a missing record means.
type Store[T any] interface {
	// Create constructs, validates and persists a new record from a field
	// mapping and returns it including any backend-assigned values.
	Create(ctx context.Context, data entity.Fields) (T, error)

	// Get returns the record with the given identity, or false when none
	// exists.
	Get(ctx context.Context, id int64) (T, bool, error)

	// List returns records in the backend's stable order, skipping the
	// first skip and returning at most limit. A skip beyond the end or a
	// limit of zero yields an empty result; negative values clamp to zero.
	List(ctx context.Context, skip, limit int) ([]T, error)

	// Update merges data into the existing record's fields, re-validates,
	// persists and returns the result. Fields not present in data keep
	// their prior values. It returns false when no record has the identity.
	Update(ctx context.Context, id int64, data entity.Fields) (T, bool, error)

	// Delete removes the record and reports whether one was found.
	Delete(ctx context.Context, id int64) (bool, error)

	// Count returns the total number of records currently stored.
	Count(ctx context.Context) (int64, error)
}

// Session is the subset of database/sql operations the SQL store needs.
// *sql.DB and *sql.Tx both satisfy it; the caller owns connection setup,
// schema and lifetime. With *sql.DB every statement commits on its own,
// which gives each store operation immediate-commit semantics.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
