package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zerocrud/zerocrud/pkg/entity"
)

// Compile-time contract assertion.
var _ Store[any] = (*SQLStore[any])(nil)

// SQLConfig holds SQL store configuration.
type SQLConfig struct {
	// Table overrides the table name. The default is the lowercased model
	// name, so a Contact model maps to a "contact" table.
	Table string
}

// SQLStore persists records through an externally supplied session. It
// performs no connection management and no schema setup: the table with the
// model's declared columns must already exist. Statements use `?`
// placeholders, matching database/sql drivers in the sqlite/mysql family.
//
// Every mutating operation commits immediately through the session; errors
// raised by the session or its driver are returned to the caller untouched,
// with no translation and no retry.
type SQLStore[T any] struct {
	codec   entity.Codec[T]
	session Session
	table   string
	columns []string
}

// NewSQLStore creates a store bound to one model type, one table and one
// already-connected session.
func NewSQLStore[T any](codec entity.Codec[T], session Session, cfg SQLConfig) (*SQLStore[T], error) {
	if codec == nil {
		return nil, fmt.Errorf("sql store requires a codec")
	}
	if session == nil {
		return nil, fmt.Errorf("sql store requires a session")
	}
	table := cfg.Table
	if table == "" {
		table = strings.ToLower(codec.ModelName())
	}
	return &SQLStore[T]{
		codec:   codec,
		session: session,
		table:   table,
		columns: codec.FieldNames(),
	}, nil
}

// Table returns the table this store reads and writes.
func (s *SQLStore[T]) Table() string { return s.table }

// Create validates the field mapping through full construction, inserts the
// row and reads it back so backend-generated values (the identity above all)
// land on the returned record. The id column is omitted from the insert when
// the caller did not supply one, leaving assignment to the backend.
func (s *SQLStore[T]) Create(ctx context.Context, data entity.Fields) (T, error) {
	var zero T
	item, err := s.codec.New(data)
	if err != nil {
		return zero, err
	}
	fields, err := s.codec.Dump(item)
	if err != nil {
		return zero, err
	}

	raw, ok := data[entity.IDField]
	suppliedID := ok && raw != nil

	cols := make([]string, 0, len(s.columns))
	args := make([]any, 0, len(s.columns))
	for _, col := range s.columns {
		if col == entity.IDField && !suppliedID {
			continue
		}
		cols = append(cols, col)
		args = append(args, fields[col])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := s.session.ExecContext(ctx, query, args...)
	if err != nil {
		return zero, err
	}

	id := s.codec.ID(item)
	if !suppliedID {
		id, err = res.LastInsertId()
		if err != nil {
			return zero, err
		}
	}

	created, found, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, sql.ErrNoRows
	}
	return created, nil
}

// Get looks the record up by primary key.
func (s *SQLStore[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		strings.Join(s.columns, ", "), s.table, entity.IDField)

	row := s.session.QueryRowContext(ctx, query, id)
	item, err := s.materialize(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// List pages through records in ascending identity order, which keeps the
// result deterministic across backends.
func (s *SQLStore[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC LIMIT ? OFFSET ?",
		strings.Join(s.columns, ", "), s.table, entity.IDField)

	rows, err := s.session.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := s.materialize(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update fetches the current record, overlays only the supplied fields the
// model actually declares, re-validates the merged state and writes it back,
// then reads the row again to reflect any backend-side changes. Supplying no
// declared field is a no-op that returns the record unchanged.
func (s *SQLStore[T]) Update(ctx context.Context, id int64, data entity.Fields) (T, bool, error) {
	var zero T
	current, found, err := s.Get(ctx, id)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	merged, err := s.codec.Dump(current)
	if err != nil {
		return zero, false, err
	}
	touched := make([]string, 0, len(data))
	for _, col := range s.columns {
		if v, ok := data[col]; ok {
			merged[col] = v
			touched = append(touched, col)
		}
	}
	if len(touched) == 0 {
		return current, true, nil
	}

	item, err := s.codec.New(merged)
	if err != nil {
		return zero, false, err
	}
	fields, err := s.codec.Dump(item)
	if err != nil {
		return zero, false, err
	}

	sets := make([]string, 0, len(touched))
	args := make([]any, 0, len(touched)+1)
	for _, col := range touched {
		sets = append(sets, col+" = ?")
		args = append(args, fields[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		s.table, strings.Join(sets, ", "), entity.IDField)
	if _, err := s.session.ExecContext(ctx, query, args...); err != nil {
		return zero, false, err
	}

	// The identity itself is a declared field, so refresh under whatever
	// value the merged record carries.
	updated, found, err := s.Get(ctx, s.codec.ID(item))
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, sql.ErrNoRows
	}
	return updated, true, nil
}

// Delete removes the row and reports whether one existed.
func (s *SQLStore[T]) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table, entity.IDField)
	res, err := s.session.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Count returns the number of rows in the table.
func (s *SQLStore[T]) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	var n int64
	if err := s.session.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// materialize scans one row's columns into a field mapping and runs it
// through validated construction, so records coming off the wire are checked
// the same way created ones are.
func (s *SQLStore[T]) materialize(scan func(dest ...any) error) (T, error) {
	var zero T
	values := make([]any, len(s.columns))
	ptrs := make([]any, len(s.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := scan(ptrs...); err != nil {
		return zero, err
	}
	fields := make(entity.Fields, len(s.columns))
	for i, col := range s.columns {
		fields[col] = values[i]
	}
	return s.codec.New(fields)
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
