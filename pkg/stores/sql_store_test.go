package stores

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/zerocrud/zerocrud/pkg/entity"

	// SQLite driver
	_ "modernc.org/sqlite"
)

// setupSQLStore creates an in-memory SQLite database with the contact table
// and a store bound to it
func setupSQLStore(t *testing.T) (*SQLStore[contact], *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// a single connection keeps every statement on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	schema := `CREATE TABLE contact (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	codec, err := entity.NewStructCodec[contact]()
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}
	store, err := NewSQLStore(codec, db, SQLConfig{})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, db
}

// TestNewSQLStoreDefaults tests table naming and construction guards
func TestNewSQLStoreDefaults(t *testing.T) {
	store, _ := setupSQLStore(t)
	if store.Table() != "contact" {
		t.Errorf("expected default table contact, got %s", store.Table())
	}

	codec, err := entity.NewStructCodec[contact]()
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}
	if _, err := NewSQLStore(codec, nil, SQLConfig{}); err == nil {
		t.Error("expected error for nil session")
	}
	if _, err := NewSQLStore[contact](nil, nil, SQLConfig{}); err == nil {
		t.Error("expected error for nil codec")
	}
}

// TestSQLStoreCreateAssignsID tests backend id generation and refresh
func TestSQLStoreCreateAssignsID(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, entity.Fields{"name": "Alice", "email": "alice@test.com"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("expected generated id 1, got %d", first.ID)
	}
	if first.Name != "Alice" || first.Email != "alice@test.com" {
		t.Errorf("refreshed record mismatch: %+v", first)
	}

	second, err := store.Create(ctx, entity.Fields{"name": "Bob"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("expected generated id 2, got %d", second.ID)
	}
}

// TestSQLStoreCreateSuppliedID tests that a supplied identity is written
func TestSQLStoreCreateSuppliedID(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	c, err := store.Create(ctx, entity.Fields{"id": int64(10), "name": "Carol"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if c.ID != 10 {
		t.Errorf("expected supplied id 10, got %d", c.ID)
	}

	next, err := store.Create(ctx, entity.Fields{"name": "Dave"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if next.ID != 11 {
		t.Errorf("expected autoincrement to continue at 11, got %d", next.ID)
	}
}

// TestSQLStoreCreateValidation tests that nothing is written on invalid input
func TestSQLStoreCreateValidation(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, entity.Fields{"email": "x@test.com"})
	var valErr *entity.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *entity.ValidationError for missing name, got %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty table after failed create, count is %d", n)
	}
}

// TestSQLStoreGet tests lookup and absence
func TestSQLStoreGet(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, entity.Fields{"name": "Alice", "email": "alice@test.com"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	got, found, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get contact: %v", err)
	}
	if !found {
		t.Fatal("expected contact to be found")
	}
	if got.Name != "Alice" || got.Email != "alice@test.com" {
		t.Errorf("unexpected contact: %+v", got)
	}

	_, found, err = store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get of unknown id must not error: %v", err)
	}
	if found {
		t.Error("expected unknown id to be absent")
	}
}

// TestSQLStoreListOrdersByID tests deterministic ascending-identity order
func TestSQLStoreListOrdersByID(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	// insert out of identity order
	for _, c := range []struct {
		id   int64
		name string
	}{{3, "c"}, {1, "a"}, {2, "b"}} {
		if _, err := store.Create(ctx, entity.Fields{"id": c.id, "name": c.name}); err != nil {
			t.Fatalf("failed to create contact %s: %v", c.name, err)
		}
	}

	got, err := store.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("failed to list contacts: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i].Name)
		}
	}

	// windows
	page, err := store.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("failed to list page: %v", err)
	}
	if len(page) != 1 || page[0].Name != "b" {
		t.Errorf("expected window [b], got %+v", page)
	}

	empty, err := store.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("failed to list past the end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result past the end, got %d", len(empty))
	}

	zero, err := store.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("failed to list with zero limit: %v", err)
	}
	if len(zero) != 0 {
		t.Errorf("expected empty result for limit 0, got %d", len(zero))
	}

	clamped, err := store.List(ctx, -5, -5)
	if err != nil {
		t.Fatalf("failed to list with negative window: %v", err)
	}
	if len(clamped) != 0 {
		t.Errorf("expected empty result for negative limit, got %d", len(clamped))
	}
}

// TestSQLStoreUpdateMerge tests partial update with declared-field filtering
func TestSQLStoreUpdateMerge(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, entity.Fields{"name": "Alice", "email": "alice@test.com"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	updated, found, err := store.Update(ctx, created.ID, entity.Fields{
		"name":     "Alice Smith",
		"nickname": "ignored", // not declared by the model
	})
	if err != nil {
		t.Fatalf("failed to update contact: %v", err)
	}
	if !found {
		t.Fatal("expected contact to be found")
	}
	if updated.Name != "Alice Smith" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.Email != "alice@test.com" {
		t.Errorf("unmentioned email must be preserved, got %s", updated.Email)
	}

	// reread from the database
	got, _, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get contact: %v", err)
	}
	if got.Name != "Alice Smith" || got.Email != "alice@test.com" {
		t.Errorf("persisted record mismatch: %+v", got)
	}
}

// TestSQLStoreUpdateNoDeclaredFields tests the no-op update path
func TestSQLStoreUpdateNoDeclaredFields(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, entity.Fields{"name": "Alice"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	got, found, err := store.Update(ctx, created.ID, entity.Fields{"nickname": "x"})
	if err != nil {
		t.Fatalf("failed no-op update: %v", err)
	}
	if !found {
		t.Fatal("expected contact to be found")
	}
	if got.Name != "Alice" {
		t.Errorf("no-op update changed the record: %+v", got)
	}
}

// TestSQLStoreUpdateUnknownID tests absence reporting
func TestSQLStoreUpdateUnknownID(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	_, found, err := store.Update(ctx, 7, entity.Fields{"name": "x"})
	if err != nil {
		t.Fatalf("update of unknown id must not error: %v", err)
	}
	if found {
		t.Error("expected unknown id to be absent")
	}
}

// TestSQLStoreDeleteAndCount tests removal and count interplay
func TestSQLStoreDeleteAndCount(t *testing.T) {
	store, _ := setupSQLStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, entity.Fields{"name": "Alice"})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("expected count 1 after create, got %d", n)
	}

	found, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to delete contact: %v", err)
	}
	if !found {
		t.Fatal("expected delete to report the record was found")
	}
	if _, found, _ := store.Get(ctx, created.ID); found {
		t.Error("deleted record must be absent")
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected count 0 after delete, got %d", n)
	}

	found, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}
	if found {
		t.Error("second delete must report absence")
	}
}

// TestSQLStoreBackendErrorPassthrough tests that session failures surface
func TestSQLStoreBackendErrorPassthrough(t *testing.T) {
	store, db := setupSQLStore(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "DROP TABLE contact"); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	if _, err := store.Create(ctx, entity.Fields{"name": "Alice"}); err == nil {
		t.Error("expected backend error after dropping the table")
	}
	if _, err := store.Count(ctx); err == nil {
		t.Error("expected backend error from count after dropping the table")
	}
}

// TestSQLStoreWorksInsideTransaction tests the *sql.Tx session variant
func TestSQLStoreWorksInsideTransaction(t *testing.T) {
	_, db := setupSQLStore(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	codec, err := entity.NewStructCodec[contact]()
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}
	store, err := NewSQLStore(codec, tx, SQLConfig{})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	created, err := store.Create(ctx, entity.Fields{"name": "Alice"})
	if err != nil {
		t.Fatalf("failed to create contact in transaction: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected id 1, got %d", created.ID)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contact").Scan(&n); err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected committed row, count is %d", n)
	}
}
