package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zerocrud/zerocrud/pkg/entity"
	"github.com/zerocrud/zerocrud/pkg/stores"
	"github.com/zerocrud/zerocrud/pkg/telemetry"
)

// Storage identifies a backend kind.
type Storage string

const (
	// StorageMemory selects the process-local, non-persistent backend.
	StorageMemory Storage = "memory"

	// StorageDatabase selects the SQL backend; it requires a session.
	StorageDatabase Storage = "database"
)

// Configuration errors. These are fatal at construction time and never
// retried.
var (
	// ErrSessionRequired is returned when database storage is requested
	// without a session.
	ErrSessionRequired = errors.New("crud: database storage requires a session")

	// ErrUnknownStorage is returned for a storage value that names neither
	// backend.
	ErrUnknownStorage = errors.New("crud: unknown storage backend")
)

// Repository binds one model type to one storage backend for its lifetime.
// The zero value is not usable; construct with New.
type Repository[T any] struct {
	codec   entity.Codec[T]
	store   stores.Store[T]
	storage Storage
	session stores.Session
	log     *telemetry.Logger
	metrics *telemetry.Metrics
}

type config[T any] struct {
	codec   entity.Codec[T]
	storage Storage
	session stores.Session
	table   string
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
}

// Option configures a repository at construction time.
type Option[T any] func(*config[T])

// WithCodec injects a custom entity codec. Without it the repository builds
// a StructCodec for T, which requires T to be a struct with an integer id
// field.
func WithCodec[T any](codec entity.Codec[T]) Option[T] {
	return func(c *config[T]) { c.codec = codec }
}

// WithStorage selects the backend explicitly. StorageMemory wins over a
// supplied session; StorageDatabase fails without one.
func WithStorage[T any](storage Storage) Option[T] {
	return func(c *config[T]) { c.storage = storage }
}

// WithSession supplies the database session. When no storage is selected
// explicitly, supplying a session selects the database backend.
func WithSession[T any](session stores.Session) Option[T] {
	return func(c *config[T]) { c.session = session }
}

// WithTable overrides the SQL table name. Ignored by the memory backend.
func WithTable[T any](table string) Option[T] {
	return func(c *config[T]) { c.table = table }
}

// WithLogger attaches a logger to the repository. The default discards
// everything.
func WithLogger[T any](logger *telemetry.Logger) Option[T] {
	return func(c *config[T]) { c.logger = logger }
}

// WithMetrics attaches a metrics collector to the repository.
func WithMetrics[T any](metrics *telemetry.Metrics) Option[T] {
	return func(c *config[T]) { c.metrics = metrics }
}

// New constructs a repository for T. Model binding is resolved here, once:
// a type that cannot back a codec fails immediately with a configuration
// error, before any operation runs.
//
// Backend selection:
//   - explicit StorageMemory: memory, any session is ignored
//   - explicit StorageDatabase: requires a session, ErrSessionRequired otherwise
//   - no storage, session supplied: database (auto-detect)
//   - neither: memory
func New[T any](opts ...Option[T]) (*Repository[T], error) {
	cfg := config[T]{logger: telemetry.NopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	codec := cfg.codec
	if codec == nil {
		var err error
		codec, err = entity.NewStructCodec[T]()
		if err != nil {
			return nil, err
		}
	}

	r := &Repository[T]{codec: codec, metrics: cfg.metrics}

	switch {
	case cfg.storage == StorageMemory:
		r.store = stores.NewMemoryStore(codec)
		r.storage = StorageMemory
	case cfg.storage == StorageDatabase:
		if cfg.session == nil {
			return nil, ErrSessionRequired
		}
		store, err := stores.NewSQLStore(codec, cfg.session, stores.SQLConfig{Table: cfg.table})
		if err != nil {
			return nil, err
		}
		r.store = store
		r.storage = StorageDatabase
		r.session = cfg.session
	case cfg.storage != "":
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.storage)
	case cfg.session != nil:
		store, err := stores.NewSQLStore(codec, cfg.session, stores.SQLConfig{Table: cfg.table})
		if err != nil {
			return nil, err
		}
		r.store = store
		r.storage = StorageDatabase
		r.session = cfg.session
	default:
		r.store = stores.NewMemoryStore(codec)
		r.storage = StorageMemory
	}

	r.log = cfg.logger.WithModel(codec.ModelName()).WithBackend(string(r.storage))
	return r, nil
}

// Storage returns which backend is active.
func (r *Repository[T]) Storage() Storage { return r.storage }

// Session returns the database session, or nil on the memory backend.
func (r *Repository[T]) Session() stores.Session { return r.session }

// Codec returns the entity codec the repository was bound with.
func (r *Repository[T]) Codec() entity.Codec[T] { return r.codec }

// Create persists a new record built from the field mapping.
func (r *Repository[T]) Create(ctx context.Context, data entity.Fields) (T, error) {
	start := time.Now()
	item, err := r.store.Create(ctx, data)
	r.observe("create", start, err)
	return item, err
}

// Get returns the record with the given identity, or false when none exists.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	start := time.Now()
	item, found, err := r.store.Get(ctx, id)
	r.observe("get", start, err)
	return item, found, err
}

// List returns at most limit records after skipping skip, in the backend's
// stable order.
func (r *Repository[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	start := time.Now()
	items, err := r.store.List(ctx, skip, limit)
	r.observe("list", start, err)
	return items, err
}

// Update merges the field mapping into the stored record, or reports false
// when the identity is unknown.
func (r *Repository[T]) Update(ctx context.Context, id int64, data entity.Fields) (T, bool, error) {
	start := time.Now()
	item, found, err := r.store.Update(ctx, id, data)
	r.observe("update", start, err)
	return item, found, err
}

// Delete removes the record and reports whether one was found.
func (r *Repository[T]) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	found, err := r.store.Delete(ctx, id)
	r.observe("delete", start, err)
	return found, err
}

// Count returns the total number of stored records.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := r.store.Count(ctx)
	r.observe("count", start, err)
	if err == nil {
		r.metrics.SetRecordCount(r.codec.ModelName(), string(r.storage), n)
	}
	return n, err
}

func (r *Repository[T]) observe(op string, start time.Time, err error) {
	r.metrics.RecordOperation(r.codec.ModelName(), string(r.storage), op, time.Since(start), err)
	if err != nil {
		r.log.WithError(err).WithField("operation", op).Debug("operation failed")
		return
	}
	r.log.WithField("operation", op).Trace("operation completed")
}
