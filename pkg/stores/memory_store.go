package stores

import (
	"context"
	"slices"

	"github.com/zerocrud/zerocrud/pkg/entity"
)

// Compile-time contract assertion.
var _ Store[any] = (*MemoryStore[any])(nil)

// MemoryStore keeps records in insertion order in process memory and assigns
// identities from an auto-increment counter starting at 1. The counter never
// decreases, so deleted identities are not reused. There is no persistence
// and no locking: callers sharing a store across goroutines must serialize
// access themselves.
type MemoryStore[T any] struct {
	codec  entity.Codec[T]
	items  []T
	nextID int64
}

// NewMemoryStore creates an empty in-memory store for one model type.
func NewMemoryStore[T any](codec entity.Codec[T]) *MemoryStore[T] {
	return &MemoryStore[T]{codec: codec, nextID: 1}
}

// Create constructs, validates and stores a new record.
//
// A caller-supplied id is honored only when it is strictly greater than the
// counter, in which case the counter jumps past it. A supplied id at or
// below the counter is silently replaced with the counter value. Without a
// supplied id the counter value is assigned. Either way the counter
// advances, so ids stay unique even across deletions.
func (s *MemoryStore[T]) Create(_ context.Context, data entity.Fields) (T, error) {
	fields := data.Clone()

	if raw, ok := fields[entity.IDField]; ok && raw != nil {
		if id, numeric := asID(raw); numeric {
			if id > s.nextID {
				fields[entity.IDField] = id
				s.nextID = id + 1
			} else {
				fields[entity.IDField] = s.nextID
				s.nextID++
			}
		}
	}
	if raw, ok := fields[entity.IDField]; !ok || raw == nil {
		fields[entity.IDField] = s.nextID
		s.nextID++
	}

	item, err := s.codec.New(fields)
	if err != nil {
		var zero T
		return zero, err
	}
	s.items = append(s.items, item)
	return item, nil
}

// Get scans for the first record with the given identity. O(n).
func (s *MemoryStore[T]) Get(_ context.Context, id int64) (T, bool, error) {
	for _, item := range s.items {
		if s.codec.ID(item) == id {
			return item, true, nil
		}
	}
	var zero T
	return zero, false, nil
}

// List returns the insertion-order window [skip, skip+limit).
func (s *MemoryStore[T]) List(_ context.Context, skip, limit int) ([]T, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= len(s.items) {
		return []T{}, nil
	}
	end := len(s.items)
	if limit < end-skip {
		end = skip + limit
	}
	return slices.Clone(s.items[skip:end]), nil
}

// Update overlays data on the record's current fields, re-validates via full
// construction and replaces the record in place at the same position.
// Supplied fields win; fields not mentioned keep their prior values.
func (s *MemoryStore[T]) Update(_ context.Context, id int64, data entity.Fields) (T, bool, error) {
	var zero T
	for i, item := range s.items {
		if s.codec.ID(item) != id {
			continue
		}
		merged, err := s.codec.Dump(item)
		if err != nil {
			return zero, false, err
		}
		for k, v := range data {
			merged[k] = v
		}
		updated, err := s.codec.New(merged)
		if err != nil {
			return zero, false, err
		}
		s.items[i] = updated
		return updated, true, nil
	}
	return zero, false, nil
}

// Delete removes the record with the given identity, preserving the order of
// the rest. The identity counter is left untouched.
func (s *MemoryStore[T]) Delete(_ context.Context, id int64) (bool, error) {
	for i, item := range s.items {
		if s.codec.ID(item) == id {
			s.items = slices.Delete(s.items, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored records.
func (s *MemoryStore[T]) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

// asID normalizes a caller-supplied id of any numeric Go type (including the
// float64 produced by JSON decoding) to int64.
func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
