// Package entity binds Go model structs to the field mappings the storage
// layer works with. A Codec performs validated construction from a field
// mapping, extraction back into a mapping, and identity access. The default
// StructCodec derives the declared field set from struct tags once, at
// construction time.
package entity
