// Package crud exposes the repository facade: one model type bound to one
// storage backend, chosen at construction time, with the six store
// operations forwarded verbatim. Backend selection follows explicit options
// first, then falls back to auto-detecting a database backend from the
// presence of a session, and defaults to memory.
package crud
