// Package stores provides the storage backends behind a repository. It
// defines the six-operation Store contract and two implementations: an
// in-memory store with insertion-ordered records and an auto-increment
// identity counter, and a SQL store that runs each operation against an
// externally supplied database/sql session.
package stores
