// Package ledger persists the at-most-once download history.
//
// The ledger is the sole source of truth for "has this URL been fully
// downloaded". Rows are insert-if-absent: correctness under concurrent inserts
// comes from the UNIQUE constraint on url rather than application locking, so
// multiple independent process instances can share one database safely.
package ledger
