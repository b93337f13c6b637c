// Package ingest turns stored messages and raw URLs into downloaded items.
//
// Every download is gated on the ledger before any network call, fetched into
// a unique staging directory with retries, moved into its item directory, and
// only then recorded. Messages are parsed into an explicit struct and filtered
// by sender and subject rules before their URLs are processed.
package ingest
