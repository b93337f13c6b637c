// Package main hosts the factreel CLI entrypoint and command graph.
//
// The cobra-based command tree covers the full lifecycle: fetching and
// ingesting URLs through the ledger gate, scanning the downloads tree to
// advance items through transcription and packaging, and inspecting the
// ledger, hand-off list, and external tool availability. Configuration and
// logger construction are resolved once and shared across subcommands.
//
// Keep this package lean: new behaviour belongs in the internal packages,
// surfaced here through dedicated commands or flags.
package main
