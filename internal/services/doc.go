// Package services defines cross-cutting error markers and context helpers
// shared by the pipeline stages and external tool clients.
//
// Errors are tagged with sentinel markers (validation, configuration,
// external tool, transient) so callers can classify failures without string
// matching: configuration errors abort a run before any item is touched,
// everything else fails only the item that raised it.
package services
