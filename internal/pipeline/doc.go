// Package pipeline composes the scan-and-derive workflow: discover primary
// media files, gate each on write stability, then advance it through audio
// extraction, transcription, and packaging.
//
// Stage state lives entirely in sidecar artifacts on disk, so re-running the
// pipeline over the same tree is always safe: completed items are skipped, and
// interrupted items resume from the first missing artifact. Items run through
// a bounded worker pool; one item's failure never stops its siblings.
package pipeline
