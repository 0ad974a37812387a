// Package services defines shared utilities consumed by the conversion
// pipeline stages and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and asset names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across stages (errors.Is against the
//     exported sentinels).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
