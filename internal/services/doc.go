// Package services defines shared utilities consumed by the pipeline stages
// and the external document engine client.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and coder numbers for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into configuration, corpus integrity, and external tool errors.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
