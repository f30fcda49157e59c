// Package config loads, normalizes, and validates coderdist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CODERDIST_SEED. The Config type centralizes every knob the CLI needs:
// corpus and output directories, the assignment parameters, the source alias
// table, and the typesetting engine invocation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
