// Package preflight provides readiness checks for the filesystem paths and
// external binaries that a distribution run depends on.
//
// The "coderdist doctor" command prints every check; "coderdist distribute"
// runs the filesystem checks before loading the corpus so a doomed run fails
// before any output is written.
package preflight
