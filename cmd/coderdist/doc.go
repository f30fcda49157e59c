// Package main hosts the coderdist CLI entrypoint and command graph.
//
// The Cobra-based command tree loads the article corpus, distributes it across
// coders, renders one document per coder, and reads the filled-in coding sheet
// back for progress reports and term queries. It centralizes configuration
// resolution and logging setup so subcommands can focus on presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
