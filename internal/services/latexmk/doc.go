// Package latexmk mediates access to the TeX engine that turns generated
// LaTeX sources into PDF documents.
//
// The client runs the configured engine inside a work directory, enforces a
// per-document timeout and keeps the tail of the engine's output so failures
// can be reported without dumping the whole transcript. Execution goes
// through the Executor interface so tests can substitute a stub.
package latexmk
