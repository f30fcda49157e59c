// Package typeset builds LaTeX documents from assigned articles and renders
// them through the configured TeX engine.
//
// Coder documents carry one numbered section per assignment, with the section
// counter offset so printed numbers equal assignment IDs. Query documents use
// unnumbered sections headed by title, source and classification. Rendering
// happens in a private temporary directory that is removed on every exit path;
// only the finished artifact is moved to its destination.
package typeset
