// Package ledger persists distribution runs in SQLite so any run can be
// audited and reproduced later.
//
// Each run records its parameters (including the seed actually used), the
// corpus and output locations, and every (ID, coder, title, source)
// assignment it produced. Writes retry briefly when the database is busy.
package ledger
