// Package assign distributes a corpus across coders so that every article is
// read by a fixed number of coders and every coder carries a near-equal load.
//
// The corpus is shuffled with a seeded generator and cut into one contiguous
// batch per coder; the division remainder is spread over randomly chosen
// batches. Coder i then receives the union of K consecutive batches starting
// at batch i, wrapping around, so each batch is read by exactly K coders.
// Assignment IDs are handed out coder by coder, which gives each coder one
// contiguous block of IDs.
package assign
