// Package memory implements a declarative memory for cognitive models: a
// store of learned experiences (chunks) retrieved probabilistically by
// frequency, recency, and feature similarity.
//
// A Memory holds chunks, each an attribute-value mapping with a history of
// reinforcement times, together with a dimensionless clock and the
// parameters governing retrieval: activation noise, base-level decay,
// blending temperature, mismatch penalty, and retrieval threshold. Models
// learn chunks as trials unfold, advance the clock between trials, and ask
// the memory to retrieve a chunk, blend a numeric attribute over matching
// chunks, or pick the best of several discrete choices.
//
// A Memory is not safe for concurrent use; independent Memory instances may
// be used in parallel.
package memory
