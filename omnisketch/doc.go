// Package omnisketch implements the OmniSketch multi-dimensional streaming
// sketch described in Punter, Papapetrou & Garofalakis, "OmniSketch:
// Efficient Multi-Dimensional High-Velocity Stream Analytics with Arbitrary
// Predicates" (VLDB 2023).
//
// An OmniSketch approximates the number of records matching a conjunctive
// equality predicate over several attributes. Internally it keeps one
// Count-Min-style matrix per attribute; unlike a plain Count-Min sketch,
// every cell also keeps a bottom-k sample of the record IDs that hashed
// into it. Estimating a predicate intersects the bottom-k samples of the
// cells touched by each queried column and scales the surviving fraction
// by the largest cell count seen along the way.
//
// The package accepts already-hashed column values (uint32) and internally
// generated record IDs; dispatching a host value to the right hash
// function, deconstructing records, and registering the sketch as a SQL
// aggregate are the caller's responsibility.
package omnisketch
