// Package compose synthesizes specialized pixel-composition routines for a
// rendering pipeline: given a destination pixel stream, a source producer, an
// optional coverage mask and one of ~25 Porter-Duff / blend-mode operators,
// Compile returns a routine that combines them into an updated destination
// stream, processing pixels in wide batches.
//
// A routine is compiled once per (operator, pixel format, mask mode, source
// kind) tuple and reused for every span drawn with that configuration. The
// compiled routine is a pure function over the destination slice, the span
// position and the coverage data; independent instances (see Routine.Clone)
// may run concurrently on disjoint destination regions.
//
// The heavy lifting lives in the subpackages: blend holds the operator
// formula catalog, wide the batch and lane types, mask the coverage context
// and solid fast-path coefficients, and looper the loop-shape planner.
package compose
