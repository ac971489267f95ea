// Package trajectory holds the normalized record table and answers
// per-object queries over it.
//
// A Store is built once from a source.Reader:
//
//  1. Load: the raw N×4 matrix is read and validated into Records.
//  2. Normalize: records are stable-sorted by TimeIndex, then every object id
//     seen fewer than the occurrence threshold (2 by default) is removed.
//  3. Query: Extract returns the Subset of one object id; Reduce applies a
//     caller function to a Subset.
//
// # Failure model
//
// Open never fails. A missing or malformed source leaves the store in the
// terminal LoadFailed state and the error is kept; every later table-dependent
// call returns it again. Caller-input problems (an id that is not an integer,
// a zero Subset) are returned as coded *Error values and leave the store
// usable. Only errors produced by a reduction function cross back out, wrapped
// as REDUCER_FAILURE.
//
// # Concurrency
//
// After Open returns, a Store is read-only and safe for concurrent readers.
// Subsets are values owned by the caller; the store keeps no "current subset".
package trajectory
