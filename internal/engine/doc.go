// Package engine implements the selection pass of the filter engine.
//
// Apply narrows every tracked array of a record to the indices whose source
// element satisfies one compiled predicate. Runner applies an ordered list of
// filters to the same record, one independent pass each, and reports what
// every pass did.
//
// THE SELECTION PASS:
//
//  1. Guard: a disabled filter, or a source path that is absent or not an
//     array, leaves the record untouched.
//  2. The coercer for the source path is resolved and the predicate compiled.
//     Compile errors surface before anything is mutated.
//  3. Snapshot: every tracked array is copied into a side table, then the
//     live arrays are cleared. Length mismatches are reported before this
//     step.
//  4. One pass over the source snapshot. For each kept index the element at
//     that index is appended to every live array, in the same order.
//  5. The live arrays replace the record's arrays.
//
// No live array is read once another has begun being filled, so index
// alignment across arrays cannot drift.
//
// Apply does no I/O and holds no state between calls. Filtering the same
// record from two goroutines must be serialized by the caller.
package engine
