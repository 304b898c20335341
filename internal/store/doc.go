// Package store provides the SQLite-backed run log.
//
// Every filter pass applied by engine.Runner can be recorded here:
//   - runs: one row per Runner pass, keyed by its UUIDv7 run id
//   - filter_runs: one row per filter of the pass, keyed by (run_id, seq)
//
// Writes are idempotent (ON CONFLICT DO NOTHING), so re-recording the same
// run is harmless. Reads are ordered by seq ASC, run_id ASC COLLATE BINARY
// and return empty slices rather than nil. QueryRuns narrows a read by
// run, spec hash, source path, operation or skipped state.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Filter specs are stored as canonical JSON (ir.MarshalCanonical), the same
// bytes ir.SpecHash hashes.
package store
