// Package harness provides scenario-based conformance tests for filters.
//
// A scenario declares a record, the mappings and filters to apply to it,
// and the arrays expected afterwards. The harness compiles the filters
// through the same CUE schema the CLI uses, so defaults match exactly.
//
// # Scenario Format
//
//	name: half_open_interval
//	description: "[) keeps the lower bound and drops the upper"
//	record:
//	  x: [1, 2, 3, 4, 5]
//	  text: [a, b, c, d, e]
//	mappings:
//	  - path: text
//	    type: string
//	filters:
//	  - operation: "[)"
//	    value: [2, 4]
//	expect:
//	  x: [2, 3]
//	  text: [b, c]
//
// expect maps dotted paths to the arrays they must hold. A scenario that
// should fail sets expect_error to a substring of the error instead.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite run log with a fixed
// run id (scenario.run_id, default "test-run-default") and a clock starting
// at 0, so snapshots compared with AssertGolden are stable.
package harness
