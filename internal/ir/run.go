package ir

// NOTE: RunRecord is a store-layer type shared by the engine (producer) and
// the store (consumer) so neither imports the other.

// RunRecord is one filter application as recorded in the run log.
//
// All records written by one Runner pass share a RunID; Seq orders them
// within the run (and across runs sharing a clock).
type RunRecord struct {
	RunID         string     `json:"run_id"`
	Seq           int64      `json:"seq"`
	SpecHash      string     `json:"spec_hash"`
	Spec          FilterSpec `json:"spec"`
	InputLen      int        `json:"input_len"`
	KeptLen       int        `json:"kept_len"`
	Skipped       bool       `json:"skipped"`
	Reason        string     `json:"reason,omitempty"`      // why a skipped filter did nothing
	RecordHash    string     `json:"record_hash,omitempty"` // record after the pass, when hashable
	EngineVersion string     `json:"engine_version"`
}
