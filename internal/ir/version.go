package ir

// Version constants for the filter engine.
const (
	// EngineVersion is the parafilter engine version recorded with each run.
	EngineVersion = "0.1.0"
)
