package ir

// Version constants for the plan format and compiler.
const (
	// PlanVersion is the serialized plan schema version.
	PlanVersion = "1"

	// CompilerVersion is the qdist compiler version.
	CompilerVersion = "0.1.0"
)
