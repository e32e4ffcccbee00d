package constants

// PipelineState is the lifecycle position of the initialization pipeline.
type PipelineState string

const (
	StateUninitialized PipelineState = "uninitialized"
	StateResolving     PipelineState = "resolving"
	StatePresenting    PipelineState = "presenting"
	StateActive        PipelineState = "active"
)
