// Package pipeline is the host's stage-based job pipeline: an ordered list of
// named stages, each an ordered list of jobs.
//
// Construction mirrors a typical app builder. Wiring mistakes (a duplicate
// stage, an unknown target stage) are programmer errors and panic at the call
// site; nothing in this package panics while a pipeline is being executed.
package pipeline
