// Package registry maps job type names used in grid files to the Go code
// that builds those jobs.
//
// Modules register themselves at startup. The registry is then validated
// against the loaded config.Model so that a grid naming an unknown job type,
// or passing arguments a module does not accept, fails before the first
// frame instead of in the middle of a run.
package registry
