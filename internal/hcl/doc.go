// Package hcl implements config.Loader and config.Converter for HCL grid
// files.
//
// Every .hcl file found under the configured paths may declare any number of
// `runner` blocks and at most one `telemetry` block across the whole grid.
// The loader validates placement, tick rate and stage references up front so
// that building runner handles later can never hit a programmer-error panic.
package hcl
