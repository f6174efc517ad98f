// Package app hosts a tickgrid simulation. It loads a grid, turns every
// configured runner into a live handle inside a host world, and drives all of
// them from a single frame loop, decoupled from any specific entrypoint like
// a CLI.
package app
