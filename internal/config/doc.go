// Package config defines the format-agnostic model of a tickgrid simulation
// and the interfaces (Loader, Converter) that concrete formats implement.
//
// The Model describes which runners exist, where they are placed, how they
// tick and which jobs they carry. The app package turns it into live runner
// handles; the hcl package produces it from files.
package config
