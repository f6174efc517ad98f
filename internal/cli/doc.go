// Package cli parses command-line arguments, validates user input and maps
// problems to process exit codes. It translates CLI flags into the
// application's configuration.
package cli
