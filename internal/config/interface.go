package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter binds raw job arguments to the Go input structs of job modules.
type Converter interface {
	// DecodeArguments evaluates args and stores them into the fields of
	// target, a non-nil pointer to a struct tagged with `arg:"name"`.
	// Fields tagged `arg:"name,optional"` keep their preset value when the
	// argument is absent.
	DecodeArguments(ctx context.Context, target any, args map[string]hcl.Expression) error
}
