package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths, translates the blocks into the
// model and validates the result as a whole.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	names := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Telemetry {
			if model.Telemetry != nil {
				return nil, nil, fmt.Errorf("%s: telemetry is declared more than once", file)
			}
			model.Telemetry = translateTelemetry(block)
		}

		for _, block := range root.Runners {
			if prev, dup := names[block.Name]; dup {
				return nil, nil, fmt.Errorf("%s: runner '%s' is already declared in %s", file, block.Name, prev)
			}
			names[block.Name] = file

			def, err := translateRunner(ctx, block)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Runners = append(model.Runners, def)
		}
	}

	if err := validateModel(model); err != nil {
		return nil, nil, err
	}

	logger.Debug("HCL loading complete.", "runners", len(model.Runners), "jobs", model.JobCount(), "telemetry", model.Telemetry != nil)
	return model, NewConverter(), nil
}
