package hcl

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// tagName is the struct tag naming a job argument.
const tagName = "arg"

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	evalCtx *hcl.EvalContext
}

// NewConverter creates a converter whose argument expressions may call the
// built-in functions and read environment variables as `env.NAME`.
func NewConverter() *Converter {
	return &Converter{evalCtx: defaultEvalContext()}
}

// DecodeArguments evaluates each argument expression and stores it into the
// matching tagged field of target. Arguments that match no field are
// rejected so typos surface at startup.
func (c *Converter) DecodeArguments(ctx context.Context, target any, args map[string]hcl.Expression) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	used := make(map[string]bool, len(args))
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		tag, ok := field.Tag.Lookup(tagName)
		if !ok || tag == "-" || !fieldVal.CanSet() {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		optional := slices.Contains(strings.Split(opts, ","), "optional")

		expr, provided := args[name]
		if !provided {
			if !optional {
				return fmt.Errorf("missing required argument %q", name)
			}
			continue
		}
		used[name] = true

		val, diags := expr.Value(c.evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating argument %q: %w", name, diags)
		}
		if err := c.decode(ctx, val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument %q: %w", name, err)
		}
	}

	var unknown []string
	for name := range args {
		if !used[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("unsupported arguments: %s", strings.Join(unknown, ", "))
	}

	logger.Debug("Decoded job arguments.", "type", structType.String(), "count", len(args))
	return nil
}

// decode converts val to the cty type implied by the Go target and stores it.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)

	impliedType, err := gocty.ImpliedType(reflect.ValueOf(goVal).Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", fmt.Sprintf("%T", goVal), "error", err)
		return gocty.FromCtyValue(val, goVal)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.", "from", val.Type().FriendlyName(), "to", converted.Type().FriendlyName())
	}
	return gocty.FromCtyValue(converted, goVal)
}
