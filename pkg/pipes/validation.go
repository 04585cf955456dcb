package pipes

import (
	"context"
	"reflect"
	"strings"

	"github.com/honestjs/pipes/pkg/schema"
)

// ValidationOptions configures the structured validation stage. Unset
// switches fall back to documented defaults at construction time.
type ValidationOptions struct {
	whitelist             boolOption
	forbidNonWhitelisted  boolOption
	implicitConversion    boolOption
	exposeDefaults        boolOption
	skipMissingProperties boolOption
	stopAtFirstError      boolOption
	groups                []string
	engine                schema.Engine
}

// NewValidationOptions returns a default, valid options value.
func NewValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// WithWhitelist controls stripping of input fields the schema does not
// declare. Enabled by default; mapping onto a struct drops them either way.
func (o ValidationOptions) WithWhitelist(value bool) ValidationOptions {
	o.whitelist = boolOption{value: value, set: true}
	return o
}

// WithForbidNonWhitelisted turns undeclared input fields into violations
// instead of dropping them. Disabled by default.
func (o ValidationOptions) WithForbidNonWhitelisted(value bool) ValidationOptions {
	o.forbidNonWhitelisted = boolOption{value: value, set: true}
	return o
}

// WithImplicitConversion allows weakly-typed mapping during construction,
// for example the string "42" filling an int field. Enabled by default
// because path and query values always arrive as strings.
func (o ValidationOptions) WithImplicitConversion(value bool) ValidationOptions {
	o.implicitConversion = boolOption{value: value, set: true}
	return o
}

// WithExposeDefaults fills zero scalar fields from `default:"..."` tags
// after construction. Disabled by default.
func (o ValidationOptions) WithExposeDefaults(value bool) ValidationOptions {
	o.exposeDefaults = boolOption{value: value, set: true}
	return o
}

// WithSkipMissingProperties suppresses failures for properties absent from
// the input. Disabled by default.
func (o ValidationOptions) WithSkipMissingProperties(value bool) ValidationOptions {
	o.skipMissingProperties = boolOption{value: value, set: true}
	return o
}

// WithStopAtFirstError truncates validation to the first violation.
// Disabled by default.
func (o ValidationOptions) WithStopAtFirstError(value bool) ValidationOptions {
	o.stopAtFirstError = boolOption{value: value, set: true}
	return o
}

// WithGroups restricts rule evaluation to the named groups, for engines
// that support grouping.
func (o ValidationOptions) WithGroups(groups ...string) ValidationOptions {
	o.groups = append([]string(nil), groups...)
	return o
}

// WithEngine injects the structural transform/validate capability.
// Defaults to schema.NewGoPlaygroundEngine().
func (o ValidationOptions) WithEngine(engine schema.Engine) ValidationOptions {
	o.engine = engine
	return o
}

// ValidationPipe maps a plain data value onto a declared schema struct and
// enforces the schema's field rules. Construct instances with
// NewValidationPipe; the zero value has no engine.
type ValidationPipe struct {
	forbid    bool
	transform schema.TransformOptions
	validate  schema.ValidateOptions
	engine    schema.Engine
}

// NewValidationPipe builds a validation pipe with the given options merged
// against defaults. The returned pipe is immutable and safe for concurrent
// use.
func NewValidationPipe(opts ValidationOptions) *ValidationPipe {
	engine := opts.engine
	if engine == nil {
		engine = schema.NewGoPlaygroundEngine()
	}
	return &ValidationPipe{
		// forbidding extra fields only makes sense while stripping them
		forbid: opts.whitelist.resolved(true) && opts.forbidNonWhitelisted.resolved(false),
		transform: schema.TransformOptions{
			ImplicitConversion: opts.implicitConversion.resolved(true),
			ExposeDefaults:     opts.exposeDefaults.resolved(false),
		},
		validate: schema.ValidateOptions{
			Groups:                append([]string(nil), opts.groups...),
			SkipMissingProperties: opts.skipMissingProperties.resolved(false),
			StopAtFirstError:      opts.stopAtFirstError.resolved(false),
		},
		engine: engine,
	}
}

// Transform resolves value, maps it onto the schema declared by meta and
// evaluates the schema's rules. Arguments without a struct schema pass
// through unchanged: primitives, sequences and untyped objects carry no
// field rules.
func (p *ValidationPipe) Transform(ctx context.Context, value any, meta ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if meta.Type != TargetSchema || !isStructSchema(meta.Schema) {
		return v, nil
	}

	instance, unknown, err := p.engine.Construct(meta.Schema, v, p.transform)
	if err != nil {
		return nil, wrapValidation(err)
	}

	var violations []schema.Violation
	if p.forbid {
		for _, name := range unknown {
			violations = append(violations, schema.Violation{
				Property: name,
				Constraints: map[string]string{
					"whitelistValidation": "property " + name + " should not exist",
				},
			})
		}
	}

	fieldViolations, err := p.engine.Validate(instance, p.validate)
	if err != nil {
		return nil, wrapValidation(err)
	}
	violations = append(violations, fieldViolations...)

	if len(violations) > 0 {
		return nil, NewValidationError(flattenViolations(violations))
	}
	return instance, nil
}

// isStructSchema reports whether the prototype names a struct. Built-in
// primitive and collection prototypes carry no field rules and make the
// pipe a passthrough.
func isStructSchema(prototype any) bool {
	if prototype == nil {
		return false
	}
	typ := reflect.TypeOf(prototype)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Kind() == reflect.Struct
}

// flattenViolations renders a violation tree depth-first, ancestor before
// descendant, one "<path>: <messages>" segment per node, segments joined
// with "; ".
func flattenViolations(violations []schema.Violation) string {
	var lines []string
	var walk func(prefix string, v schema.Violation)
	walk = func(prefix string, v schema.Violation) {
		path := v.Property
		if prefix != "" {
			path = prefix + "." + v.Property
		}
		if msgs := v.Messages(); len(msgs) > 0 {
			lines = append(lines, path+": "+strings.Join(msgs, ", "))
		}
		for _, child := range v.Children {
			walk(path, child)
		}
	}
	for _, v := range violations {
		walk("", v)
	}
	return strings.Join(lines, "; ")
}
