// Package schema defines the structural transform/validate capability the
// validation pipe orchestrates. The pipe only depends on the narrow Engine
// interface; the default implementation lives in this package, and tests
// inject scripted engines via schematest.
package schema

import "sort"

// Violation is one structural-validation failure. Children carry failures
// of nested schema fields; Property names the failing field relative to its
// parent.
type Violation struct {
	Property    string
	Constraints map[string]string
	Children    []Violation
}

// Messages returns the constraint messages in sorted constraint-name order,
// so a violation always renders the same way.
func (v Violation) Messages() []string {
	if len(v.Constraints) == 0 {
		return nil
	}
	names := make([]string, 0, len(v.Constraints))
	for name := range v.Constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, v.Constraints[name])
	}
	return msgs
}

// TransformOptions steer how a plain value is mapped onto a schema struct.
type TransformOptions struct {
	// ImplicitConversion allows weakly-typed mapping, for example the
	// string "42" filling an int field.
	ImplicitConversion bool
	// ExposeDefaults fills zero scalar fields from `default:"..."` tags
	// after mapping.
	ExposeDefaults bool
}

// ValidateOptions steer rule evaluation on a constructed instance.
type ValidateOptions struct {
	// Groups restricts evaluation to rules tagged with one of the given
	// group names. Engines without group support ignore it.
	Groups []string
	// SkipMissingProperties suppresses failures for properties absent from
	// the input.
	SkipMissingProperties bool
	// StopAtFirstError truncates the result to the first violation.
	StopAtFirstError bool
}

// Engine maps plain values onto schema structs and evaluates their field
// rules. Implementations must be safe for concurrent use.
type Engine interface {
	// Construct maps value onto a new instance of the struct referenced by
	// the schema prototype. It returns the instance and the names of input
	// fields the schema does not declare.
	Construct(schema, value any, opts TransformOptions) (any, []string, error)
	// Validate evaluates the schema's field rules on instance. An empty
	// result denotes success.
	Validate(instance any, opts ValidateOptions) ([]Violation, error)
}
