// Package schematest provides a scripted schema.Engine so pipe tests can
// run without the real transform/validate machinery.
package schematest

import (
	"github.com/honestjs/pipes/pkg/schema"
)

// FakeEngine implements schema.Engine with scripted results. The zero value
// constructs an echo instance and reports no violations.
type FakeEngine struct {
	// Instance is returned by Construct when non-nil; otherwise the input
	// value is echoed back.
	Instance any
	// Unknown is returned by Construct as the undeclared field names.
	Unknown []string
	// ConstructErr, when set, fails Construct.
	ConstructErr error

	// Violations is returned by Validate.
	Violations []schema.Violation
	// ValidateErr, when set, fails Validate.
	ValidateErr error

	// ConstructCalls and ValidateCalls record the options each call saw.
	ConstructCalls []schema.TransformOptions
	ValidateCalls  []schema.ValidateOptions
}

// Construct returns the scripted instance and unknown field names.
func (f *FakeEngine) Construct(_, value any, opts schema.TransformOptions) (any, []string, error) {
	f.ConstructCalls = append(f.ConstructCalls, opts)
	if f.ConstructErr != nil {
		return nil, nil, f.ConstructErr
	}
	if f.Instance != nil {
		return f.Instance, f.Unknown, nil
	}
	return value, f.Unknown, nil
}

// Validate returns the scripted violations.
func (f *FakeEngine) Validate(_ any, opts schema.ValidateOptions) ([]schema.Violation, error) {
	f.ValidateCalls = append(f.ValidateCalls, opts)
	if f.ValidateErr != nil {
		return nil, f.ValidateErr
	}
	return f.Violations, nil
}

var _ schema.Engine = (*FakeEngine)(nil)
