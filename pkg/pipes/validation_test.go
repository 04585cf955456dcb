package pipes

import (
	"context"
	"errors"
	"testing"

	"github.com/honestjs/pipes/pkg/schema"
	"github.com/honestjs/pipes/pkg/schema/schematest"
)

type bodySchema struct {
	Name  string `json:"name" validate:"min=2"`
	Email string `json:"email" validate:"required,email"`
}

func schemaMeta() ArgumentMetadata {
	return ArgumentMetadata{Type: TargetSchema, Kind: "body", Schema: bodySchema{}}
}

func TestValidationPipe_PassthroughWithoutStructSchema(t *testing.T) {
	engine := &schematest.FakeEngine{}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	tests := []struct {
		name string
		meta ArgumentMetadata
	}{
		{name: "no target", meta: ArgumentMetadata{Type: TargetNone}},
		{name: "primitive target", meta: ArgumentMetadata{Type: TargetString}},
		{name: "schema target without prototype", meta: ArgumentMetadata{Type: TargetSchema}},
		{name: "sequence prototype", meta: ArgumentMetadata{Type: TargetSchema, Schema: []string{}}},
		{name: "untyped object prototype", meta: ArgumentMetadata{Type: TargetSchema, Schema: map[string]any{}}},
	}
	in := map[string]any{"name": "x"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Transform(context.Background(), in, tt.meta)
			if err != nil {
				t.Fatalf("passthrough should not fail: %v", err)
			}
			if len(engine.ConstructCalls) != 0 {
				t.Fatalf("engine must not be invoked for rule-free targets")
			}
			if _, ok := got.(map[string]any); !ok {
				t.Fatalf("value should pass through unchanged, got %T", got)
			}
		})
	}
}

func TestValidationPipe_NilShortCircuits(t *testing.T) {
	engine := &schematest.FakeEngine{}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))
	got, err := p.Transform(context.Background(), nil, schemaMeta())
	if err != nil || got != nil {
		t.Fatalf("nil should pass through, got %v, %v", got, err)
	}
	if len(engine.ConstructCalls) != 0 {
		t.Fatalf("engine must not see nil input")
	}
}

func TestValidationPipe_ReturnsInstanceOnSuccess(t *testing.T) {
	want := &bodySchema{Name: "Ada", Email: "ada@example.com"}
	engine := &schematest.FakeEngine{Instance: want}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	got, err := p.Transform(context.Background(), map[string]any{"name": "Ada"}, schemaMeta())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != any(want) {
		t.Fatalf("got %v, want the constructed instance", got)
	}
}

func TestValidationPipe_FlattensViolationsInOrder(t *testing.T) {
	engine := &schematest.FakeEngine{
		Violations: []schema.Violation{
			{Property: "name", Constraints: map[string]string{"min": "name must be at least 2 characters long"}},
			{Property: "email", Constraints: map[string]string{"email": "email must be a valid email address"}},
		},
	}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	_, err := p.Transform(context.Background(), map[string]any{"name": "A", "email": "bad"}, schemaMeta())
	if KindOf(err) != KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	want := "name: name must be at least 2 characters long; email: email must be a valid email address"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestValidationPipe_NestedViolationPaths(t *testing.T) {
	engine := &schematest.FakeEngine{
		Violations: []schema.Violation{
			{
				Property:    "address",
				Constraints: map[string]string{"required": "address is required"},
				Children: []schema.Violation{
					{Property: "street", Constraints: map[string]string{"min": "street is too short"}},
				},
			},
		},
	}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	_, err := p.Transform(context.Background(), map[string]any{}, schemaMeta())
	want := "address: address is required; address.street: street is too short"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestValidationPipe_ForbidNonWhitelisted(t *testing.T) {
	engine := &schematest.FakeEngine{Instance: &bodySchema{}, Unknown: []string{"extra"}}

	// whitelist alone drops the field silently
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))
	if _, err := p.Transform(context.Background(), map[string]any{"extra": 1}, schemaMeta()); err != nil {
		t.Fatalf("whitelist should drop unknown fields without failing: %v", err)
	}

	// forbidding turns the same input into a violation
	p = NewValidationPipe(NewValidationOptions().WithEngine(engine).WithForbidNonWhitelisted(true))
	_, err := p.Transform(context.Background(), map[string]any{"extra": 1}, schemaMeta())
	if KindOf(err) != KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if err.Error() != "extra: property extra should not exist" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidationPipe_EngineFailureIsOpaque(t *testing.T) {
	engine := &schematest.FakeEngine{ConstructErr: errors.New("reflect: cannot set field")}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	_, err := p.Transform(context.Background(), map[string]any{}, schemaMeta())
	if KindOf(err) != KindValidation {
		t.Fatalf("got %v, want validation classification", err)
	}
	if err.Error() != "Validation failed" {
		t.Fatalf("engine internals must not leak, got %q", err.Error())
	}

	engine = &schematest.FakeEngine{ValidateErr: errors.New("panic recovered")}
	p = NewValidationPipe(NewValidationOptions().WithEngine(engine))
	_, err = p.Transform(context.Background(), map[string]any{}, schemaMeta())
	if err == nil || err.Error() != "Validation failed" {
		t.Fatalf("got %v, want opaque validation failure", err)
	}
}

func TestValidationPipe_ClassifiedEngineFailurePassesThrough(t *testing.T) {
	original := NewConversionError("cannot convert 'x' to a number")
	engine := &schematest.FakeEngine{ValidateErr: original}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))

	_, err := p.Transform(context.Background(), map[string]any{}, schemaMeta())
	if err.(*Error) != original {
		t.Fatalf("already classified failures must be re-raised unchanged, got %v", err)
	}
}

func TestValidationPipe_PolicyReachesEngine(t *testing.T) {
	engine := &schematest.FakeEngine{}
	p := NewValidationPipe(NewValidationOptions().
		WithEngine(engine).
		WithImplicitConversion(false).
		WithExposeDefaults(true).
		WithSkipMissingProperties(true).
		WithStopAtFirstError(true).
		WithGroups("create"))

	if _, err := p.Transform(context.Background(), map[string]any{}, schemaMeta()); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(engine.ConstructCalls) != 1 || len(engine.ValidateCalls) != 1 {
		t.Fatalf("engine should see exactly one construct and one validate call")
	}
	tr := engine.ConstructCalls[0]
	if tr.ImplicitConversion || !tr.ExposeDefaults {
		t.Fatalf("transform policy not forwarded: %+v", tr)
	}
	va := engine.ValidateCalls[0]
	if !va.SkipMissingProperties || !va.StopAtFirstError || len(va.Groups) != 1 || va.Groups[0] != "create" {
		t.Fatalf("validate policy not forwarded: %+v", va)
	}
}

func TestValidationPipe_DefaultPolicy(t *testing.T) {
	engine := &schematest.FakeEngine{}
	p := NewValidationPipe(NewValidationOptions().WithEngine(engine))
	if _, err := p.Transform(context.Background(), map[string]any{}, schemaMeta()); err != nil {
		t.Fatalf("transform: %v", err)
	}
	tr := engine.ConstructCalls[0]
	if !tr.ImplicitConversion || tr.ExposeDefaults {
		t.Fatalf("unexpected default transform policy: %+v", tr)
	}
	va := engine.ValidateCalls[0]
	if va.SkipMissingProperties || va.StopAtFirstError || len(va.Groups) != 0 {
		t.Fatalf("unexpected default validate policy: %+v", va)
	}
}
