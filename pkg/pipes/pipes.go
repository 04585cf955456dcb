// Package pipes converts raw request argument values into typed values
// before they reach a handler, or rejects the request with a classified,
// human-readable error.
//
// Two composable stages implement the same Pipe contract: ParsePipe coerces
// a single scalar to a primitive target kind under a configurable policy,
// and ValidationPipe maps a plain data value onto a declared schema struct
// and enforces its field rules through an injected schema.Engine. Pipes are
// immutable after construction and safe for concurrent use.
package pipes

import "context"

// Pipe transforms one request argument. It returns the typed value or a
// classified *Error the host translates into a client-facing response.
type Pipe interface {
	Transform(ctx context.Context, value any, meta ArgumentMetadata) (any, error)
}

// PipeFunc adapts a plain function to the Pipe interface.
type PipeFunc func(ctx context.Context, value any, meta ArgumentMetadata) (any, error)

// Transform calls f.
func (f PipeFunc) Transform(ctx context.Context, value any, meta ArgumentMetadata) (any, error) {
	return f(ctx, value, meta)
}

// TargetType enumerates the kinds a raw argument value can be asked to
// become. The set is closed: a pipe handles each variant with an explicit
// branch and passes unrecognized targets through unchanged.
type TargetType int

const (
	// TargetNone declares no target type; every pipe passes the value through.
	TargetNone TargetType = iota
	// TargetString asks for a text value.
	TargetString
	// TargetNumber asks for a numeric value.
	TargetNumber
	// TargetBoolean asks for a boolean value.
	TargetBoolean
	// TargetSchema asks for an instance of the struct referenced by
	// ArgumentMetadata.Schema.
	TargetSchema
)

// String returns a stable name for the target type.
func (t TargetType) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetString:
		return "string"
	case TargetNumber:
		return "number"
	case TargetBoolean:
		return "boolean"
	case TargetSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// ArgumentMetadata describes what a raw argument value should become.
// The dispatch layer supplies it per call; pipes never mutate it.
type ArgumentMetadata struct {
	// Type selects the coercion or validation branch.
	Type TargetType
	// Kind is a free-form label such as "param", "query" or "body".
	// It only ever appears in error messages.
	Kind string
	// Name identifies the argument within its kind, for example the route
	// parameter or query key the value was read from.
	Name string
	// Schema is a prototype value (for example CreateUser{} or
	// &CreateUser{}) naming the struct a TargetSchema argument maps onto.
	Schema any
}

// Chain runs value through each pipe in order, feeding every output into
// the next pipe. The first classified failure stops the chain.
func Chain(ctx context.Context, value any, meta ArgumentMetadata, ps ...Pipe) (any, error) {
	var err error
	for _, p := range ps {
		value, err = p.Transform(ctx, value, meta)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}
