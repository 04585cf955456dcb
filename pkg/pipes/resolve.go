package pipes

import "context"

// Awaitable is a request argument whose value is not yet available. The
// dispatch layer hands pipes such deferred values when the argument is
// produced asynchronously (for example a body that is still being read).
//
// Await must respect ctx and may be called at most once per transform.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// AwaitFunc adapts a plain function to the Awaitable interface.
type AwaitFunc func(ctx context.Context) (any, error)

// Await calls f.
func (f AwaitFunc) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

// Resolve settles a possibly deferred argument value. This is the only
// suspension point of a transform: once Resolve returns, the rest of the
// pipeline runs without blocking.
//
// A failed settlement (including an upstream timeout) always surfaces as
// KindInvalidInput; the rejection reason is kept as the cause but never
// shown to the client.
func Resolve(ctx context.Context, value any) (any, error) {
	aw, ok := value.(Awaitable)
	if !ok {
		return value, nil
	}
	resolved, err := aw.Await(ctx)
	if err != nil {
		return nil, NewInvalidInputError(err)
	}
	return resolved, nil
}
