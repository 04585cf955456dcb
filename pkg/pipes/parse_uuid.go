package pipes

import (
	"context"

	"github.com/google/uuid"
)

// UUIDOptions configures ParseUUIDPipe.
type UUIDOptions struct {
	version intOption
}

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(def int) int {
	if !o.set {
		return def
	}
	return o.value
}

// NewUUIDOptions returns a default, valid options value.
func NewUUIDOptions() UUIDOptions {
	return UUIDOptions{}
}

// WithVersion pins the accepted UUID version (for example 4). Zero accepts
// any version and is the default.
func (o UUIDOptions) WithVersion(version int) UUIDOptions {
	o.version = intOption{value: version, set: true}
	return o
}

// ParseUUIDPipe converts the argument to a canonical UUID string,
// optionally pinned to a single UUID version.
type ParseUUIDPipe struct {
	version int
}

// NewParseUUIDPipe builds a UUID parse pipe.
func NewParseUUIDPipe(opts UUIDOptions) *ParseUUIDPipe {
	return &ParseUUIDPipe{version: opts.version.resolved(0)}
}

// Transform resolves value, parses it as a UUID and returns the canonical
// lower-case form.
func (p *ParseUUIDPipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, NewConversionError("cannot convert %T to a UUID", v)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, NewConversionError("'%s' is not a valid UUID", s)
	}
	if p.version != 0 && int(u.Version()) != p.version {
		return nil, NewConversionError("'%s' is not a valid version %d UUID", s, p.version)
	}
	return u.String(), nil
}
