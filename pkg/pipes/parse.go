package pipes

import "context"

type boolOption struct {
	value bool
	set   bool
}

func (o boolOption) resolved(def bool) bool {
	if !o.set {
		return def
	}
	return o.value
}

// ParseOptions configures which primitive coercions ParsePipe performs.
// Every switch defaults to enabled; a disabled switch turns the matching
// target into a passthrough.
type ParseOptions struct {
	transformString  boolOption
	transformNumber  boolOption
	transformBoolean boolOption
}

// NewParseOptions returns a default, valid options value.
func NewParseOptions() ParseOptions {
	return ParseOptions{}
}

// WithTransformString controls coercion of values toward a string target.
func (o ParseOptions) WithTransformString(value bool) ParseOptions {
	o.transformString = boolOption{value: value, set: true}
	return o
}

// WithTransformNumber controls coercion of values toward a number target.
func (o ParseOptions) WithTransformNumber(value bool) ParseOptions {
	o.transformNumber = boolOption{value: value, set: true}
	return o
}

// WithTransformBoolean controls coercion of values toward a boolean target.
func (o ParseOptions) WithTransformBoolean(value bool) ParseOptions {
	o.transformBoolean = boolOption{value: value, set: true}
	return o
}

// ParsePipe coerces one scalar argument to its declared primitive target.
// The zero value is not usable; construct instances with NewParsePipe.
type ParsePipe struct {
	str bool
	num bool
	boo bool
}

// NewParsePipe builds a parse pipe with the given options merged against
// defaults. The returned pipe is immutable and safe for concurrent use.
func NewParsePipe(opts ParseOptions) *ParsePipe {
	return &ParsePipe{
		str: opts.transformString.resolved(true),
		num: opts.transformNumber.resolved(true),
		boo: opts.transformBoolean.resolved(true),
	}
}

// Transform resolves value and coerces it to meta.Type. Targets other than
// the three primitive kinds pass through unchanged, as do nil values and
// targets whose coercion switch is disabled.
func (p *ParsePipe) Transform(ctx context.Context, value any, meta ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	var out any
	switch meta.Type {
	case TargetString:
		if !p.str {
			return v, nil
		}
		out, err = coerceString(v), nil
	case TargetNumber:
		if !p.num {
			return v, nil
		}
		out, err = coerceNumber(v)
	case TargetBoolean:
		if !p.boo {
			return v, nil
		}
		out, err = coerceBool(v)
	default:
		return v, nil
	}
	if err != nil {
		return nil, wrapConversion(meta.Kind, err)
	}
	return out, nil
}
