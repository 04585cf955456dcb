package pipes

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// DefaultValuePipe substitutes a configured default when the resolved
// argument is absent. Place it ahead of stricter pipes in a chain.
type DefaultValuePipe struct {
	value any
}

// NewDefaultValuePipe builds a pipe that yields value for nil input.
func NewDefaultValuePipe(value any) *DefaultValuePipe {
	return &DefaultValuePipe{value: value}
}

// Transform resolves value and replaces nil with the configured default.
func (p *DefaultValuePipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return p.value, nil
	}
	return v, nil
}

// ParseIntPipe converts the argument to an int64, rejecting fractional
// numbers and non-numeric strings.
type ParseIntPipe struct{}

// NewParseIntPipe builds a strict integer parse pipe.
func NewParseIntPipe() *ParseIntPipe {
	return &ParseIntPipe{}
}

// Transform resolves value and converts it to int64.
func (p *ParseIntPipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, NewConversionError("cannot convert '%d' to an integer", t)
		}
		return int64(t), nil
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, NewConversionError("cannot convert '%s' to an integer", t)
		}
		return n, nil
	default:
		return nil, NewConversionError("cannot convert %T to an integer", v)
	}
}

func floatToInt(f float64) (any, error) {
	if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, NewConversionError("cannot convert '%v' to an integer", f)
	}
	return int64(f), nil
}

// ParseFloatPipe converts the argument to a float64.
type ParseFloatPipe struct{}

// NewParseFloatPipe builds a float parse pipe.
func NewParseFloatPipe() *ParseFloatPipe {
	return &ParseFloatPipe{}
}

// Transform resolves value and converts it to float64.
func (p *ParseFloatPipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	n, err := coerceNumber(v)
	if err != nil {
		return nil, err
	}
	return numberToFloat(n), nil
}

// numberToFloat widens any numeric kind to float64. Callers must pass a
// value coerceNumber accepted.
func numberToFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	default:
		return 0
	}
}

// ParseBoolPipe converts the argument to a bool using the shared
// truthy/falsy token sets.
type ParseBoolPipe struct{}

// NewParseBoolPipe builds a boolean parse pipe.
func NewParseBoolPipe() *ParseBoolPipe {
	return &ParseBoolPipe{}
}

// Transform resolves value and converts it to bool.
func (p *ParseBoolPipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return coerceBool(v)
}

// ParseEnumPipe restricts the argument to a fixed set of string values.
type ParseEnumPipe struct {
	allowed []string
}

// NewParseEnumPipe builds an enum pipe accepting exactly the given values.
func NewParseEnumPipe(allowed ...string) *ParseEnumPipe {
	return &ParseEnumPipe{allowed: append([]string(nil), allowed...)}
}

// Transform resolves value and checks membership in the allowed set.
func (p *ParseEnumPipe) Transform(ctx context.Context, value any, _ ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s := coerceString(v)
	for _, a := range p.allowed {
		if s == a {
			return s, nil
		}
	}
	return nil, NewConversionError("'%s' is not one of the allowed values [%s]", s, strings.Join(p.allowed, ", "))
}
