package pipes

import (
	"context"
	"strconv"
	"strings"
)

// ArrayOptions configures ParseArrayPipe.
type ArrayOptions struct {
	separator string
	itemType  TargetType
	itemPipe  Pipe
}

// NewArrayOptions returns a default, valid options value.
func NewArrayOptions() ArrayOptions {
	return ArrayOptions{}
}

// WithSeparator sets the token splitting string inputs. Defaults to ",".
func (o ArrayOptions) WithSeparator(sep string) ArrayOptions {
	o.separator = sep
	return o
}

// WithItemType coerces every element toward the given primitive target.
func (o ArrayOptions) WithItemType(t TargetType) ArrayOptions {
	o.itemType = t
	return o
}

// WithItemPipe runs a custom pipe on every element instead of the default
// primitive coercion.
func (o ArrayOptions) WithItemPipe(p Pipe) ArrayOptions {
	o.itemPipe = p
	return o
}

// ParseArrayPipe splits a delimited string argument (or accepts a sequence
// as-is) and transforms each element.
type ParseArrayPipe struct {
	separator string
	itemType  TargetType
	item      Pipe
}

// NewParseArrayPipe builds an array parse pipe.
func NewParseArrayPipe(opts ArrayOptions) *ParseArrayPipe {
	sep := opts.separator
	if sep == "" {
		sep = ","
	}
	item := opts.itemPipe
	if item == nil {
		item = NewParsePipe(NewParseOptions())
	}
	return &ParseArrayPipe{separator: sep, itemType: opts.itemType, item: item}
}

// Transform resolves value, splits string input on the separator and runs
// the item pipe on every element. The first failing element stops the pipe
// with its index prefixed to the message.
func (p *ParseArrayPipe) Transform(ctx context.Context, value any, meta ArgumentMetadata) (any, error) {
	v, err := Resolve(ctx, value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		items = make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
	case string:
		for _, s := range strings.Split(t, p.separator) {
			items = append(items, strings.TrimSpace(s))
		}
	default:
		return nil, NewConversionError("cannot convert %T to an array", v)
	}

	itemMeta := meta
	itemMeta.Type = p.itemType
	out := make([]any, 0, len(items))
	for i, item := range items {
		converted, err := p.item.Transform(ctx, item, itemMeta)
		if err != nil {
			if pe, ok := classified(err); ok {
				return nil, &Error{
					Kind:    pe.Kind,
					Message: "item at index " + strconv.Itoa(i) + ": " + pe.Message,
					cause:   pe,
				}
			}
			return nil, wrapConversion(meta.Kind, err)
		}
		out = append(out, converted)
	}
	return out, nil
}
