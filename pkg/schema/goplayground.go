package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// GoPlaygroundEngine is the default Engine. It maps plain values onto
// structs with mapstructure (json tag names) and evaluates `validate` tags
// with go-playground/validator.
//
// Group-scoped rules are not supported by the underlying validator and the
// Groups option is ignored; SkipMissingProperties is approximated by
// suppressing `required` failures.
type GoPlaygroundEngine struct {
	validate *validator.Validate
}

// NewGoPlaygroundEngine builds the default engine. Field names in
// violations follow json tags when present.
func NewGoPlaygroundEngine() *GoPlaygroundEngine {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return &GoPlaygroundEngine{validate: v}
}

// Construct maps value onto a new instance of the struct named by the
// schema prototype. Values already of the schema type pass through.
func (e *GoPlaygroundEngine) Construct(schema, value any, opts TransformOptions) (any, []string, error) {
	typ, err := schemaStructType(schema)
	if err != nil {
		return nil, nil, err
	}

	if rv := reflect.ValueOf(value); rv.IsValid() {
		if rv.Type() == reflect.PointerTo(typ) {
			return value, nil, nil
		}
		if rv.Type() == typ {
			inst := reflect.New(typ)
			inst.Elem().Set(rv)
			return inst.Interface(), nil, nil
		}
	}

	instance := reflect.New(typ).Interface()
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           instance,
		TagName:          "json",
		WeaklyTypedInput: opts.ImplicitConversion,
		Metadata:         &md,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := dec.Decode(value); err != nil {
		return nil, nil, fmt.Errorf("map value onto %s: %w", typ.Name(), err)
	}
	if opts.ExposeDefaults {
		applyDefaults(reflect.ValueOf(instance).Elem())
	}
	unknown := append([]string(nil), md.Unused...)
	sort.Strings(unknown)
	return instance, unknown, nil
}

// Validate evaluates `validate` tags on instance and converts the field
// errors into a violation tree ordered by declaration/traversal order.
func (e *GoPlaygroundEngine) Validate(instance any, opts ValidateOptions) ([]Violation, error) {
	err := e.validate.Struct(instance)
	if err == nil {
		return nil, nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	var violations []Violation
	for _, fe := range fieldErrs {
		if opts.SkipMissingProperties && fe.Tag() == "required" {
			continue
		}
		segments := violationPath(fe.Namespace())
		if len(segments) == 0 {
			continue
		}
		violations = insertViolation(violations, segments, fe.Tag(), constraintMessage(fe))
		if opts.StopAtFirstError && len(violations) > 0 {
			break
		}
	}
	return violations, nil
}

func schemaStructType(schema any) (reflect.Type, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema prototype is nil")
	}
	typ := reflect.TypeOf(schema)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema prototype %T is not a struct", schema)
	}
	return typ, nil
}

// violationPath strips the root struct name from a validator namespace and
// splits the remainder into per-field segments.
func violationPath(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// insertViolation places one constraint failure into the tree, creating
// intermediate nodes as needed. Nodes keep their insertion order so the
// flattened message follows traversal order.
func insertViolation(list []Violation, segments []string, tag, message string) []Violation {
	head := segments[0]
	idx := -1
	for i := range list {
		if list[i].Property == head {
			idx = i
			break
		}
	}
	if idx < 0 {
		list = append(list, Violation{Property: head})
		idx = len(list) - 1
	}
	if len(segments) == 1 {
		if list[idx].Constraints == nil {
			list[idx].Constraints = make(map[string]string)
		}
		list[idx].Constraints[tag] = message
		return list
	}
	list[idx].Children = insertViolation(list[idx].Children, segments[1:], tag, message)
	return list
}

// constraintMessage renders a FieldError the way clients see it. Common
// tags get tailored wording; everything else falls back to a generic form.
func constraintMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s does not satisfy the '%s=%s' constraint", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s does not satisfy the '%s' constraint", field, fe.Tag())
	}
}

// applyDefaults fills zero scalar fields from `default` tags, recursing
// into nested structs.
func applyDefaults(v reflect.Value) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct || field.Kind() == reflect.Pointer {
			applyDefaults(field)
			continue
		}
		def := typ.Field(i).Tag.Get("default")
		if def == "" || !field.IsZero() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(def)
		case reflect.Bool:
			if b, err := strconv.ParseBool(def); err == nil {
				field.SetBool(b)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n, err := strconv.ParseInt(def, 10, 64); err == nil {
				field.SetInt(n)
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n, err := strconv.ParseUint(def, 10, 64); err == nil {
				field.SetUint(n)
			}
		case reflect.Float32, reflect.Float64:
			if f, err := strconv.ParseFloat(def, 64); err == nil {
				field.SetFloat(f)
			}
		}
	}
}
