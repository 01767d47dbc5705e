package entity

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// IDField is the field name every model must declare for its identity.
const IDField = "id"

// tagName is the struct tag consulted for declared field names.
const tagName = "db"

// Fields is a loose field-name to value mapping used to construct entities
// and to carry partial updates.
type Fields map[string]any

// Clone returns a shallow copy of the mapping. Clone of nil is an empty,
// usable mapping.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Codec binds one model type to its declared field set. It is the capability
// the storage layer calls for validated construction, field extraction and
// identity access; stores never reflect over models themselves.
type Codec[T any] interface {
	// ModelName returns the model's type name.
	ModelName() string

	// FieldNames returns the declared field names in declaration order.
	FieldNames() []string

	// Has reports whether the model declares the named field.
	Has(field string) bool

	// New constructs and validates a model value from a field mapping.
	// It returns a *ValidationError when the mapping is missing required
	// fields or carries ill-typed values.
	New(data Fields) (T, error)

	// Dump extracts the model's current field values as a mapping.
	Dump(v T) (Fields, error)

	// ID returns the model's identity value.
	ID(v T) int64
}

// StructCodec is the default Codec for plain struct models. Field names come
// from `db` tags, falling back to the snake_cased Go field name; fields
// tagged `db:"-"` are ignored. Validation uses go-playground/validator
// struct tags. The declared field set is computed once, when the codec is
// built, and held as data afterwards.
type StructCodec[T any] struct {
	name     string
	fields   []string
	fieldSet map[string]struct{}
	idIndex  []int
	validate *validator.Validate
}

// NewStructCodec builds a codec for T. It fails with a *ConfigError when T
// is not a struct or does not declare an integer `id` field; this surfaces
// misconfigured repository types before any instance is used.
func NewStructCodec[T any]() (*StructCodec[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, &ConfigError{Reason: fmt.Sprintf("model type %s is not a struct", t)}
	}

	c := &StructCodec[T]{
		name:     t.Name(),
		fieldSet: make(map[string]struct{}),
		validate: validator.New(),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		c.fields = append(c.fields, name)
		c.fieldSet[name] = struct{}{}
		if name == IDField {
			switch f.Type.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				c.idIndex = f.Index
			default:
				return nil, &ConfigError{Reason: fmt.Sprintf(
					"model %s field %s must be an integer, got %s", c.name, IDField, f.Type)}
			}
		}
	}

	if c.idIndex == nil {
		return nil, &ConfigError{Reason: fmt.Sprintf(
			"model %s declares no %q field; a repository cannot be defined without one", c.name, IDField)}
	}
	return c, nil
}

// ModelName returns the model's type name.
func (c *StructCodec[T]) ModelName() string { return c.name }

// FieldNames returns the declared field names in declaration order.
func (c *StructCodec[T]) FieldNames() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)
	return out
}

// Has reports whether the model declares the named field.
func (c *StructCodec[T]) Has(field string) bool {
	_, ok := c.fieldSet[field]
	return ok
}

// New constructs a model value from a field mapping and validates it.
func (c *StructCodec[T]) New(data Fields) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: tagName,
		Result:  &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			bytesToStringHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return out, fmt.Errorf("build decoder for %s: %w", c.name, err)
	}
	if err := dec.Decode(map[string]any(data)); err != nil {
		return out, &ValidationError{Model: c.name, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return out, &ValidationError{Model: c.name, Err: err}
	}
	return out, nil
}

// Dump extracts the model's current field values as a mapping.
func (c *StructCodec[T]) Dump(v T) (Fields, error) {
	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: tagName,
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("build encoder for %s: %w", c.name, err)
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("dump %s: %w", c.name, err)
	}
	return Fields(out), nil
}

// ID returns the model's identity value.
func (c *StructCodec[T]) ID(v T) int64 {
	return reflect.ValueOf(v).FieldByIndex(c.idIndex).Int()
}

// bytesToStringHook lets rows materialized from database/sql drivers, which
// may hand text columns back as []byte, decode into string fields.
func bytesToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == reflect.TypeOf([]byte(nil)) && to.Kind() == reflect.String {
		return string(data.([]byte)), nil
	}
	return data, nil
}

// fieldName resolves the declared name for a struct field: the `db` tag if
// present, otherwise the snake_cased Go name. A "-" tag excludes the field.
func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get(tagName)
	if tag == "-" {
		return ""
	}
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag
		}
	}
	return snakeCase(f.Name)
}

func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
