package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/stoewer/go-strcase"
)

// Field names used by the polymorphic type envelope.
const (
	typeField  = "$type"
	valueField = "$value"
)

var (
	// ErrEncode indicates a value could not be serialized.
	ErrEncode = errors.New("failed to encode value")

	// ErrDecode indicates a stored string could not be deserialized.
	ErrDecode = errors.New("failed to decode value")

	// ErrEmptyInput is returned when decoding an empty string.
	ErrEmptyInput = errors.New("input is empty")

	// ErrUnknownType is returned when a type envelope names an unregistered type.
	ErrUnknownType = errors.New("type is not registered")
)

// NamingPolicy controls the casing applied to struct member names in the
// encoded form. Map keys carry data and are never renamed, so any value the
// codec accepts round-trips exactly.
type NamingPolicy string

const (
	// NamingAsIs leaves member names exactly as encoding/json produces them.
	NamingAsIs NamingPolicy = ""

	// NamingCamelCase rewrites member names to lowerCamelCase.
	NamingCamelCase NamingPolicy = "camel"

	// NamingSnakeCase rewrites member names to snake_case.
	NamingSnakeCase NamingPolicy = "snake"

	// NamingKebabCase rewrites member names to kebab-case.
	NamingKebabCase NamingPolicy = "kebab"
)

// NullHandling controls whether null-valued object members appear in the
// encoded form.
type NullHandling string

const (
	// NullInclude keeps null members in the encoding.
	NullInclude NullHandling = ""

	// NullOmit drops null struct members from the encoding. Map entries are
	// data and are always kept, so round-trips stay lossless.
	NullOmit NullHandling = "omit"
)

// Settings parameterizes a Codec instance. The zero value encodes with
// encoding/json defaults, keeps nulls, and leaves type resolution disabled.
type Settings struct {
	// Naming selects the member-name casing used in the encoded form.
	Naming NamingPolicy

	// Nulls selects whether null members are kept or omitted.
	Nulls NullHandling

	// TypeResolution enables the $type envelope for registered types. It is
	// disabled by default: resolving type names embedded in stored text means
	// trusting attacker-controllable metadata, so callers must opt in.
	TypeResolution bool
}

// Codec converts typed values to and from the store's string representation.
// Encoding is deterministic for a fixed Settings value: object members are
// emitted in sorted order.
type Codec struct {
	settings Settings
	types    map[string]reflect.Type
	names    map[reflect.Type]string
}

// New creates a Codec with the provided settings.
func New(settings Settings) *Codec {
	return &Codec{
		settings: settings,
		types:    make(map[string]reflect.Type),
		names:    make(map[reflect.Type]string),
	}
}

// Settings returns the settings the codec was built with.
func (c *Codec) Settings() Settings { return c.settings }

// RegisterType associates a name with the concrete type of v for use in
// polymorphic type envelopes. Registration has no effect unless
// Settings.TypeResolution is enabled.
func (c *Codec) RegisterType(name string, v any) {
	t := reflect.TypeOf(v)
	if t == nil {
		return
	}
	c.types[name] = t
	c.names[t] = name
}

// Encode serializes v into the store's string representation.
func (c *Codec) Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if !c.needsRewrite() && !c.settings.TypeResolution {
		return string(b), nil
	}

	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if c.needsRewrite() {
		tree = c.rewrite(reflect.ValueOf(v), tree)
	}

	if c.settings.TypeResolution {
		if name, ok := c.names[reflect.TypeOf(v)]; ok {
			tree = map[string]any{typeField: name, valueField: tree}
		}
	}

	out, err := json.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return string(out), nil
}

// Decode deserializes the stored string into target, which must be a non-nil
// pointer. An empty or malformed input is an error, never a silent default.
func (c *Codec) Decode(s string, target any) error {
	if s == "" {
		return fmt.Errorf("%w: %w", ErrDecode, ErrEmptyInput)
	}

	b := []byte(s)
	if c.settings.TypeResolution {
		if done, err := c.resolve(b, target); done || err != nil {
			return err
		}
	}

	if c.needsRewrite() {
		var tree any
		if err := json.Unmarshal(b, &tree); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		restored, err := json.Marshal(c.restore(reflect.TypeOf(target), tree))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		b = restored
	}

	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// DecodeAny deserializes the stored string without a target schema. Objects
// come back as map[string]any and numbers as float64, per encoding/json.
func (c *Codec) DecodeAny(s string) (any, error) {
	var v any
	if err := c.Decode(s, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// resolve applies the $type envelope when target is a pointer to an
// interface. Returns done=true when the envelope fully handled the decode.
func (c *Codec) resolve(b []byte, target any) (bool, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Interface {
		return false, nil
	}

	var envelope struct {
		Type  string          `json:"$type"`
		Value json.RawMessage `json:"$value"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil || envelope.Type == "" {
		return false, nil
	}

	t, ok := c.types[envelope.Type]
	if !ok {
		return true, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}

	if c.needsRewrite() {
		var tree any
		if err := json.Unmarshal(envelope.Value, &tree); err != nil {
			return true, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		restored, err := json.Marshal(c.restore(t, tree))
		if err != nil {
			return true, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		envelope.Value = restored
	}

	out := reflect.New(t)
	if err := json.Unmarshal(envelope.Value, out.Interface()); err != nil {
		return true, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	rv.Elem().Set(out.Elem())
	return true, nil
}

// needsRewrite reports whether the settings require walking the value tree.
func (c *Codec) needsRewrite() bool {
	return c.settings.Naming != NamingAsIs || c.settings.Nulls == NullOmit
}

// rewrite applies the naming policy and null handling to a decoded tree.
// Walking is guided by the Go value the tree was marshalled from: only
// struct-derived member names are renamed or omitted. Map keys are data and
// pass through untouched.
func (c *Codec) rewrite(rv reflect.Value, node any) any {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return node
		}
		rv = rv.Elem()
	}

	switch tn := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(tn))
		if rv.IsValid() && rv.Kind() == reflect.Struct {
			fields := make(map[string]reflect.Value)
			structValues(rv, fields)
			for k, member := range tn {
				fv, isField := fields[k]
				if !isField {
					out[k] = c.rewrite(reflect.Value{}, member)
					continue
				}
				if c.settings.Nulls == NullOmit && member == nil {
					continue
				}
				out[c.encodeName(k)] = c.rewrite(fv, member)
			}
			return out
		}
		for k, member := range tn {
			out[k] = c.rewrite(mapEntry(rv, k), member)
		}
		return out
	case []any:
		out := make([]any, len(tn))
		for i, member := range tn {
			var ev reflect.Value
			if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && i < rv.Len() {
				ev = rv.Index(i)
			}
			out[i] = c.rewrite(ev, member)
		}
		return out
	default:
		return node
	}
}

// restore maps wire member names back to the names encoding/json expects,
// guided by the target type. At struct positions each wire name is mapped to
// the exact field name it was encoded from; map keys pass through untouched.
func (c *Codec) restore(t reflect.Type, node any) any {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Interface {
		t = nil
	}

	switch tn := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(tn))
		if t != nil && t.Kind() == reflect.Struct {
			fields := make(map[string]wireField)
			c.structWireNames(t, fields)
			for k, member := range tn {
				f, isField := fields[k]
				if !isField {
					out[k] = c.restore(nil, member)
					continue
				}
				out[f.name] = c.restore(f.typ, member)
			}
			return out
		}
		var et reflect.Type
		if t != nil && t.Kind() == reflect.Map {
			et = t.Elem()
		}
		for k, member := range tn {
			out[k] = c.restore(et, member)
		}
		return out
	case []any:
		var et reflect.Type
		if t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			et = t.Elem()
		}
		out := make([]any, len(tn))
		for i, member := range tn {
			out[i] = c.restore(et, member)
		}
		return out
	default:
		return node
	}
}

// wireField pairs a struct member's encoding/json name with its Go type.
type wireField struct {
	name string
	typ  reflect.Type
}

// structWireNames collects the members of t keyed by their on-wire name
// under the codec's naming policy, flattening anonymous embedded structs the
// way encoding/json does.
func (c *Codec) structWireNames(t reflect.Type, out map[string]wireField) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Tag.Get("json") == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				c.structWireNames(ft, out)
				continue
			}
		}
		name := jsonFieldName(f)
		if name == "" {
			continue
		}
		out[c.encodeName(name)] = wireField{name: name, typ: f.Type}
	}
}

// structValues collects the members of rv keyed by their encoding/json name,
// flattening anonymous embedded structs.
func structValues(rv reflect.Value, out map[string]reflect.Value) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Tag.Get("json") == "" {
			fv := rv.Field(i)
			for fv.Kind() == reflect.Pointer && !fv.IsNil() {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				structValues(fv, out)
				continue
			}
		}
		name := jsonFieldName(f)
		if name == "" {
			continue
		}
		out[name] = rv.Field(i)
	}
}

// jsonFieldName returns the name encoding/json uses for f, or "" when the
// member is skipped.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name
}

// mapEntry looks up key in a string-keyed map value, returning the zero
// Value when rv is not such a map.
func mapEntry(rv reflect.Value, key string) reflect.Value {
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return reflect.Value{}
	}
	return rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
}

func (c *Codec) encodeName(name string) string {
	switch c.settings.Naming {
	case NamingCamelCase:
		return strcase.LowerCamelCase(name)
	case NamingSnakeCase:
		return strcase.SnakeCase(name)
	case NamingKebabCase:
		return strcase.KebabCase(name)
	default:
		return name
	}
}
