package param

import (
	"encoding"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	blobPtrType       = reflect.TypeOf((*Blob)(nil))
	valueType         = reflect.TypeOf((*Value)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// visit identifies a reference value. len separates slices that share a
// backing array.
type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

type converter struct {
	tag  string
	seen map[visit]Value
}

// Convert turns an arbitrary Go value into a parameter tree. Struct fields are
// named by tag (QueryTag or FormTag) with the json tag as fallback. Go map keys
// are sorted. A pointer, map or slice that reaches itself becomes a *Map or
// List cycle that the encoder detects.
func Convert(v any, tag string) Value {
	c := &converter{tag: tag, seen: make(map[visit]Value)}
	return c.convert(reflect.ValueOf(v))
}

func (c *converter) convert(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null{}
	}

	if rv.Type().Implements(valueType) {
		if rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return Null{}
			}
		}
		return rv.Interface().(Value)
	}

	switch rv.Type() {
	case timeType:
		return DateOf(rv.Interface().(time.Time))
	}

	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface && rv.Type().Implements(textMarshalerType) {
		return c.text(rv.Interface().(encoding.TextMarshaler))
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Number(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return c.convert(rv.Elem())
	case reflect.Pointer:
		return c.pointer(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return NewBlob("blob", "application/octet-stream", rv.Bytes())
		}
		if rv.Type().Elem() == blobPtrType {
			return Blobs(rv.Interface().([]*Blob))
		}
		if rv.Len() == 0 {
			return List{}
		}
		id := visit{ptr: rv.Pointer(), len: rv.Len(), typ: rv.Type()}
		if l, ok := c.seen[id]; ok {
			return l
		}
		out := make(List, rv.Len())
		c.seen[id] = out
		c.fillList(rv, out)
		return out
	case reflect.Array:
		out := make(List, rv.Len())
		c.fillList(rv, out)
		return out
	case reflect.Map:
		if rv.IsNil() {
			return Null{}
		}
		id := visit{ptr: rv.Pointer(), typ: rv.Type()}
		if m, ok := c.seen[id]; ok {
			return m
		}
		m := NewMap()
		c.seen[id] = m
		c.fillMap(rv, m)
		return m
	case reflect.Struct:
		m := NewMap()
		c.fillStruct(rv, m)
		return m
	}
	return Undefined{}
}

func (c *converter) text(tm encoding.TextMarshaler) Value {
	b, err := tm.MarshalText()
	if err != nil {
		return Undefined{}
	}
	return String(b)
}

func (c *converter) pointer(rv reflect.Value) Value {
	if rv.IsNil() {
		return Null{}
	}
	elem := rv.Elem()
	if elem.Type() == timeType {
		return c.convert(elem)
	}
	if rv.Type().Implements(textMarshalerType) {
		return c.text(rv.Interface().(encoding.TextMarshaler))
	}
	if elem.Kind() != reflect.Struct {
		return c.convert(elem)
	}
	id := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if m, ok := c.seen[id]; ok {
		return m
	}
	m := NewMap()
	c.seen[id] = m
	c.fillStruct(elem, m)
	return m
}

func (c *converter) fillList(rv reflect.Value, out List) {
	for i := range out {
		out[i] = c.convert(rv.Index(i))
	}
}

func (c *converter) fillMap(rv reflect.Value, m *Map) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := mapKey(iter.Key())
		if !ok {
			continue
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	for _, e := range entries {
		m.Set(e.key, c.convert(e.val))
	}
}

func mapKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	if k.Type().Implements(textMarshalerType) {
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err == nil
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), true
	}
	return "", false
}

func (c *converter) fillStruct(rv reflect.Value, m *Map) {
	typ := rv.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fv := rv.Field(i)

		if !field.IsExported() {
			continue
		}
		tag, tagged := parseStructTag(field, c.tag)
		if tag.skip {
			continue
		}
		if field.Anonymous && !tagged {
			if embedded, ok := derefStruct(fv); ok {
				c.fillStruct(embedded, m)
				continue
			}
		}
		if tag.omitempty && fv.IsZero() {
			continue
		}
		if tag.inline {
			if embedded, ok := derefStruct(fv); ok {
				c.fillStruct(embedded, m)
				continue
			}
		}

		name := tag.name
		if name == "" {
			name = field.Name
		}
		if format, ok := parseFormatStructTag(field); ok {
			if v, ok := formatTime(fv, format); ok {
				m.Set(name, v)
				continue
			}
		}
		m.Set(name, c.convert(fv))
	}
}

func derefStruct(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// formatTime applies a per-field `format` tag to time values: "date" keeps the
// calendar day, "unix" sends epoch milliseconds.
func formatTime(v reflect.Value, format string) (Value, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Null{}, true
		}
		v = v.Elem()
	}
	if v.Type() != timeType {
		return nil, false
	}
	t := v.Interface().(time.Time)
	if t.IsZero() {
		return InvalidDate(), true
	}
	switch format {
	case "date":
		return String(FormatDate(t, DateFormatDateOnly)), true
	case "unix":
		return Int(t.UnixMilli()), true
	}
	return DateOf(t), true
}
