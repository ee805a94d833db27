package param

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("param: invalid JSON")

// ParseJSON builds a tree from raw JSON, keeping object keys in document
// order. Integral numbers become Int, everything else numeric becomes Number.
func ParseJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return FromJSON(gjson.ParseBytes(data)), nil
}

// FromJSON converts an already parsed gjson result.
func FromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		if !r.Exists() {
			return Undefined{}
		}
		return Null{}
	case gjson.False, gjson.True:
		return Bool(r.Bool())
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return Int(n)
			}
		}
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := r.Array()
		out := make(List, len(items))
		for i, item := range items {
			out[i] = FromJSON(item)
		}
		return out
	}

	m := NewMap()
	r.ForEach(func(key, value gjson.Result) bool {
		m.Set(key.Str, FromJSON(value))
		return true
	})
	return m
}
