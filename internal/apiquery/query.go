// Package apiquery serializes request parameters into URL query strings.
package apiquery

import (
	"net/url"
	"strings"

	"github.com/graphicode-dev/classroom/internal/param"
)

// Queryer lets a type provide its own query values.
type Queryer interface {
	URLQuery() url.Values
}

// Settings tweak Marshal. The zero value is the default behaviour: brackets
// for arrays, percent-encoding on, null and empty-string values skipped.
type Settings struct {
	ArrayFormat param.ArrayFormat
	// NoEncode writes keys and values verbatim.
	NoEncode bool
	// KeepNull sends null values as key=.
	KeepNull bool
	// KeepEmpty sends empty strings and empty arrays as key=.
	KeepEmpty bool
	Sink      param.Sink
}

func pick(settings []Settings) Settings {
	if len(settings) == 0 {
		return Settings{}
	}
	return settings[0]
}

func (s Settings) options() param.Options {
	return param.Options{
		ArrayFormat:     s.ArrayFormat,
		BooleanFormat:   param.BooleanFormatString,
		DateFormat:      param.DateFormatISO,
		SkipNull:        !s.KeepNull,
		SkipEmpty:       !s.KeepEmpty,
		SkipEmptyArrays: !s.KeepEmpty,
		Sink:            s.Sink,
	}
}

// Pairs converts v with the query struct tag and flattens it. Anything other
// than a mapping at the top level yields no pairs.
func Pairs(v any, settings ...Settings) []param.Pair {
	s := pick(settings)
	m, ok := param.Convert(v, param.QueryTag).(*param.Map)
	if !ok || m.Len() == 0 {
		return nil
	}
	return param.Encode("", m, s.options())
}

// Marshal returns the query string for v without the leading '?'. A nil or
// empty mapping yields "".
func Marshal(v any, settings ...Settings) string {
	if q, ok := v.(Queryer); ok {
		return q.URLQuery().Encode()
	}

	s := pick(settings)
	pairs := Pairs(v, s)
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		if s.NoEncode {
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(p.Value)
			continue
		}
		b.WriteString(escape(p.Key, true))
		b.WriteByte('=')
		b.WriteString(escape(p.Value, false))
	}
	return b.String()
}

// Values returns the pairs of v as a multimap. Repeated keys keep their order.
func Values(v any, settings ...Settings) url.Values {
	if q, ok := v.(Queryer); ok {
		return q.URLQuery()
	}
	out := url.Values{}
	for _, p := range Pairs(v, settings...) {
		out.Add(p.Key, p.Value)
	}
	return out
}
