package param

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Pair is one emitted wire entry. Blob is set for file entries, in which case
// Value is empty.
type Pair struct {
	Key   string
	Value string
	Blob  *Blob
}

// IsFile reports whether the pair carries a blob.
func (p Pair) IsFile() bool { return p.Blob != nil }

const isoLayout = "2006-01-02T15:04:05.000Z"

// listID identifies a list by its backing array window. Two slices of the same
// array with different lengths are different lists.
type listID struct {
	first *Value
	n     int
}

type encoder struct {
	opts  Options
	seen  map[*Map]struct{}
	path  map[listID]struct{}
	pairs []Pair
}

// Encode flattens v into pairs. With an empty key a map contributes its own
// keys at the top level. The map seen set lives for the whole call, so a map
// reached twice is emitted once, even when the second reference is not a
// cycle. Lists are only tracked along the current path: a list is skipped when
// it contains itself, never because a sibling shares its backing array.
func Encode(key string, v Value, opts Options) []Pair {
	e := &encoder{opts: opts, seen: make(map[*Map]struct{}), path: make(map[listID]struct{})}
	e.walk(key, v)
	return e.pairs
}

// Walk runs Encode and hands every pair to fn.
func Walk(key string, v Value, opts Options, fn func(Pair)) {
	for _, p := range Encode(key, v, opts) {
		fn(p)
	}
}

func (e *encoder) emit(key, value string) {
	e.pairs = append(e.pairs, Pair{Key: key, Value: value})
}

func (e *encoder) warn(kind WarningKind, key, detail string) {
	if e.opts.Sink == nil {
		return
	}
	e.opts.Sink.Warn(Warning{Kind: kind, Key: key, Detail: detail})
}

func (e *encoder) null(key string) {
	if !e.opts.SkipNull {
		e.emit(key, "")
	}
}

func (e *encoder) walk(key string, v Value) {
	switch v := v.(type) {
	case nil, Null, Undefined:
		e.null(key)
	case String:
		if v == "" && e.opts.SkipEmpty {
			return
		}
		e.emit(key, string(v))
	case Int:
		e.emit(key, strconv.FormatInt(int64(v), 10))
	case Number:
		s, ok := FormatNumber(float64(v))
		if !ok {
			e.warn(WarnInvalidNumber, key, fmt.Sprintf("non-finite number %v", float64(v)))
			return
		}
		e.emit(key, s)
	case Bool:
		e.emit(key, FormatBool(bool(v), e.opts.BooleanFormat))
	case Date:
		if !v.Valid() {
			e.warn(WarnInvalidDate, key, "invalid date")
			return
		}
		e.emit(key, FormatDate(v.Time(), e.opts.DateFormat))
	case *Blob:
		if v == nil {
			e.null(key)
			return
		}
		e.blob(key, v)
	case Blobs:
		if len(v) == 0 {
			e.emptyList(key)
			return
		}
		for i, b := range v {
			e.walk(KeyPath(key, "", true, e.opts.ArrayFormat, i), b)
		}
	case List:
		if len(v) == 0 {
			e.emptyList(key)
			return
		}
		id := listID{first: &v[0], n: len(v)}
		if _, ok := e.path[id]; ok {
			e.warn(WarnCycle, key, "list contains itself")
			return
		}
		e.path[id] = struct{}{}
		for i, item := range v {
			e.walk(KeyPath(key, "", true, e.opts.ArrayFormat, i), item)
		}
		delete(e.path, id)
	case *Map:
		if v == nil {
			e.null(key)
			return
		}
		if e.visited(v, key) {
			return
		}
		v.Range(func(k string, child Value) bool {
			e.walk(KeyPath(key, k, false, e.opts.ArrayFormat, 0), child)
			return true
		})
	default:
		e.warn(WarnUnsupported, key, fmt.Sprintf("unsupported value %T", v))
	}
}

// visited marks m as seen and reports whether it already was.
func (e *encoder) visited(id *Map, key string) bool {
	if _, ok := e.seen[id]; ok {
		e.warn(WarnCycle, key, "value already visited")
		return true
	}
	e.seen[id] = struct{}{}
	return false
}

func (e *encoder) emptyList(key string) {
	if e.opts.SkipEmptyArrays || e.opts.SkipEmpty {
		return
	}
	e.emit(key, "")
}

func (e *encoder) blob(key string, b *Blob) {
	if !e.opts.AllowBlobs {
		e.warn(WarnUnsupported, key, "binary value dropped")
		return
	}
	e.pairs = append(e.pairs, Pair{Key: key, Blob: b})
}

// FormatNumber renders f in its shortest decimal form. Non-finite values
// report false.
func FormatNumber(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func FormatBool(b bool, format BooleanFormat) string {
	if format == BooleanFormatString {
		return strconv.FormatBool(b)
	}
	if b {
		return "1"
	}
	return "0"
}

// FormatDate renders t in UTC. DateFormatDateOnly keeps the calendar part of
// the ISO form.
func FormatDate(t time.Time, format DateFormat) string {
	switch format {
	case DateFormatTimestamp:
		return strconv.FormatInt(t.UnixMilli(), 10)
	case DateFormatDateOnly:
		return t.UTC().Format(isoLayout)[:10]
	default:
		return t.UTC().Format(isoLayout)
	}
}
