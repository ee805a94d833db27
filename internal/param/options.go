package param

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type ArrayFormat int

const (
	ArrayFormatBrackets ArrayFormat = iota
	ArrayFormatIndices
	ArrayFormatRepeat
)

func (f ArrayFormat) String() string {
	switch f {
	case ArrayFormatIndices:
		return "indices"
	case ArrayFormatRepeat:
		return "repeat"
	default:
		return "brackets"
	}
}

// ParseArrayFormat accepts brackets, indices, repeat and its alias flat.
func ParseArrayFormat(s string) (ArrayFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "brackets":
		return ArrayFormatBrackets, nil
	case "indices":
		return ArrayFormatIndices, nil
	case "repeat", "flat":
		return ArrayFormatRepeat, nil
	}
	return ArrayFormatBrackets, errors.Newf("unknown array format %q", s)
}

type BooleanFormat int

const (
	// BooleanFormatNumeric writes "1" and "0".
	BooleanFormatNumeric BooleanFormat = iota
	// BooleanFormatString writes "true" and "false".
	BooleanFormatString
)

func (f BooleanFormat) String() string {
	if f == BooleanFormatString {
		return "string"
	}
	return "numeric"
}

func ParseBooleanFormat(s string) (BooleanFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "numeric":
		return BooleanFormatNumeric, nil
	case "string":
		return BooleanFormatString, nil
	}
	return BooleanFormatNumeric, errors.Newf("unknown boolean format %q", s)
}

type DateFormat int

const (
	DateFormatISO DateFormat = iota
	DateFormatTimestamp
	DateFormatDateOnly
)

func (f DateFormat) String() string {
	switch f {
	case DateFormatTimestamp:
		return "timestamp"
	case DateFormatDateOnly:
		return "date"
	default:
		return "iso"
	}
}

func ParseDateFormat(s string) (DateFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "iso":
		return DateFormatISO, nil
	case "timestamp":
		return DateFormatTimestamp, nil
	case "date", "date-only", "dateonly":
		return DateFormatDateOnly, nil
	}
	return DateFormatISO, errors.Newf("unknown date format %q", s)
}

// Options drive a single Encode call. The zero value uses brackets, numeric
// booleans and ISO dates, and skips nothing.
type Options struct {
	ArrayFormat     ArrayFormat
	BooleanFormat   BooleanFormat
	DateFormat      DateFormat
	SkipNull        bool
	SkipEmpty       bool
	SkipEmptyArrays bool
	// AllowBlobs emits blobs as file pairs. When false blobs are dropped
	// with a warning.
	AllowBlobs bool
	Sink       Sink
}
