package param

import (
	"reflect"
	"strings"
)

const (
	QueryTag = "query"
	FormTag  = "form"

	jsonStructTag   = "json"
	formatStructTag = "format"
)

type parsedStructTag struct {
	name      string
	omitempty bool
	inline    bool
	skip      bool
}

// parseStructTag reads the named tag and falls back to the json tag. The
// reported bool is false when neither tag is present.
func parseStructTag(field reflect.StructField, tagName string) (parsedStructTag, bool) {
	tag := parsedStructTag{}

	raw, ok := field.Tag.Lookup(tagName)
	if !ok {
		raw, ok = field.Tag.Lookup(jsonStructTag)
	}
	if !ok {
		return tag, false
	}
	if raw == "-" {
		tag.skip = true
		return tag, true
	}

	parts := strings.Split(raw, ",")
	tag.name = parts[0]
	for _, part := range parts[1:] {
		switch part {
		case "omitempty":
			tag.omitempty = true
		case "inline":
			tag.inline = true
		}
	}
	return tag, true
}

func parseFormatStructTag(field reflect.StructField) (string, bool) {
	format, ok := field.Tag.Lookup(formatStructTag)
	return format, ok
}
