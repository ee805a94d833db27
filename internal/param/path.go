package param

import "strconv"

// KeyPath builds the wire key of a nested value. A top-level key is returned
// verbatim. Array items follow format and ignore key; object members always
// use prefix[key].
func KeyPath(prefix, key string, isArrayItem bool, format ArrayFormat, index int) string {
	if prefix == "" {
		return key
	}
	if !isArrayItem {
		return prefix + "[" + key + "]"
	}
	switch format {
	case ArrayFormatIndices:
		return prefix + "[" + strconv.Itoa(index) + "]"
	case ArrayFormatRepeat:
		return prefix
	default:
		return prefix + "[]"
	}
}
