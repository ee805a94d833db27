package logging

import "sort"

func logParamsToZapParams(cat Category, sub SubCategory, keys map[ExtraKey]any) []any {
	params := make([]any, 0, 4+2*len(keys))
	params = append(params, "Category", string(cat), "SubCategory", string(sub))

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, string(k))
	}
	sort.Strings(sorted)
	for _, k := range sorted {
		params = append(params, k, keys[ExtraKey(k)])
	}

	return params
}

func logParamsToZeroParams(keys map[ExtraKey]any) map[string]any {
	params := make(map[string]any, len(keys))

	for k, v := range keys {
		params[string(k)] = v
	}

	return params
}
