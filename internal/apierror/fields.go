package apierror

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// FieldTypeServer tags errors that came back from the API.
const FieldTypeServer = "server"

type FieldError struct {
	Type    string
	Message string
}

type FieldMapping struct {
	Fields map[string]FieldError
	// Unmapped holds paths without any named segment, e.g. "0" or "items.1".
	Unmapped []string
}

// FieldName resolves a server error path to a form field. An exact override
// wins. Otherwise the path is split on dots and the last segment that is
// neither empty nor numeric is used, so groupSchedules.0.startTime becomes
// startTime. Brackets are not path separators.
func FieldName(path string, overrides map[string]string) (string, bool) {
	if name, ok := overrides[path]; ok && name != "" {
		return name, true
	}
	segments := strings.Split(path, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		if s := segments[i]; s != "" && !isNumeric(s) {
			return s, true
		}
	}
	return "", false
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MapFieldErrors keeps the first message of each path. Paths are visited in
// sorted order and the first one to claim a field name keeps it.
func MapFieldErrors(errs ValidationErrors, overrides map[string]string) FieldMapping {
	out := FieldMapping{Fields: make(map[string]FieldError, len(errs))}

	paths := lo.Keys(errs)
	sort.Strings(paths)
	for _, path := range paths {
		msgs := errs[path]
		if len(msgs) == 0 {
			continue
		}
		name, ok := FieldName(path, overrides)
		if !ok {
			out.Unmapped = append(out.Unmapped, path)
			continue
		}
		if _, taken := out.Fields[name]; taken {
			continue
		}
		out.Fields[name] = FieldError{Type: FieldTypeServer, Message: msgs[0]}
	}
	return out
}
