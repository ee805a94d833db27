package utils

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/domain"
)

var ErrInvalidValue = errors.New("invalid value")

// PageQuery reads page and perPage. Bad numbers fall back to the defaults.
func PageQuery(r *http.Request) domain.ListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	return domain.ListQuery{Page: page, PerPage: perPage}.Normalize()
}

// Values collects a list sent under key in any array style: key, key[] or
// key[N]. Indexed entries come back in index order.
func Values(v url.Values, key string) []string {
	type indexed struct {
		n     int
		value string
	}
	var out []string
	var byIndex []indexed
	for k, vals := range v {
		switch {
		case k == key || k == key+"[]":
			out = append(out, vals...)
		case strings.HasPrefix(k, key+"[") && strings.HasSuffix(k, "]"):
			n, err := strconv.Atoi(k[len(key)+1 : len(k)-1])
			if err != nil {
				continue
			}
			for _, val := range vals {
				byIndex = append(byIndex, indexed{n, val})
			}
		}
	}
	sort.SliceStable(byIndex, func(i, j int) bool { return byIndex[i].n < byIndex[j].n })
	out = append(out, lo.Map(byIndex, func(e indexed, _ int) string { return e.value })...)
	return lo.Filter(out, func(s string, _ int) bool { return s != "" })
}

// IndexedObjects reads entries such as answers[0][questionId] into one map per
// index, ordered by index.
func IndexedObjects(v url.Values, key string) []map[string]string {
	objects := make(map[int]map[string]string)
	prefix := key + "["
	for k, vals := range v {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || len(vals) == 0 {
			continue
		}
		idx, field, ok := strings.Cut(rest, "][")
		if !ok || !strings.HasSuffix(field, "]") {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			continue
		}
		if objects[n] == nil {
			objects[n] = make(map[string]string)
		}
		objects[n][strings.TrimSuffix(field, "]")] = vals[0]
	}

	indexes := lo.Keys(objects)
	sort.Ints(indexes)
	return lo.Map(indexes, func(n int, _ int) map[string]string { return objects[n] })
}

// ParseBool accepts 1, 0, true and false. Empty is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, errors.Wrapf(ErrInvalidValue, "boolean %q", s)
}

// ParseTime accepts RFC 3339, a calendar date or Unix milliseconds.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, errors.Wrapf(ErrInvalidValue, "date %q", s)
}
