package param

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Paging struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page,omitempty"`
}

type examFilter struct {
	Paging
	Status   string     `query:"status" json:"ignored"`
	Subject  string     `json:"subject,omitempty"`
	From     time.Time  `query:"from" format:"date"`
	Until    *time.Time `query:"until"`
	ID       uuid.UUID  `query:"id"`
	Tags     []string   `query:"tags"`
	Internal string     `query:"-"`
	secret   string
	Extra    *extra `query:"extra,inline"`
}

type extra struct {
	Sort string `query:"sort"`
}

type node struct {
	Name string `query:"name"`
	Next *node  `query:"next"`
}

func TestConvertStruct(t *testing.T) {
	until := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	f := examFilter{
		Paging: Paging{Page: 2},
		Status: "active",
		From:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Until:  &until,
		ID:     id,
		Tags:   []string{"math", "physics"},
		secret: "x",
		Extra:  &extra{Sort: "-date"},
	}

	v := Convert(f, QueryTag)
	m, ok := v.(*Map)
	require.True(t, ok)

	assert.Equal(t, []string{"page", "status", "from", "until", "id", "tags", "sort"}, m.Keys())

	status, _ := m.Get("status")
	assert.Equal(t, String("active"), status)

	from, _ := m.Get("from")
	assert.Equal(t, String("2024-01-01"), from)

	u, _ := m.Get("until")
	assert.Equal(t, DateOf(until), u)

	gotID, _ := m.Get("id")
	assert.Equal(t, String(id.String()), gotID)

	tags, _ := m.Get("tags")
	assert.Equal(t, List{String("math"), String("physics")}, tags)
}

func TestConvertFallsBackToJSONTag(t *testing.T) {
	v := Convert(examFilter{Subject: "bio"}, FormTag).(*Map)
	subject, ok := v.Get("subject")
	require.True(t, ok)
	assert.Equal(t, String("bio"), subject)

	// the form tag is absent on Status, so its json name applies
	_, ok = v.Get("ignored")
	assert.True(t, ok)
}

func TestConvertSortsMapKeys(t *testing.T) {
	v := Convert(map[string]any{"zeta": 1, "alpha": true, "mid": nil}, QueryTag).(*Map)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, v.Keys())

	mid, _ := v.Get("mid")
	assert.Equal(t, Null{}, mid)
}

func TestConvertScalars(t *testing.T) {
	assert.Equal(t, Int(3), Convert(uint8(3), QueryTag))
	assert.Equal(t, Number(2.5), Convert(float32(2.5), QueryTag))
	assert.Equal(t, Null{}, Convert(nil, QueryTag))
	assert.Equal(t, Null{}, Convert([]int(nil), QueryTag))
	assert.Equal(t, List{}, Convert([]int{}, QueryTag))
	assert.Equal(t, InvalidDate(), Convert(time.Time{}, QueryTag))
	assert.Equal(t, Undefined{}, Convert(func() {}, QueryTag))

	blob, ok := Convert([]byte("raw"), FormTag).(*Blob)
	require.True(t, ok)
	assert.Equal(t, int64(3), blob.Size)
}

func TestConvertKeepsValues(t *testing.T) {
	m := NewMap().Set("a", Int(1))
	assert.Same(t, m, Convert(m, QueryTag))

	wrapped := Convert(map[string]any{"inner": m}, QueryTag).(*Map)
	inner, _ := wrapped.Get("inner")
	assert.Same(t, m, inner)
}

func TestConvertPointerCycle(t *testing.T) {
	n := &node{Name: "head"}
	n.Next = n

	v := Convert(n, QueryTag).(*Map)
	next, _ := v.Get("next")
	assert.Same(t, v, next)

	rec := &Recorder{}
	pairs := Encode("", v, Options{Sink: rec})
	assert.Equal(t, []Pair{{Key: "name", Value: "head"}}, pairs)
	assert.Len(t, rec.Warnings(), 1)
}

func TestConvertMapCycle(t *testing.T) {
	m := map[string]any{"k": "v"}
	m["self"] = m

	v := Convert(m, QueryTag).(*Map)
	self, _ := v.Get("self")
	assert.Same(t, v, self)
}

func TestConvertSliceCycle(t *testing.T) {
	s := []any{"a", nil}
	s[1] = s

	v := Convert(s, QueryTag).(List)
	require.Len(t, v, 2)
	inner, ok := v[1].(List)
	require.True(t, ok)
	assert.Same(t, &v[0], &inner[0])

	rec := &Recorder{}
	pairs := Encode("tags", v, Options{Sink: rec})
	assert.Equal(t, []Pair{{Key: "tags[]", Value: "a"}}, pairs)
	require.Len(t, rec.Warnings(), 1)
	assert.Equal(t, WarnCycle, rec.Warnings()[0].Kind)
}

func TestConvertSubslicesStayDistinct(t *testing.T) {
	base := []string{"a", "b"}
	v := Convert(map[string]any{"all": base, "first": base[:1]}, QueryTag).(*Map)

	all, _ := v.Get("all")
	first, _ := v.Get("first")
	assert.Equal(t, List{String("a"), String("b")}, all)
	assert.Equal(t, List{String("a")}, first)
}
