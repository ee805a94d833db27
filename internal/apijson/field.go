package apijson

import "github.com/tidwall/gjson"

type status uint8

const (
	missing status = iota
	null
	invalid
	valid
)

// Field is a raw JSON member looked up by path.
type Field struct {
	raw    string
	status status
	result gjson.Result
}

// Lookup reads path from body. Paths use gjson syntax.
func Lookup(body []byte, path string) Field {
	if !gjson.ValidBytes(body) {
		return Field{raw: string(body), status: invalid}
	}
	r := gjson.GetBytes(body, path)
	switch {
	case !r.Exists():
		return Field{}
	case r.Type == gjson.Null:
		return Field{raw: r.Raw, status: null, result: r}
	}
	return Field{raw: r.Raw, status: valid, result: r}
}

// IsNull is true for an explicit null and for a missing member.
func (f Field) IsNull() bool {
	return f.status <= null
}

func (f Field) IsMissing() bool {
	return f.status == missing
}

func (f Field) IsInvalid() bool {
	return f.status == invalid
}

func (f Field) Raw() string {
	return f.raw
}

// String returns the member as text. Non-string scalars are rendered as JSON.
func (f Field) String() string {
	if f.status != valid {
		return ""
	}
	return f.result.String()
}
