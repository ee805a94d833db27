// Package param holds the value tree shared by the query serializer and the
// multipart form encoder, together with the traversal that flattens it into
// wire key/value pairs.
package param

import (
	"bytes"
	"io"
	"time"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindString
	KindInt
	KindNumber
	KindBool
	KindDate
	KindBlob
	KindBlobs
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindBlob:
		return "blob"
	case KindBlobs:
		return "blobs"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of a parameter tree. The set of implementations is closed:
// Null, Undefined, String, Int, Number, Bool, Date, *Blob, Blobs, List and *Map.
type Value interface {
	Kind() Kind
	isValue()
}

type Null struct{}

type Undefined struct{}

type String string

type Int int64

type Number float64

type Bool bool

// List is an ordered sequence of values.
type List []Value

// Blobs is a file list: every blob is sent under its own array-item key.
type Blobs []*Blob

// Date is an instant that may be invalid, the way a browser Date can be.
type Date struct {
	t     time.Time
	valid bool
}

// DateOf wraps t. The zero time.Time is treated as an invalid date.
func DateOf(t time.Time) Date {
	return Date{t: t, valid: !t.IsZero()}
}

func InvalidDate() Date {
	return Date{}
}

// ParseDate parses s with layout and yields an invalid date when parsing fails.
func ParseDate(layout, s string) Date {
	t, err := time.Parse(layout, s)
	if err != nil {
		return InvalidDate()
	}
	return DateOf(t)
}

func (d Date) Valid() bool     { return d.valid }
func (d Date) Time() time.Time { return d.t }

// Blob is an opaque binary payload. It is never stringified.
type Blob struct {
	Name        string
	ContentType string
	Size        int64
	// Content is read once when the blob is written. Blobs built with NewBlob
	// can be read any number of times through Reader.
	Content io.Reader

	data []byte
}

func NewBlob(name, contentType string, data []byte) *Blob {
	return &Blob{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// Reader returns the blob content.
func (b *Blob) Reader() io.Reader {
	if b.data != nil {
		return bytes.NewReader(b.data)
	}
	if b.Content == nil {
		return bytes.NewReader(nil)
	}
	return b.Content
}

func (Null) Kind() Kind      { return KindNull }
func (Undefined) Kind() Kind { return KindUndefined }
func (String) Kind() Kind    { return KindString }
func (Int) Kind() Kind       { return KindInt }
func (Number) Kind() Kind    { return KindNumber }
func (Bool) Kind() Kind      { return KindBool }
func (Date) Kind() Kind      { return KindDate }
func (*Blob) Kind() Kind     { return KindBlob }
func (Blobs) Kind() Kind     { return KindBlobs }
func (List) Kind() Kind      { return KindList }
func (*Map) Kind() Kind      { return KindMap }

func (Null) isValue()      {}
func (Undefined) isValue() {}
func (String) isValue()    {}
func (Int) isValue()       {}
func (Number) isValue()    {}
func (Bool) isValue()      {}
func (Date) isValue()      {}
func (*Blob) isValue()     {}
func (Blobs) isValue()     {}
func (List) isValue()      {}
func (*Map) isValue()      {}
