// Package apiform turns request parameters into multipart/form-data bodies.
package apiform

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/param"
)

const defaultContentType = "application/octet-stream"

// Settings tweak Encode. The zero value matches the backend's form defaults:
// brackets, numeric booleans, ISO dates, nulls and empty arrays skipped,
// empty strings sent.
type Settings struct {
	ArrayFormat   param.ArrayFormat
	BooleanFormat param.BooleanFormat
	DateFormat    param.DateFormat
	KeepNull      bool
	SkipEmpty     bool
	// KeepEmptyArrays sends an empty list as a single empty value.
	KeepEmptyArrays bool
	Sink            param.Sink
}

func (s Settings) options() param.Options {
	return param.Options{
		ArrayFormat:     s.ArrayFormat,
		BooleanFormat:   s.BooleanFormat,
		DateFormat:      s.DateFormat,
		SkipNull:        !s.KeepNull,
		SkipEmpty:       s.SkipEmpty,
		SkipEmptyArrays: !s.KeepEmptyArrays,
		AllowBlobs:      true,
		Sink:            s.Sink,
	}
}

// Marshaler is implemented by parameter types that are sent as multipart
// bodies instead of JSON.
type Marshaler interface {
	MarshalMultipart(s Settings) ([]byte, string, error)
}

// Form is an ordered multimap of string fields and files. Duplicate keys keep
// the order they were appended in.
type Form struct {
	pairs []param.Pair
}

// Encode converts v with the form struct tag and flattens it.
func Encode(v any, settings ...Settings) *Form {
	var s Settings
	if len(settings) > 0 {
		s = settings[0]
	}
	f := &Form{}
	m, ok := param.Convert(v, param.FormTag).(*param.Map)
	if !ok || m.Len() == 0 {
		return f
	}
	f.pairs = param.Encode("", m, s.options())
	return f
}

func (f *Form) Len() int { return len(f.pairs) }

// Fields returns every entry in order.
func (f *Form) Fields() []param.Pair {
	out := make([]param.Pair, len(f.pairs))
	copy(out, f.pairs)
	return out
}

// Keys returns the distinct keys in first-seen order.
func (f *Form) Keys() []string {
	return lo.Uniq(lo.Map(f.pairs, func(p param.Pair, _ int) string { return p.Key }))
}

func (f *Form) Has(key string) bool {
	return lo.ContainsBy(f.pairs, func(p param.Pair) bool { return p.Key == key })
}

// Get returns the first string value stored under key.
func (f *Form) Get(key string) string {
	p, ok := lo.Find(f.pairs, func(p param.Pair) bool { return p.Key == key && !p.IsFile() })
	if !ok {
		return ""
	}
	return p.Value
}

func (f *Form) Values(key string) []string {
	return lo.FilterMap(f.pairs, func(p param.Pair, _ int) (string, bool) {
		return p.Value, p.Key == key && !p.IsFile()
	})
}

func (f *Form) Files(key string) []*param.Blob {
	return lo.FilterMap(f.pairs, func(p param.Pair, _ int) (*param.Blob, bool) {
		return p.Blob, p.Key == key && p.IsFile()
	})
}

// Add appends a string field.
func (f *Form) Add(key, value string) {
	f.pairs = append(f.pairs, param.Pair{Key: key, Value: value})
}

// AddFile appends a file field.
func (f *Form) AddFile(key string, b *param.Blob) {
	f.pairs = append(f.pairs, param.Pair{Key: key, Blob: b})
}

// Write streams every entry into w. It does not close w.
func (f *Form) Write(w *multipart.Writer) error {
	for _, p := range f.pairs {
		if !p.IsFile() {
			if err := w.WriteField(p.Key, p.Value); err != nil {
				return errors.Wrapf(err, "write field %q", p.Key)
			}
			continue
		}
		part, err := w.CreatePart(fileHeader(p.Key, p.Blob))
		if err != nil {
			return errors.Wrapf(err, "create file part %q", p.Key)
		}
		if _, err := io.Copy(part, p.Blob.Reader()); err != nil {
			return errors.Wrapf(err, "write file part %q", p.Key)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(key string, b *param.Blob) textproto.MIMEHeader {
	name := b.Name
	if name == "" {
		name = "blob"
	}
	contentType := b.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(key), quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	return h
}

// Multipart renders the form into a complete body. The returned content type
// carries the boundary and must be sent as is.
func (f *Form) Multipart() ([]byte, string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := f.Write(w); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return body.Bytes(), w.FormDataContentType(), nil
}

// MarshalMultipart encodes v and renders it into a multipart body.
func MarshalMultipart(v any, settings ...Settings) ([]byte, string, error) {
	return Encode(v, settings...).Multipart()
}

// OpenFile reads a file from disk into a blob. The content type is guessed
// from the extension.
func OpenFile(path string) (*param.Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return param.NewBlob(filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), data), nil
}
