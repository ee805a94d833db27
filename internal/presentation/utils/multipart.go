package utils

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/domain"
)

const maxMemory = 32 << 20

// ParseMultipart parses a multipart body, keeping up to 32 MiB in memory.
func ParseMultipart(r *http.Request) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, errors.Wrap(err, "parse multipart body")
	}
	return r.MultipartForm, nil
}

// Files collects the files sent under key, key[] or key[N].
func Files(form *multipart.Form, key string) []*multipart.FileHeader {
	var plain []*multipart.FileHeader
	indexed := make(map[int][]*multipart.FileHeader)
	for k, headers := range form.File {
		switch {
		case k == key || k == key+"[]":
			plain = append(plain, headers...)
		case strings.HasPrefix(k, key+"[") && strings.HasSuffix(k, "]"):
			if n, err := strconv.Atoi(k[len(key)+1 : len(k)-1]); err == nil {
				indexed[n] = append(indexed[n], headers...)
			}
		}
	}
	indexes := lo.Keys(indexed)
	sort.Ints(indexes)
	for _, n := range indexes {
		plain = append(plain, indexed[n]...)
	}
	return plain
}

// Attachments describes uploaded files. The files themselves are not kept.
func Attachments(files []*multipart.FileHeader) []domain.Attachment {
	return lo.Map(files, func(fh *multipart.FileHeader, _ int) domain.Attachment {
		id := uuid.NewString()
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return domain.Attachment{
			ID:          id,
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			URL:         fmt.Sprintf("/files/%s/%s", id, fh.Filename),
		}
	})
}
