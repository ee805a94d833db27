// Package json writes and reads the HTTP bodies of the local backend.
package json

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/apijson"
)

const maxBodyBytes = 1 << 20

type dataResponse struct {
	Data any `json:"data"`
}

type PageMeta struct {
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
	Total       int `json:"total"`
	LastPage    int `json:"lastPage"`
}

type pageResponse struct {
	Data any      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func Write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = apijson.NewEncoder(w).Encode(data)
}

// WriteData wraps data in the {"data": ...} envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	Write(w, status, dataResponse{Data: data})
}

func WritePage(w http.ResponseWriter, items any, page, perPage, total int) {
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	Write(w, http.StatusOK, pageResponse{
		Data: items,
		Meta: PageMeta{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last},
	})
}

// Read decodes a JSON body of at most 1 MiB.
func Read(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := apijson.NewDecoder(body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
