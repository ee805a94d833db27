package resources

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

const maxFileSize = 20 << 20

type Handler struct {
	resources domain.Repository[domain.Resource]
	logger    logging.Logger
}

func NewHandler(resources domain.Repository[domain.Resource], logger logging.Logger) *Handler {
	return &Handler{resources: resources, logger: logger}
}

// ListResourcesHandler reads nested filters such as filters[type]=pdf and
// filters[tags][]=algebra. sort is newest (default) or oldest.
func (h *Handler) ListResourcesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := q.Get("filters[type]")
	groupID := q.Get("filters[groupId]")
	tags := utils.Values(q, "filters[tags]")
	search := strings.ToLower(q.Get("search"))
	errs := apierror.ValidationErrors{}

	var since time.Time
	if s := q.Get("filters[since]"); s != "" {
		t, err := utils.ParseTime(s)
		if err != nil {
			errs["filters.since"] = []string{"since must be a valid date"}
		}
		since = t
	}

	page := utils.PageQuery(r)
	switch q.Get("sort") {
	case "", "newest":
	case "oldest":
		page.Oldest = true
	default:
		errs["sort"] = []string{"sort must be one of [newest oldest]"}
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	items, total, err := h.resources.List(r.Context(), page, func(res *domain.Resource) bool {
		switch {
		case kind != "" && res.Type != kind:
			return false
		case groupID != "" && res.GroupID != groupID:
			return false
		case len(tags) > 0 && !lo.Every(res.Tags, tags):
			return false
		case !since.IsZero() && res.CreatedAt.Before(since):
			return false
		case search != "" && !strings.Contains(strings.ToLower(res.Title), search):
			return false
		}
		return true
	})
	if err != nil {
		h.logger.Error(logging.Internal, logging.Api, "list resources failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}
	json.WritePage(w, items, page.Page, page.PerPage, total)
}

// UploadHandler stores one file under "file" with its title and tags.
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	form, err := utils.ParseMultipart(r)
	if err != nil {
		json.WriteBadRequestError(w, "Expected a multipart body.")
		return
	}

	req := uploadRequest{
		Title:   first(form.Value["title"]),
		Tags:    utils.Values(form.Value, "tags"),
		GroupID: first(form.Value["groupId"]),
	}
	errs := validate.Struct(req)
	if errs == nil {
		errs = apierror.ValidationErrors{}
	}
	public, err := utils.ParseBool(first(form.Value["public"]))
	if err != nil {
		errs["public"] = []string{"public must be true or false"}
	}
	files := utils.Files(form, "file")
	switch {
	case len(files) == 0:
		errs["file"] = []string{"file is a required field"}
	case len(files) > 1:
		errs["file"] = []string{"file must be a single file"}
	case files[0].Size > maxFileSize:
		errs["file"] = []string{"file may not be greater than 20 MiB"}
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	file := utils.Attachments(files)[0]
	resource := &domain.Resource{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Type:      resourceType(file),
		Tags:      lo.Uniq(req.Tags),
		GroupID:   req.GroupID,
		Public:    public,
		File:      file,
		CreatedAt: time.Now().UTC(),
	}
	if resource.Tags == nil {
		resource.Tags = []string{}
	}
	if err := h.resources.Create(r.Context(), resource); err != nil {
		h.logger.Error(logging.Internal, logging.Api, "store resource failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}
	json.WriteData(w, http.StatusCreated, resource)
}

// resourceType classifies a file by content type, falling back to its
// extension.
func resourceType(a domain.Attachment) string {
	contentType := a.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(a.Name))
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case mediaType == "application/pdf":
		return "pdf"
	case strings.HasPrefix(mediaType, "image/"):
		return "image"
	case strings.HasPrefix(mediaType, "video/"):
		return "video"
	case strings.HasPrefix(mediaType, "text/"):
		return "text"
	default:
		return "document"
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
