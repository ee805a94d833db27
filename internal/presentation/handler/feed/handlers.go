package feed

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

type Handler struct {
	posts  domain.Repository[domain.Post]
	hub    *ws.Hub
	logger logging.Logger
}

func NewHandler(posts domain.Repository[domain.Post], hub *ws.Hub, logger logging.Logger) *Handler {
	return &Handler{posts: posts, hub: hub, logger: logger}
}

// ListPostsHandler serves signed-in and anonymous readers alike. Tags match
// when a post carries any of them.
func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tags := utils.Values(q, "tags")
	authorID := q.Get("authorId")

	var pinned *bool
	if s := q.Get("pinned"); s != "" {
		b, err := utils.ParseBool(s)
		if err != nil {
			json.WriteValidationError(w, apierror.ValidationErrors{"pinned": {"pinned must be true or false"}})
			return
		}
		pinned = &b
	}

	page := utils.PageQuery(r)
	items, total, err := h.posts.List(r.Context(), page, func(p *domain.Post) bool {
		switch {
		case authorID != "" && p.Author.ID != authorID:
			return false
		case pinned != nil && p.Pinned != *pinned:
			return false
		case len(tags) > 0 && !lo.Some(p.Tags, tags):
			return false
		}
		return true
	})
	if err != nil {
		h.internalError(w, "list posts failed", err)
		return
	}
	json.WritePage(w, items, page.Page, page.PerPage, total)
}

// NewPostHandler stores the post and pushes it to every open stream. Images
// must be sent with an image/* content type.
func (h *Handler) NewPostHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())

	form, err := utils.ParseMultipart(r)
	if err != nil {
		json.WriteBadRequestError(w, "Expected a multipart body.")
		return
	}

	req := newPostRequest{
		Content: strings.TrimSpace(first(form.Value["content"])),
		Tags:    utils.Values(form.Value, "tags"),
	}
	errs := validate.Struct(req)
	if errs == nil {
		errs = apierror.ValidationErrors{}
	}
	images := utils.Files(form, "images")
	for i, img := range images {
		if !strings.HasPrefix(img.Header.Get("Content-Type"), "image/") {
			errs["images."+strconv.Itoa(i)] = []string{"images must be image files"}
		}
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	post := &domain.Post{
		ID:        uuid.NewString(),
		Author:    *user,
		Content:   req.Content,
		Tags:      lo.Uniq(req.Tags),
		Images:    utils.Attachments(images),
		CreatedAt: time.Now().UTC(),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if err := h.posts.Create(r.Context(), post); err != nil {
		h.internalError(w, "store post failed", err)
		return
	}

	h.hub.Broadcast(ws.NewPostCreated(post))
	json.WriteData(w, http.StatusCreated, post)
}

// DeletePostHandler lets authors remove their own posts.
func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())

	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			json.WriteNotFoundError(w, "Post not found.")
			return
		}
		h.internalError(w, "get post failed", err)
		return
	}
	if post.Author.ID != user.ID && !slices.Contains([]string{"instructor", "admin"}, user.Role) {
		json.WriteForbiddenError(w, "You can only delete your own posts.")
		return
	}
	if err := h.posts.Delete(r.Context(), post.ID); err != nil {
		h.internalError(w, "delete post failed", err)
		return
	}

	h.hub.Broadcast(ws.NewPostDeleted(post.ID))
	w.WriteHeader(http.StatusNoContent)
}

// StreamHandler upgrades to a websocket that receives feed events.
func (h *Handler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.hub.Upgrade(w, r)
	if err != nil {
		h.logger.Warn(logging.General, logging.Stream, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	var userID string
	if user, ok := utils.UserFrom(r.Context()); ok {
		userID = user.ID
	}
	h.hub.Serve(ws.NewClient(conn, uuid.NewString(), userID))
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(logging.Internal, logging.Api, msg, map[logging.ExtraKey]any{
		logging.ErrorMessage: err.Error(),
	})
	json.WriteInternalError(w)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
