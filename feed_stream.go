package classroom

import (
	"context"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/apijson"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

const (
	PostCreated = "post.created"
	PostDeleted = "post.deleted"
	StreamError = "error"
)

var ErrStreamClosed = errors.New("feed stream is closed")

// FeedEvent is one message of the live feed.
type FeedEvent struct {
	Type    string `json:"type"`
	Post    *Post  `json:"post,omitempty"`
	PostID  string `json:"postId,omitempty"`
	Message string `json:"message,omitempty"`
}

// FeedStream is a live connection to the community feed.
type FeedStream struct {
	conn   *websocket.Conn
	logger logging.Logger

	mu           sync.RWMutex
	closed       bool
	eventHandler func(FeedEvent)
}

func (s *FeedStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

func (s *FeedStream) SetEventHandler(handler func(FeedEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

// Listen delivers events to the handler until ctx ends or the server closes
// the stream. The stream is closed when Listen returns.
func (s *FeedStream) Listen(ctx context.Context) error {
	defer s.Close()
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			s.logger.Warn(logging.Client, logging.Stream, "feed stream read failed", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return errors.Wrap(err, "read feed stream")
		}

		var event FeedEvent
		if err := apijson.Unmarshal(raw, &event); err != nil {
			s.logger.Warn(logging.Client, logging.Stream, "dropping malformed feed event", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		s.mu.RLock()
		handler := s.eventHandler
		s.mu.RUnlock()
		if handler != nil {
			handler(event)
		}
	}
}

// Ping checks that the connection is still alive.
func (s *FeedStream) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStreamClosed
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

// Stream opens the live feed. The token is optional, like for List.
func (r *FeedService) Stream(ctx context.Context, opts ...option.RequestOption) (*FeedStream, error) {
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithAuthMode(option.AuthOptional)}, opts)

	cfg, err := requestconfig.NewRequestConfig(ctx, http.MethodGet, "community/stream", nil, nil, opts...)
	if err != nil {
		return nil, apierror.Normalize(err)
	}
	u, err := cfg.ResolveURL()
	if err != nil {
		return nil, apierror.Normalize(err)
	}
	if after, ok := strings.CutPrefix(u.Scheme, "http"); ok {
		u.Scheme = "ws" + after
	}

	dialCtx, cancel := cfg.RequestContext()
	defer cancel()

	header := http.Header{}
	header.Set("User-Agent", cfg.Request.Header.Get("User-Agent"))
	header.Set("X-Request-ID", cfg.Request.Header.Get("X-Request-ID"))
	if token, err := cfg.Token(dialCtx); err == nil && token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(dialCtx, u.String(), header)
	if err != nil {
		if cause := context.Cause(dialCtx); cause != nil {
			return nil, apierror.Normalize(cause)
		}
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return nil, apierror.FromResponse(resp.StatusCode, body, err)
		}
		return nil, apierror.Normalize(err)
	}

	cfg.Logger.Info(logging.Client, logging.Stream, "feed stream connected", map[logging.ExtraKey]any{
		logging.Path: u.Path,
	})
	return &FeedStream{conn: conn, logger: cfg.Logger}, nil
}
