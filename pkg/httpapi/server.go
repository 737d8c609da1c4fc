// Package httpapi exposes editing sessions over HTTP so a browser builder can
// drive the same session logic the terminal editor uses. Pending documents
// are streamed to websocket subscribers after every successful edit.
package httpapi

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/drafts"
	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Server routes session requests.
type Server struct {
	store    drafts.Store
	logger   *zap.Logger
	sanitize bool
	palette  []metaform.FieldType

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	metaformID string
	session    *editor.Session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSanitizer enables html sanitising for every session.
func WithSanitizer(enabled bool) Option {
	return func(s *Server) { s.sanitize = enabled }
}

// WithPalette restricts the field types offered by GET /palette.
func WithPalette(types []metaform.FieldType) Option {
	return func(s *Server) {
		if len(types) > 0 {
			s.palette = append([]metaform.FieldType(nil), types...)
		}
	}
}

// New constructs a Server persisting saves into store.
func New(store drafts.Store, options ...Option) *Server {
	s := &Server{
		store:    store,
		logger:   zap.NewNop(),
		palette:  metaform.FieldTypes(),
		sessions: make(map[uuid.UUID]*entry),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/palette", s.handlePalette)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleClose)
			r.Post("/drop", s.handleDrop)
			r.Put("/selection", s.handleSelect)
			r.Patch("/section", s.handlePatchSection)
			r.Patch("/field", s.handlePatchField)
			r.Delete("/field/options/{option}", s.handleRemoveOption)
			r.Post("/sections", s.handleAddSection)
			r.Delete("/selection", s.handleRemoveSelected)
			r.Post("/discard", s.handleDiscard)
			r.Post("/save", s.handleSave)
			r.Get("/events", s.handleEvents)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
		)
	})
}

func (s *Server) open(metaformID string, doc metaform.Document) (uuid.UUID, *entry) {
	var opts []editor.Option
	opts = append(opts, editor.WithLogger(s.logger.With(zap.String("metaform", metaformID))))
	if s.sanitize {
		opts = append(opts, editor.WithSanitizer())
	}
	session := editor.New(opts...)
	session.Load(doc)

	id := uuid.New()
	e := &entry{metaformID: metaformID, session: session}
	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()
	return id, e
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "INVALID_ID", "invalid session id: "+raw)
		return nil, false
	}
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, s.logger, http.StatusNotFound, "NOT_FOUND", "session not found")
		return nil, false
	}
	return e, true
}
