package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Saver persists a pending document. The drafts package provides an
// implementation backed by the draft store.
type Saver interface {
	Save(ctx context.Context, doc metaform.Document) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, doc metaform.Document) error

// Save calls fn.
func (fn SaverFunc) Save(ctx context.Context, doc metaform.Document) error {
	return fn(ctx, doc)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSanitizer makes the session sanitise html payloads on load and on
// every field edit.
func WithSanitizer() Option {
	return func(s *Session) {
		s.sanitize = true
	}
}
