// Package drafts persists pending Metaform documents as drafts keyed by the
// metaform they belong to. Replace is the "replace current draft" call the
// editor uses when saving.
package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// ErrNotFound is returned when no draft exists for a metaform.
var ErrNotFound = errors.New("drafts: draft not found")

// Draft is the stored copy of a pending document.
type Draft struct {
	ID         uuid.UUID         `json:"id"`
	MetaformID string            `json:"metaformId"`
	Document   metaform.Document `json:"data"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Store reads and replaces drafts.
type Store interface {
	Get(ctx context.Context, metaformID string) (Draft, error)
	Replace(ctx context.Context, metaformID string, doc metaform.Document) (Draft, error)
	Delete(ctx context.Context, metaformID string) error
	List(ctx context.Context) ([]Draft, error)
}

// Saver adapts store to editor.Saver, writing every save to the draft of
// metaformID.
func Saver(store Store, metaformID string) editor.Saver {
	return editor.SaverFunc(func(ctx context.Context, doc metaform.Document) error {
		_, err := store.Replace(ctx, metaformID, doc)
		return err
	})
}

func validateID(metaformID string) error {
	if metaformID == "" {
		return errors.New("drafts: metaform id is required")
	}
	return nil
}
