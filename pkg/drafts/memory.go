package drafts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft), now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, metaformID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	draft, ok := m.drafts[metaformID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

func (m *MemoryStore) Replace(ctx context.Context, metaformID string, doc metaform.Document) (Draft, error) {
	if err := validateID(metaformID); err != nil {
		return Draft{}, err
	}
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[metaformID]
	if !ok {
		draft = Draft{ID: uuid.New(), MetaformID: metaformID}
	}
	draft.Document = doc
	draft.UpdatedAt = m.now().UTC()
	m.drafts[metaformID] = draft
	return draft, nil
}

func (m *MemoryStore) Delete(ctx context.Context, metaformID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[metaformID]; !ok {
		return ErrNotFound
	}
	delete(m.drafts, metaformID)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Draft, 0, len(m.drafts))
	for _, draft := range m.drafts {
		out = append(out, draft)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].MetaformID < out[j].MetaformID })
	return out, nil
}
