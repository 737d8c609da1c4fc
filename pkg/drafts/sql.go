package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

const schema = `CREATE TABLE IF NOT EXISTS metaform_drafts (
	id          TEXT PRIMARY KEY,
	metaform_id TEXT NOT NULL UNIQUE,
	data        TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// SQLStore keeps drafts in a SQLite database.
type SQLStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) SQLOption {
	return func(s *SQLStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens the SQLite database at dsn and prepares the drafts table.
func Open(ctx context.Context, dsn string, options ...SQLOption) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("drafts: dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("drafts: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	store, err := NewSQLStore(ctx, db, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an open database and creates the drafts table when
// missing.
func NewSQLStore(ctx context.Context, db *sql.DB, options ...SQLOption) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("drafts: database is nil")
	}
	s := &SQLStore{db: db, now: time.Now, logger: zap.NewNop()}
	for _, opt := range options {
		opt(s)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("drafts: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, metaformID string) (Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, metaform_id, data, updated_at FROM metaform_drafts WHERE metaform_id = ?`, metaformID)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("drafts: get %s: %w", metaformID, err)
	}
	return draft, nil
}

func (s *SQLStore) Replace(ctx context.Context, metaformID string, doc metaform.Document) (Draft, error) {
	if err := validateID(metaformID); err != nil {
		return Draft{}, err
	}
	data, err := metaform.Encode(doc)
	if err != nil {
		return Draft{}, err
	}
	updated := s.now().UTC()

	var rawID string
	err = s.db.QueryRowContext(ctx, `INSERT INTO metaform_drafts (id, metaform_id, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(metaform_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
		RETURNING id`,
		uuid.NewString(), metaformID, string(data), updated.UnixNano(),
	).Scan(&rawID)
	if err != nil {
		return Draft{}, fmt.Errorf("drafts: replace %s: %w", metaformID, err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Draft{}, fmt.Errorf("drafts: replace %s: invalid id %q: %w", metaformID, rawID, err)
	}

	s.logger.Debug("draft replaced",
		zap.String("metaform", metaformID),
		zap.String("draft", rawID),
		zap.Int("bytes", len(data)),
	)
	return Draft{ID: id, MetaformID: metaformID, Document: doc, UpdatedAt: time.Unix(0, updated.UnixNano()).UTC()}, nil
}

func (s *SQLStore) Delete(ctx context.Context, metaformID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM metaform_drafts WHERE metaform_id = ?`, metaformID)
	if err != nil {
		return fmt.Errorf("drafts: delete %s: %w", metaformID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("drafts: delete %s: %w", metaformID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, metaform_id, data, updated_at FROM metaform_drafts ORDER BY metaform_id`)
	if err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("drafts: list: %w", err)
		}
		out = append(out, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("drafts: list: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (Draft, error) {
	var (
		rawID   string
		draft   Draft
		data    string
		updated int64
	)
	if err := row.Scan(&rawID, &draft.MetaformID, &data, &updated); err != nil {
		return Draft{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Draft{}, fmt.Errorf("invalid id %q: %w", rawID, err)
	}
	doc, err := metaform.Decode([]byte(data))
	if err != nil {
		return Draft{}, err
	}
	draft.ID = id
	draft.Document = doc
	draft.UpdatedAt = time.Unix(0, updated).UTC()
	return draft, nil
}
