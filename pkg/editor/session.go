package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/gesture"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateIdle means no document has been loaded.
	StateIdle State = iota
	// StateEditing means a pending document is present.
	StateEditing
)

func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "idle"
}

// DocumentListener receives every newly published pending document.
type DocumentListener func(metaform.Document)

// SelectionListener receives every selection change.
type SelectionListener func(metaform.Coordinate)

// Session owns one pending document. It is safe for concurrent use; listeners
// run on the caller's goroutine after the session lock is released.
type Session struct {
	mu       sync.Mutex
	logger   *zap.Logger
	sanitize bool
	loaded   bool
	// generation counts Load calls so a save finishing after a reload does
	// not promote the stale snapshot.
	generation uint64
	baseline   metaform.Document
	pending    metaform.Document
	selection  metaform.Coordinate

	nextListener int
	docListeners map[int]DocumentListener
	selListeners map[int]SelectionListener
}

// New constructs an idle session.
func New(options ...Option) *Session {
	s := &Session{
		logger:       zap.NewNop(),
		docListeners: make(map[int]DocumentListener),
		selListeners: make(map[int]SelectionListener),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers fn for published documents and returns a function
// removing it again.
func (s *Session) Subscribe(fn DocumentListener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.docListeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.docListeners, id)
		s.mu.Unlock()
	}
}

// OnSelect registers fn for selection changes.
func (s *Session) OnSelect(fn SelectionListener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.selListeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.selListeners, id)
		s.mu.Unlock()
	}
}

// State reports whether a document is loaded.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return StateEditing
	}
	return StateIdle
}

// Pending returns the current pending document.
func (s *Session) Pending() (metaform.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.loaded
}

// Baseline returns the last loaded or saved document.
func (s *Session) Baseline() metaform.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline
}

// Selection returns the current coordinate.
func (s *Session) Selection() metaform.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Dirty reports whether the pending document differs from the baseline.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && !metaform.Equal(s.pending, s.baseline)
}

// Load replaces both baseline and pending document and clears the selection.
func (s *Session) Load(doc metaform.Document) {
	doc = metaform.Normalize(doc)
	if s.sanitize {
		doc = metaform.SanitizeDocument(doc)
	}
	s.mu.Lock()
	s.loaded = true
	s.generation++
	s.baseline = doc
	s.pending = doc
	s.selection = metaform.NoSelection()
	docs, sels := s.listenersLocked()
	s.mu.Unlock()

	s.logger.Debug("metaform loaded",
		zap.String("id", doc.ID),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("fields", metaform.FieldCount(doc)),
	)
	notifyDocument(docs, doc)
	notifySelection(sels, metaform.NoSelection())
}

// Select changes the coordinate targeted by the property panel. Coordinates
// outside the pending document are rejected with metaform.ErrOutOfRange.
func (s *Session) Select(c metaform.Coordinate) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if !c.Within(s.pending) {
		s.mu.Unlock()
		return fmt.Errorf("%w: selection %s", metaform.ErrOutOfRange, c)
	}
	changed := s.selection != c
	s.selection = c
	_, sels := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		notifySelection(sels, c)
	}
	return nil
}

// Drop classifies a drag-and-drop event and applies it. Unclassified or
// out-of-range drops leave the session unchanged; the returned error says why
// and is safe to ignore.
func (s *Session) Drop(ev gesture.DropEvent) (gesture.Gesture, error) {
	g := gesture.Classify(ev)
	return g, s.ApplyGesture(g)
}

// ApplyGesture applies a classified gesture to the pending document.
func (s *Session) ApplyGesture(g gesture.Gesture) error {
	err := s.edit(func(doc metaform.Document, _ metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		next, err := gesture.Apply(doc, g)
		if err != nil {
			return doc, metaform.Coordinate{}, err
		}
		sel := metaform.NoSelection()
		if add, ok := g.(gesture.AddField); ok {
			sel = metaform.FieldAt(add.Section, add.Index)
		}
		return next, sel, nil
	})
	if err != nil {
		s.logger.Debug("gesture ignored", zap.Stringer("kind", kindStringer{g}), zap.Error(err))
	}
	return err
}

// SetSectionTitle renames the selected section. When a field is selected its
// enclosing section is renamed.
func (s *Session) SetSectionTitle(title string) error {
	return s.edit(func(doc metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		idx, ok := sel.Section()
		if !ok {
			return doc, sel, ErrNoSelection
		}
		next, err := metaform.RenameSection(doc, idx, title)
		return next, sel, err
	})
}

// SetFieldTitle renames the selected field. The field name is re-derived from
// the section and field titles.
func (s *Session) SetFieldTitle(title string) error {
	return s.UpdateField(func(doc metaform.Document, section int, field metaform.Field) metaform.Field {
		return metaform.RenameField(field, title, doc.Sections[section].Title)
	})
}

// SetFieldRequired toggles the required flag of the selected field.
func (s *Session) SetFieldRequired(required bool) error {
	return s.UpdateField(func(_ metaform.Document, _ int, field metaform.Field) metaform.Field {
		field.Required = required
		return field
	})
}

// FieldUpdate derives a replacement for the selected field. section is the
// index of the enclosing section in doc.
type FieldUpdate func(doc metaform.Document, section int, field metaform.Field) metaform.Field

// UpdateField replaces the selected field with the result of fn.
func (s *Session) UpdateField(fn FieldUpdate) error {
	return s.edit(func(doc metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		sIdx, fIdx, field, err := selectedField(doc, sel)
		if err != nil {
			return doc, sel, err
		}
		updated := fn(doc, sIdx, field)
		if s.sanitize {
			updated = metaform.SanitizeField(updated)
		}
		next, err := metaform.ReplaceFieldAt(doc, metaform.FieldAt(sIdx, fIdx), updated)
		return next, sel, err
	})
}

// AddOption appends an option to the selected choice field.
func (s *Session) AddOption(option metaform.FieldOption) error {
	return s.UpdateField(func(_ metaform.Document, _ int, field metaform.Field) metaform.Field {
		return metaform.AddFieldOption(field, option)
	})
}

// RemoveOption drops option i of the selected field.
func (s *Session) RemoveOption(i int) error {
	return s.edit(func(doc metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		sIdx, fIdx, field, err := selectedField(doc, sel)
		if err != nil {
			return doc, sel, err
		}
		updated, err := metaform.RemoveFieldOption(field, i)
		if err != nil {
			return doc, sel, err
		}
		next, err := metaform.ReplaceField(doc, sIdx, fIdx, updated)
		return next, sel, err
	})
}

// AddSection appends an empty section and selects it.
func (s *Session) AddSection() error {
	return s.edit(func(doc metaform.Document, _ metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		next := metaform.AppendSection(doc, metaform.CreateEmptySection())
		return next, metaform.SectionAt(len(next.Sections) - 1), nil
	})
}

// RemoveSelected deletes the selected field or section and clears the
// selection.
func (s *Session) RemoveSelected() error {
	return s.edit(func(doc metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		sIdx, ok := sel.Section()
		if !ok {
			return doc, sel, ErrNoSelection
		}
		var (
			next metaform.Document
			err  error
		)
		if fIdx, ok := sel.Field(); ok {
			next, err = metaform.RemoveField(doc, sIdx, fIdx)
		} else {
			next, err = metaform.RemoveSection(doc, sIdx)
		}
		return next, metaform.NoSelection(), err
	})
}

// Discard drops every unsaved edit and returns to the baseline.
func (s *Session) Discard() error {
	return s.edit(func(_ metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error) {
		s.logger.Debug("pending edits discarded")
		return s.baseline, sel, nil
	})
}

// MarkSaved promotes the pending document to baseline.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	s.baseline = s.pending
	s.mu.Unlock()
}

// Save hands the pending document to saver and, on success, promotes it to
// baseline. Edits made while saver runs stay pending.
func (s *Session) Save(ctx context.Context, saver Saver) error {
	if saver == nil {
		return errors.New("editor: saver is nil")
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	snapshot := s.pending
	generation := s.generation
	s.mu.Unlock()

	if err := saver.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("editor: save: %w", err)
	}

	s.mu.Lock()
	reloaded := s.generation != generation
	if !reloaded {
		s.baseline = snapshot
	}
	s.mu.Unlock()
	if reloaded {
		s.logger.Debug("metaform reloaded during save; baseline kept", zap.String("id", snapshot.ID))
		return nil
	}
	s.logger.Info("metaform saved", zap.String("id", snapshot.ID), zap.Int("fields", metaform.FieldCount(snapshot)))
	return nil
}

type editFunc func(doc metaform.Document, sel metaform.Coordinate) (metaform.Document, metaform.Coordinate, error)

// edit runs fn against the pending document and commits its result. Errors
// leave the session as it was. A selection that falls outside the new
// document is cleared.
func (s *Session) edit(fn editFunc) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	next, sel, err := fn(s.pending, s.selection)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !sel.Within(next) {
		sel = metaform.NoSelection()
	}
	selChanged := sel != s.selection
	s.pending = next
	s.selection = sel
	docs, sels := s.listenersLocked()
	s.mu.Unlock()

	notifyDocument(docs, next)
	if selChanged {
		notifySelection(sels, sel)
	}
	return nil
}

// listenersLocked snapshots listeners in registration order.
func (s *Session) listenersLocked() ([]DocumentListener, []SelectionListener) {
	docIDs := make([]int, 0, len(s.docListeners))
	for id := range s.docListeners {
		docIDs = append(docIDs, id)
	}
	sort.Ints(docIDs)
	docs := make([]DocumentListener, 0, len(docIDs))
	for _, id := range docIDs {
		docs = append(docs, s.docListeners[id])
	}

	selIDs := make([]int, 0, len(s.selListeners))
	for id := range s.selListeners {
		selIDs = append(selIDs, id)
	}
	sort.Ints(selIDs)
	sels := make([]SelectionListener, 0, len(selIDs))
	for _, id := range selIDs {
		sels = append(sels, s.selListeners[id])
	}
	return docs, sels
}

func notifyDocument(listeners []DocumentListener, doc metaform.Document) {
	for _, fn := range listeners {
		fn(doc)
	}
}

func notifySelection(listeners []SelectionListener, c metaform.Coordinate) {
	for _, fn := range listeners {
		fn(c)
	}
}

func selectedField(doc metaform.Document, sel metaform.Coordinate) (int, int, metaform.Field, error) {
	fIdx, ok := sel.Field()
	if !ok {
		return 0, 0, metaform.Field{}, ErrNoSelection
	}
	sIdx, _ := sel.Section()
	field, ok := doc.Field(sIdx, fIdx)
	if !ok {
		return 0, 0, metaform.Field{}, fmt.Errorf("%w: selection %s", metaform.ErrOutOfRange, sel)
	}
	return sIdx, fIdx, field, nil
}

type kindStringer struct {
	g gesture.Gesture
}

func (k kindStringer) String() string {
	if k.g == nil {
		return string(gesture.KindInvalid)
	}
	return string(k.g.Kind())
}
