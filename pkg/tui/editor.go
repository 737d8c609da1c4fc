// Package tui is a terminal front end for the editing session. It stands in
// for the drag-and-drop builder: moves and palette inserts are expressed as
// the same drop events a browser would send and go through the gesture
// classifier.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/gesture"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Editor drives a Session from terminal prompts.
type Editor struct {
	driver  PromptDriver
	palette []metaform.FieldType
	saver   editor.Saver
	logger  *zap.Logger
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithPalette restricts the field types offered by "Add field".
func WithPalette(types []metaform.FieldType) Option {
	return func(e *Editor) {
		if len(types) > 0 {
			e.palette = append([]metaform.FieldType(nil), types...)
		}
	}
}

// WithSaver enables the "Save" action.
func WithSaver(saver editor.Saver) Option {
	return func(e *Editor) { e.saver = saver }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an Editor using survey prompts unless a driver is supplied.
func New(options ...Option) (*Editor, error) {
	e := &Editor{palette: metaform.FieldTypes(), logger: zap.NewNop()}
	for _, opt := range options {
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver()
	}
	return e, nil
}

type action struct {
	label string
	run   func(ctx context.Context, s *editor.Session) (done bool, err error)
}

// Run loops over the action menu until the user quits. A loaded session is
// required.
func (e *Editor) Run(ctx context.Context, s *editor.Session) error {
	if s == nil || s.State() != editor.StateEditing {
		return editor.ErrNotLoaded
	}
	for {
		doc, _ := s.Pending()
		if err := e.driver.Info(ctx, Outline(doc, s.Selection(), s.Dirty())); err != nil {
			return err
		}

		actions := e.actions(doc, s.Selection())
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}
		idx, err := e.driver.Select(ctx, SelectConfig{Message: "Action", Options: labels, PageSize: len(labels)})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		done, err := actions[idx].run(ctx, s)
		switch {
		case err == nil:
		case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled):
			return err
		default:
			e.logger.Debug("action failed", zap.String("action", actions[idx].label), zap.Error(err))
			if infoErr := e.driver.Info(ctx, "! "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
		if done {
			return nil
		}
	}
}

func (e *Editor) actions(doc metaform.Document, sel metaform.Coordinate) []action {
	var out []action
	if len(doc.Sections) > 0 {
		out = append(out, action{"Select section", e.selectSection})
	}
	if metaform.FieldCount(doc) > 0 {
		out = append(out, action{"Select field", e.selectField})
	}
	out = append(out, action{"Add section", func(_ context.Context, s *editor.Session) (bool, error) {
		return false, s.AddSection()
	}})
	if len(doc.Sections) > 0 {
		out = append(out, action{"Add field", e.addField})
	}
	if len(doc.Sections) > 1 {
		out = append(out, action{"Move section", e.moveSection})
	}
	if metaform.FieldCount(doc) > 0 {
		out = append(out, action{"Move field", e.moveField})
	}

	switch sel.Kind() {
	case metaform.KindSection:
		out = append(out,
			action{"Rename section", e.renameSection},
			action{"Remove section", e.removeSelected},
		)
	case metaform.KindField:
		out = append(out,
			action{"Rename field", e.renameField},
			action{"Toggle required", e.toggleRequired},
		)
		s, _ := sel.Section()
		f, _ := sel.Field()
		if field, ok := doc.Field(s, f); ok && field.Type.IsChoice() {
			out = append(out, action{"Add option", e.addOption})
		}
		out = append(out, action{"Remove field", e.removeSelected})
	}

	out = append(out, action{"Discard changes", func(_ context.Context, s *editor.Session) (bool, error) {
		return false, s.Discard()
	}})
	if e.saver != nil {
		out = append(out, action{"Save", func(ctx context.Context, s *editor.Session) (bool, error) {
			return false, s.Save(ctx, e.saver)
		}})
	}
	out = append(out, action{"Quit", e.quit})
	return out
}

func (e *Editor) pickSection(ctx context.Context, doc metaform.Document, message string) (int, error) {
	options := make([]string, len(doc.Sections))
	for i, section := range doc.Sections {
		options[i] = sectionLabel(i, section)
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(doc.Sections) {
		return -1, fmt.Errorf("%w: section option %d", metaform.ErrOutOfRange, idx)
	}
	return idx, nil
}

func (e *Editor) pickField(ctx context.Context, doc metaform.Document, message string) (metaform.Coordinate, error) {
	var (
		options []string
		coords  []metaform.Coordinate
	)
	for s, section := range doc.Sections {
		for f, field := range section.Fields {
			options = append(options, fmt.Sprintf("%s / %s", sectionLabel(s, section), fieldLabel(s, f, field)))
			coords = append(coords, metaform.FieldAt(s, f))
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return metaform.NoSelection(), err
	}
	if idx < 0 || idx >= len(coords) {
		return metaform.NoSelection(), fmt.Errorf("%w: option %d", metaform.ErrOutOfRange, idx)
	}
	return coords[idx], nil
}

func (e *Editor) askPosition(ctx context.Context, message string, limit int) (int, error) {
	raw, err := e.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("%s (0-%d)", message, limit),
		Default: strconv.Itoa(limit),
		Validator: func(v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 || n > limit {
				return fmt.Errorf("enter a number between 0 and %d", limit)
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("tui: invalid position %q", raw)
	}
	return n, nil
}

func (e *Editor) selectSection(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	idx, err := e.pickSection(ctx, doc, "Section")
	if err != nil {
		return false, err
	}
	return false, s.Select(metaform.SectionAt(idx))
}

func (e *Editor) selectField(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	c, err := e.pickField(ctx, doc, "Field")
	if err != nil {
		return false, err
	}
	return false, s.Select(c)
}

func (e *Editor) addField(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	section, err := e.pickSection(ctx, doc, "Add to section")
	if err != nil {
		return false, err
	}
	types := make([]string, len(e.palette))
	for i, t := range e.palette {
		types[i] = string(t)
	}
	typeIdx, err := e.driver.Select(ctx, SelectConfig{Message: "Field type", Options: types, PageSize: len(types)})
	if err != nil {
		return false, err
	}
	if typeIdx < 0 || typeIdx >= len(e.palette) {
		return false, fmt.Errorf("%w: field type %d", metaform.ErrOutOfRange, typeIdx)
	}
	pos, err := e.askPosition(ctx, "Position", len(doc.Sections[section].Fields))
	if err != nil {
		return false, err
	}
	return false, e.drop(ctx, s, gesture.DropEvent{
		DraggableID:      metaform.PaletteDraggableID(e.palette[typeIdx]),
		SourceID:         metaform.PaletteContainerID,
		DestinationID:    metaform.SectionContainerID(section),
		DestinationIndex: pos,
		FieldType:        e.palette[typeIdx],
	})
}

func (e *Editor) moveSection(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	from, err := e.pickSection(ctx, doc, "Move section")
	if err != nil {
		return false, err
	}
	to, err := e.askPosition(ctx, "New position", len(doc.Sections)-1)
	if err != nil {
		return false, err
	}
	return false, e.drop(ctx, s, gesture.DropEvent{
		DraggableID:      metaform.SectionDraggableID(from),
		SourceID:         metaform.SectionsContainerID,
		DestinationID:    metaform.SectionsContainerID,
		DestinationIndex: to,
	})
}

func (e *Editor) moveField(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	c, err := e.pickField(ctx, doc, "Move field")
	if err != nil {
		return false, err
	}
	fromSection, _ := c.Section()
	fromField, _ := c.Field()
	toSection, err := e.pickSection(ctx, doc, "Into section")
	if err != nil {
		return false, err
	}
	limit := len(doc.Sections[toSection].Fields)
	if toSection == fromSection {
		limit--
	}
	to, err := e.askPosition(ctx, "Position", limit)
	if err != nil {
		return false, err
	}
	return false, e.drop(ctx, s, gesture.DropEvent{
		DraggableID:      metaform.FieldDraggableID(fromSection, fromField),
		SourceID:         metaform.SectionContainerID(fromSection),
		DestinationID:    metaform.SectionContainerID(toSection),
		DestinationIndex: to,
	})
}

// drop feeds ev to the session. Ignored drops are reported, not returned.
func (e *Editor) drop(ctx context.Context, s *editor.Session, ev gesture.DropEvent) error {
	g, err := s.Drop(ev)
	if err != nil {
		return e.driver.Info(ctx, fmt.Sprintf("drop ignored (%s): %v", g.Kind(), err))
	}
	return nil
}

func (e *Editor) renameSection(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	idx, _ := s.Selection().Section()
	current, _ := doc.Section(idx)
	title, err := e.driver.Input(ctx, InputConfig{Message: "Section title", Default: current.Title})
	if err != nil {
		return false, err
	}
	return false, s.SetSectionTitle(title)
}

func (e *Editor) renameField(ctx context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	sel := s.Selection()
	sIdx, _ := sel.Section()
	fIdx, _ := sel.Field()
	current, _ := doc.Field(sIdx, fIdx)
	title, err := e.driver.Input(ctx, InputConfig{
		Message: "Field title",
		Default: current.Title,
		Help:    "Renaming regenerates the field name from the section and field titles.",
	})
	if err != nil {
		return false, err
	}
	return false, s.SetFieldTitle(title)
}

func (e *Editor) toggleRequired(_ context.Context, s *editor.Session) (bool, error) {
	doc, _ := s.Pending()
	sel := s.Selection()
	sIdx, _ := sel.Section()
	fIdx, _ := sel.Field()
	current, ok := doc.Field(sIdx, fIdx)
	if !ok {
		return false, editor.ErrNoSelection
	}
	return false, s.SetFieldRequired(!current.Required)
}

func (e *Editor) addOption(ctx context.Context, s *editor.Session) (bool, error) {
	text, err := e.driver.Input(ctx, InputConfig{
		Message: "Option text",
		Validator: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("option text is required")
			}
			return nil
		},
	})
	if err != nil {
		return false, err
	}
	return false, s.AddOption(metaform.FieldOption{Name: metaform.Slugify(text), Text: text})
}

func (e *Editor) removeSelected(ctx context.Context, s *editor.Session) (bool, error) {
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Remove " + s.Selection().Kind().String() + "?"})
	if err != nil || !ok {
		return false, err
	}
	return false, s.RemoveSelected()
}

func (e *Editor) quit(ctx context.Context, s *editor.Session) (bool, error) {
	if !s.Dirty() {
		return true, nil
	}
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Quit and lose unsaved changes?"})
	if err != nil {
		return false, err
	}
	return ok, nil
}
