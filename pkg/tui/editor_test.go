package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// stubDriver answers select prompts by option label so scripts stay readable
// when the action menu changes shape.
type stubDriver struct {
	selects      []string
	inputs       []string
	confirm      []bool
	infoMessages []string
	selectPos    int
	inputPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selects) {
		return -1, ErrAborted
	}
	want := s.selects[s.selectPos]
	s.selectPos++
	for i, opt := range cfg.Options {
		if opt == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%q not offered in %q: %v", want, cfg.Message, cfg.Options)
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func sampleDocument() metaform.Document {
	return metaform.Document{
		ID:    "feedback",
		Title: "Feedback",
		Sections: []metaform.Section{
			{Title: "Contact", Fields: []metaform.Field{
				{Name: "contact-name", Title: "Name", Type: metaform.FieldTypeText},
			}},
			{Title: "Extra", Fields: []metaform.Field{}},
		},
	}
}

func runEditor(t *testing.T, driver *stubDriver, options ...Option) (*editor.Session, error) {
	t.Helper()
	session := editor.New()
	session.Load(sampleDocument())
	ed, err := New(append([]Option{WithPromptDriver(driver)}, options...)...)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	return session, ed.Run(context.Background(), session)
}

func TestEditorRunEditsDocument(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			"Select field", "[0] Contact / [0.0] Name (text)",
			"Toggle required",
			"Add field", "[1] Extra", "email",
			"Move section", "[1] Extra",
			"Quit",
		},
		inputs:  []string{"0", "0"},
		confirm: []bool{true},
	}

	session, err := runEditor(t, driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := session.Pending()
	want := metaform.Document{
		ID:    "feedback",
		Title: "Feedback",
		Sections: []metaform.Section{
			{Title: "Extra", Fields: []metaform.Field{
				{Name: "email", Title: "email", Type: metaform.FieldTypeEmail},
			}},
			{Title: "Contact", Fields: []metaform.Field{
				{Name: "contact-name", Title: "Name", Type: metaform.FieldTypeText, Required: true},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if !session.Dirty() {
		t.Fatalf("expected dirty session")
	}
}

func TestEditorRenameAndOptions(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			"Add field", "[0] Contact", "select",
			"Rename field",
			"Add option",
			"Select section", "[0] Contact",
			"Rename section",
			"Quit",
		},
		inputs:  []string{"1", "Favourite Colour", "Dark Blue", "Profile"},
		confirm: []bool{true},
	}

	session, err := runEditor(t, driver, WithPalette([]metaform.FieldType{metaform.FieldTypeSelect}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := session.Pending()
	field, ok := got.Field(0, 1)
	if !ok {
		t.Fatalf("expected added field at 0.1")
	}
	want := metaform.Field{
		Name:  "contact-favourite-colour",
		Title: "Favourite Colour",
		Type:  metaform.FieldTypeSelect,
		Options: []metaform.FieldOption{
			{Name: "option", Text: "Option"},
			{Name: "dark-blue", Text: "Dark Blue"},
		},
	}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if got.Sections[0].Title != "Profile" {
		t.Fatalf("expected renamed section, got %q", got.Sections[0].Title)
	}
}

func TestEditorReportsIgnoredDrop(t *testing.T) {
	driver := &stubDriver{
		selects: []string{"Move field", "[0] Contact / [0.0] Name (text)", "[0] Contact", "Quit"},
		inputs:  []string{"5"},
	}

	session, err := runEditor(t, driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if session.Dirty() {
		t.Fatalf("ignored drop must not change the document")
	}

	var reported bool
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "drop ignored (move-field)") {
			reported = true
		}
	}
	if !reported {
		t.Fatalf("expected ignored drop message, got %v", driver.infoMessages)
	}
}

func TestEditorSaveAndRemove(t *testing.T) {
	var saved []metaform.Document
	saver := editor.SaverFunc(func(_ context.Context, doc metaform.Document) error {
		saved = append(saved, doc)
		return nil
	})
	driver := &stubDriver{
		selects: []string{
			"Select section", "[1] Extra",
			"Remove section",
			"Save",
			"Quit",
		},
		confirm: []bool{true},
	}

	session, err := runEditor(t, driver, WithSaver(saver))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected one save, got %d", len(saved))
	}
	if len(saved[0].Sections) != 1 {
		t.Fatalf("expected saved document with one section, got %d", len(saved[0].Sections))
	}
	if session.Dirty() {
		t.Fatalf("expected clean session after save")
	}
}

func TestEditorQuitKeepsEditingWhenDeclined(t *testing.T) {
	driver := &stubDriver{
		selects: []string{"Add section", "Quit", "Discard changes", "Quit"},
		confirm: []bool{false},
	}

	session, err := runEditor(t, driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if session.Dirty() {
		t.Fatalf("expected discarded changes")
	}
	if driver.confirmPos != 1 {
		t.Fatalf("expected a single quit confirmation, got %d", driver.confirmPos)
	}
}

func TestEditorRequiresLoadedSession(t *testing.T) {
	ed, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := ed.Run(context.Background(), editor.New()); !errors.Is(err, editor.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestEditorAbortPropagates(t *testing.T) {
	_, err := runEditor(t, &stubDriver{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestOutline(t *testing.T) {
	doc := sampleDocument()
	got := Outline(doc, metaform.FieldAt(0, 0), true)
	want := strings.Join([]string{
		"Feedback *",
		"  [0] Contact",
		">   [0.0] Name (text)",
		"  [1] Extra",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}

	got = Outline(metaform.Document{}, metaform.NoSelection(), false)
	if diff := cmp.Diff("(untitled)\n  (no sections)", got); diff != "" {
		t.Fatalf("empty outline mismatch (-want +got):\n%s", diff)
	}
}

// rangeDriver answers one select prompt with an index outside the offered
// options.
type rangeDriver struct {
	*stubDriver
	calls   int
	badCall int
}

func (d *rangeDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	d.calls++
	if d.calls == d.badCall {
		return len(cfg.Options) + 3, nil
	}
	return d.stubDriver.Select(ctx, cfg)
}

func TestEditorRejectsOutOfRangeSection(t *testing.T) {
	stub := &stubDriver{selects: []string{"Add field", "Quit"}}
	driver := &rangeDriver{stubDriver: stub, badCall: 2}

	session := editor.New()
	session.Load(sampleDocument())
	ed, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := ed.Run(context.Background(), session); err != nil {
		t.Fatalf("run: %v", err)
	}
	if session.Dirty() {
		t.Fatalf("out of range section must not change the document")
	}

	var reported bool
	for _, msg := range stub.infoMessages {
		if strings.HasPrefix(msg, "! ") && strings.Contains(msg, "section option") {
			reported = true
		}
	}
	if !reported {
		t.Fatalf("expected out of range message, got %v", stub.infoMessages)
	}
}
