package metaform_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

func sampleDocument() metaform.Document {
	return metaform.Document{
		ID: "survey",
		Sections: []metaform.Section{
			{Title: "A", Fields: []metaform.Field{
				{Name: "a-x", Title: "X", Type: metaform.FieldTypeText},
				{Name: "a-y", Title: "Y", Type: metaform.FieldTypeNumber},
				{Name: "a-z", Title: "Z", Type: metaform.FieldTypeBoolean},
			}},
			{Title: "B", Fields: []metaform.Field{
				{Name: "b-q", Title: "Q", Type: metaform.FieldTypeEmail},
			}},
			{Title: "C", Fields: []metaform.Field{}},
		},
	}
}

func sectionTitles(doc metaform.Document) []string {
	out := make([]string, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		out = append(out, section.Title)
	}
	return out
}

func fieldNames(section metaform.Section) []string {
	out := make([]string, 0, len(section.Fields))
	for _, field := range section.Fields {
		out = append(out, field.Name)
	}
	return out
}

func TestMoveSection(t *testing.T) {
	doc := sampleDocument()
	moved, err := metaform.MoveSection(doc, 0, 2)
	if err != nil {
		t.Fatalf("move section: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "C", "A"}, sectionTitles(moved)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, sectionTitles(doc)); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestMoveSectionRoundTrip(t *testing.T) {
	doc := sampleDocument()
	for i := range doc.Sections {
		for j := range doc.Sections {
			moved, err := metaform.MoveSection(doc, i, j)
			if err != nil {
				t.Fatalf("move %d->%d: %v", i, j, err)
			}
			back, err := metaform.MoveSection(moved, j, i)
			if err != nil {
				t.Fatalf("move back %d->%d: %v", j, i, err)
			}
			if !metaform.Equal(doc, back) {
				t.Fatalf("round trip %d->%d changed order: %v", i, j, sectionTitles(back))
			}
		}
	}
}

func TestMoveSectionOutOfRange(t *testing.T) {
	doc := sampleDocument()
	cases := []struct{ from, to int }{{-1, 0}, {3, 0}, {0, 3}, {0, -1}}
	for _, tc := range cases {
		got, err := metaform.MoveSection(doc, tc.from, tc.to)
		if !errors.Is(err, metaform.ErrOutOfRange) {
			t.Fatalf("move %d->%d: expected ErrOutOfRange, got %v", tc.from, tc.to, err)
		}
		if !metaform.Equal(doc, got) {
			t.Fatalf("move %d->%d: document changed on failure", tc.from, tc.to)
		}
	}
}

func TestMoveFieldWithinSection(t *testing.T) {
	doc := sampleDocument()
	moved, err := metaform.MoveField(doc, 0, 0, 0, 2)
	if err != nil {
		t.Fatalf("move field: %v", err)
	}
	if diff := cmp.Diff([]string{"a-y", "a-z", "a-x"}, fieldNames(moved.Sections[0])); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a-x", "a-y", "a-z"}, fieldNames(doc.Sections[0])); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestMoveFieldAcrossSections(t *testing.T) {
	doc := sampleDocument()
	moved, err := metaform.MoveField(doc, 0, 1, 1, 1)
	if err != nil {
		t.Fatalf("move field: %v", err)
	}
	if diff := cmp.Diff([]string{"a-x", "a-z"}, fieldNames(moved.Sections[0])); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b-q", "a-y"}, fieldNames(moved.Sections[1])); diff != "" {
		t.Fatalf("destination mismatch (-want +got):\n%s", diff)
	}
	if metaform.FieldCount(moved) != metaform.FieldCount(doc) {
		t.Fatalf("field count changed: %d -> %d", metaform.FieldCount(doc), metaform.FieldCount(moved))
	}

	toEmpty, err := metaform.MoveField(doc, 1, 0, 2, 0)
	if err != nil {
		t.Fatalf("move into empty section: %v", err)
	}
	if len(toEmpty.Sections[1].Fields) != 0 || len(toEmpty.Sections[2].Fields) != 1 {
		t.Fatalf("unexpected field distribution: %+v", toEmpty.Sections)
	}
}

func TestMoveFieldConservesCount(t *testing.T) {
	doc := sampleDocument()
	total := metaform.FieldCount(doc)
	for s := range doc.Sections {
		for f := range doc.Sections[s].Fields {
			for ts := range doc.Sections {
				for tf := 0; tf <= len(doc.Sections[ts].Fields); tf++ {
					moved, _ := metaform.MoveField(doc, s, f, ts, tf)
					if got := metaform.FieldCount(moved); got != total {
						t.Fatalf("move (%d,%d)->(%d,%d) changed count to %d", s, f, ts, tf, got)
					}
				}
			}
		}
	}
}

func TestSelfMoveIsNoop(t *testing.T) {
	doc := metaform.Document{Sections: []metaform.Section{{
		Title:  "A",
		Fields: []metaform.Field{{Name: "x", Title: "X", Type: metaform.FieldTypeText}},
	}}}
	got, err := metaform.MoveField(doc, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("move field: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("self move changed document (-want +got):\n%s", diff)
	}
}

func TestMoveFieldOutOfRange(t *testing.T) {
	doc := sampleDocument()
	cases := []struct {
		name           string
		fs, ff, ts, tf int
	}{
		{"source section", 5, 0, 0, 0},
		{"target section", 0, 0, 5, 0},
		{"source field", 0, 3, 0, 0},
		{"same section position", 0, 0, 0, 3},
		{"target position", 0, 0, 1, 2},
		{"negative position", 0, 0, 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := metaform.MoveField(doc, tc.fs, tc.ff, tc.ts, tc.tf)
			if !errors.Is(err, metaform.ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
			if !metaform.Equal(doc, got) {
				t.Fatalf("document changed on failure")
			}
		})
	}
}

func TestInsertField(t *testing.T) {
	doc := sampleDocument()
	got, err := metaform.InsertField(doc, 0, 1, metaform.FieldTypeNumber)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(got.Sections[0].Fields) != len(doc.Sections[0].Fields)+1 {
		t.Fatalf("expected one more field, got %d", len(got.Sections[0].Fields))
	}
	want := metaform.Field{Name: "number", Title: "number", Type: metaform.FieldTypeNumber}
	if diff := cmp.Diff(want, got.Sections[0].Fields[1]); diff != "" {
		t.Fatalf("inserted field mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertFieldClamps(t *testing.T) {
	doc := sampleDocument()
	end, err := metaform.InsertField(doc, 1, 99, metaform.FieldTypeDate)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	fields := end.Sections[1].Fields
	if fields[len(fields)-1].Type != metaform.FieldTypeDate {
		t.Fatalf("expected field appended, got %+v", fields)
	}

	start, err := metaform.InsertField(doc, 1, -4, metaform.FieldTypeDate)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if start.Sections[1].Fields[0].Type != metaform.FieldTypeDate {
		t.Fatalf("expected field prepended, got %+v", start.Sections[1].Fields)
	}

	if _, err := metaform.InsertField(doc, 9, 0, metaform.FieldTypeDate); !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for missing section, got %v", err)
	}
}

func TestNewFieldDefaults(t *testing.T) {
	for _, typ := range metaform.FieldTypes() {
		field := metaform.NewField(typ)
		if field.Name != string(typ) || field.Title != string(typ) || field.Type != typ {
			t.Fatalf("%s: unexpected default %+v", typ, field)
		}
		if typ.IsChoice() {
			want := []metaform.FieldOption{{Name: "option", Text: "Option"}}
			if diff := cmp.Diff(want, field.Options); diff != "" {
				t.Fatalf("%s: options mismatch (-want +got):\n%s", typ, diff)
			}
		} else if field.Options != nil {
			t.Fatalf("%s: unexpected options %+v", typ, field.Options)
		}
	}
}

func TestCreateEmptySection(t *testing.T) {
	want := metaform.Section{Title: "Section", Fields: []metaform.Field{}}
	if diff := cmp.Diff(want, metaform.CreateEmptySection()); diff != "" {
		t.Fatalf("section mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceField(t *testing.T) {
	doc := sampleDocument()
	replacement := metaform.Field{Name: "b-r", Title: "R", Type: metaform.FieldTypeURL}
	got, err := metaform.ReplaceField(doc, 1, 0, replacement)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if diff := cmp.Diff(replacement, got.Sections[1].Fields[0]); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if doc.Sections[1].Fields[0].Name != "b-q" {
		t.Fatalf("input mutated")
	}
	if &got.Sections[0].Fields[0] != &doc.Sections[0].Fields[0] {
		t.Fatalf("expected untouched section fields to be shared")
	}

	if _, err := metaform.ReplaceField(doc, 1, 1, replacement); !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}

	same, err := metaform.ReplaceFieldAt(doc, metaform.SectionAt(1), replacement)
	if err != nil || !metaform.Equal(doc, same) {
		t.Fatalf("expected no-op for section coordinate, err=%v", err)
	}
	same, err = metaform.ReplaceFieldAt(doc, metaform.NoSelection(), replacement)
	if err != nil || !metaform.Equal(doc, same) {
		t.Fatalf("expected no-op for empty coordinate, err=%v", err)
	}
}

func TestReplaceSection(t *testing.T) {
	doc := sampleDocument()
	got, err := metaform.ReplaceSection(doc, 2, metaform.Section{Title: "D"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "D"}, sectionTitles(got)); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
	if _, err := metaform.ReplaceSection(doc, 3, metaform.Section{}); !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRemoveAndAppend(t *testing.T) {
	doc := sampleDocument()
	got := metaform.AppendSection(doc, metaform.CreateEmptySection())
	if len(got.Sections) != 4 || len(doc.Sections) != 3 {
		t.Fatalf("append mismatch: %d / %d", len(got.Sections), len(doc.Sections))
	}

	got, err := metaform.RemoveSection(got, 0)
	if err != nil {
		t.Fatalf("remove section: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "C", "Section"}, sectionTitles(got)); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}

	got, err = metaform.RemoveField(doc, 0, 1)
	if err != nil {
		t.Fatalf("remove field: %v", err)
	}
	if diff := cmp.Diff([]string{"a-x", "a-z"}, fieldNames(got.Sections[0])); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if _, err := metaform.RemoveField(doc, 2, 0); !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRenameField(t *testing.T) {
	field := metaform.Field{Name: "old", Title: "Old", Type: metaform.FieldTypeText}
	first := metaform.RenameField(field, "First Name", "Personal Info")
	second := metaform.RenameField(field, "First Name", "Personal Info")
	if first.Name != second.Name {
		t.Fatalf("rename not deterministic: %q vs %q", first.Name, second.Name)
	}
	if first.Name != "personal-info-first-name" || first.Title != "First Name" {
		t.Fatalf("unexpected rename result %+v", first)
	}
	if field.Name != "old" {
		t.Fatalf("input mutated")
	}
}

func TestFieldOptions(t *testing.T) {
	field := metaform.NewField(metaform.FieldTypeRadio)
	added := metaform.AddFieldOption(field, metaform.FieldOption{Name: "yes", Text: "Yes"})
	if len(added.Options) != 2 || len(field.Options) != 1 {
		t.Fatalf("unexpected options: %+v / %+v", added.Options, field.Options)
	}
	removed, err := metaform.RemoveFieldOption(added, 0)
	if err != nil {
		t.Fatalf("remove option: %v", err)
	}
	if diff := cmp.Diff([]metaform.FieldOption{{Name: "yes", Text: "Yes"}}, removed.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if _, err := metaform.RemoveFieldOption(removed, 3); !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRenameSection(t *testing.T) {
	doc := sampleDocument()
	got, err := metaform.RenameSection(doc, 1, "Contact")
	if err != nil {
		t.Fatalf("rename section: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "Contact", "C"}, sectionTitles(got)); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b-q"}, fieldNames(got.Sections[1])); diff != "" {
		t.Fatalf("section rename must keep field names (-want +got):\n%s", diff)
	}
	if doc.Sections[1].Title != "B" {
		t.Fatalf("input mutated")
	}

	unchanged, err := metaform.RenameSection(doc, 7, "Nope")
	if !errors.Is(err, metaform.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if !metaform.Equal(doc, unchanged) {
		t.Fatalf("expected unchanged document on error")
	}
}

func TestInsertFieldValueKeepsField(t *testing.T) {
	doc := sampleDocument()
	field := metaform.Field{Name: "c-notes", Title: "Notes", Type: metaform.FieldTypeMemo, Required: true}
	got, err := metaform.InsertFieldValue(doc, 2, 0, field)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if diff := cmp.Diff([]metaform.Field{field}, got.Sections[2].Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Sections[2].Fields) != 0 {
		t.Fatalf("input mutated")
	}
}
