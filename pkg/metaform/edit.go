package metaform

import "reflect"

// withSections returns a shallow copy of doc holding a fresh sections slice so
// callers can assign individual entries without touching doc.
func withSections(doc Document) Document {
	out := doc
	out.Sections = append([]Section(nil), doc.Sections...)
	return out
}

// withFields returns a copy of section holding a fresh fields slice.
func withFields(section Section) Section {
	out := section
	out.Fields = append([]Field(nil), section.Fields...)
	return out
}

func removeAt[T any](items []T, i int) ([]T, T) {
	removed := items[i]
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out, removed
}

func insertAt[T any](items []T, i int, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	out = append(out, items[i:]...)
	return out
}

// ReplaceSection swaps the section at index s for section.
func ReplaceSection(doc Document, s int, section Section) (Document, error) {
	if s < 0 || s >= len(doc.Sections) {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	out := withSections(doc)
	out.Sections[s] = section
	return out, nil
}

// ReplaceField swaps field f of section s for field.
func ReplaceField(doc Document, s, f int, field Field) (Document, error) {
	if s < 0 || s >= len(doc.Sections) {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	fields := doc.Sections[s].Fields
	if f < 0 || f >= len(fields) {
		return doc, fieldOutOfRange(s, f, len(fields))
	}
	section := withFields(doc.Sections[s])
	section.Fields[f] = field
	out := withSections(doc)
	out.Sections[s] = section
	return out, nil
}

// ReplaceFieldAt replaces the field addressed by c. Coordinates that do not
// select a field leave doc untouched without an error.
func ReplaceFieldAt(doc Document, c Coordinate, field Field) (Document, error) {
	f, ok := c.Field()
	if !ok {
		return doc, nil
	}
	s, _ := c.Section()
	return ReplaceField(doc, s, f, field)
}

// MoveSection removes the section at from and reinserts it at to, where to is
// an index into the sequence after removal. to may equal that length.
func MoveSection(doc Document, from, to int) (Document, error) {
	n := len(doc.Sections)
	if from < 0 || from >= n {
		return doc, sectionOutOfRange(from, n)
	}
	if to < 0 || to > n-1 {
		return doc, positionOutOfRange("section", to, n-1)
	}
	rest, moved := removeAt(doc.Sections, from)
	out := doc
	out.Sections = insertAt(rest, to, moved)
	return out, nil
}

// MoveField removes field fromField of section fromSection and inserts it into
// section toSection at toField. Like MoveSection, toField indexes the target
// sequence after removal, so a move within one section is a plain reorder.
func MoveField(doc Document, fromSection, fromField, toSection, toField int) (Document, error) {
	n := len(doc.Sections)
	if fromSection < 0 || fromSection >= n {
		return doc, sectionOutOfRange(fromSection, n)
	}
	if toSection < 0 || toSection >= n {
		return doc, sectionOutOfRange(toSection, n)
	}
	source := doc.Sections[fromSection].Fields
	if fromField < 0 || fromField >= len(source) {
		return doc, fieldOutOfRange(fromSection, fromField, len(source))
	}

	remaining, moved := removeAt(source, fromField)
	if fromSection == toSection {
		if toField < 0 || toField > len(remaining) {
			return doc, positionOutOfRange("field", toField, len(remaining))
		}
		section := doc.Sections[fromSection]
		section.Fields = insertAt(remaining, toField, moved)
		out := withSections(doc)
		out.Sections[fromSection] = section
		return out, nil
	}

	target := doc.Sections[toSection].Fields
	if toField < 0 || toField > len(target) {
		return doc, positionOutOfRange("field", toField, len(target))
	}
	src := doc.Sections[fromSection]
	src.Fields = remaining
	dst := doc.Sections[toSection]
	dst.Fields = insertAt(target, toField, moved)

	out := withSections(doc)
	out.Sections[fromSection] = src
	out.Sections[toSection] = dst
	return out, nil
}

// InsertField materialises a default field of type t and inserts it into
// section s at index at, clamped to [0, len(fields)].
func InsertField(doc Document, s, at int, t FieldType) (Document, error) {
	return InsertFieldValue(doc, s, at, NewField(t))
}

// InsertFieldValue inserts field into section s at index at, clamped to
// [0, len(fields)].
func InsertFieldValue(doc Document, s, at int, field Field) (Document, error) {
	if s < 0 || s >= len(doc.Sections) {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	fields := doc.Sections[s].Fields
	at = min(max(at, 0), len(fields))

	section := doc.Sections[s]
	section.Fields = insertAt(fields, at, field)
	out := withSections(doc)
	out.Sections[s] = section
	return out, nil
}

// RemoveField drops field f of section s.
func RemoveField(doc Document, s, f int) (Document, error) {
	if s < 0 || s >= len(doc.Sections) {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	fields := doc.Sections[s].Fields
	if f < 0 || f >= len(fields) {
		return doc, fieldOutOfRange(s, f, len(fields))
	}
	section := doc.Sections[s]
	section.Fields, _ = removeAt(fields, f)
	out := withSections(doc)
	out.Sections[s] = section
	return out, nil
}

// AppendSection adds section after the last one.
func AppendSection(doc Document, section Section) Document {
	out := doc
	out.Sections = insertAt(doc.Sections, len(doc.Sections), section)
	return out
}

// RemoveSection drops the section at index s together with its fields.
func RemoveSection(doc Document, s int) (Document, error) {
	if s < 0 || s >= len(doc.Sections) {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	out := doc
	out.Sections, _ = removeAt(doc.Sections, s)
	return out, nil
}

// RenameSection sets the title of section s. Field names are left alone.
func RenameSection(doc Document, s int, title string) (Document, error) {
	section, ok := doc.Section(s)
	if !ok {
		return doc, sectionOutOfRange(s, len(doc.Sections))
	}
	section.Title = title
	return ReplaceSection(doc, s, section)
}

// RenameField returns field with the new title and a name re-derived from the
// section and field titles. Renaming therefore changes the machine name,
// which breaks any external reference to the old name.
func RenameField(field Field, title, sectionTitle string) Field {
	out := field
	out.Title = title
	out.Name = Slugify(sectionTitle, title)
	return out
}

// AddFieldOption appends option to field's option list.
func AddFieldOption(field Field, option FieldOption) Field {
	out := field
	out.Options = insertAt(field.Options, len(field.Options), option)
	return out
}

// RemoveFieldOption drops option i of field.
func RemoveFieldOption(field Field, i int) (Field, error) {
	if i < 0 || i >= len(field.Options) {
		return field, positionOutOfRange("option", i, len(field.Options)-1)
	}
	out := field
	out.Options, _ = removeAt(field.Options, i)
	return out, nil
}

// Equal compares two documents structurally. Nil and empty slices compare
// equal.
func Equal(a, b Document) bool {
	if a.ID != b.ID || a.Title != b.Title || len(a.Sections) != len(b.Sections) {
		return false
	}
	for i := range a.Sections {
		if !sectionEqual(a.Sections[i], b.Sections[i]) {
			return false
		}
	}
	return true
}

func sectionEqual(a, b Section) bool {
	if a.Title != b.Title || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if !fieldEqual(a.Fields[i], b.Fields[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b Field) bool {
	if len(a.Options) == 0 && len(b.Options) == 0 {
		a.Options, b.Options = nil, nil
	}
	return reflect.DeepEqual(a, b)
}
