package metaform

import (
	"strconv"
	"strings"
)

// Identifier namespaces. Section and field prefixes are disjoint so a
// draggable id decodes to at most one kind.
const (
	sectionPrefix = "section-"
	fieldPrefix   = "field-"
	palettePrefix = "add-field-"

	// SectionsContainerID is the drop zone holding the top-level section list.
	SectionsContainerID = "sections"
	// PaletteContainerID is the drop zone listing field types to add.
	PaletteContainerID = "add-field"
)

// SectionDraggableID identifies the section at index s in drag and rendering
// contexts.
func SectionDraggableID(s int) string {
	return sectionPrefix + strconv.Itoa(s)
}

// FieldDraggableID identifies field f of section s.
func FieldDraggableID(s, f int) string {
	return fieldPrefix + strconv.Itoa(s) + "-" + strconv.Itoa(f)
}

// SectionContainerID identifies the drop zone holding the fields of section s.
func SectionContainerID(s int) string {
	return strconv.Itoa(s)
}

// PaletteDraggableID identifies a palette entry for the given field type.
func PaletteDraggableID(t FieldType) string {
	return palettePrefix + string(t)
}

// FieldID is the DOM id used for a rendered field inside the document
// identified by documentID.
func FieldID(documentID string, field Field) string {
	return documentID + "-field-" + field.Name
}

// FieldLabelID is the DOM id of the label rendered for field.
func FieldLabelID(documentID string, field Field) string {
	return FieldID(documentID, field) + "-label"
}

// IsSectionDraggableID reports whether id lives in the section namespace.
func IsSectionDraggableID(id string) bool {
	return strings.HasPrefix(id, sectionPrefix)
}

// IsFieldDraggableID reports whether id lives in the field namespace.
func IsFieldDraggableID(id string) bool {
	return strings.HasPrefix(id, fieldPrefix)
}

// ParseSectionDraggableID decodes an id produced by SectionDraggableID.
func ParseSectionDraggableID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, sectionPrefix)
	if !ok {
		return 0, false
	}
	return parseIndex(rest)
}

// ParseFieldDraggableID decodes an id produced by FieldDraggableID.
func ParseFieldDraggableID(id string) (section, field int, ok bool) {
	rest, found := strings.CutPrefix(id, fieldPrefix)
	if !found {
		return 0, 0, false
	}
	left, right, found := strings.Cut(rest, "-")
	if !found {
		return 0, 0, false
	}
	if section, ok = parseIndex(left); !ok {
		return 0, 0, false
	}
	if field, ok = parseIndex(right); !ok {
		return 0, 0, false
	}
	return section, field, true
}

// ParseSectionContainerID decodes a field drop zone id into a section index.
func ParseSectionContainerID(id string) (int, bool) {
	return parseIndex(id)
}

// ParsePaletteDraggableID decodes an id produced by PaletteDraggableID. Only
// known field types are accepted.
func ParsePaletteDraggableID(id string) (FieldType, bool) {
	rest, ok := strings.CutPrefix(id, palettePrefix)
	if !ok {
		return "", false
	}
	t := FieldType(rest)
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// parseIndex accepts plain non-negative decimal integers only.
func parseIndex(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
