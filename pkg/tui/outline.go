package tui

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Outline renders doc as an indented tree. The selected item is prefixed
// with ">".
func Outline(doc metaform.Document, sel metaform.Coordinate, dirty bool) string {
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(title)
	if dirty {
		b.WriteString(" *")
	}
	b.WriteByte('\n')
	if len(doc.Sections) == 0 {
		b.WriteString("  (no sections)\n")
	}

	selSection, hasSection := sel.Section()
	selField, hasField := sel.Field()
	for s, section := range doc.Sections {
		marker := " "
		if hasSection && !hasField && selSection == s {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, sectionLabel(s, section))
		for f, field := range section.Fields {
			marker = " "
			if hasField && selSection == s && selField == f {
				marker = ">"
			}
			fmt.Fprintf(&b, "%s   %s\n", marker, fieldLabel(s, f, field))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sectionLabel(s int, section metaform.Section) string {
	title := section.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("[%d] %s", s, title)
}

func fieldLabel(s, f int, field metaform.Field) string {
	title := field.Title
	if title == "" {
		title = field.Name
	}
	flags := string(field.Type)
	if field.Required {
		flags += ", required"
	}
	return fmt.Sprintf("[%d.%d] %s (%s)", s, f, title, flags)
}
