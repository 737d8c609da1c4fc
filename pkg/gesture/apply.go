package gesture

import (
	"fmt"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Apply runs the document transform matching g. The destination index must
// address a slot in [0, len] of the destination list (measured after removal
// for moves); anything else yields metaform.ErrOutOfRange. Every error leaves
// doc unchanged and the returned document equal to it.
func Apply(doc metaform.Document, g Gesture) (metaform.Document, error) {
	switch g := g.(type) {
	case MoveSection:
		return metaform.MoveSection(doc, g.From, g.To)
	case MoveField:
		return metaform.MoveField(doc, g.FromSection, g.FromField, g.ToSection, g.ToField)
	case AddField:
		section, ok := doc.Section(g.Section)
		if !ok {
			return doc, fmt.Errorf("%w: section %d", metaform.ErrOutOfRange, g.Section)
		}
		if g.Index < 0 || g.Index > len(section.Fields) {
			return doc, fmt.Errorf("%w: field position %d (max %d)", metaform.ErrOutOfRange, g.Index, len(section.Fields))
		}
		return metaform.InsertField(doc, g.Section, g.Index, g.Type)
	case Invalid:
		return doc, fmt.Errorf("%w: %s", ErrUnclassified, g.Reason)
	case nil:
		return doc, fmt.Errorf("%w: nil gesture", ErrUnclassified)
	default:
		return doc, fmt.Errorf("%w: unsupported gesture %T", ErrUnclassified, g)
	}
}

// ApplyEvent classifies ev and applies it.
func ApplyEvent(doc metaform.Document, ev DropEvent) (metaform.Document, Gesture, error) {
	g := Classify(ev)
	next, err := Apply(doc, g)
	return next, g, err
}
