package gesture

import (
	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Classify parses ev into a Gesture. It never fails; unrecognised events
// become Invalid with a short reason.
func Classify(ev DropEvent) Gesture {
	if ev.DestinationID == "" {
		return Invalid{Reason: "no destination"}
	}
	if ev.DestinationIndex < 0 {
		return Invalid{Reason: "negative destination index"}
	}

	if metaform.IsSectionDraggableID(ev.DraggableID) && ev.DestinationID == metaform.SectionsContainerID {
		from, ok := metaform.ParseSectionDraggableID(ev.DraggableID)
		if !ok {
			return Invalid{Reason: "malformed section id " + ev.DraggableID}
		}
		return MoveSection{From: from, To: ev.DestinationIndex}
	}

	toSection, toSectionOK := metaform.ParseSectionContainerID(ev.DestinationID)

	if metaform.IsFieldDraggableID(ev.DraggableID) && toSectionOK {
		fromSection, fromField, ok := metaform.ParseFieldDraggableID(ev.DraggableID)
		if !ok {
			return Invalid{Reason: "malformed field id " + ev.DraggableID}
		}
		return MoveField{
			FromSection: fromSection,
			FromField:   fromField,
			ToSection:   toSection,
			ToField:     ev.DestinationIndex,
		}
	}

	if ev.SourceID == metaform.PaletteContainerID && toSectionOK {
		typ := ev.FieldType
		if typ == "" {
			typ, _ = metaform.ParsePaletteDraggableID(ev.DraggableID)
		}
		if !typ.Valid() {
			return Invalid{Reason: "unknown field type " + string(typ)}
		}
		return AddField{Section: toSection, Index: ev.DestinationIndex, Type: typ}
	}

	return Invalid{Reason: "unrecognised drop " + ev.DraggableID + " -> " + ev.DestinationID}
}
