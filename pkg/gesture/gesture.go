// Package gesture turns raw drag-and-drop events into typed edit intents and
// applies them to a Metaform document.
//
// A drop event is parsed once into a Gesture variant. Classification checks
// run in a fixed order (move section, move field, add field) and the first
// match wins; since section and field draggable ids use disjoint prefixes the
// variants never overlap. Anything else becomes Invalid, which Apply treats
// as a no-op.
package gesture

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// ErrUnclassified is returned by Apply for Invalid gestures.
var ErrUnclassified = errors.New("gesture: unclassified drop event")

// DropEvent is the payload a drag library reports when a drag ends.
// DestinationID is empty when the item was dropped outside every zone.
// FieldType carries the palette selection for drops originating from the
// palette; when empty it is decoded from DraggableID.
type DropEvent struct {
	DraggableID      string             `json:"draggableId"`
	SourceID         string             `json:"sourceId"`
	DestinationID    string             `json:"destinationId,omitempty"`
	DestinationIndex int                `json:"destinationIndex"`
	FieldType        metaform.FieldType `json:"fieldType,omitempty"`
}

// Kind tags a Gesture variant.
type Kind string

const (
	KindMoveSection Kind = "move-section"
	KindMoveField   Kind = "move-field"
	KindAddField    Kind = "add-field"
	KindInvalid     Kind = "invalid"
)

// Gesture is a classified drop. The set of implementations is closed.
type Gesture interface {
	Kind() Kind
	gesture()
}

// MoveSection relocates one section. To indexes the list after removal.
type MoveSection struct {
	From int
	To   int
}

// MoveField relocates one field, possibly into another section. ToField
// indexes the destination list after removal.
type MoveField struct {
	FromSection int
	FromField   int
	ToSection   int
	ToField     int
}

// AddField inserts a default field of Type into Section at Index.
type AddField struct {
	Section int
	Index   int
	Type    metaform.FieldType
}

// Invalid is a drop matching no known pattern.
type Invalid struct {
	Reason string
}

func (MoveSection) Kind() Kind { return KindMoveSection }
func (MoveField) Kind() Kind   { return KindMoveField }
func (AddField) Kind() Kind    { return KindAddField }
func (Invalid) Kind() Kind     { return KindInvalid }

func (MoveSection) gesture() {}
func (MoveField) gesture()   {}
func (AddField) gesture()    {}
func (Invalid) gesture()     {}

func (g MoveSection) String() string {
	return fmt.Sprintf("move-section %d->%d", g.From, g.To)
}

func (g MoveField) String() string {
	return fmt.Sprintf("move-field (%d,%d)->(%d,%d)", g.FromSection, g.FromField, g.ToSection, g.ToField)
}

func (g AddField) String() string {
	return fmt.Sprintf("add-field %s at (%d,%d)", g.Type, g.Section, g.Index)
}

func (g Invalid) String() string {
	return "invalid: " + g.Reason
}
