// Package metaform defines the Metaform document model edited by the admin
// tooling: an ordered list of sections, each holding an ordered list of fields.
// Order is meaningful in both sequences; rendering order equals document order.
//
// Every transform in this package is a pure function. A transform returns a new
// Document that shares untouched sections and fields with its input but never
// writes through to the caller's copy, so readers holding an older Document
// keep seeing the older content. Transforms addressing a section or field that
// does not exist return the input unchanged together with an error wrapping
// ErrOutOfRange; callers driving a UI are free to drop that error.
//
// Draggable identifiers (see ids.go) are derived from positions and never
// persisted. They double as rendering keys and as the vocabulary the gesture
// package decodes drop events from.
package metaform
