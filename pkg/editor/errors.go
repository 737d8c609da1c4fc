package editor

import "errors"

var (
	// ErrNotLoaded is returned by edits issued before Load.
	ErrNotLoaded = errors.New("editor: no document loaded")
	// ErrNoSelection is returned by property edits that need a selected
	// section or field.
	ErrNoSelection = errors.New("editor: nothing selected")
)
