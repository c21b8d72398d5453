package view

import "errors"

var (
	// ErrInvalidSelectionMode is returned for pointer events while no
	// selection mode is active.
	ErrInvalidSelectionMode = errors.New("no selection mode active")

	// ErrNoFrame is returned when an operation needs a frame and none has
	// been captured yet.
	ErrNoFrame = errors.New("no frame available")

	// ErrNoDisplay is returned when a pointer event carries no usable display size.
	ErrNoDisplay = errors.New("display size unknown")
)
