package view

import (
	"fmt"
	"strings"
)

// Mode selects what pointer drags define.
type Mode int

const (
	ModeNone Mode = iota
	ModeROI
	ModeZoom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeROI:
		return "roi"
	case ModeZoom:
		return "zoom"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "none", "roi" or "zoom"; the empty string means none.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "roi":
		return ModeROI, nil
	case "zoom":
		return ModeZoom, nil
	}
	return ModeNone, fmt.Errorf("unknown selection mode %q", s)
}

// PointerKind is the phase of a pointer gesture.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

func (k PointerKind) String() string {
	switch k {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	}
	return fmt.Sprintf("pointer(%d)", int(k))
}

// ParsePointerKind accepts "press", "move" or "release".
func ParsePointerKind(s string) (PointerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press":
		return PointerPress, nil
	case "move":
		return PointerMove, nil
	case "release":
		return PointerRelease, nil
	}
	return 0, fmt.Errorf("unknown pointer kind %q", s)
}
