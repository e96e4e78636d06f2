package engine

import (
	"strings"

	"github.com/inamate/artboard/internal/document"
)

type Mode string

const (
	ModeNone     Mode = ""
	ModeDragging Mode = "dragging"
	ModeResizing Mode = "resizing"
	ModeRotating Mode = "rotating"
)

type Handle string

const (
	HandleNone   Handle = ""
	HandleNW     Handle = "nw"
	HandleNE     Handle = "ne"
	HandleSW     Handle = "sw"
	HandleSE     Handle = "se"
	HandleRotate Handle = "rotate"
)

// Handles lists every handle drawn around a selected element.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleRotate}

func (h Handle) Valid() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE, HandleRotate:
		return true
	}
	return false
}

// resizeSigns returns the width and height multipliers applied to the local
// pointer delta for a corner handle.
func (h Handle) resizeSigns() (sx, sy float64) {
	if h == HandleRotate {
		return 0, 0
	}
	s := string(h)
	switch {
	case strings.Contains(s, "e"):
		sx = 1
	case strings.Contains(s, "w"):
		sx = -1
	}
	switch {
	case strings.Contains(s, "s"):
		sy = 1
	case strings.Contains(s, "n"):
		sy = -1
	}
	return sx, sy
}

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolText      Tool = "text"
)

func (t Tool) Valid() bool {
	return t == ToolSelect || t == ToolRectangle || t == ToolText
}

// Session is the transient state of an in-progress pointer gesture. Every
// move is computed from the origin and snapshot, never from the previous
// move.
type Session struct {
	Mode     Mode
	Handle   Handle
	OriginX  float64
	OriginY  float64
	TargetID string
	Snapshot document.Element
}

func (s Session) Active() bool {
	return s.Mode != ModeNone
}
