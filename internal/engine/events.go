package engine

import (
	"errors"
	"fmt"

	"github.com/inamate/artboard/internal/document"
)

var ErrUnknownEvent = errors.New("unknown event type")

type TargetKind string

const (
	// TargetAuto asks the editor to hit-test the pointer position.
	TargetAuto    TargetKind = "auto"
	TargetCanvas  TargetKind = "canvas"
	TargetElement TargetKind = "element"
	TargetHandle  TargetKind = "handle"
)

// Target is what a pointer press landed on. Handle targets always refer to
// the selected element.
type Target struct {
	Kind      TargetKind `json:"kind"`
	ElementID string     `json:"elementId,omitempty"`
	Handle    Handle     `json:"handle,omitempty"`
}

func CanvasTarget() Target           { return Target{Kind: TargetCanvas} }
func ElementTarget(id string) Target { return Target{Kind: TargetElement, ElementID: id} }
func HandleTarget(h Handle) Target   { return Target{Kind: TargetHandle, Handle: h} }
func AutoTarget() Target             { return Target{Kind: TargetAuto} }

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) delta(step float64) (float64, float64, bool) {
	switch d {
	case DirectionUp:
		return 0, -step, true
	case DirectionDown:
		return 0, step, true
	case DirectionLeft:
		return -step, 0, true
	case DirectionRight:
		return step, 0, true
	}
	return 0, 0, false
}

type EventType string

const (
	EventPointerDown    EventType = "pointerDown"
	EventPointerMove    EventType = "pointerMove"
	EventPointerUp      EventType = "pointerUp"
	EventKeyDelete      EventType = "keyDelete"
	EventKeyArrow       EventType = "keyArrow"
	EventSetTool        EventType = "setTool"
	EventEditProperties EventType = "editProperties"
	EventMoveUp         EventType = "moveUp"
	EventMoveDown       EventType = "moveDown"
	EventDelete         EventType = "delete"
	EventSelect         EventType = "select"
	EventSetViewport    EventType = "setViewport"
)

// Event is the wire form of every input the editor accepts.
type Event struct {
	Type      EventType       `json:"type"`
	X         float64         `json:"x,omitempty"`
	Y         float64         `json:"y,omitempty"`
	Target    Target          `json:"target"`
	Direction Direction       `json:"direction,omitempty"`
	Step      float64         `json:"step,omitempty"`
	Tool      Tool            `json:"tool,omitempty"`
	ElementID string          `json:"elementId,omitempty"`
	Patch     *document.Patch `json:"patch,omitempty"`
}

// Apply dispatches ev to the matching editor operation.
func (e *Editor) Apply(ev Event) error {
	switch ev.Type {
	case EventPointerDown:
		e.PointerDown(ev.X, ev.Y, ev.Target)
	case EventPointerMove:
		e.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		e.PointerUp()
	case EventKeyDelete:
		e.KeyDelete()
	case EventKeyArrow:
		e.KeyArrow(ev.Direction, ev.Step)
	case EventSetTool:
		e.SetTool(ev.Tool)
	case EventEditProperties:
		if ev.Patch != nil {
			e.EditProperties(ev.ElementID, *ev.Patch)
		}
	case EventMoveUp:
		e.MoveUp(ev.ElementID)
	case EventMoveDown:
		e.MoveDown(ev.ElementID)
	case EventDelete:
		e.DeleteElement(ev.ElementID)
	case EventSelect:
		e.SelectElement(ev.ElementID)
	case EventSetViewport:
		e.SetViewport(ev.X, ev.Y)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}
