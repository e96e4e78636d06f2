package engine

import (
	"math"

	"github.com/inamate/artboard/internal/document"
)

// HandlePoint returns the artboard position of a handle on el. Corner handles
// sit on the element's corners; the rotate handle sits above the top edge at
// offset, all following the element's rotation.
func HandlePoint(el document.Element, h Handle, offset float64) (float64, float64) {
	var lx, ly float64
	switch h {
	case HandleNW:
		lx, ly = 0, 0
	case HandleNE:
		lx, ly = el.Width, 0
	case HandleSW:
		lx, ly = 0, el.Height
	case HandleSE:
		lx, ly = el.Width, el.Height
	case HandleRotate:
		lx, ly = el.Width/2, -offset
	}
	return ElementMatrix(el).TransformPoint(lx, ly)
}

// ContainsPoint reports whether the artboard point (x, y) lies inside the
// rotated element.
func ContainsPoint(el document.Element, x, y float64) bool {
	lx, ly := ElementMatrix(el).Invert().TransformPoint(x, y)
	return Rect{Width: el.Width, Height: el.Height}.Contains(lx, ly)
}

// HitTest resolves a screen position to a target: a handle of the selected
// element first, then the topmost element containing the point, otherwise
// the canvas.
func (e *Editor) HitTest(screenX, screenY float64) Target {
	x, y := screenX-e.originX, screenY-e.originY

	if sel, ok := e.scene.Get(e.scene.Selected()); ok {
		for _, h := range Handles {
			hx, hy := HandlePoint(sel, h, e.settings.RotateHandleOffset)
			if math.Hypot(x-hx, y-hy) <= e.settings.HandleRadius {
				return HandleTarget(h)
			}
		}
	}

	for _, el := range e.scene.Layers() {
		if ContainsPoint(el, x, y) {
			return ElementTarget(el.ID)
		}
	}
	return CanvasTarget()
}
