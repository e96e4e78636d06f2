package engine

import (
	"context"
	"log/slog"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
)

// Checkpointer receives the full element list after every scene mutation and
// on gesture release. It must not block.
type Checkpointer interface {
	Checkpoint(elements []document.Element)
}

// Loader supplies the persisted elements of a board. A nil slice with a nil
// error means nothing was saved yet.
type Loader interface {
	Load(ctx context.Context, boardID string) ([]document.Element, error)
}

type Option func(*Editor)

func WithProjection(p Projection) Option {
	return func(e *Editor) { e.projection = p }
}

func WithCheckpointer(c Checkpointer) Option {
	return func(e *Editor) { e.checkpointer = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// Editor is the interaction state machine. It owns the scene and the
// in-progress gesture and turns input events into scene mutations.
// It is not safe for concurrent use; all events must come from one goroutine.
type Editor struct {
	scene    *Scene
	session  Session
	tool     Tool
	settings config.Settings

	// Screen position of the artboard's top-left corner.
	originX float64
	originY float64

	projection   Projection
	checkpointer Checkpointer
	logger       *slog.Logger
}

// NewEditor creates an editor with an empty scene and the select tool.
func NewEditor(settings config.Settings, opts ...Option) *Editor {
	e := &Editor{
		scene:    NewScene(settings),
		tool:     ToolSelect,
		settings: settings,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.projection == nil {
		e.projection = NopProjection{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// --- Commands ---

// Load replaces the scene with the board's persisted elements. Load errors
// and malformed data leave an empty scene; they are logged, never returned.
func (e *Editor) Load(ctx context.Context, loader Loader, boardID string) {
	elements, err := loader.Load(ctx, boardID)
	if err != nil {
		e.logger.Warn("load board, starting empty", "board", boardID, "error", err)
		elements = nil
	}

	e.session = Session{}
	e.scene.Restore(elements, e.logger)
	e.projection.SceneRebuilt(e.scene.Elements())
	e.projection.SelectionChanged("")
}

// SetViewport records where the artboard's top-left corner sits in screen
// coordinates.
func (e *Editor) SetViewport(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	e.originX, e.originY = x, y
}

func (e *Editor) SetTool(tool Tool) {
	if !tool.Valid() || tool == e.tool {
		return
	}
	e.tool = tool
	e.projection.ToolChanged(tool)
}

// PointerDown starts a gesture. A target of kind auto (or with no kind) is
// resolved by hit testing.
func (e *Editor) PointerDown(x, y float64, target Target) {
	e.session = Session{}

	if target.Kind == "" || target.Kind == TargetAuto {
		target = e.HitTest(x, y)
	}

	switch target.Kind {
	case TargetHandle:
		el, ok := e.scene.Get(e.scene.Selected())
		if !ok || !target.Handle.Valid() {
			return
		}
		mode := ModeResizing
		if target.Handle == HandleRotate {
			mode = ModeRotating
		}
		e.begin(mode, target.Handle, x, y, el)

	case TargetElement:
		el, ok := e.scene.Get(target.ElementID)
		if !ok {
			return
		}
		e.SelectElement(el.ID)
		e.begin(ModeDragging, HandleNone, x, y, el)

	default:
		if e.tool == ToolSelect {
			e.SelectElement("")
			return
		}
		e.create(x, y)
	}
}

// PointerMove updates the active gesture. Without one it does nothing.
func (e *Editor) PointerMove(x, y float64) {
	if !e.session.Active() {
		return
	}

	snap := e.session.Snapshot
	dx := x - e.session.OriginX
	dy := y - e.session.OriginY

	var patch document.Patch
	switch e.session.Mode {
	case ModeDragging:
		patch = document.Move(snap.X+dx, snap.Y+dy)

	case ModeResizing:
		// Deltas are read in the element's unrotated frame. The top-left is
		// not re-anchored, so rotated elements drift while resizing.
		ldx, ldy := RotateVector(dx, dy, -snap.Rotation)
		sx, sy := e.session.Handle.resizeSigns()
		patch = document.Resize(snap.Width+sx*ldx, snap.Height+sy*ldy)

	case ModeRotating:
		cx, cy := snap.Center()
		patch = document.Rotate(AngleOfPoint(cx+e.originX, cy+e.originY, x, y))
	}

	e.update(e.session.TargetID, patch)
}

// PointerUp ends the active gesture and checkpoints the scene.
func (e *Editor) PointerUp() {
	if !e.session.Active() {
		return
	}
	e.session = Session{}
	e.checkpoint()
}

// KeyDelete removes the selected element.
func (e *Editor) KeyDelete() {
	if id := e.scene.Selected(); id != "" {
		e.DeleteElement(id)
	}
}

// KeyArrow nudges the selected element by step pixels. A non-positive step
// uses the configured nudge step.
func (e *Editor) KeyArrow(dir Direction, step float64) {
	el, ok := e.scene.Get(e.scene.Selected())
	if !ok {
		return
	}
	if !finite(step) || step <= 0 {
		step = e.settings.NudgeStep
	}
	dx, dy, ok := dir.delta(step)
	if !ok {
		return
	}
	e.update(el.ID, document.Move(el.X+dx, el.Y+dy))
}

// EditProperties applies a property panel edit to an element.
func (e *Editor) EditProperties(id string, p document.Patch) {
	e.update(id, p)
}

// MoveUp raises the element one step in z order.
func (e *Editor) MoveUp(id string) {
	e.reorder(id, 1)
}

// MoveDown lowers the element one step in z order.
func (e *Editor) MoveDown(id string) {
	e.reorder(id, -1)
}

func (e *Editor) DeleteElement(id string) {
	wasSelected := e.scene.Selected() == id
	if !e.scene.DeleteElement(id) {
		return
	}
	if e.session.TargetID == id {
		e.session = Session{}
	}
	if wasSelected {
		e.projection.SelectionChanged("")
	}
	e.projection.SceneRebuilt(e.scene.Elements())
	e.checkpoint()
}

// SelectElement selects id, or clears the selection for "". Selecting the
// current selection again does not notify.
func (e *Editor) SelectElement(id string) {
	if e.scene.SelectElement(id) {
		e.projection.SelectionChanged(e.scene.Selected())
	}
}

// --- Queries ---

// Scene exposes the scene for reading. Callers must mutate it only through
// the editor.
func (e *Editor) Scene() *Scene {
	return e.scene
}

func (e *Editor) Tool() Tool {
	return e.tool
}

func (e *Editor) Mode() Mode {
	return e.session.Mode
}

func (e *Editor) ActiveHandle() Handle {
	return e.session.Handle
}

func (e *Editor) Settings() config.Settings {
	return e.settings
}

// SelectionBounds returns the axis-aligned bounds of the selected element.
func (e *Editor) SelectionBounds() (Rect, bool) {
	el, ok := e.scene.Get(e.scene.Selected())
	if !ok {
		return Rect{}, false
	}
	return ElementBounds(el), true
}

// --- internals ---

func (e *Editor) begin(mode Mode, h Handle, x, y float64, el document.Element) {
	e.session = Session{
		Mode:     mode,
		Handle:   h,
		OriginX:  x,
		OriginY:  y,
		TargetID: el.ID,
		Snapshot: el,
	}
}

func (e *Editor) create(screenX, screenY float64) {
	x := screenX - e.originX
	y := screenY - e.originY

	kind := document.KindText
	if e.tool == ToolRectangle {
		kind = document.KindRectangle
		x -= max(e.settings.Rectangle.Width, e.settings.MinSize) / 2
		y -= max(e.settings.Rectangle.Height, e.settings.MinSize) / 2
	}

	el := e.scene.CreateElement(kind, x, y)
	e.logger.Debug("element created", "id", el.ID, "kind", el.Kind)

	e.projection.SceneRebuilt(e.scene.Elements())
	e.projection.SelectionChanged(el.ID)
	e.tool = ToolSelect
	e.projection.ToolChanged(ToolSelect)
	e.checkpoint()
}

func (e *Editor) update(id string, p document.Patch) {
	el, ok := e.scene.UpdateElement(id, p)
	if !ok {
		return
	}
	e.projection.ElementChanged(el)
	e.checkpoint()
}

func (e *Editor) reorder(id string, direction int) {
	if !e.scene.Reorder(id, direction) {
		return
	}
	e.projection.SceneRebuilt(e.scene.Elements())
	e.checkpoint()
}

func (e *Editor) checkpoint() {
	if e.checkpointer == nil {
		return
	}
	e.checkpointer.Checkpoint(e.scene.Elements())
}
