package engine

import (
	"encoding/json"

	"github.com/inamate/artboard/internal/document"
)

// DrawCommand represents a single drawing operation for a renderer to execute.
// Geometry is given in element-local space (origin at the element's top-left)
// together with the element's affine transform.
type DrawCommand struct {
	Op        string    `json:"op"`                 // "rect", "text" or "handle"
	ObjectID  string    `json:"objectId,omitempty"` // For hit correlation
	Transform []float64 `json:"transform,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
	Fill      string    `json:"fill,omitempty"`
	Color     string    `json:"color,omitempty"`
	Text      string    `json:"text,omitempty"`
	FontSize  float64   `json:"fontSize,omitempty"`
	Handle    Handle    `json:"handle,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Radius    float64   `json:"radius,omitempty"`
}

// CompileDrawCommands generates a draw command buffer in painter's order
// (ascending z). Handles are not included.
func CompileDrawCommands(elements []document.Element) []DrawCommand {
	sorted := make([]document.Element, len(elements))
	copy(sorted, elements)
	document.SortByZ(sorted)

	commands := make([]DrawCommand, 0, len(sorted))
	for _, el := range sorted {
		cmd := DrawCommand{
			ObjectID:  el.ID,
			Transform: ElementMatrix(el).ToSlice(),
			Width:     el.Width,
			Height:    el.Height,
		}
		switch el.Kind {
		case document.KindText:
			cmd.Op = "text"
			cmd.Text = el.Content
			cmd.FontSize = el.FontSize
			cmd.Color = el.TextColor
		default:
			cmd.Op = "rect"
			cmd.Fill = el.FillColor
		}
		commands = append(commands, cmd)
	}
	return commands
}

// Render compiles the scene and, when an element is selected, appends its
// handles in artboard coordinates.
func (e *Editor) Render() []DrawCommand {
	commands := CompileDrawCommands(e.scene.Elements())

	sel, ok := e.scene.Get(e.scene.Selected())
	if !ok {
		return commands
	}
	for _, h := range Handles {
		x, y := HandlePoint(sel, h, e.settings.RotateHandleOffset)
		commands = append(commands, DrawCommand{
			Op:       "handle",
			ObjectID: sel.ID,
			Handle:   h,
			X:        x,
			Y:        y,
			Radius:   e.settings.HandleRadius,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
