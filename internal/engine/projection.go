package engine

import "github.com/inamate/artboard/internal/document"

// Projection reflects scene changes into a concrete UI. The editor calls it
// synchronously after each mutation, before the next event is handled.
// Implementations must not mutate the scene.
type Projection interface {
	// ElementChanged is the partial path: one element's geometry, style or
	// content changed.
	ElementChanged(el document.Element)
	// SceneRebuilt is the full path, used after creation, deletion and
	// reorder. Elements arrive in ascending z order.
	SceneRebuilt(elements []document.Element)
	SelectionChanged(id string)
	ToolChanged(tool Tool)
}

// NopProjection discards every notification.
type NopProjection struct{}

func (NopProjection) ElementChanged(document.Element) {}
func (NopProjection) SceneRebuilt([]document.Element) {}
func (NopProjection) SelectionChanged(string)         {}
func (NopProjection) ToolChanged(Tool)                {}

type EffectKind string

const (
	EffectElementChanged   EffectKind = "element.changed"
	EffectSceneRebuilt     EffectKind = "scene.rebuilt"
	EffectSelectionChanged EffectKind = "selection.changed"
	EffectToolChanged      EffectKind = "tool.changed"
)

// Effect is a projection notification captured as a value.
type Effect struct {
	Kind     EffectKind         `json:"kind"`
	Element  *document.Element  `json:"element,omitempty"`
	Elements []document.Element `json:"elements,omitzero"`
	Selected string             `json:"selected,omitempty"`
	Tool     Tool               `json:"tool,omitempty"`
}

// Recorder is a Projection that buffers effects until drained. Hosts that
// ship one message per input event use it.
type Recorder struct {
	effects []Effect
}

func (r *Recorder) ElementChanged(el document.Element) {
	r.effects = append(r.effects, Effect{Kind: EffectElementChanged, Element: &el})
}

func (r *Recorder) SceneRebuilt(elements []document.Element) {
	if elements == nil {
		elements = []document.Element{}
	}
	r.effects = append(r.effects, Effect{Kind: EffectSceneRebuilt, Elements: elements})
}

func (r *Recorder) SelectionChanged(id string) {
	r.effects = append(r.effects, Effect{Kind: EffectSelectionChanged, Selected: id})
}

func (r *Recorder) ToolChanged(tool Tool) {
	r.effects = append(r.effects, Effect{Kind: EffectToolChanged, Tool: tool})
}

// Drain returns the buffered effects and resets the buffer.
func (r *Recorder) Drain() []Effect {
	out := r.effects
	r.effects = nil
	return out
}

// Count returns how many effects of the given kind are buffered.
func (r *Recorder) Count(kind EffectKind) int {
	n := 0
	for _, e := range r.effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
