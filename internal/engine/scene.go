package engine

import (
	"log/slog"
	"math"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/typeid"
)

// Scene is the authoritative set of elements plus the single selection.
// zIndex values form the permutation 1..N after every create, delete and
// reorder.
type Scene struct {
	elements map[string]*document.Element
	selected string

	settings config.Settings
	newID    func() string
}

// NewScene creates an empty scene.
func NewScene(settings config.Settings) *Scene {
	return &Scene{
		elements: make(map[string]*document.Element),
		settings: settings,
		newID:    typeid.NewElementID,
	}
}

// Len returns the number of elements.
func (s *Scene) Len() int {
	return len(s.elements)
}

// Get returns a copy of the element with the given id.
func (s *Scene) Get(id string) (document.Element, bool) {
	el, ok := s.elements[id]
	if !ok {
		return document.Element{}, false
	}
	return *el, true
}

// Selected returns the selected element id, or "" when nothing is selected.
func (s *Scene) Selected() string {
	return s.selected
}

// Elements returns copies of all elements in ascending z order (paint order).
func (s *Scene) Elements() []document.Element {
	out := make([]document.Element, 0, len(s.elements))
	for _, el := range s.elements {
		out = append(out, *el)
	}
	document.SortByZ(out)
	return out
}

// Layers returns the elements top-first, as a layer panel lists them.
func (s *Scene) Layers() []document.Element {
	out := s.Elements()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CreateElement adds an element of the given kind at (x, y) with the kind's
// defaults, puts it on top and selects it.
func (s *Scene) CreateElement(kind document.Kind, x, y float64) document.Element {
	el := &document.Element{
		ID:     s.newID(),
		Kind:   kind,
		X:      x,
		Y:      y,
		ZIndex: len(s.elements) + 1,
	}

	switch kind {
	case document.KindText:
		el.Width = s.settings.Text.Width
		el.Height = s.settings.Text.Height
		el.Content = s.settings.Text.Content
		el.FontSize = s.settings.Text.FontSize
		el.TextColor = s.settings.Text.TextColor
	default:
		el.Kind = document.KindRectangle
		el.Width = s.settings.Rectangle.Width
		el.Height = s.settings.Rectangle.Height
		el.FillColor = s.settings.Rectangle.FillColor
	}
	el.Width = s.clampSize(el.Width)
	el.Height = s.clampSize(el.Height)

	s.elements[el.ID] = el
	s.selected = el.ID
	return *el
}

// UpdateElement merges p into the element. Width and height are clamped to
// the minimum size and rotation is wrapped into [0, 360). Non-finite numbers
// are ignored. Returns false if the id is unknown.
func (s *Scene) UpdateElement(id string, p document.Patch) (document.Element, bool) {
	el, ok := s.elements[id]
	if !ok {
		return document.Element{}, false
	}

	if p.X != nil && finite(*p.X) {
		el.X = *p.X
	}
	if p.Y != nil && finite(*p.Y) {
		el.Y = *p.Y
	}
	if p.Width != nil && finite(*p.Width) {
		el.Width = s.clampSize(*p.Width)
	}
	if p.Height != nil && finite(*p.Height) {
		el.Height = s.clampSize(*p.Height)
	}
	if p.Rotation != nil && finite(*p.Rotation) {
		el.Rotation = NormalizeDegrees(*p.Rotation)
	}

	switch el.Kind {
	case document.KindRectangle:
		if p.Rect != nil && p.Rect.FillColor != nil {
			el.FillColor = *p.Rect.FillColor
		}
	case document.KindText:
		if p.Text != nil {
			if p.Text.Content != nil {
				el.Content = *p.Text.Content
			}
			if p.Text.FontSize != nil && finite(*p.Text.FontSize) {
				el.FontSize = math.Max(1, *p.Text.FontSize)
			}
			if p.Text.TextColor != nil {
				el.TextColor = *p.Text.TextColor
			}
		}
	}

	return *el, true
}

// DeleteElement removes the element and clears the selection if it pointed
// at it. The remaining elements are renumbered so zIndex stays dense.
func (s *Scene) DeleteElement(id string) bool {
	if _, ok := s.elements[id]; !ok {
		return false
	}
	delete(s.elements, id)
	if s.selected == id {
		s.selected = ""
	}
	s.renumber(s.sortedPointers())
	return true
}

// SelectElement sets the selection; "" clears it. Unknown ids are ignored.
// Returns true only when the selection actually changed.
func (s *Scene) SelectElement(id string) bool {
	if id == s.selected {
		return false
	}
	if id != "" {
		if _, ok := s.elements[id]; !ok {
			return false
		}
	}
	s.selected = id
	return true
}

// Reorder moves the element one step up (+1) or down (-1) in z order and
// renumbers every element to 1..N. Returns false when the element is unknown
// or already at the end it is moving towards.
func (s *Scene) Reorder(id string, direction int) bool {
	if _, ok := s.elements[id]; !ok || direction == 0 {
		return false
	}

	sorted := s.sortedPointers()
	idx := -1
	for i, el := range sorted {
		if el.ID == id {
			idx = i
			break
		}
	}

	target := idx + 1
	if direction < 0 {
		target = idx - 1
	}

	moved := target >= 0 && target < len(sorted)
	if moved {
		sorted[idx], sorted[target] = sorted[target], sorted[idx]
	}
	s.renumber(sorted)
	return moved
}

// Restore replaces the scene contents with previously persisted elements.
// Entries without an id, with a duplicate id or with an unknown kind are
// dropped; sizes and rotation are normalized and z order is re-densified
// following the stored order. The selection is cleared.
func (s *Scene) Restore(elements []document.Element, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	s.elements = make(map[string]*document.Element, len(elements))
	s.selected = ""

	for _, in := range elements {
		if in.ID == "" || !in.Kind.Valid() {
			logger.Warn("drop invalid element", "id", in.ID, "kind", in.Kind)
			continue
		}
		if _, dup := s.elements[in.ID]; dup {
			logger.Warn("drop duplicate element", "id", in.ID)
			continue
		}

		el := in
		if !finite(el.X) {
			el.X = 0
		}
		if !finite(el.Y) {
			el.Y = 0
		}
		el.Width = s.clampSize(el.Width)
		el.Height = s.clampSize(el.Height)
		if finite(el.Rotation) {
			el.Rotation = NormalizeDegrees(el.Rotation)
		} else {
			el.Rotation = 0
		}
		if el.Kind == document.KindText && (!finite(el.FontSize) || el.FontSize < 1) {
			el.FontSize = s.settings.Text.FontSize
		}
		s.elements[el.ID] = &el
	}

	s.renumber(s.sortedPointers())
}

func (s *Scene) clampSize(v float64) float64 {
	if !finite(v) || v < s.settings.MinSize {
		return s.settings.MinSize
	}
	return v
}

func (s *Scene) sortedPointers() []*document.Element {
	list := s.Elements()
	out := make([]*document.Element, len(list))
	for i, el := range list {
		out[i] = s.elements[el.ID]
	}
	return out
}

func (s *Scene) renumber(sorted []*document.Element) {
	for i, el := range sorted {
		el.ZIndex = i + 1
	}
}
