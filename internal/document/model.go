package document

import "time"

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindText      Kind = "text"
)

// Valid reports whether k is a known element kind.
func (k Kind) Valid() bool {
	return k == KindRectangle || k == KindText
}

// Element is one visual object on the artboard. Variant fields are only
// meaningful for their kind: FillColor for rectangles, Content, FontSize and
// TextColor for text.
type Element struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"zIndex"`

	FillColor string  `json:"fillColor,omitempty"`
	Content   string  `json:"content,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	TextColor string  `json:"textColor,omitempty"`
}

// Center returns the element's center in artboard coordinates.
func (e Element) Center() (float64, float64) {
	return e.X + e.Width/2, e.Y + e.Height/2
}

// Patch is a partial update. Nil fields are left untouched. Rect and Text
// carry the kind-specific fields and are ignored when they do not match the
// kind of the element being patched.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Rect *RectPatch `json:"rect,omitempty"`
	Text *TextPatch `json:"text,omitempty"`
}

type RectPatch struct {
	FillColor *string `json:"fillColor,omitempty"`
}

type TextPatch struct {
	Content   *string  `json:"content,omitempty"`
	FontSize  *float64 `json:"fontSize,omitempty"`
	TextColor *string  `json:"textColor,omitempty"`
}

// Move returns a patch setting the position.
func Move(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize returns a patch setting the size.
func Resize(width, height float64) Patch {
	return Patch{Width: &width, Height: &height}
}

// Rotate returns a patch setting the rotation.
func Rotate(degrees float64) Patch {
	return Patch{Rotation: &degrees}
}

// Board is the persisted artboard a set of elements belongs to.
type Board struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Name       string    `json:"name"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Background string    `json:"background"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
