package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
)

const maxRasterSide = 8192

var ErrRasterTooLarge = errors.New("artboard too large to rasterize")

var (
	defaultFill = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	defaultInk  = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
)

// PNG rasterizes the artboard. Shapes are filled with their full transform;
// text uses a fixed bitmap face anchored at the element's rotated top-left
// and is clipped to the artboard, not to the element box.
func PNG(w io.Writer, board document.Board, elements []document.Element) error {
	img, err := Rasterize(board, elements)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize paints the elements in ascending z over the board background.
func Rasterize(board document.Board, elements []document.Element) (*image.RGBA, error) {
	width := int(math.Ceil(board.Width))
	height := int(math.Ceil(board.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rasterize: invalid size %vx%v", board.Width, board.Height)
	}
	if width > maxRasterSide || height > maxRasterSide {
		return nil, fmt.Errorf("rasterize %dx%d: %w", width, height, ErrRasterTooLarge)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := colorOr(board.Background, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, cmd := range engine.CompileDrawCommands(elements) {
		m := matrixOf(cmd.Transform)
		switch cmd.Op {
		case "rect":
			fillQuad(img, m, cmd.Width, cmd.Height, colorOr(cmd.Fill, defaultFill))
		case "text":
			drawText(img, m, cmd.Text, colorOr(cmd.Color, defaultInk))
		}
	}
	return img, nil
}

func matrixOf(s []float64) engine.Matrix2D {
	m := engine.Identity()
	if len(s) == len(m) {
		copy(m[:], s)
	}
	return m
}

func fillQuad(dst *image.RGBA, m engine.Matrix2D, w, h float64, c color.NRGBA) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())

	corners := [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
	for i, p := range corners {
		x, y := m.TransformPoint(p[0], p[1])
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
			continue
		}
		z.LineTo(float32(x), float32(y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func drawText(dst *image.RGBA, m engine.Matrix2D, text string, c color.NRGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	x, y := m.TransformPoint(0, 0)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))+face.Ascent),
	}
	d.DrawString(text)
}
