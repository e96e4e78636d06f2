// Package export renders a board's elements to static formats. Every encoder
// is a pure function of the board and its elements.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/inamate/artboard/internal/document"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatHTML, FormatPNG:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// JSON returns the elements as a versioned snapshot, the same bytes the
// stores persist.
func JSON(elements []document.Element) ([]byte, error) {
	data, err := document.EncodeSnapshot(elements)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// Write encodes board and elements in format f to w.
func Write(w io.Writer, f Format, board document.Board, elements []document.Element) error {
	switch f {
	case FormatJSON:
		data, err := JSON(elements)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatHTML:
		return HTML(w, board, elements)
	case FormatPNG:
		return PNG(w, board, elements)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
