// Package typeid mints and checks the prefixed ids used for users, boards
// and elements.
package typeid

import (
	"errors"
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser    = "user"
	PrefixBoard   = "board"
	PrefixElement = "el"
)

var ErrInvalid = errors.New("invalid id")

func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

func NewUserID() string    { return New(PrefixUser) }
func NewBoardID() string   { return New(PrefixBoard) }
func NewElementID() string { return New(PrefixElement) }

// Validate reports whether id parses and carries prefix. Failures wrap
// ErrInvalid.
func Validate(id, prefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalid, id, err)
	}
	if got := parsed.Prefix(); got != prefix {
		return fmt.Errorf("%w %q: prefix %q, want %q", ErrInvalid, id, got, prefix)
	}
	return nil
}

// ValidateBoardID checks an id taken from a request path.
func ValidateBoardID(id string) error {
	return Validate(id, PrefixBoard)
}
