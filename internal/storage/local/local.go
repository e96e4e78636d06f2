// Package local stores board snapshots with gdata, so the same code works on
// desktop builds and in the browser.
package local

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"

	"github.com/inamate/artboard/internal/document"
)

const boardsObject = "boards"

// Store keeps snapshots in the platform's app data area: a data directory on
// desktop, localStorage in the browser.
type Store struct {
	manager *gdata.Manager
}

func Open(appName string) (*Store, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	return &Store{manager: manager}, nil
}

func (s *Store) Save(_ context.Context, boardID string, elements []document.Element) error {
	data, err := document.EncodeSnapshot(elements)
	if err != nil {
		return err
	}
	if err := s.manager.SaveObjectProp(boardsObject, boardID, data); err != nil {
		return fmt.Errorf("save board %s: %w", boardID, err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, boardID string) ([]document.Element, error) {
	if !s.manager.ObjectPropExists(boardsObject, boardID) {
		return nil, nil
	}
	data, err := s.manager.LoadObjectProp(boardsObject, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	elements, err := document.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode board %s: %w", boardID, err)
	}
	return elements, nil
}

func (s *Store) Close() error {
	return nil
}
