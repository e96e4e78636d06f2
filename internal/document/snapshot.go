package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// SnapshotVersion is the version written by EncodeSnapshot.
const SnapshotVersion = 1

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the persisted form of a scene.
type Snapshot struct {
	Version  int       `json:"version"`
	Elements []Element `json:"elements"`
}

// EncodeSnapshot serializes elements in ascending z order.
func EncodeSnapshot(elements []Element) ([]byte, error) {
	sorted := make([]Element, len(elements))
	copy(sorted, elements)
	SortByZ(sorted)

	data, err := json.Marshal(Snapshot{Version: SnapshotVersion, Elements: sorted})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot. A bare JSON array of elements is also
// accepted. Empty input decodes to no elements.
func DecodeSnapshot(data []byte) ([]Element, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		var list []Element
		if errList := json.Unmarshal(data, &list); errList != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		return list, nil
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedSnapshot, snap.Version)
	}
	return snap.Elements, nil
}

// SortByZ orders elements by ascending zIndex, breaking ties by id.
func SortByZ(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].ZIndex != elements[j].ZIndex {
			return elements[i].ZIndex < elements[j].ZIndex
		}
		return elements[i].ID < elements[j].ID
	})
}
