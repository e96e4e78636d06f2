package local

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inamate/artboard/internal/document"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	s, err := Open(fmt.Sprintf("artboard_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	return s
}

func TestLoadMissingBoard(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Load(context.Background(), "board_1")
	if err != nil || got != nil {
		t.Errorf("Load missing = %v, %v; want nil, nil", got, err)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	elements := []document.Element{
		{ID: "el_1", Kind: document.KindRectangle, X: 1, Y: 2, Width: 30, Height: 40, ZIndex: 1, FillColor: "#3b82f6"},
		{ID: "el_2", Kind: document.KindText, Width: 200, Height: 40, ZIndex: 2, Content: "Text", FontSize: 16, TextColor: "#111827"},
	}
	if err := s.Save(ctx, "board_1", elements); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "board_1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != elements[0] || got[1] != elements[1] {
		t.Errorf("Load = %+v, want %+v", got, elements)
	}

	if err := s.Save(ctx, "board_1", elements[:1]); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = s.Load(ctx, "board_1")
	if err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Load after overwrite returned %d elements, want 1", len(got))
	}
}
