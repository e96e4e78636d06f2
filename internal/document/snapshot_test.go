package document

import (
	"errors"
	"testing"
)

func sampleElements() []Element {
	return []Element{
		{ID: "el_b", Kind: KindText, X: 10, Y: 20, Width: 200, Height: 40, ZIndex: 2, Content: "Hello", FontSize: 16, TextColor: "#111827"},
		{ID: "el_a", Kind: KindRectangle, X: -5, Y: 900, Width: 150, Height: 100, Rotation: 45, ZIndex: 1, FillColor: "#3b82f6"},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := sampleElements()
	data, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	out, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d elements, want %d", len(out), len(in))
	}

	byID := make(map[string]Element)
	for _, el := range out {
		byID[el.ID] = el
	}
	for _, want := range in {
		if got := byID[want.ID]; got != want {
			t.Errorf("element %s: got %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestEncodeSnapshotOrdersByZ(t *testing.T) {
	data, err := EncodeSnapshot(sampleElements())
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	out, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if out[0].ID != "el_a" || out[1].ID != "el_b" {
		t.Errorf("expected ascending z order, got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestDecodeSnapshotInputs(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantCount int
		wantErr   bool
	}{
		{name: "empty", data: "", wantCount: 0},
		{name: "bare array", data: `[{"id":"el_1","kind":"rectangle","width":30,"height":30,"zIndex":1}]`, wantCount: 1},
		{name: "garbage", data: `{{{`, wantErr: true},
		{name: "wrong shape", data: `"hello"`, wantErr: true},
		{name: "future version", data: `{"version":99,"elements":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecodeSnapshot([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedSnapshot) {
					t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSnapshot: %v", err)
			}
			if len(out) != tt.wantCount {
				t.Errorf("got %d elements, want %d", len(out), tt.wantCount)
			}
		})
	}
}
