package engine

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRotateVector(t *testing.T) {
	tests := []struct {
		name         string
		dx, dy, deg  float64
		wantX, wantY float64
	}{
		{"zero", 10, 5, 0, 10, 5},
		{"quarter turn", 10, 0, 90, 0, 10},
		{"half turn", 10, 5, 180, -10, -5},
		{"negative quarter", 0, 10, -90, 10, 0},
		{"full turn", 3, 4, 360, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := RotateVector(tt.dx, tt.dy, tt.deg)
			if !approx(x, tt.wantX) || !approx(y, tt.wantY) {
				t.Errorf("RotateVector(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.dx, tt.dy, tt.deg, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestRotateVectorInverse(t *testing.T) {
	x, y := RotateVector(17, -4, 33)
	x, y = RotateVector(x, y, -33)
	if !approx(x, 17) || !approx(y, -4) {
		t.Errorf("rotate then unrotate gave (%v, %v)", x, y)
	}
}

func TestAngleOfPoint(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   float64
	}{
		{"above", 100, 0, 0},
		{"right", 200, 100, 90},
		{"below", 100, 200, 180},
		{"left", 0, 100, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDegrees(AngleOfPoint(100, 100, tt.px, tt.py))
			if !approx(got, tt.want) {
				t.Errorf("angle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleOfPointNotNormalized(t *testing.T) {
	// Left of center comes out of atan2 as 180+90.
	got := AngleOfPoint(0, 0, -10, 0)
	if !approx(got, 270) {
		t.Errorf("got %v, want 270", got)
	}
	// Up-left lands below zero before normalization.
	got = AngleOfPoint(0, 0, -10, -10)
	if got >= 0 {
		t.Errorf("expected negative raw angle, got %v", got)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-720, 0},
		{725.5, 5.5},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		got := NormalizeDegrees(tt.in)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("NormalizeDegrees(%v) = %v out of range", tt.in, got)
		}
	}
}
