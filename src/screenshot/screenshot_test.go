package screenshot

import (
	"bytes"
	"image"
	"testing"
)

func TestCaptureRegionRejectsInvalidDimensions(t *testing.T) {
	tests := []struct {
		name   string
		region Region
	}{
		{"zero width", Region{X: 0, Y: 0, Width: 0, Height: 100}},
		{"zero height", Region{X: 0, Y: 0, Width: 100, Height: 0}},
		{"negative width", Region{X: 10, Y: 10, Width: -5, Height: 100}},
		{"negative height", Region{X: 10, Y: 10, Width: 100, Height: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CaptureRegion(tt.region)
			if err == nil {
				t.Errorf("Expected error for region %+v, got nil", tt.region)
			}
		})
	}
}

func TestRegionBounds(t *testing.T) {
	r := Region{X: 10, Y: 20, Width: 300, Height: 400}
	want := image.Rect(10, 20, 310, 420)
	if got := r.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	magic := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	if len(data) < 8 || !bytes.Equal(data[:8], magic) {
		t.Error("EncodePNG output missing PNG magic number")
	}
}
