package recorder

import (
	"context"
	"errors"
	"image"
	"testing"

	"bookcap/src/screenshot"
)

var screenBounds = image.Rect(0, 0, 1920, 1080)

func TestNormalizeRegionOrderIndependent(t *testing.T) {
	corners := []screenshot.Point{{X: 1500, Y: 200}, {X: 300, Y: 900}}
	want := screenshot.Region{X: 300, Y: 200, Width: 1200, Height: 700}

	pairs := [][2]screenshot.Point{
		{corners[0], corners[1]},
		{corners[1], corners[0]},
		{{X: 300, Y: 200}, {X: 1500, Y: 900}},
		{{X: 1500, Y: 900}, {X: 300, Y: 200}},
	}
	for i, p := range pairs {
		if got := NormalizeRegion(p[0], p[1], screenBounds); got != want {
			t.Errorf("pair %d: NormalizeRegion = %+v, want %+v", i, got, want)
		}
	}
}

func TestNormalizeRegionIdempotent(t *testing.T) {
	tests := []struct {
		name string
		a, b screenshot.Point
	}{
		{"interior", screenshot.Point{X: 100, Y: 100}, screenshot.Point{X: 800, Y: 600}},
		{"off-screen corners", screenshot.Point{X: -50, Y: -20}, screenshot.Point{X: 2500, Y: 1500}},
		{"degenerate", screenshot.Point{X: 42, Y: 42}, screenshot.Point{X: 42, Y: 42}},
		{"touching right edge", screenshot.Point{X: 1800, Y: 10}, screenshot.Point{X: 1920, Y: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := NormalizeRegion(tt.a, tt.b, screenBounds)
			again := NormalizeRegion(
				screenshot.Point{X: first.X, Y: first.Y},
				screenshot.Point{X: first.X + first.Width, Y: first.Y + first.Height},
				screenBounds,
			)
			if first != again {
				t.Errorf("not idempotent: first %+v, again %+v", first, again)
			}
		})
	}
}

func TestNormalizeRegionClamping(t *testing.T) {
	tests := []struct {
		name string
		a, b screenshot.Point
		want screenshot.Region
	}{
		{
			"negative corners",
			screenshot.Point{X: -100, Y: -100}, screenshot.Point{X: 200, Y: 150},
			screenshot.Region{X: 0, Y: 0, Width: 200, Height: 150},
		},
		{
			"beyond screen",
			screenshot.Point{X: 1800, Y: 1000}, screenshot.Point{X: 3000, Y: 2000},
			screenshot.Region{X: 1800, Y: 1000, Width: 120, Height: 80},
		},
		{
			"fully off-screen",
			screenshot.Point{X: 5000, Y: 5000}, screenshot.Point{X: 6000, Y: 6000},
			screenshot.Region{X: 1919, Y: 1079, Width: 1, Height: 1},
		},
		{
			"degenerate point",
			screenshot.Point{X: 500, Y: 500}, screenshot.Point{X: 500, Y: 500},
			screenshot.Region{X: 500, Y: 500, Width: 1, Height: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRegion(tt.a, tt.b, screenBounds)
			if got != tt.want {
				t.Errorf("NormalizeRegion = %+v, want %+v", got, tt.want)
			}
			if got.Width < 1 || got.Height < 1 {
				t.Errorf("region degenerate: %+v", got)
			}
			if !got.Bounds().In(screenBounds) {
				t.Errorf("region %v outside screen bounds %v", got.Bounds(), screenBounds)
			}
		})
	}
}

// scriptedSource returns queued points for each AwaitTrigger call, recording
// the keys it was armed with.
type scriptedSource struct {
	points []screenshot.Point
	keys   []string
	err    error
}

func (s *scriptedSource) AwaitTrigger(ctx context.Context, key string) (screenshot.Point, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return screenshot.Point{}, s.err
	}
	if len(s.points) == 0 {
		return screenshot.Point{}, errors.New("script exhausted")
	}
	pt := s.points[0]
	s.points = s.points[1:]
	return pt, nil
}

func TestRecordRegion(t *testing.T) {
	src := &scriptedSource{points: []screenshot.Point{{X: 1400, Y: 120}, {X: 250, Y: 880}}}
	rec := New(src)
	rec.Bounds = func() (image.Rectangle, error) { return screenBounds, nil }

	region, err := rec.RecordRegion(context.Background(), "f6", "f7")
	if err != nil {
		t.Fatalf("RecordRegion failed: %v", err)
	}

	want := screenshot.Region{X: 250, Y: 120, Width: 1150, Height: 760}
	if region != want {
		t.Errorf("RecordRegion = %+v, want %+v", region, want)
	}
	if len(src.keys) != 2 || src.keys[0] != "f6" || src.keys[1] != "f7" {
		t.Errorf("triggers armed in wrong order: %v", src.keys)
	}
}

func TestRecordRegionPropagatesTriggerError(t *testing.T) {
	src := &scriptedSource{err: context.Canceled}
	rec := New(src)
	rec.Bounds = func() (image.Rectangle, error) { return screenBounds, nil }

	if _, err := rec.RecordRegion(context.Background(), "f6", "f7"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}
