// Package recorder captures the advance point and crop region for a capture
// run from user-armed triggers.
package recorder

import (
	"context"
	"fmt"
	"image"
	"log"

	"bookcap/src/screenshot"
	"bookcap/src/trigger"
)

// Recorder records screen points via a trigger source. Bounds supplies the
// screen rectangle used to clamp recorded regions; it defaults to the primary
// display.
type Recorder struct {
	Source trigger.Source
	Bounds func() (image.Rectangle, error)
}

func New(src trigger.Source) *Recorder {
	return &Recorder{Source: src, Bounds: screenshot.GetDisplayBounds}
}

// RecordPoint blocks until the named trigger fires and returns the pointer
// position at that moment.
func (r *Recorder) RecordPoint(ctx context.Context, key string) (screenshot.Point, error) {
	pt, err := r.Source.AwaitTrigger(ctx, key)
	if err != nil {
		return screenshot.Point{}, fmt.Errorf("recording point (%s): %w", key, err)
	}
	log.Printf("Recorded point (%s) at (%d,%d)", key, pt.X, pt.Y)
	return pt, nil
}

// RecordRegion records two opposite corners (top-right then bottom-left, by
// convention, though either order works) and returns the normalized region.
func (r *Recorder) RecordRegion(ctx context.Context, topRightKey, bottomLeftKey string) (screenshot.Region, error) {
	tr, err := r.RecordPoint(ctx, topRightKey)
	if err != nil {
		return screenshot.Region{}, err
	}
	bl, err := r.RecordPoint(ctx, bottomLeftKey)
	if err != nil {
		return screenshot.Region{}, err
	}

	bounds, err := r.Bounds()
	if err != nil {
		return screenshot.Region{}, fmt.Errorf("resolving screen bounds: %w", err)
	}

	region := NormalizeRegion(tr, bl, bounds)
	log.Printf("Recorded region: left=%d top=%d width=%d height=%d", region.X, region.Y, region.Width, region.Height)
	return region, nil
}

// NormalizeRegion builds an axis-aligned region from two opposite corners
// given in either order, clamped to bounds. The result always has
// width >= 1 and height >= 1 and lies within bounds.
func NormalizeRegion(a, b screenshot.Point, bounds image.Rectangle) screenshot.Region {
	left := min(a.X, b.X)
	top := min(a.Y, b.Y)
	right := max(a.X, b.X)
	bottom := max(a.Y, b.Y)

	width := right - left
	height := bottom - top

	left = clamp(left, bounds.Min.X, bounds.Max.X-1)
	top = clamp(top, bounds.Min.Y, bounds.Max.Y-1)
	width = clamp(width, 1, bounds.Max.X-left)
	height = clamp(height, 1, bounds.Max.Y-top)

	return screenshot.Region{X: left, Y: top, Width: width, Height: height}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
