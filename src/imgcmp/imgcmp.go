// Package imgcmp decides whether two captured frames are the same page.
// Comparison is exact byte equality over raw RGBA pixels; a viewer that
// cannot advance past its last page re-renders the identical frame, and
// anything fuzzier would stop early on near-static pages.
package imgcmp

import (
	"bytes"
	"image"
	"image/draw"
)

// Equal reports whether two images contain identical pixels. Both images are
// normalized to RGBA before comparing so that the source color model does not
// affect the result. Differing dimensions are never equal; two nil images are.
func Equal(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return false
	}
	return bytes.Equal(rgbaPixels(a), rgbaPixels(b))
}

// rgbaPixels returns the image's pixel data as tightly packed RGBA bytes
// anchored at the origin, so window position and row stride do not leak into
// the comparison.
func rgbaPixels(img image.Image) []byte {
	r := image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy())
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == r.Min && rgba.Stride == 4*r.Dx() {
		return rgba.Pix
	}
	dst := image.NewRGBA(r)
	draw.Draw(dst, r, img, img.Bounds().Min, draw.Src)
	return dst.Pix
}
