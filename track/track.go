// Package track provides the image-backed surface the cars drive on.
package track

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/vector"
)

// Palette for generated tracks.
var (
	GrassColor = color.RGBA{R: 118, G: 178, B: 92, A: 255}
	RoadColor  = color.RGBA{R: 58, G: 58, B: 62, A: 255}
	KerbColor  = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

// kerbWidth is the white edge line painted on both sides of a generated road.
const kerbWidth = 4.0

// Track is a read-only image surface.
type Track struct {
	img  image.Image
	rgba *image.RGBA // fast path, nil if img is another type
	rect image.Rectangle
}

// New wraps an image as a track.
func New(img image.Image) *Track {
	t := &Track{img: img, rect: img.Bounds()}
	if rgba, ok := img.(*image.RGBA); ok {
		t.rgba = rgba
	}
	return t
}

// Load decodes a PNG or JPEG track image.
func Load(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding track %s: %w", path, err)
	}
	return New(img), nil
}

// Generate paints an oval circuit: grass background, a road ring of roadWidth
// pixels with kerbs, inset 40 pixels from the image edge.
func Generate(width, height int, roadWidth float64) (*Track, error) {
	const margin = 40.0

	cx, cy := float32(width)/2, float32(height)/2
	outerRX := float64(width)/2 - margin
	outerRY := float64(height)/2 - margin
	innerRX := outerRX - roadWidth
	innerRY := outerRY - roadWidth
	if innerRX <= kerbWidth || innerRY <= kerbWidth {
		return nil, fmt.Errorf("road width %g too wide for a %dx%d track", roadWidth, width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(GrassColor), image.Point{}, draw.Src)

	// Painted outside-in so each layer covers the previous one
	layers := []struct {
		rx, ry float64
		c      color.RGBA
	}{
		{outerRX, outerRY, KerbColor},
		{outerRX - kerbWidth, outerRY - kerbWidth, RoadColor},
		{innerRX + kerbWidth, innerRY + kerbWidth, KerbColor},
		{innerRX, innerRY, GrassColor},
	}

	r := vector.NewRasterizer(width, height)
	for _, l := range layers {
		r.Reset(width, height)
		ellipse(r, cx, cy, float32(l.rx), float32(l.ry))
		r.Draw(img, img.Bounds(), image.NewUniform(l.c), image.Point{})
	}

	return New(img), nil
}

// ellipse adds a closed ellipse path built from four cubic arcs.
func ellipse(r *vector.Rasterizer, cx, cy, rx, ry float32) {
	const k = 0.5522847498 // control point distance for a quarter circle
	kx, ky := rx*k, ry*k

	r.MoveTo(cx+rx, cy)
	r.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	r.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	r.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	r.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	r.ClosePath()
}

// ColorAt returns the pixel color at (x, y); ok is false outside the image.
func (t *Track) ColorAt(x, y int) (r, g, b uint8, ok bool) {
	if !(image.Point{X: x, Y: y}).In(t.rect) {
		return 0, 0, 0, false
	}
	if t.rgba != nil {
		i := t.rgba.PixOffset(x, y)
		p := t.rgba.Pix[i : i+3 : i+3]
		return p[0], p[1], p[2], true
	}
	cr, cg, cb, _ := t.img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), true
}

// Image returns the underlying image.
func (t *Track) Image() image.Image {
	return t.img
}

// Width returns the track width in pixels.
func (t *Track) Width() int {
	return t.rect.Dx()
}

// Height returns the track height in pixels.
func (t *Track) Height() int {
	return t.rect.Dy()
}

// OnRoad reports whether the pixel under (x, y) is darker than the grass,
// which holds for every generated track.
func (t *Track) OnRoad(x, y float64) bool {
	r, g, b, ok := t.ColorAt(int(x), int(y))
	if !ok {
		return false
	}
	return int(r)+int(g)+int(b) < int(GrassColor.R)+int(GrassColor.G)+int(GrassColor.B)-30
}
