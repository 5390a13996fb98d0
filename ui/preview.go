package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CameraPreview shows what the player's camera sees, one texel per sample.
// The feature buffer stores the far row first, so buffer order is image order.
type CameraPreview struct {
	tex         rl.Texture2D
	cols, rows  int
	scale       float32
	pixels      []color.RGBA
	initialized bool
}

// NewCameraPreview creates a preview for a cols x rows grid drawn at scale.
func NewCameraPreview(cols, rows int, scale float32) *CameraPreview {
	return &CameraPreview{
		cols:   cols,
		rows:   rows,
		scale:  scale,
		pixels: make([]color.RGBA, cols*rows),
	}
}

// Init creates the texture (must be called after raylib window is created).
func (p *CameraPreview) Init() {
	if p.initialized {
		return
	}
	img := rl.GenImageColor(p.cols, p.rows, rl.Black)
	p.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(p.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	p.initialized = true
}

// Update uploads a feature vector as grayscale.
func (p *CameraPreview) Update(features []float32) {
	if !p.initialized || len(features) != len(p.pixels) {
		return
	}
	for i, v := range features {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		g := uint8(v * 255)
		p.pixels[i] = color.RGBA{R: g, G: g, B: g, A: 255}
	}
	rl.UpdateTexture(p.tex, p.pixels)
}

// Size returns the drawn width and height.
func (p *CameraPreview) Size() (w, h float32) {
	return float32(p.cols) * p.scale, float32(p.rows) * p.scale
}

// Draw renders the preview with its top-left corner at (x, y).
func (p *CameraPreview) Draw(x, y float32) {
	if !p.initialized {
		return
	}
	w, h := p.Size()
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(p.cols), Height: float32(p.rows)}
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(p.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLines(int32(x)-1, int32(y)-1, int32(w)+2, int32(h)+2, rl.Gray)
	rl.DrawText("Camera", int32(x), int32(y)-14, 12, rl.LightGray)
}

// Unload frees GPU resources.
func (p *CameraPreview) Unload() {
	if p.initialized {
		rl.UnloadTexture(p.tex)
		p.initialized = false
	}
}
