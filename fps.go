package canopy

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in seconds, the widget text is redrawn.
const fpsRefresh = 0.5

// FPSWidget is a sprite showing the current FPS and TPS. Add Node to the tree
// and call Update every frame.
type FPSWidget struct {
	Node *Node

	rt      *RenderTexture
	elapsed float32
	redraws int
}

// NewFPSWidget creates the widget and its backing texture.
func NewFPSWidget() *FPSWidget {
	// 100x32 fits "FPS: 60.0\nTPS: 60.0"
	rt := NewRenderTexture(100, 32)
	return &FPSWidget{Node: rt.NewSpriteNode("fps_widget"), rt: rt}
}

// Update advances the refresh timer by dt seconds and redraws the text when
// it expires.
func (w *FPSWidget) Update(dt float32) {
	w.elapsed += dt
	if w.elapsed < fpsRefresh {
		return
	}
	w.elapsed = 0
	w.redraws++

	img := w.rt.Image()
	img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Dispose removes the widget from the tree and releases its texture.
func (w *FPSWidget) Dispose() {
	w.Node.Dispose()
	w.rt.Dispose()
}
