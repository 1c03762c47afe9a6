package canopy

import "testing"

func TestFPSWidget(t *testing.T) {
	w := NewFPSWidget()
	defer w.Dispose()

	v, ok := w.Node.View.(*SpriteView)
	if !ok || v.Source != w.rt.Image() {
		t.Fatal("widget should be a sprite of its texture")
	}
	assertRect(t, "bounds", w.Node.LocalBounds(), Rect{Width: 100, Height: 32})

	w.Update(0.2)
	w.Update(0.2)
	if w.redraws != 0 {
		t.Errorf("redraws = %d before the refresh interval", w.redraws)
	}
	w.Update(0.2)
	if w.redraws != 1 || w.elapsed != 0 {
		t.Errorf("redraws = %d, elapsed = %v", w.redraws, w.elapsed)
	}
}
