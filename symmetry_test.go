package canopy

import (
	"math"
	"slices"
	"testing"
)

var frameSymmetries = []Symmetry{
	SymmetryE, SymmetryS, SymmetryW, SymmetryN,
	SymmetryMirrorVertical, SymmetryMainDiagonal, SymmetryMirrorHorizontal, SymmetryReverseDiagonal,
}

func TestSymmetryValid(t *testing.T) {
	for code := 0; code < 20; code++ {
		want := code < 16 && code%2 == 0
		if got := Symmetry(code).Valid(); got != want {
			t.Errorf("Symmetry(%d).Valid() = %v, want %v", code, got, want)
		}
		_, err := ParseSymmetry(code)
		if (err == nil) != want {
			t.Errorf("ParseSymmetry(%d) error = %v", code, err)
		}
	}
	if _, err := ParseSymmetry(-2); err == nil {
		t.Error("negative code should be rejected")
	}
}

func TestSymmetryGroupClosure(t *testing.T) {
	for _, a := range frameSymmetries {
		for _, b := range frameSymmetries {
			c := ComposeSymmetry(a, b)
			if !c.Valid() {
				t.Errorf("%d∘%d = %d is not a frame symmetry", a, b, c)
			}
		}
	}
}

func TestSymmetryComposeMatchesMatrices(t *testing.T) {
	for _, a := range frameSymmetries {
		for _, b := range frameSymmetries {
			want := multiplyAffine(a.Matrix(), b.Matrix())
			assertMatrix(t, "compose", ComposeSymmetry(a, b).Matrix(), want)
		}
	}
}

func TestSymmetryInverse(t *testing.T) {
	for _, s := range frameSymmetries {
		if got := ComposeSymmetry(s, s.Inv()); got != SymmetryE {
			t.Errorf("%d∘inv(%d) = %d, want identity", s, s, got)
		}
		if got := SubtractSymmetry(s, s); got != SymmetryE {
			t.Errorf("SubtractSymmetry(%d, %d) = %d, want identity", s, s, got)
		}
	}
	if SymmetryS.Inv() != SymmetryN {
		t.Errorf("inverse of S = %d, want N", SymmetryS.Inv())
	}
	if SymmetryMirrorHorizontal.Inv() != SymmetryMirrorHorizontal {
		t.Error("mirrors are their own inverse")
	}
}

func TestSymmetryRotations(t *testing.T) {
	// four quarter turns are the identity
	s := SymmetryE
	for i := 0; i < 4; i++ {
		s = ComposeSymmetry(SymmetryS, s)
	}
	if s != SymmetryE {
		t.Errorf("S^4 = %d, want identity", s)
	}
	if ComposeSymmetry(SymmetryS, SymmetryS) != SymmetryW {
		t.Error("S∘S should be W")
	}
	if SymmetryS.Rotate180() != SymmetryN {
		t.Error("S rotated 180° should be N")
	}
	if !SymmetryS.IsVertical() || SymmetryW.IsVertical() {
		t.Error("IsVertical mismatch")
	}
}

func TestSymmetryByDirection(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   Symmetry
	}{
		{1, 0, SymmetryE},
		{0, 1, SymmetryS},
		{-1, 0, SymmetryW},
		{0, -1, SymmetryN},
		{1, 1, SymmetrySE},
		{-1, -1, SymmetryNW},
	}
	for _, tt := range tests {
		if got := SymmetryByDirection(tt.dx, tt.dy); got != tt.want {
			t.Errorf("SymmetryByDirection(%v, %v) = %d, want %d", tt.dx, tt.dy, got, tt.want)
		}
	}
}

// --- UV mapping ---

func uvCorners(u UVs) [4][2]float64 {
	var c [4][2]float64
	for i := range c {
		c[i][0], c[i][1] = u.Corner(i)
	}
	return c
}

func TestComputeUVsIdentity(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 10, Y: 20, Width: 30, Height: 40},
		{X: -5, Y: 7.5, Width: 0.25, Height: 100},
	}
	for _, r := range rects {
		got := uvCorners(computeUVs(r, SymmetryE))
		want := [4][2]float64{
			{r.X, r.Y},
			{r.X + r.Width, r.Y},
			{r.X + r.Width, r.Y + r.Height},
			{r.X, r.Y + r.Height},
		}
		if got != want {
			t.Errorf("identity UVs of %+v = %v, want %v", r, got, want)
		}
	}
}

func TestComputeUVsKnownSymmetries(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 32, Height: 48}
	tests := []struct {
		sym  Symmetry
		want [4][2]float64
	}{
		{SymmetryS, [4][2]float64{{32, 0}, {32, 48}, {0, 48}, {0, 0}}},
		{SymmetryW, [4][2]float64{{32, 48}, {0, 48}, {0, 0}, {32, 0}}},
		{SymmetryMirrorHorizontal, [4][2]float64{{32, 0}, {0, 0}, {0, 48}, {32, 48}}},
		{SymmetryMirrorVertical, [4][2]float64{{0, 48}, {32, 48}, {32, 0}, {0, 0}}},
	}
	for _, tt := range tests {
		got := uvCorners(computeUVs(r, tt.sym))
		for i := range got {
			assertNear(t, "x", got[i][0], tt.want[i][0])
			assertNear(t, "y", got[i][1], tt.want[i][1])
		}
	}
}

func TestComputeUVsPermutesCorners(t *testing.T) {
	r := Rect{X: 3, Y: 5, Width: 12, Height: 7}
	base := uvCorners(computeUVs(r, SymmetryE))
	key := func(c [2]float64) [2]float64 {
		return [2]float64{math.Round(c[0]*1e6) / 1e6, math.Round(c[1]*1e6) / 1e6}
	}

	for _, s := range frameSymmetries {
		got := uvCorners(computeUVs(r, s))
		for _, c := range got {
			if !slices.Contains(base[:], key(c)) {
				t.Errorf("symmetry %d: corner %v is not a frame corner", s, c)
			}
		}
		// all four distinct
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if key(got[i]) == key(got[j]) {
					t.Errorf("symmetry %d: corners %d and %d coincide", s, i, j)
				}
			}
		}
		// consecutive corners stay adjacent (an edge, never a diagonal)
		for i := 0; i < 4; i++ {
			a, b := got[i], got[(i+1)%4]
			if a[0] != b[0] && a[1] != b[1] {
				t.Errorf("symmetry %d: corners %d and %d are diagonal", s, i, (i+1)%4)
			}
		}
	}
}
