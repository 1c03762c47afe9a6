package canopy

import (
	"fmt"
	"math"
)

// Symmetry identifies one of the eight rigid symmetries of a square (four
// rotations, each optionally mirrored) used to map an atlas frame onto a quad.
//
// Codes follow the compass layout of the u axis: even codes 0..6 are
// rotations by multiples of 90° clockwise (y down), even codes 8..14 are the
// four mirrors. Odd codes are the diagonal half-steps between them; they are
// not valid frame symmetries but serve as corner directions internally.
type Symmetry uint8

const (
	SymmetryE                Symmetry = 0  // identity
	SymmetrySE               Symmetry = 1  // diagonal, internal only
	SymmetryS                Symmetry = 2  // 90° clockwise
	SymmetrySW               Symmetry = 3  // diagonal, internal only
	SymmetryW                Symmetry = 4  // 180°
	SymmetryNW               Symmetry = 5  // diagonal, internal only; top-left corner
	SymmetryN                Symmetry = 6  // 270° clockwise
	SymmetryNE               Symmetry = 7  // diagonal, internal only
	SymmetryMirrorVertical   Symmetry = 8  // flip around the horizontal axis
	SymmetryMainDiagonal     Symmetry = 10 // swap x and y
	SymmetryMirrorHorizontal Symmetry = 12 // flip around the vertical axis
	SymmetryReverseDiagonal  Symmetry = 14 // swap and negate x and y
)

const symmetryCount = 16

// Unit basis of every code: u = (ux, uy) is the image of the x axis,
// v = (vx, vy) the image of the y axis.
var (
	symUX = [symmetryCount]int8{1, 1, 0, -1, -1, -1, 0, 1, 1, 1, 0, -1, -1, -1, 0, 1}
	symUY = [symmetryCount]int8{0, 1, 1, 1, 0, -1, -1, -1, 0, 1, 1, 1, 0, -1, -1, -1}
	symVX = [symmetryCount]int8{0, -1, -1, -1, 0, 1, 1, 1, 0, 1, 1, 1, 0, -1, -1, -1}
	symVY = [symmetryCount]int8{1, 1, 0, -1, -1, -1, 0, 1, -1, -1, 0, 1, 1, 1, 0, -1}
)

// symCayley[i][j] is the code of the composition "apply j, then i".
var symCayley [symmetryCount][symmetryCount]Symmetry

func init() {
	for i := 0; i < symmetryCount; i++ {
		for j := 0; j < symmetryCount; j++ {
			ux := sign(int(symUX[i])*int(symUX[j]) + int(symVX[i])*int(symUY[j]))
			uy := sign(int(symUY[i])*int(symUX[j]) + int(symVY[i])*int(symUY[j]))
			vx := sign(int(symUX[i])*int(symVX[j]) + int(symVX[i])*int(symVY[j]))
			vy := sign(int(symUY[i])*int(symVX[j]) + int(symVY[i])*int(symVY[j]))
			found := false
			for k := 0; k < symmetryCount; k++ {
				if int(symUX[k]) == ux && int(symUY[k]) == uy && int(symVX[k]) == vx && int(symVY[k]) == vy {
					symCayley[i][j] = Symmetry(k)
					found = true
					break
				}
			}
			if !found {
				panic(fmt.Sprintf("canopy: symmetry table has no product for %d*%d", i, j))
			}
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Valid reports whether s is one of the eight frame symmetries.
func (s Symmetry) Valid() bool {
	return s < symmetryCount && s&1 == 0
}

// ParseSymmetry validates an integer code.
func ParseSymmetry(code int) (Symmetry, error) {
	if code < 0 || code >= symmetryCount || code&1 != 0 {
		return 0, fmt.Errorf("canopy: invalid symmetry code %d (want one of 0,2,4,...,14)", code)
	}
	return Symmetry(code), nil
}

// mustValidSymmetry panics when s is not a frame symmetry.
func mustValidSymmetry(s Symmetry) {
	if !s.Valid() {
		panic(fmt.Sprintf("canopy: invalid symmetry code %d", s))
	}
}

// UX returns the x component of the image of the x axis.
func (s Symmetry) UX() float64 { return float64(symUX[s&15]) }

// UY returns the y component of the image of the x axis.
func (s Symmetry) UY() float64 { return float64(symUY[s&15]) }

// VX returns the x component of the image of the y axis.
func (s Symmetry) VX() float64 { return float64(symVX[s&15]) }

// VY returns the y component of the image of the y axis.
func (s Symmetry) VY() float64 { return float64(symVY[s&15]) }

// ComposeSymmetry composes two symmetries: first is applied, then second.
func ComposeSymmetry(second, first Symmetry) Symmetry {
	return symCayley[second&15][first&15]
}

// SubtractSymmetry composes second with the inverse of first.
func SubtractSymmetry(second, first Symmetry) Symmetry {
	return symCayley[second&15][first.Inv()]
}

// Inv returns the inverse symmetry. Mirrors are their own inverse.
func (s Symmetry) Inv() Symmetry {
	if s&8 != 0 {
		return s & 15
	}
	return (-s) & 7
}

// Rotate180 returns s rotated by half a turn.
func (s Symmetry) Rotate180() Symmetry {
	return s ^ 4
}

// IsVertical reports whether s maps the x axis onto the y axis.
func (s Symmetry) IsVertical() bool {
	return s&3 == 2
}

// Matrix returns the linear part of s as an affine matrix without translation.
func (s Symmetry) Matrix() [6]float64 {
	return [6]float64{s.UX(), s.UY(), s.VX(), s.VY(), 0, 0}
}

// SymmetryByDirection returns the compass code closest to the direction
// (dx, dy).
func SymmetryByDirection(dx, dy float64) Symmetry {
	if math.Abs(dx)*2 <= math.Abs(dy) {
		if dy >= 0 {
			return SymmetryS
		}
		return SymmetryN
	}
	if math.Abs(dy)*2 <= math.Abs(dx) {
		if dx > 0 {
			return SymmetryE
		}
		return SymmetryW
	}
	if dy > 0 {
		if dx > 0 {
			return SymmetrySE
		}
		return SymmetrySW
	}
	if dx > 0 {
		return SymmetryNE
	}
	return SymmetryNW
}
