// Package morphology implements grey-value and binary mathematical morphology
// on scalar images: dilation, erosion, opening and closing with decomposed
// structuring elements.
package morphology

import (
	"fmt"
	"math"
	"slices"

	"github.com/gabkdlly/diplib/dip"
)

// Shape selects the form of a structuring element.
type Shape int

const (
	Rectangular Shape = iota
	Elliptic
	Diamond
	Octagonal
	// Line picks the best decomposition for the given direction vector.
	Line
	// FastLine is a digital line processed along its own orientation.
	FastLine
	// PeriodicLine has points at a fixed integer spacing along a direction.
	PeriodicLine
	// DiscreteLine is the digital line processed as a general neighborhood.
	DiscreteLine
	// Parabolic is the quadratic structuring function, sized by sigma per
	// dimension.
	Parabolic
	// Custom takes its support, and optionally per-pixel weights, from an
	// image.
	Custom
)

func (s Shape) String() string {
	switch s {
	case Rectangular:
		return "rectangular"
	case Elliptic:
		return "elliptic"
	case Diamond:
		return "diamond"
	case Octagonal:
		return "octagonal"
	case Line:
		return "line"
	case FastLine:
		return "fast line"
	case PeriodicLine:
		return "periodic line"
	case DiscreteLine:
		return "discrete line"
	case Parabolic:
		return "parabolic"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// StructuringElement describes the neighborhood of a morphological operation.
// A single parameter applies to every image dimension; otherwise one parameter
// per dimension is required.
type StructuringElement struct {
	shape    Shape
	params   []float64
	img      *dip.Image
	mirrored bool
}

// NewSE returns a structuring element of the given shape and size parameters.
func NewSE(shape Shape, params ...float64) StructuringElement {
	return StructuringElement{shape: shape, params: slices.Clone(params)}
}

// SEFromImage returns a custom structuring element. A binary image marks the
// neighborhood; a real-valued image additionally carries additive weights,
// with -Inf pixels excluded from the neighborhood.
func SEFromImage(img *dip.Image) StructuringElement {
	return StructuringElement{shape: Custom, img: img}
}

// Mirror flips the structuring element point-symmetrically about its origin.
func (se *StructuringElement) Mirror() { se.mirrored = !se.mirrored }

func (se StructuringElement) IsMirrored() bool { return se.mirrored }
func (se StructuringElement) Shape() Shape     { return se.shape }

// IsFlat reports whether the element has no grey-value weights.
func (se StructuringElement) IsFlat() bool {
	return se.shape != Custom || se.img == nil || se.img.DataType().IsBinary()
}

// Params expands the size parameters to one per image dimension.
func (se StructuringElement) Params(sizes []int) ([]float64, error) {
	nd := len(sizes)
	switch len(se.params) {
	case 0:
		return nil, fmt.Errorf("structuring element has no size parameters: %w", dip.ErrArrayEmpty)
	case 1:
		out := make([]float64, nd)
		for i := range out {
			out[i] = se.params[0]
		}
		return out, nil
	case nd:
		return slices.Clone(se.params), nil
	}
	return nil, fmt.Errorf("%d size parameters for %d dimensions: %w",
		len(se.params), nd, dip.ErrWrongArrayLength)
}

// PeriodicLineParameters decomposes a line direction vector into the number of
// pixels in the discretized line (maxSize) and the number of periodic steps it
// can be split into (the gcd of the rounded extents).
func PeriodicLineParameters(params []float64) (maxSize, steps int) {
	for _, p := range params {
		length := int(math.Round(math.Abs(p)))
		maxSize = max(maxSize, length)
		if length > 1 {
			if steps > 0 {
				steps = gcd(steps, length)
			} else {
				steps = length
			}
		}
	}
	if steps == 0 {
		// All extents are 0 or 1.
		steps = maxSize
	}
	return maxSize, steps
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
