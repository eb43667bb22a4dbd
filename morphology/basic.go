package morphology

import (
	"fmt"

	"github.com/gabkdlly/diplib/dip"
)

// Dilation computes the grey-value or binary dilation of a scalar image.
func Dilation(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return std.Dilation(in, se)
}

// Erosion computes the grey-value or binary erosion of a scalar image.
func Erosion(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return std.Erosion(in, se)
}

// Closing computes the dilation followed by the erosion with the mirrored
// structuring element.
func Closing(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return std.Closing(in, se)
}

// Opening computes the erosion followed by the dilation with the mirrored
// structuring element.
func Opening(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return std.Opening(in, se)
}

func (e *Engine) Dilation(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return e.basic(in, se, opDilation)
}

func (e *Engine) Erosion(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return e.basic(in, se, opErosion)
}

func (e *Engine) Closing(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return e.basic(in, se, opClosing)
}

func (e *Engine) Opening(in *dip.Image, se StructuringElement) (*dip.Image, error) {
	return e.basic(in, se, opOpening)
}

// basic validates the input and routes the operation by structuring element
// shape. Binary images run through the uint8 filters unchanged: the stored
// encodings are compatible, and max/min preserve them.
func (e *Engine) basic(in *dip.Image, se StructuringElement, op operation) (*dip.Image, error) {
	if !in.IsForged() {
		return nil, dip.ErrNotForged
	}
	if !in.IsScalar() {
		return nil, dip.ErrImageNotScalar
	}
	if in.DataType().IsComplex() {
		return nil, fmt.Errorf("morphology on complex samples: %w", dip.ErrDataTypeNotSupported)
	}
	if in.Dimensionality() < 1 {
		return nil, dip.ErrDimensionalityNotSupported
	}
	if se.shape == Custom {
		pt, release, err := e.customTable(se.img, se.mirrored)
		if err != nil {
			return nil, err
		}
		defer release()
		return e.generalSE(in, pt, op)
	}
	params, err := se.Params(in.Sizes())
	if err != nil {
		return nil, err
	}
	switch se.shape {
	case Rectangular:
		return e.rectangular(in, params, se.mirrored, op)
	case Elliptic:
		return e.elliptic(in, params, op)
	case Diamond:
		return e.diamond(in, params, op)
	case Octagonal:
		return e.octagonal(in, params, op)
	case Line:
		return e.line(in, params, se.mirrored, op)
	case FastLine:
		if maxSize, steps := PeriodicLineParameters(params); steps == maxSize {
			return e.fastLine(in, params, se.mirrored, op)
		}
		// The support of a sloped fast line is the digital line itself.
		return e.discreteLine(in, params, se.mirrored, op)
	case PeriodicLine:
		return e.periodicLine(in, params, se.mirrored, op)
	case DiscreteLine:
		return e.discreteLine(in, params, se.mirrored, op)
	case Parabolic:
		return e.parabolic(in, params, op)
	}
	return nil, fmt.Errorf("structuring element shape %v: %w", se.shape, dip.ErrInvalidParameter)
}

// shapeTable returns the cached pixel table for an elliptic or diamond
// element, pinned until release is called.
func (e *Engine) shapeTable(shape Shape, params []float64) (*pixelTable, func(), error) {
	key := fmt.Sprintf("%v|%v", shape, params)
	pt, err := e.tables.acquire(key, func() (*pixelTable, error) {
		return newShapeTable(shape, params, 0), nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pt, func() { e.tables.release(key) }, nil
}

// lineTable returns the cached pixel table for a digital line.
func (e *Engine) lineTable(params []float64, leftOrigin, mirrored bool) (*pixelTable, func(), error) {
	key := fmt.Sprintf("%v|%v|left=%v|mirror=%v", Line, params, leftOrigin, mirrored)
	pt, err := e.tables.acquire(key, func() (*pixelTable, error) {
		pt := newLineTable(params, leftOrigin, 0)
		if mirrored {
			pt = pt.mirror()
		}
		return pt, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pt, func() { e.tables.release(key) }, nil
}

// customTable builds the pixel table of an image-defined element. These are
// not cached: the image contents are not part of any reasonable key.
func (e *Engine) customTable(img *dip.Image, mirrored bool) (*pixelTable, func(), error) {
	if img == nil {
		return nil, nil, fmt.Errorf("custom structuring element without an image: %w", dip.ErrNotForged)
	}
	pt, err := newTableFromImage(img, 0)
	if err != nil {
		return nil, nil, err
	}
	if mirrored {
		pt = pt.mirror()
	}
	return pt, func() {}, nil
}
