package morphology

import "github.com/gabkdlly/diplib/dip"

// elliptic applies a disk (or ellipsoid) structuring element. Small disks are
// indistinguishable from diamonds or squares once discretized, so those run
// through the cheaper specialized kernels:
//
//	diameter > sqrt(20): general elliptic neighborhood
//	diameter > 4:        diamond 5x5 (two elemental iterations)
//	diameter > sqrt(8):  square 3x3
//	diameter > 2:        diamond 3x3
//	otherwise:           no-op
func (e *Engine) elliptic(in *dip.Image, ellipseSizes []float64, op operation) (*dip.Image, error) {
	const sqrt8 = 2.8284271247461903
	const sqrt20 = 4.47213595499958
	diameter := 0.0
	param := 0.0
	isotropic := true
	sizes := append([]float64(nil), ellipseSizes...)
	dim1, dim2 := 0, 0
	nDims := 0
	for d, sz := range sizes {
		if sz > 2 {
			if diameter == 0 {
				diameter = sz
				if diameter <= 4 {
					param = 3
				} else {
					param = 5
				}
				sizes[d] = param
				dim1 = d
			} else if sz == diameter {
				sizes[d] = param
			} else {
				isotropic = false
			}
			dim2 = d
			nDims++
		} else {
			sizes[d] = 1
		}
	}
	if diameter == 0 {
		// Every axis is 2 or smaller: nothing to do.
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		return out, out.Copy(in)
	}
	if nDims == 1 {
		// A 1-D disk is an odd-sized segment.
		sizes[dim1] = float64(int((ellipseSizes[dim1]-1e-6)/2)*2 + 1)
		return e.rectangular(in, sizes, false, op)
	}
	if isotropic && nDims == 2 {
		switch {
		case diameter <= sqrt8:
			return e.elementalDiamond(in, dim1, dim2, op, 1)
		case diameter <= 4:
			return e.rectangular(in, sizes, false, op)
		case diameter <= sqrt20:
			return e.elementalDiamond(in, dim1, dim2, op, 2)
		}
	}
	// Larger, anisotropic or >2-D disks take the general path.
	pt, release, err := e.shapeTable(Elliptic, ellipseSizes)
	if err != nil {
		return nil, err
	}
	defer release()
	return e.generalSE(in, pt, op)
}

// octagonal decomposes an octagon of extent s into a diamond of extent
// n = 2*floor((s+1)/4)+1 and a rectangle of extent s-n+1. Anisotropy only
// grows the rectangle; the diamond stays isotropic.
func (e *Engine) octagonal(in *dip.Image, size []float64, op operation) (*dip.Image, error) {
	smallest := 0.0
	for d := range size {
		sz := float64(int((size[d]-1)/2)*2 + 1)
		if sz >= 3 {
			if smallest == 0 {
				smallest = sz
			} else {
				smallest = min(smallest, sz)
			}
			size[d] = sz
		} else {
			size[d] = 1
		}
	}
	if smallest == 0 {
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		return out, out.Copy(in)
	}
	n := 2*float64(int((smallest+1)/4)) + 1
	skipRect := true
	rectSize := make([]float64, len(size))
	for d := range size {
		rectSize[d] = 1
		if size[d] >= 3 {
			rectSize[d] = size[d] - n + 1
			if rectSize[d] > 1 {
				skipRect = false
			}
			size[d] = n
		}
	}
	switch op {
	case opDilation, opErosion:
		out, err := e.diamond(in, size, op)
		if err != nil || skipRect {
			return out, err
		}
		return e.rectangular(out, rectSize, false, op)
	case opClosing, opOpening:
		if skipRect {
			return e.diamond(in, size, op)
		}
		first, second := opDilation, opErosion
		if op == opOpening {
			first, second = second, first
		}
		out, err := e.rectangular(in, rectSize, false, first)
		if err != nil {
			return nil, err
		}
		out, err = e.diamond(out, size, op)
		if err != nil {
			return nil, err
		}
		return e.rectangular(out, rectSize, true, second)
	}
	return nil, dip.ErrInvalidParameter
}
