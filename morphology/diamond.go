package morphology

import (
	"math"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

// diamond applies a diamond structuring element. Sizes are forced odd. One
// effective dimension degenerates to a rectangle; anisotropic or >2-D
// diamonds run as general neighborhoods; small isotropic 2-D diamonds iterate
// the elemental 5-pixel kernel; large ones decompose into a unit diamond plus
// two 45-degree lines.
func (e *Engine) diamond(in *dip.Image, size []float64, op operation) (*dip.Image, error) {
	nd := len(size)
	param := 0.0 // always an odd integer
	isotropic := true
	nProcDims := 0
	procDim, dim2 := 0, 0
	for d := 0; d < nd; d++ {
		size[d] = math.Floor(size[d]/2)*2 + 1
		if size[d] > 1 {
			nProcDims++
			if param == 0 {
				param = size[d]
				procDim = d
			} else if size[d] != param {
				isotropic = false
				break
			}
			dim2 = d
		}
	}
	if nProcDims <= 1 {
		return e.rectangular(in, size, false, op)
	}
	if !isotropic || nProcDims > 2 {
		pt, release, err := e.shapeTable(Diamond, size)
		if err != nil {
			return nil, err
		}
		defer release()
		return e.generalSE(in, pt, op)
	}
	if param <= 9 {
		// A few iterations of the elemental diamond beat the decomposition.
		reps := int(param) / 2
		return e.elementalDiamond(in, procDim, dim2, op, reps)
	}
	// Unit diamond plus two lines at 45 degrees.
	lineLength := math.Round((param-3)/2 + 1)
	switch op {
	case opDilation, opErosion:
		out, err := e.elementalDiamond(in, procDim, dim2, op, 1)
		if err != nil {
			return nil, err
		}
		if int(lineLength)%2 == 0 {
			// Even lines displace the result by one pixel.
			out, err = e.shift(out, procDim, -1, identity(op == opDilation))
			if err != nil {
				return nil, err
			}
		}
		return e.twoStepDiamond(out, lineLength, procDim, dim2, false, op)
	case opClosing, opOpening:
		// The shift cancels between the passes; mirror the lines instead.
		first, second := opDilation, opErosion
		if op == opOpening {
			first, second = second, first
		}
		out, err := e.twoStepDiamond(in, lineLength, procDim, dim2, false, first)
		if err != nil {
			return nil, err
		}
		out, err = e.elementalDiamond(out, procDim, dim2, op, 1)
		if err != nil {
			return nil, err
		}
		return e.twoStepDiamond(out, lineLength, procDim, dim2, true, second)
	}
	return nil, dip.ErrInvalidParameter
}

// twoStepDiamond runs the two 45-degree fast lines that, together with a unit
// diamond, compose a large diamond.
func (e *Engine) twoStepDiamond(in *dip.Image, lineLength float64, procDim, dim2 int, mirrored bool, op operation) (*dip.Image, error) {
	size := make([]float64, in.Dimensionality())
	for d := range size {
		size[d] = 1
	}
	size[procDim] = lineLength
	size[dim2] = lineLength
	out, err := e.fastLine(in, size, mirrored, op)
	if err != nil {
		return nil, err
	}
	size[dim2] = -lineLength
	return e.fastLine(out, size, mirrored, op)
}

// shift translates the image by delta pixels along dim, filling the vacated
// edge with pad.
func (e *Engine) shift(in *dip.Image, dim, delta int, pad float64) (*dip.Image, error) {
	out, err := in.Similar(in.DataType())
	if err != nil {
		return nil, err
	}
	if err := out.Fill([]float64{pad}); err != nil {
		return nil, err
	}
	sz := in.Sizes()
	n := abs(delta)
	if n >= sz[dim] {
		return out, nil
	}
	winSizes := append([]int(nil), sz...)
	winSizes[dim] -= n
	srcOrigin := make([]int, len(sz))
	dstOrigin := make([]int, len(sz))
	if delta < 0 {
		srcOrigin[dim] = n // content moves toward lower coordinates
	} else {
		dstOrigin[dim] = n
	}
	srcWin, err := in.Window(srcOrigin, winSizes)
	if err != nil {
		return nil, err
	}
	dstWin, err := out.Window(dstOrigin, winSizes)
	if err != nil {
		return nil, err
	}
	return out, dstWin.Copy(srcWin)
}

// elementalDiamond iterates the 5-pixel diamond kernel. Image edges simply
// truncate the neighborhood, so no boundary extension is needed.
func (e *Engine) elementalDiamond(in *dip.Image, dim1, dim2 int, op operation, reps int) (*dip.Image, error) {
	switch op {
	case opClosing:
		out, err := e.elementalDiamond(in, dim1, dim2, opDilation, reps)
		if err != nil {
			return nil, err
		}
		return e.elementalDiamond(out, dim1, dim2, opErosion, reps)
	case opOpening:
		out, err := e.elementalDiamond(in, dim1, dim2, opErosion, reps)
		if err != nil {
			return nil, err
		}
		return e.elementalDiamond(out, dim1, dim2, opDilation, reps)
	}
	dilation := op == opDilation
	cur := in
	for r := 0; r < reps; r++ {
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		e.elementalDiamondPass(cur, out, dim1, dim2, dilation)
		cur = out
	}
	return cur, nil
}

func (e *Engine) elementalDiamondPass(in, out *dip.Image, dim1, dim2 int, dilation bool) {
	switch in.DataType() {
	case dip.Binary, dip.Uint8:
		diamondLines[uint8](e, in, out, dim1, dim2, dilation)
	case dip.Int8:
		diamondLines[int8](e, in, out, dim1, dim2, dilation)
	case dip.Uint16:
		diamondLines[uint16](e, in, out, dim1, dim2, dilation)
	case dip.Int16:
		diamondLines[int16](e, in, out, dim1, dim2, dilation)
	case dip.Uint32:
		diamondLines[uint32](e, in, out, dim1, dim2, dilation)
	case dip.Int32:
		diamondLines[int32](e, in, out, dim1, dim2, dilation)
	case dip.Uint64:
		diamondLines[uint64](e, in, out, dim1, dim2, dilation)
	case dip.Int64:
		diamondLines[int64](e, in, out, dim1, dim2, dilation)
	case dip.Float32:
		diamondLines[float32](e, in, out, dim1, dim2, dilation)
	case dip.Float64:
		diamondLines[float64](e, in, out, dim1, dim2, dilation)
	}
}

// diamondLines processes scan lines along dim1. In-line neighbors are the
// previous and next pixel; cross-line neighbors sit one line away along dim2
// and are skipped on the image edge.
func diamondLines[T dip.Scalar](e *Engine, in, out *dip.Image, dim1, dim2 int, dilation bool) {
	src := dip.SamplesOf[T](in)
	dst := dip.SamplesOf[T](out)
	inL := layoutOf(in)
	outL := layoutOf(out)
	length := inL.sizes[dim1]
	s1 := inL.strides[dim1]
	s2 := inL.strides[dim2]
	size2 := inL.sizes[dim2]
	outStride := outL.strides[dim1]
	nLines := dip.LineCount(inL.sizes, dim1)

	better := func(a, b T) T {
		if dilation {
			return max(a, b)
		}
		return min(a, b)
	}

	coords := make([][]int, e.cfg.NumWorkers)
	for w := range coords {
		coords[w] = make([]int, len(inL.sizes))
	}
	parallel.ForWorker(nLines, func(worker, i int) {
		c := coords[worker]
		is := inL.lineStart(i, dim1, c)
		os := outL.lineStart(i, dim1, c)
		lo2 := c[dim2] > 0
		hi2 := c[dim2] < size2-1
		for ii := 0; ii < length; ii++ {
			val := src[is]
			if ii > 0 {
				val = better(val, src[is-s1])
			}
			if ii < length-1 {
				val = better(val, src[is+s1])
			}
			if lo2 {
				val = better(val, src[is-s2])
			}
			if hi2 {
				val = better(val, src[is+s2])
			}
			dst[os] = val
			is += s1
			os += outStride
		}
	}, e.cfg)
}
