package morphology

import (
	"fmt"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

// generalSE applies the operation with an arbitrary pixel table. The input is
// extended with the polarity's identity value; closings and openings extend
// by twice the table's boundary so the intermediate result stays valid one
// boundary outside the image, then crop and mirror for the second pass.
func (e *Engine) generalSE(in *dip.Image, pt *pixelTable, op operation) (*dip.Image, error) {
	if pt.weights != nil && in.DataType().IsBinary() {
		return nil, fmt.Errorf("weighted structuring element on a binary image: %w", dip.ErrDataTypeNotSupported)
	}
	border := pt.boundary()
	switch op {
	case opDilation, opErosion:
		dilation := op == opDilation
		view, err := extend(in, border, identity(dilation))
		if err != nil {
			return nil, err
		}
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		e.fullFilter(view, out, pt, dilation)
		return out, nil
	case opClosing, opOpening:
		first := op == opClosing // closing starts with a dilation
		view, err := extendDouble(in, border, identity(first))
		if err != nil {
			return nil, err
		}
		mid, err := dip.NewScalar(view.Sizes(), in.DataType())
		if err != nil {
			return nil, err
		}
		e.fullFilter(view, mid, pt, first)
		// The middle result is valid one boundary outside the input; keep
		// that halo as a view for the second, mirrored pass.
		midView, err := mid.Window(border, in.Sizes())
		if err != nil {
			return nil, err
		}
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		e.fullFilter(midView, out, pt.mirror(), !first)
		return out, nil
	}
	return nil, dip.ErrInvalidParameter
}

// fullFilter runs the neighborhood max/min over every scan line. The input
// view must have enough halo for every table offset.
func (e *Engine) fullFilter(in, out *dip.Image, pt *pixelTable, dilation bool) {
	to := pt.offsets(in.Strides())
	switch in.DataType() {
	case dip.Binary, dip.Uint8:
		fullLines[uint8](e, in, out, pt, to, dilation)
	case dip.Int8:
		fullLines[int8](e, in, out, pt, to, dilation)
	case dip.Uint16:
		fullLines[uint16](e, in, out, pt, to, dilation)
	case dip.Int16:
		fullLines[int16](e, in, out, pt, to, dilation)
	case dip.Uint32:
		fullLines[uint32](e, in, out, pt, to, dilation)
	case dip.Int32:
		fullLines[int32](e, in, out, pt, to, dilation)
	case dip.Uint64:
		fullLines[uint64](e, in, out, pt, to, dilation)
	case dip.Int64:
		fullLines[int64](e, in, out, pt, to, dilation)
	case dip.Float32:
		fullLines[float32](e, in, out, pt, to, dilation)
	case dip.Float64:
		fullLines[float64](e, in, out, pt, to, dilation)
	}
}

func fullLines[T dip.Scalar](e *Engine, in, out *dip.Image, pt *pixelTable, to tableOffsets, dilation bool) {
	src := dip.SamplesOf[T](in)
	dst := dip.SamplesOf[T](out)
	inL := layoutOf(in)
	outL := layoutOf(out)
	procDim := pt.procDim
	length := outL.sizes[procDim]
	nLines := dip.LineCount(outL.sizes, procDim)

	// Short runs make the run-length bookkeeping more expensive than just
	// visiting every neighborhood pixel. Threshold found experimentally.
	bruteForce := (to.nPixels+len(to.runs)-1)/len(to.runs) < 4
	var flatOffsets []int
	if bruteForce || to.weights != nil {
		flatOffsets = to.all()
	}

	coords := make([][]int, e.cfg.NumWorkers)
	for i := range coords {
		coords[i] = make([]int, len(outL.sizes))
	}
	parallel.ForWorker(nLines, func(worker, i int) {
		is := inL.lineStart(i, procDim, coords[worker])
		os := outL.lineStart(i, procDim, coords[worker])
		switch {
		case to.weights != nil:
			greyLine(src, dst, is, os, inL.strides[procDim], outL.strides[procDim], length, flatOffsets, to.weights, dilation)
		case bruteForce:
			bruteLine(src, dst, is, os, inL.strides[procDim], outL.strides[procDim], length, flatOffsets, dilation)
		default:
			runLine(src, dst, is, os, inL.strides[procDim], outL.strides[procDim], length, to, dilation)
		}
	}, e.cfg)
}

func bruteLine[T dip.Scalar](src, dst []T, is, os, inStride, outStride, length int, offsets []int, dilation bool) {
	for ii := 0; ii < length; ii++ {
		ext := src[is+offsets[0]]
		if dilation {
			for _, o := range offsets[1:] {
				ext = max(ext, src[is+o])
			}
		} else {
			for _, o := range offsets[1:] {
				ext = min(ext, src[is+o])
			}
		}
		dst[os] = ext
		is += inStride
		os += outStride
	}
}

// runLine tracks where in the neighborhood the current extremum sits. While
// it remains inside, only the trailing pixel of each run needs checking; once
// it slides out, the whole table is rescanned.
func runLine[T dip.Scalar](src, dst []T, is, os, inStride, outStride, length int, to tableOffsets, dilation bool) {
	var ext T
	index := -1 // position of the extremum relative to the run starts
	for ii := 0; ii < length; ii++ {
		if index >= 0 {
			for _, run := range to.runs {
				last := run.length - 1
				val := src[is+run.offset+last*to.stride]
				if val == ext {
					index = max(index, last)
				} else if (dilation && val > ext) || (!dilation && val < ext) {
					ext = val
					index = last
				}
			}
		} else {
			index = 0
			if dilation {
				ext = lowest[T]()
			} else {
				ext = highest[T]()
			}
			for _, run := range to.runs {
				off := is + run.offset
				for jj := 0; jj < run.length; jj++ {
					val := src[off]
					if val == ext {
						index = max(index, jj)
					} else if (dilation && val > ext) || (!dilation && val < ext) {
						ext = val
						index = jj
					}
					off += to.stride
				}
			}
		}
		dst[os] = ext
		is += inStride
		os += outStride
		index--
	}
}

// greyLine adds the weight to each neighbor before taking the extremum;
// erosion subtracts it. Results are clamped to the sample type.
func greyLine[T dip.Scalar](src, dst []T, is, os, inStride, outStride, length int, offsets []int, weights []float64, dilation bool) {
	for ii := 0; ii < length; ii++ {
		if dilation {
			ext := lowest[T]()
			for k, o := range offsets {
				ext = max(ext, dip.ClampFloat[T](float64(src[is+o])+weights[k]))
			}
			dst[os] = ext
		} else {
			ext := highest[T]()
			for k, o := range offsets {
				ext = min(ext, dip.ClampFloat[T](float64(src[is+o])-weights[k]))
			}
			dst[os] = ext
		}
		is += inStride
		os += outStride
	}
}
