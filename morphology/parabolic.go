package morphology

import (
	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

// parabolic applies the quadratic structuring function val -/+ offset²/sigma²
// separably along every dimension with a positive sigma. The structuring
// function has unbounded support, so there is no boundary extension; the
// output is floating point.
func (e *Engine) parabolic(in *dip.Image, params []float64, op operation) (*dip.Image, error) {
	dt := in.DataType().FlexType()
	out, err := dip.NewScalar(in.Sizes(), dt)
	if err != nil {
		return nil, err
	}
	if err := out.Copy(in); err != nil {
		return nil, err
	}
	passes := []bool{op == opDilation || op == opClosing}
	if op == opClosing || op == opOpening {
		passes = append(passes, op == opOpening)
	}
	for _, dilation := range passes {
		for d, sigma := range params {
			if sigma <= 0 || out.Size(d) < 2 {
				continue
			}
			if dt == dip.Float32 {
				parabolicLines[float32](e, out, d, float32(1/(sigma*sigma)), dilation)
			} else {
				parabolicLines[float64](e, out, d, 1/(sigma*sigma), dilation)
			}
		}
	}
	return out, nil
}

// parabolicLines runs the two-pass running-extremum scan over every line
// along dim, in place. Each pass keeps the offset of the current extremum:
// when the incoming sample dominates, the search window resets to zero;
// otherwise only the window since the last reset is rescanned. Ties go to the
// later offset.
func parabolicLines[T float32 | float64](e *Engine, img *dip.Image, dim int, lambda T, dilation bool) {
	data := dip.SamplesOf[T](img)
	l := layoutOf(img)
	length := l.sizes[dim]
	stride := l.strides[dim]
	nLines := dip.LineCount(l.sizes, dim)

	type scratch struct {
		buf    []T
		coords []int
	}
	workers := make([]scratch, e.cfg.NumWorkers)
	for w := range workers {
		workers[w] = scratch{buf: make([]T, length), coords: make([]int, len(l.sizes))}
	}

	parallel.ForWorker(nLines, func(worker, i int) {
		s := &workers[worker]
		start := l.lineStart(i, dim, s.coords)
		parabolicLine(data, s.buf, start, stride, length, lambda, dilation)
	}, e.cfg)
}

func parabolicLine[T float32 | float64](data, buf []T, start, stride, length int, lambda T, dilation bool) {
	// Left to right into the scratch buffer.
	in := start
	buf[0] = data[in]
	in += stride
	index := 0
	for ii := 1; ii < length; ii++ {
		index--
		v := data[in]
		if dominates(v, buf[ii-1], dilation) {
			buf[ii] = v
			index = 0
		} else {
			ext := farthest[T](dilation)
			for jj := index; jj <= 0; jj++ {
				val := data[in+jj*stride] + penalty(lambda, jj, dilation)
				if dominates(val, ext, dilation) {
					ext = val
					index = jj
				}
			}
			buf[ii] = ext
		}
		in += stride
	}
	// Right to left from the buffer into the image.
	out := start + (length-1)*stride
	data[out] = buf[length-1]
	out -= stride
	index = 0
	for ii := 1; ii < length; ii++ {
		index++
		bi := length - 1 - ii
		v := buf[bi]
		if dominates(v, data[out+stride], dilation) {
			data[out] = v
			index = 0
		} else {
			ext := farthest[T](dilation)
			for jj := index; jj >= 0; jj-- {
				val := buf[bi+jj] + penalty(lambda, jj, dilation)
				if dominates(val, ext, dilation) {
					ext = val
					index = jj
				}
			}
			data[out] = ext
		}
		out -= stride
	}
}

// penalty is the quadratic weight at the given offset: subtracted for
// dilation, added for erosion.
func penalty[T float32 | float64](lambda T, jj int, dilation bool) T {
	p := lambda * T(jj*jj)
	if dilation {
		return -p
	}
	return p
}

func dominates[T float32 | float64](a, b T, dilation bool) bool {
	if dilation {
		return a >= b
	}
	return a <= b
}

func farthest[T float32 | float64](dilation bool) T {
	if dilation {
		return lowest[T]()
	}
	return highest[T]()
}
