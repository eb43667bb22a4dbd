package morphology

import (
	"math"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

// rectangular applies the operation with an axis-aligned box, one separable
// 1-D pass per dimension with extent >= 2. Out-of-image samples take the
// polarity's identity value.
func (e *Engine) rectangular(in *dip.Image, params []float64, mirrored bool, op operation) (*dip.Image, error) {
	switch op {
	case opClosing:
		out, err := e.rectangular(in, params, mirrored, opDilation)
		if err != nil {
			return nil, err
		}
		return e.rectangular(out, params, !mirrored, opErosion)
	case opOpening:
		out, err := e.rectangular(in, params, mirrored, opErosion)
		if err != nil {
			return nil, err
		}
		return e.rectangular(out, params, !mirrored, opDilation)
	}
	dilation := op == opDilation
	out, err := in.Similar(in.DataType())
	if err != nil {
		return nil, err
	}
	if err := out.Copy(in); err != nil {
		return nil, err
	}
	for d, p := range params {
		k := int(math.Round(p))
		if k < 2 || out.Size(d) < 1 {
			continue
		}
		// The origin sits at k/2; mirroring moves it to the other side.
		anchor := k / 2
		if mirrored {
			anchor = k - 1 - anchor
		}
		e.slidingExtremum(out, d, k, anchor, dilation)
	}
	return out, nil
}

// slidingExtremum replaces every line of img along dim with its windowed
// max or min: out(x) covers in(x-anchor) through in(x+k-1-anchor).
func (e *Engine) slidingExtremum(img *dip.Image, dim, k, anchor int, dilation bool) {
	switch img.DataType() {
	case dip.Binary, dip.Uint8:
		slidingLines[uint8](e, img, dim, k, anchor, dilation)
	case dip.Int8:
		slidingLines[int8](e, img, dim, k, anchor, dilation)
	case dip.Uint16:
		slidingLines[uint16](e, img, dim, k, anchor, dilation)
	case dip.Int16:
		slidingLines[int16](e, img, dim, k, anchor, dilation)
	case dip.Uint32:
		slidingLines[uint32](e, img, dim, k, anchor, dilation)
	case dip.Int32:
		slidingLines[int32](e, img, dim, k, anchor, dilation)
	case dip.Uint64:
		slidingLines[uint64](e, img, dim, k, anchor, dilation)
	case dip.Int64:
		slidingLines[int64](e, img, dim, k, anchor, dilation)
	case dip.Float32:
		slidingLines[float32](e, img, dim, k, anchor, dilation)
	case dip.Float64:
		slidingLines[float64](e, img, dim, k, anchor, dilation)
	}
}

func slidingLines[T dip.Scalar](e *Engine, img *dip.Image, dim, k, anchor int, dilation bool) {
	data := dip.SamplesOf[T](img)
	l := layoutOf(img)
	length := l.sizes[dim]
	stride := l.strides[dim]
	nLines := dip.LineCount(l.sizes, dim)
	left, right := anchor, k-1-anchor
	var pad T
	if dilation {
		pad = lowest[T]()
	} else {
		pad = highest[T]()
	}

	type scratch struct {
		line   []T
		deque  []int
		coords []int
	}
	workers := make([]scratch, e.cfg.NumWorkers)
	for w := range workers {
		workers[w] = scratch{
			line:   make([]T, length+left+right),
			deque:  make([]int, 0, k),
			coords: make([]int, len(l.sizes)),
		}
	}

	parallel.ForWorker(nLines, func(worker, i int) {
		s := &workers[worker]
		start := l.lineStart(i, dim, s.coords)
		for j := 0; j < left; j++ {
			s.line[j] = pad
		}
		off := start
		for j := 0; j < length; j++ {
			s.line[left+j] = data[off]
			off += stride
		}
		for j := 0; j < right; j++ {
			s.line[left+length+j] = pad
		}
		slidingWindow(s.line, data, start, stride, length, k, &s.deque, dilation)
	}, e.cfg)
}

// slidingWindow writes the monotonic-deque windowed extremum of line (already
// padded by the window overhang) back into the image samples.
func slidingWindow[T dip.Scalar](line, dst []T, start, stride, length, k int, deque *[]int, dilation bool) {
	q := (*deque)[:0]
	for j := range line {
		for len(q) > 0 && betterOrEqual(line[j], line[q[len(q)-1]], dilation) {
			q = q[:len(q)-1]
		}
		q = append(q, j)
		if q[0] <= j-k {
			q = q[1:]
		}
		if j >= k-1 {
			dst[start+(j-k+1)*stride] = line[q[0]]
		}
	}
	*deque = q
}

func betterOrEqual[T dip.Scalar](a, b T, dilation bool) bool {
	if dilation {
		return a >= b
	}
	return a <= b
}
