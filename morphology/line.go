package morphology

import (
	"math"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

// line applies a line structuring element, decomposed for speed where
// possible: a uniform-slope line runs as a single path filter; longer lines
// with a nontrivial periodic component split into a short discrete sub-line
// and a periodic line; everything else runs as a general neighborhood.
func (e *Engine) line(in *dip.Image, params []float64, mirrored bool, op operation) (*dip.Image, error) {
	params = normalizeLineDirection(params)
	maxSize, steps := PeriodicLineParameters(params)
	if steps == maxSize {
		// Uniform slope: every extent equal (or 1), single-pixel steps.
		return e.fastLine(in, params, mirrored, op)
	}
	if steps > 1 && maxSize > 5 {
		nd := len(params)
		subParams := make([]float64, nd)
		for d, p := range params {
			subParams[d] = math.Copysign(math.Round(math.Abs(p)), p) / float64(steps)
		}
		// A periodic line with an even number of points displaces the origin
		// by half a period; anchoring the sub-line at its left end undoes it.
		leftOrigin := steps%2 == 0
		subOp := func(img *dip.Image, pol operation, mirror bool) (*dip.Image, error) {
			pt, release, err := e.lineTable(subParams, leftOrigin, mirrored != mirror)
			if err != nil {
				return nil, err
			}
			defer release()
			return e.generalSE(img, pt, pol)
		}
		switch op {
		case opDilation, opErosion:
			out, err := subOp(in, op, false)
			if err != nil {
				return nil, err
			}
			return e.periodicLine(out, params, mirrored, op)
		case opClosing, opOpening:
			first, second := opDilation, opErosion
			if op == opOpening {
				first, second = second, first
			}
			out, err := subOp(in, first, false)
			if err != nil {
				return nil, err
			}
			out, err = e.periodicLine(out, params, mirrored, op)
			if err != nil {
				return nil, err
			}
			return subOp(out, second, true)
		}
		return nil, dip.ErrInvalidParameter
	}
	// A single period: plain discrete line.
	return e.discreteLine(in, params, mirrored, op)
}

// discreteLine runs the digital line as a general neighborhood.
func (e *Engine) discreteLine(in *dip.Image, params []float64, mirrored bool, op operation) (*dip.Image, error) {
	pt, release, err := e.lineTable(params, false, mirrored)
	if err != nil {
		return nil, err
	}
	defer release()
	return e.generalSE(in, pt, op)
}

// fastLine handles lines whose rounded extents are all equal or 1: the
// support steps one pixel per participating dimension, so each diagonal path
// through the image is an independent 1-D filter.
func (e *Engine) fastLine(in *dip.Image, params []float64, mirrored bool, op operation) (*dip.Image, error) {
	count := 1
	step := make([]int, len(params))
	for d, p := range params {
		r := int(math.Round(p))
		if abs(r) > 1 {
			count = abs(r)
			step[d] = sign(r)
		}
	}
	if count == 1 {
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		return out, out.Copy(in)
	}
	anchor := count / 2
	return e.pathOperation(in, step, count, anchor, mirrored, op)
}

// periodicLine places count = steps points at an integer spacing of
// params/steps along the line direction.
func (e *Engine) periodicLine(in *dip.Image, params []float64, mirrored bool, op operation) (*dip.Image, error) {
	_, steps := PeriodicLineParameters(params)
	if steps <= 1 {
		out, err := in.Similar(in.DataType())
		if err != nil {
			return nil, err
		}
		return out, out.Copy(in)
	}
	step := make([]int, len(params))
	for d, p := range params {
		step[d] = int(math.Round(p)) / steps
	}
	anchor := steps / 2
	return e.pathOperation(in, step, steps, anchor, mirrored, op)
}

// pathOperation composes closings and openings from the two basic passes and
// normalizes the step direction before running the path filter.
func (e *Engine) pathOperation(in *dip.Image, step []int, count, anchor int, mirrored bool, op operation) (*dip.Image, error) {
	// Canonical direction: first moving dimension positive. Reversing the
	// step reverses the path, which is the same filter with the anchor
	// measured from the other end.
	for _, s := range step {
		if s == 0 {
			continue
		}
		if s < 0 {
			for d := range step {
				step[d] = -step[d]
			}
			anchor = count - 1 - anchor
		}
		break
	}
	if mirrored {
		anchor = count - 1 - anchor
	}
	switch op {
	case opClosing:
		out, err := e.pathFilter(in, step, count, anchor, true)
		if err != nil {
			return nil, err
		}
		return e.pathFilter(out, step, count, count-1-anchor, false)
	case opOpening:
		out, err := e.pathFilter(in, step, count, anchor, false)
		if err != nil {
			return nil, err
		}
		return e.pathFilter(out, step, count, count-1-anchor, true)
	}
	return e.pathFilter(in, step, count, anchor, op == opDilation)
}

// pathFilter applies a windowed extremum along every path of pixels linked by
// step: out(x) covers in(x + (j-anchor)*step) for j in [0, count).
func (e *Engine) pathFilter(in *dip.Image, step []int, count, anchor int, dilation bool) (*dip.Image, error) {
	out, err := in.Similar(in.DataType())
	if err != nil {
		return nil, err
	}
	starts, lengths := pathStarts(in.Sizes(), step)
	switch in.DataType() {
	case dip.Binary, dip.Uint8:
		pathLines[uint8](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Int8:
		pathLines[int8](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Uint16:
		pathLines[uint16](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Int16:
		pathLines[int16](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Uint32:
		pathLines[uint32](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Int32:
		pathLines[int32](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Uint64:
		pathLines[uint64](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Int64:
		pathLines[int64](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Float32:
		pathLines[float32](e, in, out, starts, lengths, step, count, anchor, dilation)
	case dip.Float64:
		pathLines[float64](e, in, out, starts, lengths, step, count, anchor, dilation)
	}
	return out, nil
}

// pathStarts enumerates the entry pixel of every path and its length. A pixel
// starts a path when stepping backwards leaves the image.
func pathStarts(sizes []int, step []int) (starts [][]int, lengths []int) {
	nd := len(sizes)
	coords := make([]int, nd)
	for n := dip.LineCount(sizes, -1); n > 0; n-- {
		isStart := false
		for d, s := range step {
			if s == 0 {
				continue
			}
			back := coords[d] - s
			if back < 0 || back >= sizes[d] {
				isStart = true
				break
			}
		}
		if isStart {
			starts = append(starts, append([]int(nil), coords...))
			length := math.MaxInt
			for d, s := range step {
				switch {
				case s > 0:
					length = min(length, (sizes[d]-1-coords[d])/s+1)
				case s < 0:
					length = min(length, coords[d]/(-s)+1)
				}
			}
			lengths = append(lengths, length)
		}
		for d := 0; d < nd; d++ {
			coords[d]++
			if coords[d] < sizes[d] {
				break
			}
			coords[d] = 0
		}
	}
	return starts, lengths
}

func pathLines[T dip.Scalar](e *Engine, in, out *dip.Image, starts [][]int, lengths []int, step []int, count, anchor int, dilation bool) {
	src := dip.SamplesOf[T](in)
	dst := dip.SamplesOf[T](out)
	inL := layoutOf(in)
	outL := layoutOf(out)
	stepIn, stepOut := 0, 0
	for d, s := range step {
		stepIn += s * inL.strides[d]
		stepOut += s * outL.strides[d]
	}
	var pad T
	if dilation {
		pad = lowest[T]()
	} else {
		pad = highest[T]()
	}
	left, right := anchor, count-1-anchor

	maxLen := 0
	for _, l := range lengths {
		maxLen = max(maxLen, l)
	}
	type scratch struct {
		line  []T
		deque []int
	}
	workers := make([]scratch, e.cfg.NumWorkers)
	for w := range workers {
		workers[w] = scratch{line: make([]T, maxLen+left+right), deque: make([]int, 0, count)}
	}

	parallel.ForWorker(len(starts), func(worker, i int) {
		s := &workers[worker]
		length := lengths[i]
		is := inL.origin
		os := outL.origin
		for d, c := range starts[i] {
			is += c * inL.strides[d]
			os += c * outL.strides[d]
		}
		line := s.line[:length+left+right]
		for j := 0; j < left; j++ {
			line[j] = pad
		}
		off := is
		for j := 0; j < length; j++ {
			line[left+j] = src[off]
			off += stepIn
		}
		for j := 0; j < right; j++ {
			line[left+length+j] = pad
		}
		slidingWindow(line, dst, os, stepOut, length, count, &s.deque, dilation)
	}, e.cfg)
}

func normalizeLineDirection(params []float64) []float64 {
	out := append([]float64(nil), params...)
	if len(out) > 0 && out[0] < 0 {
		for d := range out {
			out[d] = -out[d]
		}
	}
	return out
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
