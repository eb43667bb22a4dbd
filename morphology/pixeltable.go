package morphology

import (
	"fmt"
	"math"

	"github.com/gabkdlly/diplib/dip"
)

// pixelRun is a horizontal run of neighborhood pixels: the coordinates of its
// first pixel relative to the origin, and its length along the processing
// dimension.
type pixelRun struct {
	coords []int
	length int
}

// pixelTable is a run-length encoding of a structuring element's support.
// Weighted elements carry one weight per pixel, in run order.
type pixelTable struct {
	runs    []pixelRun
	weights []float64
	sizes   []int // bounding box
	origin  []int // origin pixel within the bounding box
	procDim int
	nPixels int
}

// newShapeTable builds the pixel table for an isotropically sampled shape:
// elliptic and diamond supports over an odd-sized bounding box.
func newShapeTable(shape Shape, params []float64, procDim int) *pixelTable {
	nd := len(params)
	sizes := make([]int, nd)
	radius := make([]float64, nd)
	for d, p := range params {
		h := 0
		if p > 1 {
			h = int(math.Floor((p - 1) / 2))
		}
		sizes[d] = 2*h + 1
		radius[d] = p / 2
	}
	pt := &pixelTable{sizes: sizes, procDim: procDim}
	pt.origin = make([]int, nd)
	for d := range sizes {
		pt.origin[d] = sizes[d] / 2
	}
	inside := func(coords []int) bool {
		sum := 0.0
		for d, c := range coords {
			o := float64(c - pt.origin[d])
			if radius[d] <= 0 {
				if o != 0 {
					return false
				}
				continue
			}
			switch shape {
			case Diamond:
				sum += math.Abs(o) / radius[d]
			default: // Elliptic
				sum += (o / radius[d]) * (o / radius[d])
			}
		}
		return sum <= 1.0
	}
	pt.buildRuns(inside, nil)
	return pt
}

// newLineTable builds the digital line with the given direction vector. The
// line has max(|round(params)|) pixels; the origin sits at the central pixel,
// or at the first pixel when leftOrigin is set.
func newLineTable(params []float64, leftOrigin bool, procDim int) *pixelTable {
	nd := len(params)
	length := 1
	for _, p := range params {
		length = max(length, int(math.Round(math.Abs(p))))
	}
	dir := make([]float64, nd)
	for d, p := range params {
		dir[d] = p / float64(length)
	}
	origin := length / 2
	if leftOrigin {
		origin = 0
	}
	points := make([][]int, length)
	for i := range points {
		c := make([]int, nd)
		for d := range c {
			c[d] = int(math.Round(float64(i-origin) * dir[d]))
		}
		points[i] = c
	}
	return newPointTable(points, nil, procDim)
}

// newTableFromImage builds a pixel table from a structuring element image.
// The origin is the central pixel (right of center for even sizes). Binary
// images give a flat element; real-valued images give a weighted one, with
// -Inf marking pixels outside the neighborhood.
func newTableFromImage(img *dip.Image, procDim int) (*pixelTable, error) {
	if !img.IsForged() {
		return nil, dip.ErrNotForged
	}
	if !img.IsScalar() {
		return nil, fmt.Errorf("structuring element image: %w", dip.ErrImageNotScalar)
	}
	if img.DataType().IsComplex() {
		return nil, fmt.Errorf("structuring element image: %w", dip.ErrDataTypeNotSupported)
	}
	flat := img.DataType().IsBinary()
	sizes := img.Sizes()
	nd := len(sizes)
	origin := make([]int, nd)
	for d := range sizes {
		origin[d] = sizes[d] / 2
	}
	var points [][]int
	var weights []float64
	coords := make([]int, nd)
	for n := dip.LineCount(sizes, -1); n > 0; n-- {
		px := img.At(coords...)
		v := px.Float(0)
		if (flat && v != 0) || (!flat && !math.IsInf(v, -1)) {
			p := make([]int, nd)
			for d := range p {
				p[d] = coords[d] - origin[d]
			}
			points = append(points, p)
			if !flat {
				weights = append(weights, v)
			}
		}
		for d := 0; d < nd; d++ {
			coords[d]++
			if coords[d] < sizes[d] {
				break
			}
			coords[d] = 0
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("structuring element image is empty: %w", dip.ErrInvalidParameter)
	}
	return newPointTable(points, weights, procDim), nil
}

// newPointTable assembles a table from explicit points (coordinates relative
// to the origin), merging pixels adjacent along procDim into runs.
func newPointTable(points [][]int, weights []float64, procDim int) *pixelTable {
	nd := len(points[0])
	pt := &pixelTable{procDim: procDim}
	pt.sizes = make([]int, nd)
	pt.origin = make([]int, nd)
	low := make([]int, nd)
	high := make([]int, nd)
	for _, p := range points {
		for d, c := range p {
			low[d] = min(low[d], c)
			high[d] = max(high[d], c)
		}
	}
	for d := range low {
		pt.sizes[d] = high[d] - low[d] + 1
		pt.origin[d] = -low[d]
	}
	present := make(map[string]int, len(points)) // point index, for weights
	for i, p := range points {
		present[coordKey(p)] = i
	}
	inside := func(coords []int) bool {
		rel := make([]int, nd)
		for d := range rel {
			rel[d] = coords[d] - pt.origin[d]
		}
		_, ok := present[coordKey(rel)]
		return ok
	}
	var weightOf func(coords []int) float64
	if weights != nil {
		weightOf = func(coords []int) float64 {
			rel := make([]int, nd)
			for d := range rel {
				rel[d] = coords[d] - pt.origin[d]
			}
			return weights[present[coordKey(rel)]]
		}
	}
	pt.buildRuns(inside, weightOf)
	return pt
}

func coordKey(coords []int) string {
	return fmt.Sprint(coords)
}

// buildRuns scans the bounding box along procDim, collecting maximal runs of
// pixels accepted by inside. Box coordinates, not origin-relative, are passed
// to the callbacks.
func (pt *pixelTable) buildRuns(inside func([]int) bool, weightOf func([]int) float64) {
	nd := len(pt.sizes)
	procLen := pt.sizes[pt.procDim]
	coords := make([]int, nd)
	for n := dip.LineCount(pt.sizes, pt.procDim); n > 0; n-- {
		runStart := -1
		for i := 0; i <= procLen; i++ {
			coords[pt.procDim] = i
			if i < procLen && inside(coords) {
				if runStart < 0 {
					runStart = i
				}
				if weightOf != nil {
					pt.weights = append(pt.weights, weightOf(coords))
				}
				continue
			}
			if runStart >= 0 {
				rc := make([]int, nd)
				for d := range rc {
					rc[d] = coords[d] - pt.origin[d]
				}
				rc[pt.procDim] = runStart - pt.origin[pt.procDim]
				length := i - runStart
				pt.runs = append(pt.runs, pixelRun{coords: rc, length: length})
				pt.nPixels += length
				runStart = -1
			}
		}
		coords[pt.procDim] = 0
		for d := 0; d < nd; d++ {
			if d == pt.procDim {
				continue
			}
			coords[d]++
			if coords[d] < pt.sizes[d] {
				break
			}
			coords[d] = 0
		}
	}
}

// mirror returns the point-mirrored table. Runs stay runs: a run mirrors onto
// the run ending at its negated start.
func (pt *pixelTable) mirror() *pixelTable {
	nd := len(pt.sizes)
	out := &pixelTable{
		procDim: pt.procDim,
		nPixels: pt.nPixels,
		sizes:   make([]int, nd),
		origin:  make([]int, nd),
	}
	for d := range pt.sizes {
		out.sizes[d] = pt.sizes[d]
		out.origin[d] = pt.sizes[d] - 1 - pt.origin[d]
	}
	pi := 0
	type mrun struct {
		run     pixelRun
		weights []float64
	}
	mruns := make([]mrun, 0, len(pt.runs))
	for _, r := range pt.runs {
		rc := make([]int, nd)
		for d, c := range r.coords {
			rc[d] = -c
		}
		rc[pt.procDim] = -(r.coords[pt.procDim] + r.length - 1)
		var w []float64
		if pt.weights != nil {
			w = make([]float64, r.length)
			for j := 0; j < r.length; j++ {
				w[r.length-1-j] = pt.weights[pi+j]
			}
		}
		pi += r.length
		mruns = append(mruns, mrun{run: pixelRun{coords: rc, length: r.length}, weights: w})
	}
	for i := len(mruns) - 1; i >= 0; i-- {
		out.runs = append(out.runs, mruns[i].run)
		out.weights = append(out.weights, mruns[i].weights...)
	}
	if pt.weights == nil {
		out.weights = nil
	}
	return out
}

// boundary returns the margin needed per dimension so that every neighborhood
// offset stays inside an extended image.
func (pt *pixelTable) boundary() []int {
	nd := len(pt.sizes)
	b := make([]int, nd)
	for _, r := range pt.runs {
		for d, c := range r.coords {
			if d == pt.procDim {
				b[d] = max(b[d], abs(c), abs(c+r.length-1))
				continue
			}
			b[d] = max(b[d], abs(c))
		}
	}
	return b
}

// offsetRun is a pixelRun resolved against an image's strides.
type offsetRun struct {
	offset int
	length int
}

// tableOffsets is a pixel table bound to a concrete stride layout.
type tableOffsets struct {
	runs    []offsetRun
	stride  int // stride along the processing dimension
	weights []float64
	nPixels int
}

func (pt *pixelTable) offsets(strides []int) tableOffsets {
	to := tableOffsets{
		runs:    make([]offsetRun, len(pt.runs)),
		stride:  strides[pt.procDim],
		weights: pt.weights,
		nPixels: pt.nPixels,
	}
	for i, r := range pt.runs {
		off := 0
		for d, c := range r.coords {
			off += c * strides[d]
		}
		to.runs[i] = offsetRun{offset: off, length: r.length}
	}
	return to
}

// all expands the runs to one offset per neighborhood pixel, in run order.
func (to tableOffsets) all() []int {
	offsets := make([]int, 0, to.nPixels)
	for _, r := range to.runs {
		for j := 0; j < r.length; j++ {
			offsets = append(offsets, r.offset+j*to.stride)
		}
	}
	return offsets
}

// AsImage scatters the table into an image of its bounding box: binary for a
// flat table, Float64 weights otherwise (excluded pixels hold -Inf).
func (pt *pixelTable) asImage() (*dip.Image, error) {
	dt := dip.Binary
	if pt.weights != nil {
		dt = dip.Float64
	}
	img, err := dip.NewScalar(pt.sizes, dt)
	if err != nil {
		return nil, err
	}
	if pt.weights != nil {
		if err := img.Fill([]float64{math.Inf(-1)}); err != nil {
			return nil, err
		}
	}
	pi := 0
	coords := make([]int, len(pt.sizes))
	for _, r := range pt.runs {
		for d, c := range r.coords {
			coords[d] = c + pt.origin[d]
		}
		for j := 0; j < r.length; j++ {
			coords[pt.procDim] = r.coords[pt.procDim] + j + pt.origin[pt.procDim]
			v := 1.0
			if pt.weights != nil {
				v = pt.weights[pi+j]
			}
			img.At(coords...).SetFloat(0, v)
		}
		pi += r.length
	}
	return img, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
