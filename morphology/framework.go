package morphology

import (
	"math"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/internal/parallel"
)

type operation int

const (
	opDilation operation = iota
	opErosion
	opClosing
	opOpening
)

// Engine runs morphological operations with a fixed worker configuration and
// a private pixel-table cache. The zero value is not usable; call New.
type Engine struct {
	cfg    parallel.Config
	tables *tableCache
}

// New returns an engine using the given number of worker goroutines.
// threads <= 0 selects all available CPUs.
func New(threads int) *Engine {
	return &Engine{cfg: parallel.WithWorkers(threads), tables: newTableCache()}
}

var std = New(0)

// identity is the padding value that cannot win a max (dilation) or a min
// (erosion); Fill clamps it to the image's data type.
func identity(dilation bool) float64 {
	if dilation {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// extend returns a view of size in.Sizes() into a fresh image padded by
// border on every side with pad. Neighborhood offsets up to border samples
// past the view's edges stay inside the allocation.
func extend(in *dip.Image, border []int, pad float64) (*dip.Image, error) {
	sizes := in.Sizes()
	origin := make([]int, len(sizes))
	for d := range sizes {
		sizes[d] += 2 * border[d]
		origin[d] = border[d]
	}
	big, err := dip.NewScalar(sizes, in.DataType())
	if err != nil {
		return nil, err
	}
	if err := big.Fill([]float64{pad}); err != nil {
		return nil, err
	}
	view, err := big.Window(origin, in.Sizes())
	if err != nil {
		return nil, err
	}
	if err := view.Copy(in); err != nil {
		return nil, err
	}
	return view, nil
}

// extendDouble pads by twice the border but returns a view larger than the
// input by one border, so that a first pass can produce valid results one
// border outside the input, for a second pass to consume.
func extendDouble(in *dip.Image, border []int, pad float64) (*dip.Image, error) {
	inSizes := in.Sizes()
	nd := len(inSizes)
	bigSizes := make([]int, nd)
	centerOrigin := make([]int, nd)
	viewOrigin := make([]int, nd)
	viewSizes := make([]int, nd)
	for d := range inSizes {
		bigSizes[d] = inSizes[d] + 4*border[d]
		centerOrigin[d] = 2 * border[d]
		viewOrigin[d] = border[d]
		viewSizes[d] = inSizes[d] + 2*border[d]
	}
	big, err := dip.NewScalar(bigSizes, in.DataType())
	if err != nil {
		return nil, err
	}
	if err := big.Fill([]float64{pad}); err != nil {
		return nil, err
	}
	center, err := big.Window(centerOrigin, inSizes)
	if err != nil {
		return nil, err
	}
	if err := center.Copy(in); err != nil {
		return nil, err
	}
	return big.Window(viewOrigin, viewSizes)
}

// lowest and highest give the identity elements of max and min for a sample
// type. Binary images are filtered through the uint8 instantiation.
func lowest[T dip.Scalar]() T {
	var z T
	switch any(z).(type) {
	case int8:
		return T(any(int8(math.MinInt8)).(int8))
	case int16:
		return T(any(int16(math.MinInt16)).(int16))
	case int32:
		return T(any(int32(math.MinInt32)).(int32))
	case int64:
		return T(any(int64(math.MinInt64)).(int64))
	case float32:
		return T(any(float32(math.Inf(-1))).(float32))
	case float64:
		return T(any(math.Inf(-1)).(float64))
	}
	return z // unsigned types: zero
}

func highest[T dip.Scalar]() T {
	var z T
	switch any(z).(type) {
	case uint8:
		return T(any(uint8(math.MaxUint8)).(uint8))
	case int8:
		return T(any(int8(math.MaxInt8)).(int8))
	case uint16:
		return T(any(uint16(math.MaxUint16)).(uint16))
	case int16:
		return T(any(int16(math.MaxInt16)).(int16))
	case uint32:
		return T(any(uint32(math.MaxUint32)).(uint32))
	case int32:
		return T(any(int32(math.MaxInt32)).(int32))
	case uint64:
		return T(any(uint64(math.MaxUint64)).(uint64))
	case int64:
		return T(any(int64(math.MaxInt64)).(int64))
	case float32:
		return T(any(float32(math.Inf(1))).(float32))
	case float64:
		return T(any(math.Inf(1)).(float64))
	}
	return z
}

// imageLayout caches the fields needed to address scan lines of an image.
type imageLayout struct {
	sizes   []int
	strides []int
	origin  int
}

func layoutOf(img *dip.Image) imageLayout {
	return imageLayout{sizes: img.Sizes(), strides: img.Strides(), origin: img.Origin()}
}

// lineStart returns the sample offset of scan line i along procDim.
func (l imageLayout) lineStart(i, procDim int, coords []int) int {
	dip.LineCoords(i, l.sizes, procDim, coords)
	off := l.origin
	for d, c := range coords {
		off += c * l.strides[d]
	}
	return off
}
