package dip

import (
	"fmt"
	"slices"
)

// BufferInfo describes a strided sample buffer in the way array-protocol
// consumers expect: byte strides, an item size and a single-character format
// tag ("?bBhHiIqQfd" plus "Zf"/"Zd" for complex).
type BufferInfo struct {
	Data       []byte
	ItemSize   int
	Format     string
	Sizes      []int
	Strides    []int // byte strides
	TensorAxis int   // index into Sizes of the channel axis, or -1
}

var formatTags = map[DataType]string{
	Binary:     "?",
	Uint8:      "B",
	Int8:       "b",
	Uint16:     "H",
	Int16:      "h",
	Uint32:     "I",
	Int32:      "i",
	Uint64:     "Q",
	Int64:      "q",
	Float32:    "f",
	Float64:    "d",
	Complex64:  "Zf",
	Complex128: "Zd",
}

// Export describes the image's data segment as a BufferInfo without copying.
// A tensor with more than one element becomes a trailing axis.
func Export(img *Image) (BufferInfo, error) {
	if !img.IsForged() {
		return BufferInfo{}, ErrNotForged
	}
	sz := img.DataType().SizeOf()
	info := BufferInfo{
		ItemSize:   sz,
		Format:     formatTags[img.DataType()],
		Sizes:      img.Sizes(),
		TensorAxis: -1,
	}
	strides := img.Strides()
	for i := range strides {
		strides[i] *= sz
	}
	if img.TensorElements() > 1 {
		info.TensorAxis = len(info.Sizes)
		info.Sizes = append(info.Sizes, img.TensorElements())
		strides = append(strides, img.TensorStride()*sz)
	}
	info.Strides = strides
	info.Data = img.Data()[img.Origin()*sz:]
	return info, nil
}

func dataTypeFromFormat(format string, itemSize int) (DataType, error) {
	for dt, tag := range formatTags {
		if tag == format && dt.SizeOf() == itemSize {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("format %q with item size %d: %w", format, itemSize, ErrDataTypeNotSupported)
}

// Import wraps a foreign buffer in an Image without copying samples. With
// autoTensor set and at least three axes, a small leading or trailing axis
// (at most four elements) is taken as the channel axis; otherwise the result
// is scalar.
func Import(info BufferInfo, autoTensor bool) (*Image, error) {
	dt, err := dataTypeFromFormat(info.Format, info.ItemSize)
	if err != nil {
		return nil, err
	}
	if len(info.Sizes) != len(info.Strides) {
		return nil, ErrWrongArrayLength
	}
	sizes := slices.Clone(info.Sizes)
	strides := make([]int, len(info.Strides))
	for i, bs := range info.Strides {
		if bs%info.ItemSize != 0 {
			return nil, fmt.Errorf("stride %d not a multiple of the item size: %w", bs, ErrInvalidParameter)
		}
		strides[i] = bs / info.ItemSize
	}
	tensorAxis := info.TensorAxis
	if tensorAxis < 0 && autoTensor && len(sizes) >= 3 {
		switch {
		case sizes[len(sizes)-1] <= 4:
			tensorAxis = len(sizes) - 1
		case sizes[0] <= 4:
			tensorAxis = 0
		}
	}
	img := &Image{
		sizes:  sizes,
		dtype:  dt,
		tensor: ScalarTensor(),
		seg:    newExternalSegment(info.Data, nil),
	}
	img.strides = strides
	img.tensorStride = 1
	if tensorAxis >= 0 {
		if tensorAxis >= len(sizes) {
			return nil, ErrIllegalDimension
		}
		img.tensor = VectorTensor(sizes[tensorAxis])
		img.tensorStride = strides[tensorAxis]
		img.sizes = slices.Delete(img.sizes, tensorAxis, tensorAxis+1)
		img.strides = slices.Delete(img.strides, tensorAxis, tensorAxis+1)
	}
	// Data[0] holds the first sample of the first pixel. A mirrored foreign
	// view would address bytes before it, which a slice cannot reach.
	lo, hi := img.sampleRange()
	if lo < 0 || (hi+1)*info.ItemSize > len(info.Data) {
		return nil, fmt.Errorf("buffer does not cover the described view: %w", ErrSizesDontMatch)
	}
	return img, nil
}
