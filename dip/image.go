package dip

import (
	"fmt"
	"slices"
)

// Image is an n-dimensional array of pixels, each pixel holding one or more
// tensor elements (channels). The pixel grid is described by sizes and signed
// strides in sample units over a shared, reference-counted data segment.
// Copying the metadata is cheap; many operations here derive a new view by
// rewriting sizes, strides and the origin without touching samples.
//
// A stride of 0 on a size-1 dimension marks an added singleton; expanding such
// a dimension repeats the same samples without copying them.
type Image struct {
	sizes        []int
	strides      []int
	tensor       Tensor
	tensorStride int
	dtype        DataType
	seg          *dataSegment
	origin       int // sample offset of pixel (0,0,...) into the segment
	pixelSize    []float64
	colorSpace   string
	protected    bool
	allocator    Allocator
}

// New creates an image with the given sizes, number of tensor elements and
// data type, forged with normal strides.
func New(sizes []int, tensorElements int, dt DataType) (*Image, error) {
	img := &Image{}
	if err := img.SetSizes(sizes); err != nil {
		return nil, err
	}
	if tensorElements < 1 {
		return nil, fmt.Errorf("tensor elements must be positive: %w", ErrInvalidParameter)
	}
	img.tensor = VectorTensor(tensorElements)
	img.dtype = dt
	if err := img.Forge(); err != nil {
		return nil, err
	}
	return img, nil
}

// NewScalar creates a forged scalar (single-channel) image.
func NewScalar(sizes []int, dt DataType) (*Image, error) {
	return New(sizes, 1, dt)
}

// Raw creates an unforged image with the given properties. Set an allocator
// with SetAllocator before calling Forge to control where the samples live.
func Raw(sizes []int, tensorElements int, dt DataType) (*Image, error) {
	img := &Image{}
	if err := img.SetSizes(sizes); err != nil {
		return nil, err
	}
	if tensorElements < 1 {
		return nil, fmt.Errorf("tensor elements must be positive: %w", ErrInvalidParameter)
	}
	img.tensor = VectorTensor(tensorElements)
	img.dtype = dt
	return img, nil
}

// SetSizes sets the image sizes. The image must not be forged.
func (img *Image) SetSizes(sizes []int) error {
	if img.IsForged() {
		return fmt.Errorf("cannot set sizes on forged image: %w", ErrInvalidParameter)
	}
	for _, sz := range sizes {
		if sz < 0 {
			return fmt.Errorf("sizes must be non-negative: %w", ErrInvalidParameter)
		}
	}
	img.sizes = slices.Clone(sizes)
	img.strides = nil
	return nil
}

// SetDataType sets the sample data type. The image must not be forged.
func (img *Image) SetDataType(dt DataType) error {
	if img.IsForged() {
		return fmt.Errorf("cannot set data type on forged image: %w", ErrInvalidParameter)
	}
	img.dtype = dt
	return nil
}

// SetTensor sets the tensor descriptor. The image must not be forged.
func (img *Image) SetTensor(t Tensor) error {
	if img.IsForged() {
		return fmt.Errorf("cannot set tensor on forged image: %w", ErrInvalidParameter)
	}
	img.tensor = t
	return nil
}

// SetAllocator installs an external allocator used by the next Forge.
func (img *Image) SetAllocator(a Allocator) { img.allocator = a }

// Basic accessors.

func (img *Image) Dimensionality() int { return len(img.sizes) }
func (img *Image) Sizes() []int        { return slices.Clone(img.sizes) }
func (img *Image) Size(dim int) int    { return img.sizes[dim] }
func (img *Image) Strides() []int      { return slices.Clone(img.strides) }
func (img *Image) Stride(dim int) int  { return img.strides[dim] }
func (img *Image) Tensor() Tensor      { return img.tensor }
func (img *Image) TensorElements() int { return img.tensor.Elements() }
func (img *Image) TensorStride() int   { return img.tensorStride }
func (img *Image) DataType() DataType  { return img.dtype }
func (img *Image) IsForged() bool      { return img.seg != nil }
func (img *Image) IsScalar() bool      { return img.tensor.IsScalar() }
func (img *Image) IsProtected() bool   { return img.protected }
func (img *Image) ColorSpace() string  { return img.colorSpace }

// Origin returns the sample offset of the first pixel into the data segment.
func (img *Image) Origin() int { return img.origin }

// Data exposes the raw bytes of the whole data segment.
func (img *Image) Data() []byte {
	if !img.IsForged() {
		return nil
	}
	return img.seg.data
}

// Protect sets the protection flag and returns the previous value. A
// protected image cannot be stripped or reforged.
func (img *Image) Protect(set bool) bool {
	old := img.protected
	img.protected = set
	return old
}

// SetColorSpace tags the image with a color space name. Purely declarative.
func (img *Image) SetColorSpace(name string) { img.colorSpace = name }

// ResetColorSpace clears the color space tag.
func (img *Image) ResetColorSpace() { img.colorSpace = "" }

// PixelSize returns the physical size per pixel for each dimension, or nil
// when undefined.
func (img *Image) PixelSize() []float64 { return slices.Clone(img.pixelSize) }

// SetPixelSize sets the physical size per pixel for each dimension.
func (img *Image) SetPixelSize(ps []float64) { img.pixelSize = slices.Clone(ps) }

// NumberOfPixels returns the product of the image sizes.
func (img *Image) NumberOfPixels() int {
	n := 1
	for _, sz := range img.sizes {
		n *= sz
	}
	return n
}

// NumberOfSamples returns the number of samples: pixels times tensor elements.
func (img *Image) NumberOfSamples() int {
	return img.NumberOfPixels() * img.tensor.Elements()
}

// normalStrides computes the default layout: tensor elements are consecutive,
// then dimension 0, then dimension 1, and so on.
func normalStrides(sizes []int, tensorElements int) (strides []int, tensorStride int) {
	tensorStride = 1
	strides = make([]int, len(sizes))
	s := tensorElements
	for i, sz := range sizes {
		strides[i] = s
		s *= max(sz, 1)
	}
	return strides, tensorStride
}

// HasNormalStrides reports whether the strides describe the default layout.
func (img *Image) HasNormalStrides() bool {
	if !img.IsForged() {
		return false
	}
	if img.origin != 0 {
		return false
	}
	strides, tensorStride := normalStrides(img.sizes, img.tensor.Elements())
	if img.tensor.Elements() > 1 && img.tensorStride != tensorStride {
		return false
	}
	return slices.Equal(img.strides, strides)
}

// Forge allocates the data segment. A forged image is left untouched. With an
// allocator installed, the allocator provides the memory and dictates the
// strides; otherwise normal strides are used unless valid strides were
// inherited (not the case for fresh images).
func (img *Image) Forge() error {
	if img.IsForged() {
		return nil
	}
	telem := img.tensor.Elements()
	if img.allocator != nil {
		data, strides, tensorStride, release, err := img.allocator.AllocateData(img.sizes, telem, img.dtype)
		if err != nil {
			return fmt.Errorf("external allocator: %w", err)
		}
		need := img.NumberOfPixels() * telem * img.dtype.SizeOf()
		if len(data) < need || len(strides) != len(img.sizes) {
			return fmt.Errorf("external allocator returned an unusable buffer: %w", ErrInvalidParameter)
		}
		img.strides = strides
		img.tensorStride = tensorStride
		img.seg = newExternalSegment(data, release)
		img.origin = 0
		return nil
	}
	img.strides, img.tensorStride = normalStrides(img.sizes, telem)
	img.seg = newDataSegment(img.NumberOfPixels() * telem * img.dtype.SizeOf())
	img.origin = 0
	return nil
}

// Strip discards the reference to the data segment. Fails on a protected
// image. Stripping the last reference releases externally allocated memory.
func (img *Image) Strip() error {
	if img.protected {
		return fmt.Errorf("cannot strip: %w", ErrProtected)
	}
	if img.seg != nil {
		img.seg.decRef()
		img.seg = nil
		img.origin = 0
		img.strides = nil
	}
	return nil
}

// IsShared reports whether other images reference the same data segment.
func (img *Image) IsShared() bool {
	return img.IsForged() && !img.seg.isUnique()
}

// ReForge gives the image the requested properties, reusing the data segment
// when it already matches. A protected image must match exactly.
func (img *Image) ReForge(sizes []int, tensorElements int, dt DataType) error {
	match := img.IsForged() &&
		slices.Equal(img.sizes, sizes) &&
		img.tensor.Elements() == tensorElements &&
		img.dtype == dt
	if match {
		return nil
	}
	if img.protected {
		return fmt.Errorf("cannot reforge: %w", ErrProtected)
	}
	if err := img.Strip(); err != nil {
		return err
	}
	if err := img.SetSizes(sizes); err != nil {
		return err
	}
	if tensorElements < 1 {
		return fmt.Errorf("tensor elements must be positive: %w", ErrInvalidParameter)
	}
	img.tensor = VectorTensor(tensorElements)
	img.dtype = dt
	return img.Forge()
}

// Similar returns a fresh image with the same sizes, tensor elements and the
// given data type, forged with normal strides.
func (img *Image) Similar(dt DataType) (*Image, error) {
	if !img.IsForged() {
		return nil, ErrNotForged
	}
	out, err := New(img.sizes, img.tensor.Elements(), dt)
	if err != nil {
		return nil, err
	}
	out.tensor = img.tensor
	out.pixelSize = slices.Clone(img.pixelSize)
	out.colorSpace = img.colorSpace
	return out, nil
}

// View returns a shallow copy sharing the data segment: same pixels, private
// metadata. Modifying the view's geometry leaves the original untouched.
func (img *Image) View() *Image {
	out := &Image{
		sizes:        slices.Clone(img.sizes),
		strides:      slices.Clone(img.strides),
		tensor:       img.tensor,
		tensorStride: img.tensorStride,
		dtype:        img.dtype,
		seg:          img.seg,
		origin:       img.origin,
		pixelSize:    slices.Clone(img.pixelSize),
		colorSpace:   img.colorSpace,
	}
	if out.seg != nil {
		out.seg.addRef()
	}
	return out
}

// SharesData reports whether the two images reference the same data segment.
func (img *Image) SharesData(other *Image) bool {
	return img.IsForged() && other.IsForged() && img.seg == other.seg
}

// sampleRange returns the lowest and highest sample offset addressed by the
// view, inclusive.
func (img *Image) sampleRange() (lo, hi int) {
	lo, hi = img.origin, img.origin
	for i, sz := range img.sizes {
		d := (sz - 1) * img.strides[i]
		if d < 0 {
			lo += d
		} else {
			hi += d
		}
	}
	d := (img.tensor.Elements() - 1) * img.tensorStride
	if d < 0 {
		lo += d
	} else {
		hi += d
	}
	return lo, hi
}

// Aliases reports whether the two views can address the same samples. The
// test is conservative: views on the same segment with overlapping address
// ranges count as aliased.
func (img *Image) Aliases(other *Image) bool {
	if !img.SharesData(other) {
		return false
	}
	lo1, hi1 := img.sampleRange()
	lo2, hi2 := other.sampleRange()
	return lo1 <= hi2 && lo2 <= hi1
}

// IsIdenticalView reports whether both images address exactly the same
// samples in the same way.
func (img *Image) IsIdenticalView(other *Image) bool {
	return img.SharesData(other) &&
		img.origin == other.origin &&
		img.dtype == other.dtype &&
		img.tensorStride == other.tensorStride &&
		img.tensor.Elements() == other.tensor.Elements() &&
		slices.Equal(img.sizes, other.sizes) &&
		slices.Equal(img.strides, other.strides)
}

// IsOverlappingView reports whether the images share samples without being
// the identical view. Writing to one such view corrupts the other.
func (img *Image) IsOverlappingView(other *Image) bool {
	return img.Aliases(other) && !img.IsIdenticalView(other)
}

// SimpleStride determines whether the pixels form a contiguous sequence in
// memory sampled with one fixed pixel stride. It returns that stride
// (positive), the lowest spatial sample offset, and whether such a
// description exists. The tensor dimension is not part of the test; copy and
// fill primitives handle it with its own stride. Singleton-expanded
// dimensions (stride 0) disqualify the view since samples repeat.
func (img *Image) SimpleStride() (stride, start int, ok bool) {
	if !img.IsForged() {
		return 0, 0, false
	}
	type dim struct{ stride, size int }
	dims := make([]dim, 0, len(img.sizes))
	start = img.origin
	for i, sz := range img.sizes {
		if sz == 0 {
			return 0, 0, false
		}
		if sz > 1 {
			if img.strides[i] == 0 {
				return 0, 0, false
			}
			dims = append(dims, dim{abs(img.strides[i]), sz})
			if img.strides[i] < 0 {
				start += (sz - 1) * img.strides[i]
			}
		}
	}
	if len(dims) == 0 {
		return 1, start, true
	}
	slices.SortFunc(dims, func(a, b dim) int { return a.stride - b.stride })
	expect := dims[0].stride
	for _, d := range dims {
		if d.stride != expect {
			return 0, 0, false
		}
		expect = d.stride * d.size
	}
	return dims[0].stride, start, true
}

// HasSameDimensionOrder reports whether the two images store their dimensions
// in the same memory order with the same orientations, so that walking both
// in memory order visits logically corresponding samples.
func (img *Image) HasSameDimensionOrder(other *Image) bool {
	if len(img.sizes) != len(other.sizes) {
		return false
	}
	for i := range img.sizes {
		if img.sizes[i] > 1 && img.strides[i] != other.strides[i] {
			return false
		}
	}
	return img.tensor.Elements() <= 1 || img.tensorStride == other.tensorStride
}

// OptimalProcessingDim returns the dimension best suited for inner loops: the
// non-singleton dimension with the smallest absolute stride, ties broken by
// the larger size.
func (img *Image) OptimalProcessingDim() int {
	best := -1
	for d, sz := range img.sizes {
		if sz <= 1 {
			continue
		}
		if best < 0 {
			best = d
			continue
		}
		sd, sb := abs(img.strides[d]), abs(img.strides[best])
		if sd < sb || (sd == sb && sz > img.sizes[best]) {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// FlatOffset converts pixel coordinates to a sample offset into the segment.
// Panics when the number of coordinates or a coordinate is out of range.
func (img *Image) FlatOffset(coords ...int) int {
	if len(coords) != len(img.sizes) {
		panic(fmt.Sprintf("expected %d coordinates, got %d", len(img.sizes), len(coords)))
	}
	off := img.origin
	for i, c := range coords {
		if c < 0 || c >= img.sizes[i] {
			panic(fmt.Sprintf("coordinate %d out of range [0, %d)", c, img.sizes[i]))
		}
		off += c * img.strides[i]
	}
	return off
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
