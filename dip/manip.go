package dip

import (
	"fmt"
	"slices"
	"sort"
)

// Metadata-only view manipulation. None of these touch sample data; they
// rewrite sizes, strides and the origin. All require a forged image, validate
// before mutating, and leave the image untouched on error.

// PermuteDimensions reorders the dimensions. order lists the retained input
// dimension for every output dimension; input dimensions not listed must be
// singletons and are discarded.
func (img *Image) PermuteDimensions(order []int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	nd := len(img.sizes)
	if len(order) > nd {
		return fmt.Errorf("permute order: %w", ErrWrongArrayLength)
	}
	keep := make([]bool, nd)
	for _, d := range order {
		if d < 0 || d >= nd {
			return fmt.Errorf("permute order: %w", ErrIllegalDimension)
		}
		if keep[d] {
			return fmt.Errorf("cannot duplicate a dimension: %w", ErrInvalidParameter)
		}
		keep[d] = true
	}
	for d := 0; d < nd; d++ {
		if !keep[d] && img.sizes[d] > 1 {
			return fmt.Errorf("cannot discard non-singleton dimension: %w", ErrInvalidParameter)
		}
	}
	img.sizes = permute(img.sizes, order)
	img.strides = permute(img.strides, order)
	if img.pixelSize != nil {
		img.pixelSize = permute(img.pixelSize, order)
	}
	return nil
}

func permute[T any](in []T, order []int) []T {
	out := make([]T, len(order))
	for i, d := range order {
		if d < len(in) {
			out[i] = in[d]
		}
	}
	return out
}

// SwapDimensions exchanges two dimensions.
func (img *Image) SwapDimensions(dim1, dim2 int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	nd := len(img.sizes)
	if dim1 < 0 || dim1 >= nd || dim2 < 0 || dim2 >= nd {
		return ErrIllegalDimension
	}
	if dim1 != dim2 {
		img.sizes[dim1], img.sizes[dim2] = img.sizes[dim2], img.sizes[dim1]
		img.strides[dim1], img.strides[dim2] = img.strides[dim2], img.strides[dim1]
		if img.pixelSize != nil && dim1 < len(img.pixelSize) && dim2 < len(img.pixelSize) {
			img.pixelSize[dim1], img.pixelSize[dim2] = img.pixelSize[dim2], img.pixelSize[dim1]
		}
	}
	return nil
}

// Flatten converts the image to one dimension. When the samples are not
// contiguous they are copied to a new data segment first.
func (img *Image) Flatten() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	stride, start, ok := img.SimpleStride()
	if !ok {
		tmp, err := New(img.sizes, img.tensor.Elements(), img.dtype)
		if err != nil {
			return err
		}
		if err := tmp.Copy(img); err != nil {
			return err
		}
		stride, start, ok = tmp.SimpleStride()
		if !ok {
			panic("copying the image data did not yield simple strides")
		}
		img.seg.decRef()
		img.seg = tmp.seg
		img.allocator = nil
	}
	img.sizes = []int{img.NumberOfPixels()}
	img.strides = []int{stride}
	img.origin = start
	img.flattenPixelSize()
	return nil
}

// FlattenAsMuchAsPossible merges runs of dimensions that are contiguous in
// memory, without ever copying samples.
func (img *Image) FlattenAsMuchAsPossible() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	stride, start, ok := img.SimpleStride()
	if ok {
		img.sizes = []int{img.NumberOfPixels()}
		img.strides = []int{stride}
		img.origin = start
	} else {
		if err := img.StandardizeStrides(); err != nil {
			return err
		}
		sizes := []int{img.sizes[0]}
		strides := []int{img.strides[0]}
		j := 0
		for i := 1; i < len(img.sizes); i++ {
			if sizes[j]*strides[j] == img.strides[i] {
				sizes[j] *= img.sizes[i]
			} else {
				j++
				sizes = append(sizes, img.sizes[i])
				strides = append(strides, img.strides[i])
			}
		}
		img.sizes = sizes
		img.strides = strides
	}
	img.flattenPixelSize()
	return nil
}

func (img *Image) flattenPixelSize() {
	if isIsotropic(img.pixelSize) {
		img.pixelSize = img.pixelSize[:1]
	} else {
		img.pixelSize = nil
	}
}

func isIsotropic(ps []float64) bool {
	if len(ps) == 0 {
		return false
	}
	for _, v := range ps[1:] {
		if v != ps[0] {
			return false
		}
	}
	return true
}

// SplitDimension splits dimension dim of extent size*k into two dimensions of
// extents size and k.
func (img *Image) SplitDimension(dim, size int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrIllegalDimension
	}
	if size < 1 {
		return ErrInvalidParameter
	}
	size2 := img.sizes[dim] / size
	if size*size2 != img.sizes[dim] {
		return fmt.Errorf("dimension cannot be evenly divided: %w", ErrInvalidParameter)
	}
	img.sizes[dim] = size
	img.sizes = slices.Insert(img.sizes, dim+1, size2)
	img.strides = slices.Insert(img.strides, dim+1, img.strides[dim]*size)
	if img.pixelSize != nil && dim < len(img.pixelSize) {
		img.pixelSize = slices.Insert(img.pixelSize, dim+1, img.pixelSize[dim])
	}
	return nil
}

// Squeeze removes all singleton dimensions and returns their indices, so
// that AddSingletons with the same list restores the original shape.
func (img *Image) Squeeze() ([]int, error) {
	if !img.IsForged() {
		return nil, ErrNotForged
	}
	var removed []int
	j := 0
	for i := 0; i < len(img.sizes); i++ {
		if img.sizes[i] > 1 {
			img.sizes[j] = img.sizes[i]
			img.strides[j] = img.strides[i]
			if img.pixelSize != nil && i < len(img.pixelSize) && j < len(img.pixelSize) {
				img.pixelSize[j] = img.pixelSize[i]
			}
			j++
		} else {
			removed = append(removed, i)
		}
	}
	img.sizes = img.sizes[:j]
	img.strides = img.strides[:j]
	if len(img.pixelSize) > j {
		img.pixelSize = img.pixelSize[:j]
	}
	return removed, nil
}

// SqueezeDim removes the given dimension, which must be a singleton.
func (img *Image) SqueezeDim(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim >= len(img.sizes) || img.sizes[dim] != 1 {
		return ErrInvalidParameter
	}
	img.sizes = slices.Delete(img.sizes, dim, dim+1)
	img.strides = slices.Delete(img.strides, dim, dim+1)
	if dim < len(img.pixelSize) {
		img.pixelSize = slices.Delete(img.pixelSize, dim, dim+1)
	}
	return nil
}

// AddSingleton inserts a size-1 dimension before dim. The new dimension gets
// stride 0, which doubles as the marker for added singletons.
func (img *Image) AddSingleton(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim > len(img.sizes) {
		return ErrInvalidParameter
	}
	img.sizes = slices.Insert(img.sizes, dim, 1)
	img.strides = slices.Insert(img.strides, dim, 0)
	if img.pixelSize != nil && dim <= len(img.pixelSize) {
		img.pixelSize = slices.Insert(img.pixelSize, dim, 1)
	}
	return nil
}

// AddSingletons inserts singleton dimensions at each listed position, in
// order. The inverse of Squeeze.
func (img *Image) AddSingletons(dims []int) error {
	for _, dim := range dims {
		if err := img.AddSingleton(dim); err != nil {
			return err
		}
	}
	return nil
}

// ExpandDimensionality appends singleton dimensions until the image has at
// least n dimensions.
func (img *Image) ExpandDimensionality(n int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	for len(img.sizes) < n {
		img.sizes = append(img.sizes, 1)
		img.strides = append(img.strides, 0)
	}
	return nil
}

// ExpandSingletonDimension stretches a singleton dimension to the given size
// by setting its stride to 0: all positions along it share samples.
func (img *Image) ExpandSingletonDimension(dim, size int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrIllegalDimension
	}
	if img.sizes[dim] != 1 {
		return ErrInvalidParameter
	}
	img.sizes[dim] = size
	img.strides[dim] = 0
	return nil
}

// IsSingletonExpansionPossible reports whether the image can be expanded to
// newSizes by stretching singletons.
func (img *Image) IsSingletonExpansionPossible(newSizes []int) bool {
	if len(img.sizes) > len(newSizes) {
		return false
	}
	for i, sz := range img.sizes {
		if sz != newSizes[i] && sz != 1 {
			return false
		}
	}
	return true
}

// ExpandSingletonDimensions stretches the image to newSizes, adding trailing
// dimensions as needed.
func (img *Image) ExpandSingletonDimensions(newSizes []int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if len(img.sizes) > len(newSizes) {
		return ErrDimensionalityMismatch
	}
	if !img.IsSingletonExpansionPossible(newSizes) {
		return ErrSizesDontMatch
	}
	if err := img.ExpandDimensionality(len(newSizes)); err != nil {
		return err
	}
	for i, sz := range newSizes {
		if img.sizes[i] != sz {
			if err := img.ExpandSingletonDimension(i, sz); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnexpandSingletonDimensions reverses all singleton expansions, including an
// expanded tensor.
func (img *Image) UnexpandSingletonDimensions() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensorStride == 0 {
		img.tensor = ScalarTensor()
	}
	for i := range img.sizes {
		if img.strides[i] == 0 {
			img.sizes[i] = 1
		}
	}
	return nil
}

// UnexpandSingletonDimension reverses the expansion of one dimension.
func (img *Image) UnexpandSingletonDimension(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrIllegalDimension
	}
	if img.strides[dim] != 0 {
		return ErrDimensionNotExpanded
	}
	img.sizes[dim] = 1
	return nil
}

// ExpandSingletonTensor stretches a scalar image to n tensor elements that
// all share the same samples.
func (img *Image) ExpandSingletonTensor(n int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensor.Elements() != 1 {
		return ErrImageNotScalar
	}
	img.tensor = VectorTensor(n)
	img.tensorStride = 0
	return nil
}

// UnexpandSingletonTensor reverses ExpandSingletonTensor.
func (img *Image) UnexpandSingletonTensor() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensorStride != 0 {
		return ErrDimensionNotExpanded
	}
	img.tensor = ScalarTensor()
	return nil
}

// MirrorDim reverses the pixel order along one dimension.
func (img *Image) MirrorDim(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrIllegalDimension
	}
	img.origin += (img.sizes[dim] - 1) * img.strides[dim]
	img.strides[dim] = -img.strides[dim]
	return nil
}

// Mirror reverses the pixel order along each dimension with a true flag. A
// nil slice mirrors every dimension.
func (img *Image) Mirror(process []bool) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if process == nil {
		process = make([]bool, len(img.sizes))
		for i := range process {
			process[i] = true
		}
	}
	if len(process) != len(img.sizes) {
		return ErrWrongArrayLength
	}
	for d, p := range process {
		if p {
			if err := img.MirrorDim(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rotation90 rotates the image n quarter turns clockwise in the plane spanned
// by the two dimensions.
func (img *Image) Rotation90(n, dim1, dim2 int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	nd := len(img.sizes)
	if dim1 < 0 || dim1 >= nd || dim2 < 0 || dim2 >= nd || dim1 == dim2 {
		return ErrInvalidParameter
	}
	n %= 4
	if n < 0 {
		n += 4
	}
	switch n {
	case 1: // 90 degrees clockwise
		if err := img.MirrorDim(dim2); err != nil {
			return err
		}
		return img.SwapDimensions(dim1, dim2)
	case 2: // 180 degrees
		if err := img.MirrorDim(dim1); err != nil {
			return err
		}
		return img.MirrorDim(dim2)
	case 3: // 90 degrees counter-clockwise
		if err := img.MirrorDim(dim1); err != nil {
			return err
		}
		return img.SwapDimensions(dim1, dim2)
	}
	return nil
}

// StandardizeStrides brings the view to a canonical form: mirrored dimensions
// un-mirrored, expanded singletons un-expanded, singleton dimensions removed,
// and remaining dimensions sorted by increasing stride. Idempotent; two views
// of the same samples standardize to the same geometry.
func (img *Image) StandardizeStrides() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensorStride == 0 {
		img.tensor = ScalarTensor()
	}
	offset := 0
	for i := range img.sizes {
		if img.strides[i] < 0 {
			offset += (img.sizes[i] - 1) * img.strides[i]
			img.strides[i] = -img.strides[i]
		} else if img.strides[i] == 0 {
			img.sizes[i] = 1
		}
	}
	order := sortedIndices(img.strides)
	j := 0
	for _, d := range order {
		if img.sizes[d] > 1 {
			order[j] = d
			j++
		}
	}
	order = order[:j]
	img.origin += offset
	img.sizes = permute(img.sizes, order)
	img.strides = permute(img.strides, order)
	if img.pixelSize != nil {
		img.pixelSize = permute(img.pixelSize, order)
	}
	return nil
}

func sortedIndices(values []int) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})
	return order
}

// TensorToSpatial converts the tensor dimension into spatial dimension dim.
func (img *Image) TensorToSpatial(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dim < 0 || dim > len(img.sizes) {
		return ErrInvalidParameter
	}
	img.sizes = slices.Insert(img.sizes, dim, img.tensor.Elements())
	img.strides = slices.Insert(img.strides, dim, img.tensorStride)
	if img.pixelSize != nil && dim <= len(img.pixelSize) {
		img.pixelSize = slices.Insert(img.pixelSize, dim, 1)
	}
	img.tensor = ScalarTensor()
	img.tensorStride = 1
	img.ResetColorSpace()
	return nil
}

// SpatialToTensor converts spatial dimension dim of a scalar image into a
// tensor of rows x cols elements. Zero for rows or cols derives that count
// from the dimension's extent.
func (img *Image) SpatialToTensor(dim, rows, cols int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if !img.IsScalar() {
		return ErrImageNotScalar
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrInvalidParameter
	}
	switch {
	case rows == 0 && cols == 0:
		rows = img.sizes[dim]
		cols = 1
	case rows == 0:
		rows = img.sizes[dim] / cols
	case cols == 0:
		cols = img.sizes[dim] / rows
	}
	if rows*cols != img.sizes[dim] {
		return ErrInvalidParameter
	}
	img.tensor = MatrixTensor(rows, cols)
	img.tensorStride = img.strides[dim]
	img.sizes = slices.Delete(img.sizes, dim, dim+1)
	img.strides = slices.Delete(img.strides, dim, dim+1)
	if dim < len(img.pixelSize) {
		img.pixelSize = slices.Delete(img.pixelSize, dim, dim+1)
	}
	img.ResetColorSpace()
	return nil
}

// SplitComplex views a complex image as a float image with a new spatial
// dimension of extent 2 at dim, holding the real and imaginary parts.
func (img *Image) SplitComplex(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if !img.dtype.IsComplex() {
		return ErrDataTypeNotSupported
	}
	if dim < 0 || dim > len(img.sizes) {
		return ErrInvalidParameter
	}
	if img.dtype == Complex64 {
		img.dtype = Float32
	} else {
		img.dtype = Float64
	}
	// The sample is half as wide, so all strides double.
	for i := range img.strides {
		img.strides[i] *= 2
	}
	img.tensorStride *= 2
	img.origin *= 2
	img.sizes = slices.Insert(img.sizes, dim, 2)
	img.strides = slices.Insert(img.strides, dim, 1)
	if img.pixelSize != nil && dim <= len(img.pixelSize) {
		img.pixelSize = slices.Insert(img.pixelSize, dim, 1)
	}
	return nil
}

// MergeComplex reverses SplitComplex: dimension dim of extent 2 and stride 1
// becomes the real and imaginary parts of complex samples.
func (img *Image) MergeComplex(dim int) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.dtype.IsComplex() {
		return ErrDataTypeNotSupported
	}
	if img.dtype != Float32 && img.dtype != Float64 {
		return ErrDataTypeNotSupported
	}
	if dim < 0 || dim >= len(img.sizes) {
		return ErrInvalidParameter
	}
	if img.sizes[dim] != 2 || img.strides[dim] != 1 {
		return ErrSizesDontMatch
	}
	if img.origin%2 != 0 || img.tensorStride%2 != 0 {
		return ErrSizesDontMatch
	}
	for i, s := range img.strides {
		if i != dim && s%2 != 0 {
			return ErrSizesDontMatch
		}
	}
	if img.dtype == Float32 {
		img.dtype = Complex64
	} else {
		img.dtype = Complex128
	}
	img.sizes = slices.Delete(img.sizes, dim, dim+1)
	img.strides = slices.Delete(img.strides, dim, dim+1)
	if dim < len(img.pixelSize) {
		img.pixelSize = slices.Delete(img.pixelSize, dim, dim+1)
	}
	// The sample is twice as wide, so all strides halve.
	for i := range img.strides {
		img.strides[i] /= 2
	}
	img.tensorStride /= 2
	img.origin /= 2
	return nil
}

// SplitComplexToTensor views a scalar complex image as a two-element vector
// image holding real and imaginary parts.
func (img *Image) SplitComplexToTensor() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if !img.IsScalar() {
		return ErrImageNotScalar
	}
	if !img.dtype.IsComplex() {
		return ErrDataTypeNotSupported
	}
	if img.dtype == Complex64 {
		img.dtype = Float32
	} else {
		img.dtype = Float64
	}
	for i := range img.strides {
		img.strides[i] *= 2
	}
	img.origin *= 2
	img.tensor = VectorTensor(2)
	img.tensorStride = 1
	img.ResetColorSpace()
	return nil
}

// MergeTensorToComplex reverses SplitComplexToTensor: a two-element vector
// image with tensor stride 1 becomes scalar complex.
func (img *Image) MergeTensorToComplex() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensor.Elements() != 2 || img.tensorStride != 1 {
		return ErrTensorElementsDontMatch
	}
	if img.dtype.IsComplex() {
		return ErrDataTypeNotSupported
	}
	if img.dtype != Float32 && img.dtype != Float64 {
		return ErrDataTypeNotSupported
	}
	if img.origin%2 != 0 {
		return ErrSizesDontMatch
	}
	for _, s := range img.strides {
		if s%2 != 0 {
			return ErrSizesDontMatch
		}
	}
	if img.dtype == Float32 {
		img.dtype = Complex64
	} else {
		img.dtype = Complex128
	}
	img.tensor = ScalarTensor()
	for i := range img.strides {
		img.strides[i] /= 2
	}
	img.origin /= 2
	img.ResetColorSpace()
	return nil
}

// ReinterpretCast re-labels the samples with another data type of the same or
// a different width, without converting anything. Width changes rescale the
// first dimension that has stride 1; every check runs before any change so a
// failed cast leaves the image untouched.
func (img *Image) ReinterpretCast(dt DataType) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dt == img.dtype {
		return nil
	}
	inSize := img.dtype.SizeOf()
	outSize := dt.SizeOf()
	if inSize != outSize {
		nd := len(img.sizes)
		dim := nd
		for d := 0; d < nd; d++ {
			if img.sizes[d] > 1 && img.strides[d] == 1 {
				dim = d
				break
			}
		}
		if inSize > outSize {
			ratio := inSize / outSize
			if dim == nd {
				if err := img.AddSingleton(0); err != nil {
					return err
				}
				dim = 0
				nd++
				img.strides[dim] = 1
			}
			img.sizes[dim] *= ratio
			for d := 0; d < nd; d++ {
				if d != dim {
					img.strides[d] *= ratio
				}
			}
			img.tensorStride *= ratio
			img.origin *= ratio
		} else {
			ratio := outSize / inSize
			if dim == nd {
				return fmt.Errorf("image not compatible with requested cast: %w", ErrInvalidParameter)
			}
			if img.sizes[dim]%ratio != 0 || img.origin%ratio != 0 || img.tensorStride%ratio != 0 {
				return fmt.Errorf("image not compatible with requested cast: %w", ErrInvalidParameter)
			}
			for d := 0; d < nd; d++ {
				if d != dim && img.strides[d]%ratio != 0 {
					return fmt.Errorf("image not compatible with requested cast: %w", ErrInvalidParameter)
				}
			}
			img.sizes[dim] /= ratio
			for d := 0; d < nd; d++ {
				if d != dim {
					img.strides[d] /= ratio
				}
			}
			img.tensorStride /= ratio
			img.origin /= ratio
		}
	}
	img.dtype = dt
	return nil
}

// Placement selects where a crop window sits inside an image, or dually,
// where an image sits inside its padding.
type Placement int

const (
	// Center keeps the pixel right of the center in place: when the input
	// extent is even and the window extent odd, the window shifts one pixel.
	Center Placement = iota
	// MirrorCenter keeps the pixel left of the center in place: the shift
	// happens when the input extent is odd and the window extent even.
	MirrorCenter
	TopLeft
	BottomRight
)

// cropOrigin computes the window position inside an image for each placement.
func cropOrigin(imageSizes, windowSizes []int, loc Placement) []int {
	origin := make([]int, len(imageSizes))
	switch loc {
	case Center:
		for i := range origin {
			diff := imageSizes[i] - windowSizes[i]
			origin[i] = diff / 2
			if imageSizes[i]%2 == 0 && windowSizes[i]%2 == 1 {
				origin[i]++
			}
		}
	case MirrorCenter:
		for i := range origin {
			diff := imageSizes[i] - windowSizes[i]
			origin[i] = diff / 2
			if imageSizes[i]%2 == 1 && windowSizes[i]%2 == 0 {
				origin[i]++
			}
		}
	case TopLeft:
		// origin stays at 0
	case BottomRight:
		for i := range origin {
			origin[i] = imageSizes[i] - windowSizes[i]
		}
	}
	return origin
}

// Crop reduces the image to a window of the given sizes at the given
// placement.
func (img *Image) Crop(sizes []int, loc Placement) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if len(sizes) != len(img.sizes) {
		return ErrWrongArrayLength
	}
	for i, sz := range sizes {
		if sz < 1 || sz > img.sizes[i] {
			return fmt.Errorf("crop window does not fit: %w", ErrSizesDontMatch)
		}
	}
	origin := cropOrigin(img.sizes, sizes, loc)
	for i, o := range origin {
		img.origin += o * img.strides[i]
	}
	img.sizes = slices.Clone(sizes)
	return nil
}

// Cropped returns a cropped view, leaving the image itself untouched.
func (img *Image) Cropped(sizes []int, loc Placement) (*Image, error) {
	out := img.View()
	if err := out.Crop(sizes, loc); err != nil {
		_ = out.Strip()
		return nil, err
	}
	return out, nil
}

// Window returns a sub-view with an explicit origin and sizes.
func (img *Image) Window(origin, sizes []int) (*Image, error) {
	if !img.IsForged() {
		return nil, ErrNotForged
	}
	if len(origin) != len(img.sizes) || len(sizes) != len(img.sizes) {
		return nil, ErrWrongArrayLength
	}
	for i := range origin {
		if origin[i] < 0 || sizes[i] < 1 || origin[i]+sizes[i] > img.sizes[i] {
			return nil, fmt.Errorf("window does not fit: %w", ErrSizesDontMatch)
		}
	}
	out := img.View()
	for i, o := range origin {
		out.origin += o * out.strides[i]
	}
	out.sizes = slices.Clone(sizes)
	return out, nil
}

// Pad returns a new image of the given sizes filled with value, with this
// image's samples copied into the window at the given placement. The dual of
// Crop: cropping the result with the same placement yields this image again.
func (img *Image) Pad(sizes []int, value []float64, loc Placement) (*Image, error) {
	if !img.IsForged() {
		return nil, ErrNotForged
	}
	if len(sizes) != len(img.sizes) {
		return nil, ErrWrongArrayLength
	}
	for i, sz := range sizes {
		if sz < img.sizes[i] {
			return nil, fmt.Errorf("pad sizes smaller than image: %w", ErrSizesDontMatch)
		}
	}
	out, err := New(sizes, img.tensor.Elements(), img.dtype)
	if err != nil {
		return nil, err
	}
	out.tensor = img.tensor
	out.pixelSize = slices.Clone(img.pixelSize)
	out.colorSpace = img.colorSpace
	if err := out.Fill(value); err != nil {
		return nil, err
	}
	window, err := out.Cropped(img.sizes, loc)
	if err != nil {
		return nil, err
	}
	defer window.Strip()
	if err := window.Copy(img); err != nil {
		return nil, err
	}
	return out, nil
}
