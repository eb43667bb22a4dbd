package dip

import (
	"fmt"
	"slices"
)

// Copy fills the image with src's pixel data, converting the data type when
// it differs. An unforged destination is forged with src's properties. A
// forged destination must have matching sizes and tensor elements; if it
// overlaps src in memory without being the identical view, its data segment
// is replaced.
func (img *Image) Copy(src *Image) error {
	if !src.IsForged() {
		return ErrNotForged
	}
	if img == src {
		return nil
	}
	if img.IsForged() {
		if img.IsIdenticalView(src) {
			img.pixelSize = slices.Clone(src.pixelSize)
			img.colorSpace = src.colorSpace
			return nil
		}
		if !slices.Equal(img.sizes, src.sizes) ||
			img.tensor.Elements() != src.tensor.Elements() ||
			img.IsOverlappingView(src) {
			if err := img.Strip(); err != nil {
				return err
			}
		} else {
			img.pixelSize = slices.Clone(src.pixelSize)
			img.colorSpace = src.colorSpace
		}
	}
	if !img.IsForged() {
		if err := img.SetSizes(src.sizes); err != nil {
			return err
		}
		img.tensor = src.tensor
		img.dtype = src.dtype
		img.pixelSize = slices.Clone(src.pixelSize)
		img.colorSpace = src.colorSpace
		if err := img.Forge(); err != nil {
			return err
		}
	}
	// One flat run when both images are contiguous in the same memory order.
	if dstride, dstart, ok := img.SimpleStride(); ok {
		if sstride, sstart, ok := src.SimpleStride(); ok && img.HasSameDimensionOrder(src) {
			copyBuffer(
				bufFromImage(src, sstart, sstride),
				bufFromImage(img, dstart, dstride),
				img.NumberOfPixels(), img.tensor.Elements(), nil)
			return nil
		}
	}
	// Otherwise walk scan lines.
	procDim := src.OptimalProcessingDim()
	pixels := 1
	if len(img.sizes) > 0 {
		pixels = img.sizes[procDim]
	}
	for it := newLineIterator(img.sizes, procDim); it.ok(); it.next() {
		copyBuffer(
			bufFromImage(src, it.offset(src.origin, src.strides), lineStride(src, procDim)),
			bufFromImage(img, it.offset(img.origin, img.strides), lineStride(img, procDim)),
			pixels, img.tensor.Elements(), nil)
	}
	return nil
}

func lineStride(img *Image, procDim int) int {
	if procDim < len(img.strides) {
		return img.strides[procDim]
	}
	return 1
}

// Convert changes the image's data type, converting samples with saturation.
// Binary to 8-bit integer conversion only re-labels the samples. When the
// sample width is unchanged and the data segment is not shared, conversion
// happens in place; otherwise a new segment is allocated and copied into,
// which fails on a protected image.
func (img *Image) Convert(dt DataType) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if dt == img.dtype {
		return nil
	}
	if img.dtype == Binary && (dt == Uint8 || dt == Int8) {
		// Same encoding for the stored values 0 and 1.
		img.dtype = dt
		return nil
	}
	if !img.IsShared() && dt.SizeOf() == img.dtype.SizeOf() {
		src := img.dtype
		if stride, start, ok := img.SimpleStride(); ok {
			b := bufFromImage(img, start, stride)
			d := b
			d.dt = dt
			b.dt = src
			copyBuffer(b, d, img.NumberOfPixels(), img.tensor.Elements(), nil)
		} else {
			procDim := img.OptimalProcessingDim()
			pixels := 1
			if len(img.sizes) > 0 {
				pixels = img.sizes[procDim]
			}
			for it := newLineIterator(img.sizes, procDim); it.ok(); it.next() {
				b := bufFromImage(img, it.offset(img.origin, img.strides), lineStride(img, procDim))
				d := b
				d.dt = dt
				copyBuffer(b, d, pixels, img.tensor.Elements(), nil)
			}
		}
		img.dtype = dt
		return nil
	}
	if img.protected {
		return fmt.Errorf("cannot convert: %w", ErrProtected)
	}
	tmp, err := New(img.sizes, img.tensor.Elements(), dt)
	if err != nil {
		return err
	}
	tmp.tensor = img.tensor
	if err := tmp.Copy(img); err != nil {
		return err
	}
	img.replaceWith(tmp)
	return nil
}

// Fill writes a constant pixel value everywhere. No values fills with zero, a
// single value fills every tensor element, otherwise one value per tensor
// element is required.
func (img *Image) Fill(values []float64) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	telem := img.tensor.Elements()
	encs, err := encodeFillValues(img.dtype, telem, values)
	if err != nil {
		return err
	}
	img.fillEncoded(encs)
	return nil
}

// FillComplex is Fill for complex values.
func (img *Image) FillComplex(values []complex128) error {
	if !img.IsForged() {
		return ErrNotForged
	}
	telem := img.tensor.Elements()
	var encs [][]byte
	switch len(values) {
	case 0:
		encs = [][]byte{encodeComplexSample(img.dtype, 0)}
	case 1:
		encs = [][]byte{encodeComplexSample(img.dtype, values[0])}
	default:
		if len(values) != telem {
			return ErrTensorElementsDontMatch
		}
		encs = make([][]byte, telem)
		for i, v := range values {
			encs[i] = encodeComplexSample(img.dtype, v)
		}
	}
	img.fillEncoded(encs)
	return nil
}

func encodeFillValues(dt DataType, telem int, values []float64) ([][]byte, error) {
	switch len(values) {
	case 0:
		return [][]byte{encodeSample(dt, 0)}, nil
	case 1:
		return [][]byte{encodeSample(dt, values[0])}, nil
	default:
		if len(values) != telem {
			return nil, ErrTensorElementsDontMatch
		}
		encs := make([][]byte, telem)
		for i, v := range values {
			encs[i] = encodeSample(dt, v)
		}
		return encs, nil
	}
}

// fillEncoded writes pre-encoded sample values; one encoding shared by all
// tensor elements, or one per element.
func (img *Image) fillEncoded(encs [][]byte) {
	telem := img.tensor.Elements()
	uniform := len(encs) == 1
	if stride, start, ok := img.SimpleStride(); ok {
		if uniform {
			fillBuffer(bufFromImage(img, start, stride), img.NumberOfPixels(), telem, encs[0])
			return
		}
		for j := 0; j < telem; j++ {
			b := bufFromImage(img, start+j*img.tensorStride, stride)
			b.tstride = 0
			fillBuffer(b, img.NumberOfPixels(), 1, encs[j])
		}
		return
	}
	procDim := img.OptimalProcessingDim()
	pixels := 1
	if len(img.sizes) > 0 {
		pixels = img.sizes[procDim]
	}
	for it := newLineIterator(img.sizes, procDim); it.ok(); it.next() {
		off := it.offset(img.origin, img.strides)
		if uniform {
			fillBuffer(bufFromImage(img, off, lineStride(img, procDim)), pixels, telem, encs[0])
			continue
		}
		for j := 0; j < telem; j++ {
			b := bufFromImage(img, off+j*img.tensorStride, lineStride(img, procDim))
			b.tstride = 0
			fillBuffer(b, pixels, 1, encs[j])
		}
	}
}

// ExpandTensor rewrites the image so the tensor is stored as a full
// column-major matrix. Compactly stored elements are duplicated and absent
// ones filled with zero, per the tensor's look-up table. A no-op when the
// storage already has normal order.
func (img *Image) ExpandTensor() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.tensor.HasNormalOrder() {
		return nil
	}
	if img.protected {
		return fmt.Errorf("cannot expand tensor: %w", ErrProtected)
	}
	lut := img.tensor.LookUpTable()
	tensor := MatrixTensor(img.tensor.Rows(), img.tensor.Columns())
	out, err := New(img.sizes, tensor.Elements(), img.dtype)
	if err != nil {
		return err
	}
	out.tensor = tensor
	out.pixelSize = slices.Clone(img.pixelSize)
	if dstride, dstart, ok := out.SimpleStride(); ok {
		if sstride, sstart, ok2 := img.SimpleStride(); ok2 && out.HasSameDimensionOrder(img) {
			copyBuffer(
				bufFromImage(img, sstart, sstride),
				bufFromImage(out, dstart, dstride),
				out.NumberOfPixels(), tensor.Elements(), lut)
			img.replaceWith(out)
			return nil
		}
	}
	procDim := img.OptimalProcessingDim()
	pixels := 1
	if len(img.sizes) > 0 {
		pixels = img.sizes[procDim]
	}
	for it := newLineIterator(out.sizes, procDim); it.ok(); it.next() {
		copyBuffer(
			bufFromImage(img, it.offset(img.origin, img.strides), lineStride(img, procDim)),
			bufFromImage(out, it.offset(out.origin, out.strides), lineStride(out, procDim)),
			pixels, tensor.Elements(), lut)
	}
	img.replaceWith(out)
	return nil
}

// replaceWith moves out's identity into img, keeping img's allocator for
// future forging.
func (img *Image) replaceWith(out *Image) {
	alloc := img.allocator
	img.seg.decRef()
	*img = *out
	img.allocator = alloc
}

// SwapBytesInSample reverses the byte order of every sample, converting
// between little- and big-endian encodings. Complex samples swap their real
// and imaginary parts independently.
func (img *Image) SwapBytesInSample() error {
	if !img.IsForged() {
		return ErrNotForged
	}
	if img.dtype.SizeOf() == 1 {
		return nil
	}
	tmp := img.View()
	defer tmp.Strip()
	if !tmp.IsScalar() {
		if err := tmp.TensorToSpatial(len(tmp.sizes)); err != nil {
			return err
		}
	}
	if tmp.dtype.IsComplex() {
		if err := tmp.SplitComplex(0); err != nil {
			return err
		}
	}
	var cast DataType
	switch tmp.dtype.SizeOf() {
	case 2:
		cast = Uint16
	case 4:
		cast = Uint32
	case 8:
		cast = Uint64
	default:
		return ErrNotImplemented
	}
	if err := tmp.ReinterpretCast(cast); err != nil {
		return err
	}
	n := tmp.dtype.SizeOf()
	data := tmp.seg.data
	for it := newLineIterator(tmp.sizes, -1); it.ok(); it.next() {
		off := it.offset(tmp.origin, tmp.strides) * n
		for i := 0; i < n/2; i++ {
			data[off+i], data[off+n-1-i] = data[off+n-1-i], data[off+i]
		}
	}
	return nil
}

// checkIsMask validates that mask can select pixels of an image with the
// given sizes.
func checkIsMask(mask *Image, sizes []int) error {
	if !mask.IsForged() {
		return ErrNotForged
	}
	if mask.dtype != Binary {
		return fmt.Errorf("mask: %w", ErrDataTypeNotSupported)
	}
	if !mask.IsScalar() {
		return fmt.Errorf("mask: %w", ErrImageNotScalar)
	}
	if !slices.Equal(mask.sizes, sizes) {
		return fmt.Errorf("mask: %w", ErrSizesDontMatch)
	}
	return nil
}

// CopyFromMask gathers the pixels of src selected by mask into a fresh 1-D
// image, in iteration order.
func CopyFromMask(src, mask *Image) (*Image, error) {
	if !src.IsForged() {
		return nil, ErrNotForged
	}
	if err := checkIsMask(mask, src.sizes); err != nil {
		return nil, err
	}
	n := 0
	maskData := mask.seg.data
	for it := newLineIterator(mask.sizes, -1); it.ok(); it.next() {
		if maskData[it.offset(mask.origin, mask.strides)] != 0 {
			n++
		}
	}
	out, err := New([]int{n}, src.tensor.Elements(), src.dtype)
	if err != nil {
		return nil, err
	}
	out.tensor = src.tensor
	telem := src.tensor.Elements()
	p := 0
	for it := newLineIterator(src.sizes, -1); it.ok(); it.next() {
		if maskData[it.offset(mask.origin, mask.strides)] == 0 {
			continue
		}
		copyBuffer(
			bufFromImage(src, it.offset(src.origin, src.strides), 0),
			bufFromImage(out, out.origin+p*out.strides[0], 0),
			1, telem, nil)
		p++
	}
	return out, nil
}

// CopyFromOffsets gathers the pixels of src at the given sample offsets
// (relative to src's origin) into a fresh 1-D image.
func CopyFromOffsets(src *Image, offsets []int) (*Image, error) {
	if !src.IsForged() {
		return nil, ErrNotForged
	}
	if len(offsets) == 0 {
		return nil, ErrArrayEmpty
	}
	out, err := New([]int{len(offsets)}, src.tensor.Elements(), src.dtype)
	if err != nil {
		return nil, err
	}
	out.tensor = src.tensor
	telem := src.tensor.Elements()
	for p, off := range offsets {
		copyBuffer(
			bufFromImage(src, src.origin+off, 0),
			bufFromImage(out, out.origin+p*out.strides[0], 0),
			1, telem, nil)
	}
	return out, nil
}

// CopyToMask scatters src's pixels into the pixels of dst selected by mask,
// in iteration order. The pixel counts must match exactly: both running out
// at the same time is the only success.
func CopyToMask(src, dst, mask *Image) error {
	if !src.IsForged() || !dst.IsForged() {
		return ErrNotForged
	}
	if src.tensor.Elements() != dst.tensor.Elements() {
		return ErrTensorElementsDontMatch
	}
	if err := checkIsMask(mask, dst.sizes); err != nil {
		return err
	}
	telem := dst.tensor.Elements()
	maskData := mask.seg.data
	srcIt := newLineIterator(src.sizes, -1)
	for it := newLineIterator(dst.sizes, -1); it.ok(); it.next() {
		if maskData[it.offset(mask.origin, mask.strides)] == 0 {
			continue
		}
		if !srcIt.ok() {
			return fmt.Errorf("source exhausted before mask: %w", ErrSizesDontMatch)
		}
		copyBuffer(
			bufFromImage(src, srcIt.offset(src.origin, src.strides), 0),
			bufFromImage(dst, it.offset(dst.origin, dst.strides), 0),
			1, telem, nil)
		srcIt.next()
	}
	if srcIt.ok() {
		return fmt.Errorf("mask exhausted before source: %w", ErrSizesDontMatch)
	}
	return nil
}

// CopyToOffsets scatters src's pixels to the given sample offsets (relative
// to dst's origin) in dst. One offset per source pixel.
func CopyToOffsets(src, dst *Image, offsets []int) error {
	if !src.IsForged() || !dst.IsForged() {
		return ErrNotForged
	}
	if src.tensor.Elements() != dst.tensor.Elements() {
		return ErrTensorElementsDontMatch
	}
	if len(offsets) == 0 {
		return ErrArrayEmpty
	}
	if src.NumberOfPixels() != len(offsets) {
		return fmt.Errorf("pixel count does not match offset list: %w", ErrSizesDontMatch)
	}
	telem := dst.tensor.Elements()
	srcIt := newLineIterator(src.sizes, -1)
	for _, off := range offsets {
		copyBuffer(
			bufFromImage(src, srcIt.offset(src.origin, src.strides), 0),
			bufFromImage(dst, dst.origin+off, 0),
			1, telem, nil)
		srcIt.next()
	}
	return nil
}
