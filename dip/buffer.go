package dip

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// dataSegment is a reference-counted block of sample memory. Multiple images
// (views) share one segment; the optional release callback runs when the last
// reference is stripped, returning externally allocated memory to its owner.
type dataSegment struct {
	data     []byte
	refCount atomic.Int32
	release  func()
}

func newDataSegment(bytes int) *dataSegment {
	s := &dataSegment{data: make([]byte, bytes)}
	s.refCount.Store(1)
	return s
}

func newExternalSegment(data []byte, release func()) *dataSegment {
	s := &dataSegment{data: data, release: release}
	s.refCount.Store(1)
	return s
}

func (s *dataSegment) addRef() {
	s.refCount.Add(1)
}

func (s *dataSegment) decRef() {
	if s.refCount.Add(-1) == 0 && s.release != nil {
		s.release()
		s.release = nil
	}
}

// isUnique reports whether exactly one image references the segment.
func (s *dataSegment) isUnique() bool {
	return s.refCount.Load() == 1
}

// Typed views over raw segment memory. The element count is derived from the
// byte length; sample addressing happens in element units on these slices.

func bytesOf(data []byte) []byte { return data }

func int8sOf(data []byte) []int8 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&data[0])), len(data))
}

func uint16sOf(data []byte) []uint16 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), len(data)/2)
}

func int16sOf(data []byte) []int16 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&data[0])), len(data)/2)
}

func uint32sOf(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func int32sOf(data []byte) []int32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func uint64sOf(data []byte) []uint64 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), len(data)/8)
}

func int64sOf(data []byte) []int64 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), len(data)/8)
}

func float32sOf(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func float64sOf(data []byte) []float64 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), len(data)/8)
}

func complex64sOf(data []byte) []complex64 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&data[0])), len(data)/8)
}

func complex128sOf(data []byte) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&data[0])), len(data)/16)
}

// SamplesOf returns the image's full data segment as a typed slice. Sample
// addresses are img.Origin() plus coordinate-times-stride sums, in element
// units. T must match the image's data type; binary images are accessible as
// uint8. Panics on a mismatch, like At does.
func SamplesOf[T SampleType](img *Image) []T {
	if !img.IsForged() {
		panic("SamplesOf called on unforged image")
	}
	want := TypeOf[T]()
	if img.dtype != want && !(img.dtype == Binary && want == Uint8) {
		panic(fmt.Sprintf("SamplesOf type mismatch: image is %s", img.dtype))
	}
	data := img.seg.data
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/img.dtype.SizeOf())
}

// Allocator provides sample memory for forging, so that image data can live
// inside a foreign toolbox's image objects. The returned strides and tensor
// stride replace the requested layout; release, if non-nil, is called when the
// last image referencing the block is stripped.
type Allocator interface {
	AllocateData(sizes []int, tensorElements int, dt DataType) (data []byte, strides []int, tensorStride int, release func(), err error)
}

// FixedLayoutAllocator allocates 2-D images with the plane-then-channel layout
// used by older toolboxes: stride 1 along x, width along y, and one full plane
// between tensor elements. Only types such toolboxes support are accepted.
type FixedLayoutAllocator struct {
	// Released counts how many allocations have been handed back. Useful in
	// tests to verify that Strip releases foreign memory.
	Released int
}

func (a *FixedLayoutAllocator) AllocateData(sizes []int, tensorElements int, dt DataType) ([]byte, []int, int, func(), error) {
	if len(sizes) != 2 {
		return nil, nil, 0, nil, fmt.Errorf("fixed-layout allocator: %w", ErrDimensionalityNotSupported)
	}
	switch dt {
	case Binary, Uint8, Uint16, Int32:
		// supported
	default:
		return nil, nil, 0, nil, fmt.Errorf("fixed-layout allocator: %w", ErrDataTypeNotSupported)
	}
	w, h := sizes[0], sizes[1]
	data := make([]byte, w*h*tensorElements*dt.SizeOf())
	strides := []int{1, w}
	tensorStride := w * h
	release := func() { a.Released++ }
	return data, strides, tensorStride, release, nil
}
