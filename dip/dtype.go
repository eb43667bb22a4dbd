// Package dip implements an n-dimensional strided image type with cheap
// metadata-only views, a copy/convert/fill engine, and interchange with
// foreign buffers and allocators.
package dip

import "fmt"

// DataType identifies the physical type of the samples in an image.
type DataType uint8

const (
	// Binary samples are stored one per byte, holding 0 or 1.
	Binary DataType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float32
	Float64
	Complex64
	Complex128
)

// SizeOf returns the size of one sample in bytes.
func (dt DataType) SizeOf() int {
	switch dt {
	case Binary, Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	}
	panic(fmt.Sprintf("unknown data type %d", uint8(dt)))
}

// IsBinary reports whether dt is the binary type.
func (dt DataType) IsBinary() bool { return dt == Binary }

// IsUnsigned reports whether dt is an unsigned integer type.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsSigned reports whether dt is a signed integer type.
func (dt DataType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsInteger reports whether dt is an integer type (signed or unsigned).
func (dt DataType) IsInteger() bool { return dt.IsUnsigned() || dt.IsSigned() }

// IsFloat reports whether dt is a floating-point type.
func (dt DataType) IsFloat() bool { return dt == Float32 || dt == Float64 }

// IsComplex reports whether dt is a complex type.
func (dt DataType) IsComplex() bool { return dt == Complex64 || dt == Complex128 }

// IsReal reports whether dt is a real (non-complex, non-binary) type.
func (dt DataType) IsReal() bool { return dt.IsInteger() || dt.IsFloat() }

// FlexType returns the floating-point type that can hold values of dt without
// unreasonable loss: Float32 for small types, Float64 for wide ones. Complex
// types map to themselves.
func (dt DataType) FlexType() DataType {
	switch dt {
	case Binary, Uint8, Int8, Uint16, Int16, Float32:
		return Float32
	case Uint32, Int32, Uint64, Int64, Float64:
		return Float64
	case Complex64:
		return Complex64
	case Complex128:
		return Complex128
	}
	panic(fmt.Sprintf("unknown data type %d", uint8(dt)))
}

func (dt DataType) String() string {
	switch dt {
	case Binary:
		return "BIN"
	case Uint8:
		return "UINT8"
	case Int8:
		return "SINT8"
	case Uint16:
		return "UINT16"
	case Int16:
		return "SINT16"
	case Uint32:
		return "UINT32"
	case Int32:
		return "SINT32"
	case Uint64:
		return "UINT64"
	case Int64:
		return "SINT64"
	case Float32:
		return "SFLOAT"
	case Float64:
		return "DFLOAT"
	case Complex64:
		return "SCOMPLEX"
	case Complex128:
		return "DCOMPLEX"
	}
	return fmt.Sprintf("DataType(%d)", uint8(dt))
}

// Scalar is the constraint satisfied by every real sample type.
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 |
		~uint64 | ~int64 | ~float32 | ~float64
}

// SampleType is the constraint satisfied by every physical sample type.
type SampleType interface {
	Scalar | ~complex64 | ~complex128
}

// TypeOf returns the DataType matching the Go type T. Binary images store
// their samples as uint8, so TypeOf[uint8] also matches binary images.
func TypeOf[T SampleType]() DataType {
	var z T
	switch any(z).(type) {
	case uint8:
		return Uint8
	case int8:
		return Int8
	case uint16:
		return Uint16
	case int16:
		return Int16
	case uint32:
		return Uint32
	case int32:
		return Int32
	case uint64:
		return Uint64
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	}
	panic("unsupported sample type")
}
