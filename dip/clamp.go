package dip

import (
	"math"
	"math/cmplx"
)

// Saturating conversions between sample types. Out-of-range values clamp to
// the destination's extremes, NaN becomes 0 on integer destinations, and
// complex values convert to real via the modulus.

func clampFloatToUint(v, maxv float64) uint64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxv {
		return uint64(maxv)
	}
	return uint64(v)
}

func clampFloatToInt(v, minv, maxv float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if v <= minv {
		return int64(minv)
	}
	if v >= maxv {
		return int64(maxv)
	}
	return int64(v)
}

// ClampFloat converts v to the scalar type T, saturating at T's range limits.
func ClampFloat[T Scalar](v float64) T {
	var z T
	switch any(z).(type) {
	case uint8:
		return any(uint8(clampFloatToUint(v, math.MaxUint8))).(T)
	case int8:
		return any(int8(clampFloatToInt(v, math.MinInt8, math.MaxInt8))).(T)
	case uint16:
		return any(uint16(clampFloatToUint(v, math.MaxUint16))).(T)
	case int16:
		return any(int16(clampFloatToInt(v, math.MinInt16, math.MaxInt16))).(T)
	case uint32:
		return any(uint32(clampFloatToUint(v, math.MaxUint32))).(T)
	case int32:
		return any(int32(clampFloatToInt(v, math.MinInt32, math.MaxInt32))).(T)
	case uint64:
		return any(clampFloatToUint(v, math.MaxUint64)).(T)
	case int64:
		return any(clampFloatToInt(v, math.MinInt64, math.MaxInt64)).(T)
	case float32:
		return any(float32(v)).(T)
	case float64:
		return any(v).(T)
	}
	panic("unsupported sample type")
}

// clampWrite stores a float64 into a raw sample of type dt, saturating.
func clampWrite(data []byte, dt DataType, idx int, v float64) {
	switch dt {
	case Binary:
		b := byte(0)
		if v != 0 { // NaN compares unequal to 0 and maps to true
			b = 1
		}
		bytesOf(data)[idx] = b
	case Uint8:
		bytesOf(data)[idx] = ClampFloat[uint8](v)
	case Int8:
		int8sOf(data)[idx] = ClampFloat[int8](v)
	case Uint16:
		uint16sOf(data)[idx] = ClampFloat[uint16](v)
	case Int16:
		int16sOf(data)[idx] = ClampFloat[int16](v)
	case Uint32:
		uint32sOf(data)[idx] = ClampFloat[uint32](v)
	case Int32:
		int32sOf(data)[idx] = ClampFloat[int32](v)
	case Uint64:
		uint64sOf(data)[idx] = ClampFloat[uint64](v)
	case Int64:
		int64sOf(data)[idx] = ClampFloat[int64](v)
	case Float32:
		float32sOf(data)[idx] = float32(v)
	case Float64:
		float64sOf(data)[idx] = v
	case Complex64:
		complex64sOf(data)[idx] = complex(float32(v), 0)
	case Complex128:
		complex128sOf(data)[idx] = complex(v, 0)
	default:
		panic("unsupported data type")
	}
}

// readAsFloat loads a raw sample of type dt as a float64. Complex samples
// yield their modulus.
func readAsFloat(data []byte, dt DataType, idx int) float64 {
	switch dt {
	case Binary, Uint8:
		return float64(bytesOf(data)[idx])
	case Int8:
		return float64(int8sOf(data)[idx])
	case Uint16:
		return float64(uint16sOf(data)[idx])
	case Int16:
		return float64(int16sOf(data)[idx])
	case Uint32:
		return float64(uint32sOf(data)[idx])
	case Int32:
		return float64(int32sOf(data)[idx])
	case Uint64:
		return float64(uint64sOf(data)[idx])
	case Int64:
		return float64(int64sOf(data)[idx])
	case Float32:
		return float64(float32sOf(data)[idx])
	case Float64:
		return float64sOf(data)[idx]
	case Complex64:
		return cmplx.Abs(complex128(complex64sOf(data)[idx]))
	case Complex128:
		return cmplx.Abs(complex128sOf(data)[idx])
	}
	panic("unsupported data type")
}

// readAsComplex loads a raw sample of type dt as a complex128.
func readAsComplex(data []byte, dt DataType, idx int) complex128 {
	switch dt {
	case Complex64:
		return complex128(complex64sOf(data)[idx])
	case Complex128:
		return complex128sOf(data)[idx]
	default:
		return complex(readAsFloat(data, dt, idx), 0)
	}
}

// writeComplex stores a complex128 into a raw sample of type dt. Real
// destinations receive the modulus, saturated.
func writeComplex(data []byte, dt DataType, idx int, v complex128) {
	switch dt {
	case Complex64:
		complex64sOf(data)[idx] = complex64(v)
	case Complex128:
		complex128sOf(data)[idx] = v
	default:
		clampWrite(data, dt, idx, cmplx.Abs(v))
	}
}
