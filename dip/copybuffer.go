package dip

// The low-level engine: copy one scan line of pixels between two strided
// buffers, converting the sample type on the fly, and fill one scan line with
// a constant. Everything higher up (Copy, Convert, Fill, ExpandTensor)
// reduces to calls of these two on scan lines.

// bufRef addresses one line of pixels inside a raw sample buffer.
type bufRef struct {
	data    []byte
	dt      DataType
	origin  int // sample offset of the first pixel
	stride  int // pixel-to-pixel stride, sample units
	tstride int // tensor element stride, sample units
}

func bufFromImage(img *Image, lineStart int, stride int) bufRef {
	return bufRef{
		data:    img.seg.data,
		dt:      img.dtype,
		origin:  lineStart,
		stride:  stride,
		tstride: img.tensorStride,
	}
}

// copyBuffer copies pixels pixels of telem tensor elements each from src to
// dst, clamp-converting when the data types differ. A non-nil lut gives, for
// each destination tensor element, the source tensor element to read, or -1
// to write zero; telem then is the destination's element count.
func copyBuffer(src, dst bufRef, pixels, telem int, lut []int) {
	if pixels == 0 {
		return
	}
	if lut == nil && src.dt == dst.dt {
		copySameType(src, dst, pixels, telem)
		return
	}
	convertBuffer(src, dst, pixels, telem, lut)
}

// copySameType moves raw samples without conversion. When both tensor
// strides are 1 the tensor is folded into the pixel, and fully contiguous
// lines collapse into a single copy.
func copySameType(src, dst bufRef, pixels, telem int) {
	sz := src.dt.SizeOf()
	width := 1
	if telem > 1 && src.tstride == 1 && dst.tstride == 1 {
		width = telem
		telem = 1
	}
	if telem == 1 {
		if src.stride == width && dst.stride == width {
			n := pixels * width * sz
			copy(dst.data[dst.origin*sz:dst.origin*sz+n], src.data[src.origin*sz:src.origin*sz+n])
			return
		}
		so, do := src.origin, dst.origin
		for i := 0; i < pixels; i++ {
			copy(dst.data[do*sz:(do+width)*sz], src.data[so*sz:(so+width)*sz])
			so += src.stride
			do += dst.stride
		}
		return
	}
	so, do := src.origin, dst.origin
	for i := 0; i < pixels; i++ {
		for j := 0; j < telem; j++ {
			s := so + j*src.tstride
			d := do + j*dst.tstride
			copy(dst.data[d*sz:(d+1)*sz], src.data[s*sz:(s+1)*sz])
		}
		so += src.stride
		do += dst.stride
	}
}

func convertBuffer(src, dst bufRef, pixels, telem int, lut []int) {
	// 64-bit integer pairs saturate directly so values beyond the float64
	// mantissa convert exactly.
	wide := (src.dt == Int64 || src.dt == Uint64) && (dst.dt == Int64 || dst.dt == Uint64)
	cmplx := src.dt.IsComplex() || dst.dt.IsComplex()
	so, do := src.origin, dst.origin
	for i := 0; i < pixels; i++ {
		for j := 0; j < telem; j++ {
			d := do + j*dst.tstride
			jj := j
			if lut != nil {
				jj = lut[j]
				if jj < 0 {
					clampWrite(dst.data, dst.dt, d, 0)
					continue
				}
			}
			s := so + jj*src.tstride
			switch {
			case wide:
				convertWideInt(src, dst, s, d)
			case cmplx:
				writeComplex(dst.data, dst.dt, d, readAsComplex(src.data, src.dt, s))
			default:
				clampWrite(dst.data, dst.dt, d, readAsFloat(src.data, src.dt, s))
			}
		}
		so += src.stride
		do += dst.stride
	}
}

func convertWideInt(src, dst bufRef, s, d int) {
	if src.dt == Int64 {
		v := int64sOf(src.data)[s]
		if dst.dt == Uint64 {
			if v < 0 {
				v = 0
			}
			uint64sOf(dst.data)[d] = uint64(v)
		} else {
			int64sOf(dst.data)[d] = v
		}
		return
	}
	v := uint64sOf(src.data)[s]
	if dst.dt == Int64 {
		const maxInt64 = 1<<63 - 1
		if v > maxInt64 {
			v = maxInt64
		}
		int64sOf(dst.data)[d] = int64(v)
	} else {
		uint64sOf(dst.data)[d] = v
	}
}

// fillBuffer writes one encoded sample value into every sample of the line.
func fillBuffer(dst bufRef, pixels, telem int, encoded []byte) {
	sz := dst.dt.SizeOf()
	width := 1
	if telem > 1 && dst.tstride == 1 {
		width = telem
		telem = 1
	}
	do := dst.origin
	for i := 0; i < pixels; i++ {
		for j := 0; j < telem; j++ {
			for k := 0; k < width; k++ {
				d := (do + j*dst.tstride + k) * sz
				copy(dst.data[d:d+sz], encoded)
			}
		}
		do += dst.stride
	}
}

// encodeSample renders one float value as raw bytes of type dt.
func encodeSample(dt DataType, v float64) []byte {
	enc := make([]byte, dt.SizeOf())
	clampWrite(enc, dt, 0, v)
	return enc
}

// encodeComplexSample renders one complex value as raw bytes of type dt.
func encodeComplexSample(dt DataType, v complex128) []byte {
	enc := make([]byte, dt.SizeOf())
	writeComplex(enc, dt, 0, v)
	return enc
}
