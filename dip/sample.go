package dip

import "fmt"

// Pixel is a view of one pixel's tensor elements. It stays valid as long as
// the image's data segment does; writes go straight into the image.
type Pixel struct {
	img    *Image
	offset int // sample offset of tensor element 0
}

// At returns a view of the pixel at the given coordinates. Panics when the
// coordinates are out of range; use it the way you would index a slice.
func (img *Image) At(coords ...int) Pixel {
	if !img.IsForged() {
		panic("At called on unforged image")
	}
	return Pixel{img: img, offset: img.FlatOffset(coords...)}
}

// TensorElements returns the number of samples in the pixel.
func (p Pixel) TensorElements() int { return p.img.tensor.Elements() }

// Float reads tensor element ii as a float64, converting from the physical
// type. Complex samples yield their modulus.
func (p Pixel) Float(ii int) float64 {
	return readAsFloat(p.img.seg.data, p.img.dtype, p.offset+ii*p.img.tensorStride)
}

// SetFloat writes tensor element ii, clamping to the physical type's range.
func (p Pixel) SetFloat(ii int, v float64) {
	clampWrite(p.img.seg.data, p.img.dtype, p.offset+ii*p.img.tensorStride, v)
}

// Complex reads tensor element ii as a complex128.
func (p Pixel) Complex(ii int) complex128 {
	return readAsComplex(p.img.seg.data, p.img.dtype, p.offset+ii*p.img.tensorStride)
}

// SetComplex writes tensor element ii from a complex value. On real images
// the modulus is stored.
func (p Pixel) SetComplex(ii int, v complex128) {
	writeComplex(p.img.seg.data, p.img.dtype, p.offset+ii*p.img.tensorStride, v)
}

// Floats converts the whole pixel to a float64 slice.
func (p Pixel) Floats() []float64 {
	out := make([]float64, p.TensorElements())
	for ii := range out {
		out[ii] = p.Float(ii)
	}
	return out
}

// SetFloats writes the whole pixel from a float64 slice, clamping each value.
// A single value fills all tensor elements.
func (p Pixel) SetFloats(values []float64) error {
	n := p.TensorElements()
	if len(values) == 1 {
		for ii := 0; ii < n; ii++ {
			p.SetFloat(ii, values[0])
		}
		return nil
	}
	if len(values) != n {
		return fmt.Errorf("pixel has %d tensor elements, got %d values: %w",
			n, len(values), ErrTensorElementsDontMatch)
	}
	for ii, v := range values {
		p.SetFloat(ii, v)
	}
	return nil
}

// Sample is the scalar special case of Pixel: one sample.
type Sample struct {
	p Pixel
}

// Sample returns tensor element ii of the pixel as a Sample view.
func (p Pixel) Sample(ii int) Sample {
	return Sample{Pixel{img: p.img, offset: p.offset + ii*p.img.tensorStride}}
}

// Float reads the sample as a float64.
func (s Sample) Float() float64 { return s.p.Float(0) }

// SetFloat writes the sample, clamping to the physical type's range.
func (s Sample) SetFloat(v float64) { s.p.SetFloat(0, v) }

// Complex reads the sample as a complex128.
func (s Sample) Complex() complex128 { return s.p.Complex(0) }
