package dip

// LineCount returns the number of scan lines along procDim: the product of
// all other sizes. With procDim < 0 it counts every pixel.
func LineCount(sizes []int, procDim int) int {
	n := 1
	for d, sz := range sizes {
		if d != procDim {
			n *= sz
		}
	}
	return n
}

// LineCoords writes the start coordinates of scan line i along procDim into
// coords (length len(sizes)). Lines are numbered in dimension order, lowest
// dimension fastest, with coords[procDim] always 0. The mapping depends only
// on sizes, so callers can process lines from multiple goroutines
// deterministically.
func LineCoords(i int, sizes []int, procDim int, coords []int) {
	for d, sz := range sizes {
		if d == procDim {
			coords[d] = 0
			continue
		}
		coords[d] = i % sz
		i /= sz
	}
}

// lineIterator visits the start of every scan line along procDim, tracking
// sample offsets into one or two images. This is the sequential workhorse
// behind Copy, Convert and Fill when a single flat run is not possible.
type lineIterator struct {
	sizes   []int
	coords  []int
	procDim int
	done    bool
}

func newLineIterator(sizes []int, procDim int) *lineIterator {
	it := &lineIterator{
		sizes:   sizes,
		coords:  make([]int, len(sizes)),
		procDim: procDim,
	}
	for _, sz := range sizes {
		if sz == 0 {
			it.done = true
		}
	}
	return it
}

func (it *lineIterator) ok() bool { return !it.done }

// next advances to the following scan line, skipping the processing
// dimension.
func (it *lineIterator) next() {
	for d := range it.sizes {
		if d == it.procDim {
			continue
		}
		it.coords[d]++
		if it.coords[d] < it.sizes[d] {
			return
		}
		it.coords[d] = 0
	}
	it.done = true
}

// offset computes the sample offset of the current line start in an image
// with the given origin and strides.
func (it *lineIterator) offset(origin int, strides []int) int {
	off := origin
	for d, c := range it.coords {
		off += c * strides[d]
	}
	return off
}
