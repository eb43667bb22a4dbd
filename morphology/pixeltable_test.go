package morphology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabkdlly/diplib/dip"
)

func TestShapeTablePixelCounts(t *testing.T) {
	for _, tc := range []struct {
		shape  Shape
		params []float64
		count  int
	}{
		{Elliptic, []float64{1, 10}, 9},
		{Elliptic, []float64{1, 11}, 11},
		{Elliptic, []float64{3, 3}, 9},
		{Elliptic, []float64{10, 11}, 87},
		{Diamond, []float64{3, 3}, 5},
		{Diamond, []float64{7, 7}, 25},
	} {
		pt := newShapeTable(tc.shape, tc.params, 0)
		assert.Equal(t, tc.count, pt.nPixels, "%v %v", tc.shape, tc.params)
	}
}

func TestLineTablePoints(t *testing.T) {
	pt := newLineTable([]float64{10, 4}, false, 0)
	assert.Equal(t, 10, pt.nPixels)
	assert.Equal(t, 10, pt.sizes[0])

	// The line must step one pixel at a time along its driving dimension.
	img, err := pt.asImage()
	require.NoError(t, err)
	for x := 0; x < 10; x++ {
		n := 0
		for y := 0; y < pt.sizes[1]; y++ {
			if img.At(x, y).Float(0) != 0 {
				n++
			}
		}
		assert.Equal(t, 1, n, "column %d", x)
	}

	left := newLineTable([]float64{10, 4}, true, 0)
	assert.Equal(t, 10, left.nPixels)
	assert.Equal(t, []int{0, 0}, left.origin)
}

func TestTableMirror(t *testing.T) {
	pt := newLineTable([]float64{10, 4}, false, 0)
	m := pt.mirror()
	assert.Equal(t, pt.nPixels, m.nPixels)
	assert.Equal(t, pt.sizes, m.sizes)
	for d := range pt.origin {
		assert.Equal(t, pt.sizes[d]-1-pt.origin[d], m.origin[d])
	}
	// Mirroring twice is the identity.
	back := m.mirror()
	assert.Equal(t, pt.runs, back.runs)
	assert.Equal(t, pt.origin, back.origin)
}

func TestTableMirrorWeights(t *testing.T) {
	seImg, err := dip.NewScalar([]int{3, 1}, dip.Float32)
	require.NoError(t, err)
	seImg.At(0, 0).SetFloat(0, 1)
	seImg.At(1, 0).SetFloat(0, 2)
	seImg.At(2, 0).SetFloat(0, 3)
	pt, err := newTableFromImage(seImg, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, pt.weights)
	assert.Equal(t, []float64{3, 2, 1}, pt.mirror().weights)
}

func TestTableFromImageWeighted(t *testing.T) {
	seImg, err := dip.NewScalar([]int{3, 3}, dip.Float32)
	require.NoError(t, err)
	require.NoError(t, seImg.Fill([]float64{math.Inf(-1)}))
	seImg.At(1, 1).SetFloat(0, 0)
	seImg.At(0, 1).SetFloat(0, -2)
	seImg.At(2, 1).SetFloat(0, -2)
	pt, err := newTableFromImage(seImg, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, pt.nPixels)
	assert.Len(t, pt.runs, 1) // one horizontal run of three
	assert.Equal(t, []float64{-2, 0, -2}, pt.weights)
	assert.Equal(t, []int{1, 1}, pt.origin)
}

func TestTableBoundaryAndOffsets(t *testing.T) {
	pt := newShapeTable(Elliptic, []float64{5, 5}, 0)
	assert.Equal(t, []int{2, 2}, pt.boundary())

	to := pt.offsets([]int{1, 100})
	assert.Equal(t, pt.nPixels, to.nPixels)
	assert.Equal(t, 1, to.stride)
	assert.Len(t, to.all(), pt.nPixels)
	// The origin pixel itself is in the neighborhood.
	assert.Contains(t, to.all(), 0)
}

func TestTableFromImageRejects(t *testing.T) {
	var unforged dip.Image
	_, err := newTableFromImage(&unforged, 0)
	assert.ErrorIs(t, err, dip.ErrNotForged)

	tensor, err := dip.New([]int{3, 3}, 2, dip.Float32)
	require.NoError(t, err)
	_, err = newTableFromImage(tensor, 0)
	assert.ErrorIs(t, err, dip.ErrImageNotScalar)

	empty, err := dip.NewScalar([]int{3, 3}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, empty.Fill([]float64{0}))
	_, err = newTableFromImage(empty, 0)
	assert.ErrorIs(t, err, dip.ErrInvalidParameter)
}

func TestTableAsImageRoundTrip(t *testing.T) {
	pt := newShapeTable(Diamond, []float64{5, 5}, 0)
	img, err := pt.asImage()
	require.NoError(t, err)
	assert.Equal(t, dip.Binary, img.DataType())
	back, err := newTableFromImage(img, 0)
	require.NoError(t, err)
	assert.Equal(t, pt.nPixels, back.nPixels)
	assert.Equal(t, pt.runs, back.runs)
}
