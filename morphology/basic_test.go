package morphology

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabkdlly/diplib/dip"
)

const pval = 9.0

// deltaImage returns a 64x41 uint8 image that is zero except for one pixel.
func deltaImage(t *testing.T) *dip.Image {
	t.Helper()
	in, err := dip.NewScalar([]int{64, 41}, dip.Uint8)
	require.NoError(t, err)
	require.NoError(t, in.Fill([]float64{0}))
	in.At(32, 20).SetFloat(0, pval)
	return in
}

func forEachPixel(img *dip.Image, f func(v float64)) {
	sizes := img.Sizes()
	coords := make([]int, len(sizes))
	for n := img.NumberOfPixels(); n > 0; n-- {
		f(img.At(coords...).Float(0))
		for d := range coords {
			coords[d]++
			if coords[d] < sizes[d] {
				break
			}
			coords[d] = 0
		}
	}
}

func countNonZero(img *dip.Image) int {
	n := 0
	forEachPixel(img, func(v float64) {
		if v != 0 {
			n++
		}
	})
	return n
}

func sumPixels(img *dip.Image) float64 {
	s := 0.0
	forEachPixel(img, func(v float64) { s += v })
	return s
}

// requireRestored checks that eroding with the mirrored element collapses the
// dilation of a single pixel back to that pixel.
func requireRestored(t *testing.T, dilated *dip.Image, se StructuringElement) {
	t.Helper()
	se.Mirror()
	out, err := Erosion(dilated, se)
	require.NoError(t, err)
	assert.Equal(t, 1, countNonZero(out))
	assert.Equal(t, pval, out.At(32, 20).Float(0))
}

func requireClosingIsDelta(t *testing.T, in *dip.Image, se StructuringElement) {
	t.Helper()
	out, err := Closing(in, se)
	require.NoError(t, err)
	assert.Equal(t, 1, countNonZero(out))
	assert.Equal(t, pval, out.At(32, 20).Float(0))
}

func TestRectangularDilationErosion(t *testing.T) {
	in := deltaImage(t)
	for _, tc := range []struct {
		sizes []float64
		count int
	}{
		{[]float64{2, 1}, 2},
		{[]float64{3, 1}, 3},
		{[]float64{10, 1}, 10},
		{[]float64{11, 1}, 11},
		{[]float64{10, 11}, 110},
	} {
		se := NewSE(Rectangular, tc.sizes...)
		out, err := Dilation(in, se)
		require.NoError(t, err)
		assert.Equal(t, tc.count, countNonZero(out), "sizes %v", tc.sizes)
		requireRestored(t, out, se)
	}
}

func TestRectangularClosing(t *testing.T) {
	in := deltaImage(t)
	for _, sizes := range [][]float64{{2, 1}, {1, 3}, {10, 1}} {
		requireClosingIsDelta(t, in, NewSE(Rectangular, sizes...))
	}
}

func TestEllipticDilation(t *testing.T) {
	in := deltaImage(t)
	for _, tc := range []struct {
		sizes []float64
		count int
	}{
		{[]float64{1, 10}, 9}, // even diameters round down to odd
		{[]float64{1, 11}, 11},
		{[]float64{3, 3}, 9},
		{[]float64{10, 11}, 87},
	} {
		se := NewSE(Elliptic, tc.sizes...)
		out, err := Dilation(in, se)
		require.NoError(t, err)
		assert.Equal(t, tc.count, countNonZero(out), "sizes %v", tc.sizes)
	}

	se := NewSE(Elliptic, 10, 11)
	out, err := Dilation(in, se)
	require.NoError(t, err)
	requireRestored(t, out, se)
	requireClosingIsDelta(t, in, se)
}

func TestCustomBinarySE(t *testing.T) {
	in := deltaImage(t)
	seImg, err := dip.NewScalar([]int{10, 10}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, seImg.Fill([]float64{1}))
	se := SEFromImage(seImg)

	out, err := Dilation(in, se)
	require.NoError(t, err)
	assert.Equal(t, 100, countNonZero(out))
	requireRestored(t, out, se)
}

func TestParabolicDilationErosion(t *testing.T) {
	in := deltaImage(t)
	se := NewSE(Parabolic, 10, 0)

	out, err := Dilation(in, se)
	require.NoError(t, err)
	want := 0.0
	for ii := 1; ii < 30; ii++ { // 30 = 10 * sqrt(pval)
		want += pval - float64(ii*ii)/100
	}
	want = pval + 2*want
	assert.InDelta(t, want, sumPixels(out), 1e-3)
	assert.Equal(t, pval, out.At(32, 20).Float(0))

	se.Mirror()
	out, err = Erosion(out, se)
	require.NoError(t, err)
	want = 0.0
	for ii := 1; ii < 30; ii++ {
		want += float64(ii*ii) / 100
	}
	want = pval + 2*want
	assert.InDelta(t, want, sumPixels(out), 1e-3)
	assert.Equal(t, pval, out.At(32, 20).Float(0))
}

func TestWeightedSE(t *testing.T) {
	in := deltaImage(t)
	seImg, err := dip.NewScalar([]int{5, 6}, dip.Float32)
	require.NoError(t, err)
	require.NoError(t, seImg.Fill([]float64{math.Inf(-1)}))
	seImg.At(0, 0).SetFloat(0, 0)
	seImg.At(4, 5).SetFloat(0, -5)
	seImg.At(0, 5).SetFloat(0, -5)
	seImg.At(4, 0).SetFloat(0, -8)
	seImg.At(2, 3).SetFloat(0, 0)
	se := SEFromImage(seImg)

	out, err := Dilation(in, se)
	require.NoError(t, err)
	assert.Equal(t, 5*pval-5-5-8, sumPixels(out))
	requireRestored(t, out, se)
	requireClosingIsDelta(t, in, se)
}

func TestWeightedSEOnBinaryFails(t *testing.T) {
	in, err := dip.NewScalar([]int{8, 8}, dip.Binary)
	require.NoError(t, err)
	seImg, err := dip.NewScalar([]int{3, 3}, dip.Float32)
	require.NoError(t, err)
	require.NoError(t, seImg.Fill([]float64{1}))
	_, err = Dilation(in, SEFromImage(seImg))
	assert.ErrorIs(t, err, dip.ErrDataTypeNotSupported)
}

func TestLineDilationErosion(t *testing.T) {
	in := deltaImage(t)
	for _, tc := range []struct {
		shape Shape
		sizes []float64
		count int
	}{
		{DiscreteLine, []float64{10, 4}, 10},
		{FastLine, []float64{10, 4}, 10},
		{FastLine, []float64{8, 4}, 8},
		{Line, []float64{10, 4}, 10}, // periodic component 2, sub-line {5,2}
		{Line, []float64{8, 4}, 8},   // periodic component 4, sub-line {2,1}
		{Line, []float64{9, 6}, 9},   // periodic component 3, sub-line {3,2}
		{Line, []float64{12, 9}, 12}, // periodic component 3, sub-line {4,3}
		{Line, []float64{8, 9}, 9},   // no periodic component, discrete line
	} {
		se := NewSE(tc.shape, tc.sizes...)
		out, err := Dilation(in, se)
		require.NoError(t, err)
		assert.Equal(t, tc.count, countNonZero(out), "%v %v", tc.shape, tc.sizes)
		requireRestored(t, out, se)
		requireClosingIsDelta(t, in, se)
	}
}

func TestLineDecompositionMatchesDiscrete(t *testing.T) {
	// The sub-line plus periodic-line decomposition must cover the exact same
	// support as the plain digital line.
	in := deltaImage(t)
	for _, sizes := range [][]float64{{10, 4}, {12, 9}, {9, 6}, {14, -10}} {
		direct, err := Dilation(in, NewSE(DiscreteLine, sizes...))
		require.NoError(t, err)
		decomposed, err := Dilation(in, NewSE(Line, sizes...))
		require.NoError(t, err)
		assert.Equal(t,
			dip.SamplesOf[uint8](direct),
			dip.SamplesOf[uint8](decomposed), "sizes %v", sizes)
	}
}

func TestDiamondDilation(t *testing.T) {
	in := deltaImage(t)
	for _, tc := range []struct {
		sizes []float64
		count int
	}{
		{[]float64{3, 3}, 5},
		{[]float64{7, 7}, 25},   // elemental iterations
		{[]float64{11, 11}, 61}, // line decomposition
		{[]float64{15, 15}, 113},
	} {
		se := NewSE(Diamond, tc.sizes...)
		out, err := Dilation(in, se)
		require.NoError(t, err)
		assert.Equal(t, tc.count, countNonZero(out), "sizes %v", tc.sizes)
		requireRestored(t, out, se)
		requireClosingIsDelta(t, in, se)
	}
}

func TestOctagonalDilation(t *testing.T) {
	in := deltaImage(t)
	// An octagon of extent 7 is a diamond of extent 5 dilated by a 3x3 square:
	// a true octagon with 37 pixels.
	se := NewSE(Octagonal, 7, 7)
	out, err := Dilation(in, se)
	require.NoError(t, err)
	assert.Equal(t, 37, countNonZero(out))
	requireRestored(t, out, se)
	requireClosingIsDelta(t, in, se)
}

func TestBinaryDilation(t *testing.T) {
	in, err := dip.NewScalar([]int{16, 16}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, in.Fill([]float64{0}))
	in.At(8, 8).SetFloat(0, 1)

	out, err := Dilation(in, NewSE(Rectangular, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, dip.Binary, out.DataType())
	assert.Equal(t, 9, countNonZero(out))
}

func TestValidation(t *testing.T) {
	se := NewSE(Rectangular, 3, 3)

	var unforged dip.Image
	_, err := Dilation(&unforged, se)
	assert.ErrorIs(t, err, dip.ErrNotForged)

	tensor, err := dip.New([]int{4, 4}, 3, dip.Float32)
	require.NoError(t, err)
	_, err = Dilation(tensor, se)
	assert.ErrorIs(t, err, dip.ErrImageNotScalar)

	cplx, err := dip.NewScalar([]int{4, 4}, dip.Complex64)
	require.NoError(t, err)
	_, err = Dilation(cplx, se)
	assert.ErrorIs(t, err, dip.ErrDataTypeNotSupported)

	in, err := dip.NewScalar([]int{4, 4}, dip.Uint8)
	require.NoError(t, err)
	_, err = Dilation(in, NewSE(Rectangular, 3, 3, 3))
	assert.ErrorIs(t, err, dip.ErrWrongArrayLength)
	_, err = Dilation(in, NewSE(Rectangular))
	assert.ErrorIs(t, err, dip.ErrArrayEmpty)
}

func TestOpeningRemovesSmallObjects(t *testing.T) {
	in, err := dip.NewScalar([]int{32, 32}, dip.Uint8)
	require.NoError(t, err)
	require.NoError(t, in.Fill([]float64{0}))
	// A 5x5 block and an isolated pixel.
	block, err := in.Window([]int{10, 10}, []int{5, 5})
	require.NoError(t, err)
	require.NoError(t, block.Fill([]float64{200}))
	in.At(25, 25).SetFloat(0, 200)

	out, err := Opening(in, NewSE(Rectangular, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, 25, countNonZero(out))
	assert.Equal(t, 200.0, out.At(12, 12).Float(0))
	assert.Equal(t, 0.0, out.At(25, 25).Float(0))

	// Opening is idempotent.
	again, err := Opening(out, NewSE(Rectangular, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, dip.SamplesOf[uint8](out), dip.SamplesOf[uint8](again))
}

func TestThreadCountInvariance(t *testing.T) {
	in, err := dip.NewScalar([]int{61, 47}, dip.Float64)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))
	samples := dip.SamplesOf[float64](in)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}

	single := New(1)
	multi := New(8)
	for _, se := range []StructuringElement{
		NewSE(Elliptic, 7),
		NewSE(Rectangular, 5),
		NewSE(Line, 10, 4),
		NewSE(Parabolic, 2),
	} {
		a, err := single.Dilation(in, se)
		require.NoError(t, err)
		b, err := multi.Dilation(in, se)
		require.NoError(t, err)
		switch a.DataType() {
		case dip.Float64:
			assert.Equal(t, dip.SamplesOf[float64](a), dip.SamplesOf[float64](b), "%v", se.Shape())
		default:
			assert.Equal(t, a.Data(), b.Data(), "%v", se.Shape())
		}
	}
}
