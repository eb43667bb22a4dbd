package chaincode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabkdlly/diplib/dip"
	"github.com/gabkdlly/diplib/morphology"
)

func codes(dirs ...int) []Code {
	out := make([]Code, len(dirs))
	for i, d := range dirs {
		out[i] = NewCode(d, false)
	}
	return out
}

// diamondImage returns a sizes[0] x sizes[1] binary image holding a diamond
// of the given radius around center.
func diamondImage(t *testing.T, sizes []int, center Point, radius int) *dip.Image {
	t.Helper()
	img, err := dip.NewScalar(sizes, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, img.Fill([]float64{0}))
	for y := 0; y < sizes[1]; y++ {
		for x := 0; x < sizes[0]; x++ {
			if abs(x-center.X)+abs(y-center.Y) <= radius {
				img.At(x, y).SetFloat(0, 1)
			}
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestCodeBits(t *testing.T) {
	c := NewCode(5, true)
	assert.Equal(t, 5, c.Direction())
	assert.True(t, c.IsBorder())
	assert.False(t, c.IsEven())
	assert.True(t, NewCode(6, false).IsEven())
	assert.Equal(t, 1, NewCode(9, false).Direction()) // wraps modulo 8
}

func TestTraceDiamond8Connected(t *testing.T) {
	img := diamondImage(t, []int{9, 9}, Point{4, 4}, 2)
	cc, err := Trace(img, Point{4, 2}, 2)
	require.NoError(t, err)
	assert.True(t, cc.Is8Connected)
	assert.Equal(t, Point{4, 2}, cc.Start)
	assert.Equal(t, codes(7, 7, 5, 5, 3, 3, 1, 1), cc.Codes)
}

func TestTraceDiamond4Connected(t *testing.T) {
	img := diamondImage(t, []int{5, 5}, Point{2, 2}, 1)
	cc, err := Trace(img, Point{2, 1}, 1)
	require.NoError(t, err)
	assert.False(t, cc.Is8Connected)
	assert.Equal(t, codes(3, 0, 2, 3, 1, 2, 0, 1), cc.Codes)

	// Converting must give the directly traced 8-connected code.
	cc8, err := Trace(img, Point{2, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, cc8.Codes, cc.ConvertTo8Connected().Codes)
	assert.Equal(t, cc8.Start, cc.ConvertTo8Connected().Start)
}

func TestTraceSinglePixel(t *testing.T) {
	img := diamondImage(t, []int{5, 5}, Point{2, 2}, 0)
	cc, err := Trace(img, Point{2, 2}, 2)
	require.NoError(t, err)
	assert.Empty(t, cc.Codes)
	assert.Equal(t, Point{2, 2}, cc.Start)
}

func TestTraceTwoPixels(t *testing.T) {
	img, err := dip.NewScalar([]int{5, 5}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, img.Fill([]float64{0}))
	img.At(1, 2).SetFloat(0, 1)
	img.At(2, 2).SetFloat(0, 1)
	cc, err := Trace(img, Point{1, 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, codes(0, 4), cc.Codes)
}

func TestTraceMarksBorderSteps(t *testing.T) {
	img, err := dip.NewScalar([]int{4, 4}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, img.Fill([]float64{1}))
	cc, err := Trace(img, Point{0, 0}, 2)
	require.NoError(t, err)
	require.NotEmpty(t, cc.Codes)
	for _, c := range cc.Codes {
		assert.True(t, c.IsBorder())
	}
}

func TestTraceValidation(t *testing.T) {
	var unforged dip.Image
	_, err := Trace(&unforged, Point{0, 0}, 2)
	assert.ErrorIs(t, err, dip.ErrNotForged)

	vol, err := dip.NewScalar([]int{4, 4, 4}, dip.Binary)
	require.NoError(t, err)
	_, err = Trace(vol, Point{0, 0}, 2)
	assert.ErrorIs(t, err, dip.ErrDimensionalityNotSupported)

	img, err := dip.NewScalar([]int{4, 4}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, img.Fill([]float64{0}))
	_, err = Trace(img, Point{1, 1}, 3)
	assert.ErrorIs(t, err, dip.ErrInvalidParameter)
	_, err = Trace(img, Point{1, 1}, 2)
	assert.ErrorIs(t, err, dip.ErrInvalidParameter) // background pixel
}

func TestConvertTo8ConnectedWraps(t *testing.T) {
	// A code list starting mid-diagonal: last and first steps merge, moving
	// the start back along the last step.
	cc := ChainCode{
		Codes: codes(0, 3, 0, 2, 3, 1, 2, 0, 1, 3),
		Start: Point{3, 1},
	}
	out := cc.ConvertTo8Connected()
	assert.True(t, out.Is8Connected)
	assert.Equal(t, Point{3, 0}, out.Start) // moved back along code 3
	assert.Equal(t, NewCode(7, false), out.Codes[0])
}

func TestOffsetDiamond(t *testing.T) {
	img := diamondImage(t, []int{9, 9}, Point{4, 4}, 2)
	cc, err := Trace(img, Point{4, 2}, 2)
	require.NoError(t, err)
	off, err := cc.Offset()
	require.NoError(t, err)
	assert.Equal(t, Point{3, 2}, off.Start)
	assert.Equal(t, codes(1, 7, 7, 7, 5, 5, 5, 3, 3, 3, 1, 1), off.Codes)
}

func TestOffsetRequires8Connected(t *testing.T) {
	cc := ChainCode{Codes: codes(0, 3, 2, 1)}
	_, err := cc.Offset()
	assert.ErrorIs(t, err, ErrNot8Connected)

	_, err = ChainCode{Is8Connected: true}.Offset()
	assert.ErrorIs(t, err, ErrDegenerate)
}

// TestOffsetMatchesDiamondDilation checks that offsetting a traced boundary
// gives the boundary of the same object dilated with the unit diamond.
func TestOffsetMatchesDiamondDilation(t *testing.T) {
	disk, err := dip.NewScalar([]int{33, 33}, dip.Binary)
	require.NoError(t, err)
	require.NoError(t, disk.Fill([]float64{0}))
	const r = 14.5 // disk of diameter 29 centered in the image
	for y := 0; y < 33; y++ {
		for x := 0; x < 33; x++ {
			dx, dy := float64(x-16), float64(y-16)
			if (dx/r)*(dx/r)+(dy/r)*(dy/r) <= 1 {
				disk.At(x, y).SetFloat(0, 1)
			}
		}
	}
	cc, err := Trace(disk, Point{16, 2}, 2)
	require.NoError(t, err)
	off, err := cc.Offset()
	require.NoError(t, err)

	grown, err := morphology.Dilation(disk, morphology.NewSE(morphology.Diamond, 3))
	require.NoError(t, err)
	cc2, err := Trace(grown, Point{16, 1}, 2)
	require.NoError(t, err)

	assert.Equal(t, cc2.Start, off.Start)
	require.Equal(t, len(cc2.Codes), len(off.Codes))
	for i := range off.Codes {
		assert.Equal(t, cc2.Codes[i].Direction(), off.Codes[i].Direction(), "step %d", i)
	}
}
