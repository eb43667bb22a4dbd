package dip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionManipulation(t *testing.T) {
	src, err := New([]int{5, 10, 15}, 3, Float32)
	require.NoError(t, err)
	img := src.View()
	require.Equal(t, []int{5, 10, 15}, img.Sizes())
	require.Equal(t, []int{3, 15, 150}, img.Strides())
	require.Equal(t, 0, img.Origin())

	require.NoError(t, img.SwapDimensions(1, 2))
	assert.Equal(t, []int{5, 15, 10}, img.Sizes())
	assert.Equal(t, []int{3, 150, 15}, img.Strides())
	assert.Equal(t, 0, img.Origin())

	require.NoError(t, img.PermuteDimensions([]int{2, 1, 0}))
	assert.Equal(t, []int{10, 15, 5}, img.Sizes())
	assert.Equal(t, []int{15, 150, 3}, img.Strides())
	assert.Equal(t, 0, img.Origin())

	require.NoError(t, img.StandardizeStrides())
	assert.Equal(t, []int{5, 10, 15}, img.Sizes())
	assert.Equal(t, []int{3, 15, 150}, img.Strides())
	assert.Equal(t, 0, img.Origin())

	assert.Error(t, img.PermuteDimensions([]int{0, 1}))
	assert.Error(t, img.PermuteDimensions([]int{0, 1, 2, 3}))

	require.NoError(t, img.Flatten())
	assert.Equal(t, []int{5 * 10 * 15}, img.Sizes())
	assert.Equal(t, []int{3}, img.Strides())
	assert.Equal(t, 0, img.Origin())
	assert.True(t, img.SharesData(src))
}

func TestMirrorAndRotation(t *testing.T) {
	src, err := New([]int{5, 10, 15}, 3, Float32)
	require.NoError(t, err)
	img := src.View()
	require.NoError(t, img.Mirror([]bool{true, false, false}))
	assert.Equal(t, []int{5, 10, 15}, img.Sizes())
	assert.Equal(t, []int{-3, 15, 150}, img.Strides())
	assert.NotEqual(t, 0, img.Origin())

	require.NoError(t, img.Rotation90(1, 0, 2))
	assert.Equal(t, []int{15, 10, 5}, img.Sizes())
	assert.Equal(t, []int{-150, 15, -3}, img.Strides())

	require.NoError(t, img.StandardizeStrides())
	assert.Equal(t, []int{5, 10, 15}, img.Sizes())
	assert.Equal(t, []int{3, 15, 150}, img.Strides())
	assert.Equal(t, 0, img.Origin())

	require.NoError(t, img.FlattenAsMuchAsPossible())
	assert.Equal(t, []int{5 * 10 * 15}, img.Sizes())
	assert.Equal(t, []int{3}, img.Strides())
	assert.Equal(t, 0, img.Origin())
}

func TestMirrorPairsToIdentity(t *testing.T) {
	src, err := NewScalar([]int{6, 7}, Uint8)
	require.NoError(t, err)
	img := src.View()
	require.NoError(t, img.Mirror(nil))
	require.NoError(t, img.Mirror(nil))
	assert.True(t, img.IsIdenticalView(src))
}

func TestFlattenAsMuchAsPossibleOnWindow(t *testing.T) {
	src, err := New([]int{5, 10, 15}, 3, Float32)
	require.NoError(t, err)
	img, err := src.Window([]int{0, 5, 7}, []int{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 15, 150}, img.Strides())
	assert.NotEqual(t, 0, img.Origin())

	require.NoError(t, img.FlattenAsMuchAsPossible())
	assert.Equal(t, []int{5 * 5, 5}, img.Sizes())
	assert.Equal(t, []int{3, 150}, img.Strides())
}

func TestSplitDimension(t *testing.T) {
	img, err := New([]int{5, 10, 15}, 3, Float32)
	require.NoError(t, err)
	require.NoError(t, img.SplitDimension(1, 5))
	assert.Equal(t, []int{5, 5, 2, 15}, img.Sizes())
	assert.Equal(t, []int{3, 15, 75, 150}, img.Strides())
	assert.Error(t, img.SplitDimension(3, 4))
}

func TestTensorDimensionManipulation(t *testing.T) {
	img, err := New([]int{5, 10, 15}, 3, Complex64)
	require.NoError(t, err)
	require.Equal(t, []int{3, 15, 150}, img.Strides())
	require.Equal(t, 1, img.TensorStride())

	require.NoError(t, img.TensorToSpatial(1))
	assert.Equal(t, []int{5, 3, 10, 15}, img.Sizes())
	assert.Equal(t, []int{3, 1, 15, 150}, img.Strides())
	assert.Equal(t, 1, img.TensorElements())

	require.NoError(t, img.SpatialToTensor(0, 0, 0))
	assert.Equal(t, []int{3, 10, 15}, img.Sizes())
	assert.Equal(t, []int{1, 15, 150}, img.Strides())
	assert.Equal(t, 5, img.TensorElements())
	assert.Equal(t, 3, img.TensorStride())

	require.NoError(t, img.SplitComplex(3))
	assert.Equal(t, []int{3, 10, 15, 2}, img.Sizes())
	assert.Equal(t, []int{2, 30, 300, 1}, img.Strides())
	assert.Equal(t, Float32, img.DataType())
	assert.Equal(t, 5, img.TensorElements())
	assert.Equal(t, 6, img.TensorStride())

	require.NoError(t, img.MergeComplex(3))
	assert.Equal(t, []int{3, 10, 15}, img.Sizes())
	assert.Equal(t, []int{1, 15, 150}, img.Strides())
	assert.Equal(t, Complex64, img.DataType())
	assert.Equal(t, 5, img.TensorElements())
	assert.Equal(t, 3, img.TensorStride())

	require.NoError(t, img.TensorToSpatial(3))
	require.NoError(t, img.SplitComplexToTensor())
	assert.Equal(t, []int{3, 10, 15, 5}, img.Sizes())
	assert.Equal(t, []int{2, 30, 300, 6}, img.Strides())
	assert.Equal(t, 2, img.TensorElements())
	assert.Equal(t, 1, img.TensorStride())

	require.NoError(t, img.MergeTensorToComplex())
	assert.Equal(t, []int{3, 10, 15, 5}, img.Sizes())
	assert.Equal(t, []int{1, 15, 150, 3}, img.Strides())
	assert.Equal(t, 1, img.TensorElements())
	assert.Equal(t, Complex64, img.DataType())
}

func TestSingletonDimensions(t *testing.T) {
	src, err := NewScalar([]int{5, 10, 15}, Float32)
	require.NoError(t, err)
	img := src.View()
	require.Equal(t, []int{1, 5, 50}, img.Strides())

	require.NoError(t, img.AddSingleton(1))
	assert.Equal(t, []int{5, 1, 10, 15}, img.Sizes())
	assert.Equal(t, []int{1, 0, 5, 50}, img.Strides())

	require.NoError(t, img.ExpandDimensionality(5))
	assert.Equal(t, []int{5, 1, 10, 15, 1}, img.Sizes())
	assert.Equal(t, []int{1, 0, 5, 50, 0}, img.Strides())

	require.NoError(t, img.ExpandSingletonDimension(1, 20))
	require.NoError(t, img.ExpandSingletonDimension(4, 25))
	assert.Equal(t, []int{5, 20, 10, 15, 25}, img.Sizes())
	assert.Equal(t, []int{1, 0, 5, 50, 0}, img.Strides())

	require.NoError(t, img.ExpandSingletonTensor(3))
	assert.Equal(t, 3, img.TensorElements())
	assert.Equal(t, 0, img.TensorStride())

	// Every expanded position reads the same sample.
	src.At(2, 3, 4).SetFloat(0, 7)
	assert.Equal(t, 7.0, img.At(2, 11, 3, 4, 19).Float(1))

	require.NoError(t, img.UnexpandSingletonDimensions())
	assert.Equal(t, []int{5, 1, 10, 15, 1}, img.Sizes())
	assert.Equal(t, 1, img.TensorElements())

	removed, err := img.Squeeze()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, removed)
	assert.Equal(t, []int{5, 10, 15}, img.Sizes())
	assert.Equal(t, []int{1, 5, 50}, img.Strides())

	require.NoError(t, img.AddSingletons(removed))
	assert.Equal(t, []int{5, 1, 10, 15, 1}, img.Sizes())

	// StandardizeStrides reverses the whole construction at once.
	require.NoError(t, img.ExpandSingletonDimension(1, 20))
	require.NoError(t, img.ExpandSingletonTensor(3))
	require.NoError(t, img.StandardizeStrides())
	assert.Equal(t, []int{5, 10, 15}, img.Sizes())
	assert.Equal(t, []int{1, 5, 50}, img.Strides())
	assert.Equal(t, 1, img.TensorElements())
	assert.Equal(t, 0, img.Origin())

	assert.ErrorIs(t, img.UnexpandSingletonDimension(0), ErrDimensionNotExpanded)
}

func TestCropPlacements(t *testing.T) {
	src, err := NewScalar([]int{7, 8, 9, 10}, Float32)
	require.NoError(t, err)

	// Delta right of center.
	src.At(3, 4, 4, 5).SetFloat(0, 1)
	img := src.View()
	require.NoError(t, img.Crop([]int{6, 6, 7, 7}, Center))
	assert.Equal(t, 1.0, img.At(3, 3, 3, 3).Float(0))

	// Delta left of center.
	require.NoError(t, src.Fill(nil))
	src.At(3, 3, 4, 4).SetFloat(0, 1)
	img = src.View()
	require.NoError(t, img.Crop([]int{6, 6, 7, 7}, MirrorCenter))
	assert.Equal(t, 1.0, img.At(2, 2, 3, 3).Float(0))
}

func TestPadCropDuality(t *testing.T) {
	for _, loc := range []Placement{Center, MirrorCenter, TopLeft, BottomRight} {
		src, err := NewScalar([]int{5, 6}, Uint8)
		require.NoError(t, err)
		for y := 0; y < 6; y++ {
			for x := 0; x < 5; x++ {
				src.At(x, y).SetFloat(0, float64(10*y+x))
			}
		}
		padded, err := src.Pad([]int{9, 9}, []float64{255}, loc)
		require.NoError(t, err)
		back := padded.View()
		require.NoError(t, back.Crop([]int{5, 6}, loc))
		for y := 0; y < 6; y++ {
			for x := 0; x < 5; x++ {
				assert.Equal(t, float64(10*y+x), back.At(x, y).Float(0), "placement %d at (%d,%d)", loc, x, y)
			}
		}
	}
}

func TestReinterpretCast(t *testing.T) {
	src, err := NewScalar([]int{7, 8}, Int32)
	require.NoError(t, err)
	dest := src.View()

	require.NoError(t, dest.ReinterpretCast(Uint32))
	assert.Equal(t, Uint32, dest.DataType())
	assert.Equal(t, Int32, src.DataType())
	assert.Equal(t, src.Sizes(), dest.Sizes())

	require.NoError(t, dest.ReinterpretCast(Uint16))
	assert.Equal(t, Uint16, dest.DataType())
	assert.Equal(t, src.Dimensionality(), dest.Dimensionality())
	assert.Equal(t, 2*src.Size(0), dest.Size(0))
	assert.Equal(t, src.Size(1), dest.Size(1))

	require.NoError(t, dest.ReinterpretCast(Int32))
	assert.Equal(t, Int32, dest.DataType())
	assert.Equal(t, src.Sizes(), dest.Sizes())

	// 7 is not divisible by 2, and a failed cast leaves the image unchanged.
	assert.Error(t, dest.ReinterpretCast(Float64))
	assert.Equal(t, Int32, dest.DataType())
	assert.Equal(t, src.Sizes(), dest.Sizes())

	require.NoError(t, dest.Crop([]int{6, 8}, Center))
	assert.Equal(t, 6, dest.Size(0))
	assert.Error(t, dest.ReinterpretCast(Float64)) // strides still don't match

	fresh, err := dest.Similar(Int32)
	require.NoError(t, err)
	require.True(t, fresh.HasNormalStrides())
	require.NoError(t, fresh.ReinterpretCast(Float64))
	assert.Equal(t, Float64, fresh.DataType())
	assert.Equal(t, 3, fresh.Size(0))
	assert.Equal(t, 8, fresh.Size(1))

	// With a tensor dimension the split lands in a new leading dimension.
	tsrc, err := New([]int{7, 8}, 3, Int32)
	require.NoError(t, err)
	tdest := tsrc.View()
	require.NoError(t, tdest.ReinterpretCast(Uint16))
	require.Equal(t, tsrc.Dimensionality()+1, tdest.Dimensionality())
	assert.Equal(t, 2, tdest.Size(0))
	assert.Equal(t, 7, tdest.Size(1))
	assert.Equal(t, 8, tdest.Size(2))
	require.NoError(t, tdest.ReinterpretCast(Int32))
	assert.Equal(t, 1, tdest.Size(0))
	assert.Equal(t, 7, tdest.Size(1))
	assert.Error(t, tdest.ReinterpretCast(Float64)) // no stride-1 dimension left
}

func TestWindowView(t *testing.T) {
	src, err := NewScalar([]int{8, 8}, Uint8)
	require.NoError(t, err)
	src.At(3, 2).SetFloat(0, 42)
	w, err := src.Window([]int{2, 1}, []int{4, 4})
	require.NoError(t, err)
	assert.Equal(t, 42.0, w.At(1, 1).Float(0))
	w.At(0, 0).SetFloat(0, 9)
	assert.Equal(t, 9.0, src.At(2, 1).Float(0))

	_, err = src.Window([]int{6, 6}, []int{4, 4})
	assert.ErrorIs(t, err, ErrSizesDontMatch)
}
