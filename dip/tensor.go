package dip

import "fmt"

// TensorShape describes how the tensor elements of a pixel map onto the
// stored sample sequence.
type TensorShape uint8

const (
	ShapeColVector TensorShape = iota // stored in order
	ShapeRowVector
	ShapeColMajorMatrix // stored in order
	ShapeRowMajorMatrix
	ShapeDiagonalMatrix  // only the diagonal is stored
	ShapeSymmetricMatrix // diagonal first, then upper triangle column-wise
	ShapeUpperTriangular // diagonal first, then upper triangle column-wise
	ShapeLowerTriangular // diagonal first, then lower triangle row-wise
)

func (ts TensorShape) String() string {
	switch ts {
	case ShapeColVector:
		return "column vector"
	case ShapeRowVector:
		return "row vector"
	case ShapeColMajorMatrix:
		return "column-major matrix"
	case ShapeRowMajorMatrix:
		return "row-major matrix"
	case ShapeDiagonalMatrix:
		return "diagonal matrix"
	case ShapeSymmetricMatrix:
		return "symmetric matrix"
	case ShapeUpperTriangular:
		return "upper triangular matrix"
	case ShapeLowerTriangular:
		return "lower triangular matrix"
	}
	return fmt.Sprintf("TensorShape(%d)", uint8(ts))
}

// Tensor describes the tensor (channel) dimension of an image: its logical
// matrix size and which of its elements are physically stored.
type Tensor struct {
	shape TensorShape
	rows  int
	cols  int
}

// ScalarTensor is the tensor of a one-channel image.
func ScalarTensor() Tensor { return Tensor{ShapeColVector, 1, 1} }

// VectorTensor is a column vector of n elements.
func VectorTensor(n int) Tensor { return Tensor{ShapeColVector, n, 1} }

// MatrixTensor is a full column-major matrix of rows x cols elements.
func MatrixTensor(rows, cols int) Tensor { return Tensor{ShapeColMajorMatrix, rows, cols} }

// ShapedTensor builds a tensor with an explicit storage shape. Diagonal,
// symmetric and triangular shapes require a square matrix.
func ShapedTensor(shape TensorShape, rows, cols int) (Tensor, error) {
	switch shape {
	case ShapeColVector:
		if cols != 1 {
			return Tensor{}, fmt.Errorf("column vector must have one column: %w", ErrInvalidParameter)
		}
	case ShapeRowVector:
		if rows != 1 {
			return Tensor{}, fmt.Errorf("row vector must have one row: %w", ErrInvalidParameter)
		}
	case ShapeColMajorMatrix, ShapeRowMajorMatrix:
		// any size
	case ShapeDiagonalMatrix, ShapeSymmetricMatrix, ShapeUpperTriangular, ShapeLowerTriangular:
		if rows != cols {
			return Tensor{}, fmt.Errorf("%s must be square: %w", shape, ErrInvalidParameter)
		}
	default:
		return Tensor{}, fmt.Errorf("unknown tensor shape: %w", ErrInvalidParameter)
	}
	if rows < 1 || cols < 1 {
		return Tensor{}, fmt.Errorf("tensor sizes must be positive: %w", ErrInvalidParameter)
	}
	return Tensor{shape, rows, cols}, nil
}

// Shape returns the storage shape.
func (t Tensor) Shape() TensorShape { return t.shape }

// Rows returns the number of matrix rows.
func (t Tensor) Rows() int { return t.rows }

// Columns returns the number of matrix columns.
func (t Tensor) Columns() int { return t.cols }

// Elements returns the number of samples stored per pixel.
func (t Tensor) Elements() int {
	switch t.shape {
	case ShapeColVector, ShapeRowVector, ShapeColMajorMatrix, ShapeRowMajorMatrix:
		return t.rows * t.cols
	case ShapeDiagonalMatrix:
		return t.rows
	case ShapeSymmetricMatrix, ShapeUpperTriangular, ShapeLowerTriangular:
		return t.rows * (t.rows + 1) / 2
	}
	return 1
}

// IsScalar reports whether the tensor holds a single element.
func (t Tensor) IsScalar() bool { return t.Elements() == 1 }

// IsVector reports whether the tensor is a row or column vector.
func (t Tensor) IsVector() bool {
	return t.shape == ShapeColVector || t.shape == ShapeRowVector
}

// HasNormalOrder reports whether the stored samples already are the full
// matrix in column-major order.
func (t Tensor) HasNormalOrder() bool {
	switch t.shape {
	case ShapeColVector, ShapeRowVector, ShapeColMajorMatrix:
		return true
	}
	return false
}

// LookUpTable maps each element of the full column-major matrix to the index
// of the stored sample holding its value, or -1 where no sample is stored
// (those elements are zero). Used to expand compact tensor storage.
func (t Tensor) LookUpTable() []int {
	n := t.rows * t.cols
	lut := make([]int, n)
	switch t.shape {
	case ShapeColVector, ShapeColMajorMatrix:
		for i := range lut {
			lut[i] = i
		}
	case ShapeRowVector:
		for i := range lut {
			lut[i] = i
		}
	case ShapeRowMajorMatrix:
		for c := 0; c < t.cols; c++ {
			for r := 0; r < t.rows; r++ {
				lut[r+c*t.rows] = c + r*t.cols
			}
		}
	case ShapeDiagonalMatrix:
		for i := range lut {
			lut[i] = -1
		}
		for r := 0; r < t.rows; r++ {
			lut[r+r*t.rows] = r
		}
	case ShapeSymmetricMatrix:
		idx := t.rows
		for c := 1; c < t.cols; c++ {
			for r := 0; r < c; r++ {
				lut[r+c*t.rows] = idx
				lut[c+r*t.rows] = idx
				idx++
			}
		}
		for r := 0; r < t.rows; r++ {
			lut[r+r*t.rows] = r
		}
	case ShapeUpperTriangular:
		for i := range lut {
			lut[i] = -1
		}
		idx := t.rows
		for c := 1; c < t.cols; c++ {
			for r := 0; r < c; r++ {
				lut[r+c*t.rows] = idx
				idx++
			}
		}
		for r := 0; r < t.rows; r++ {
			lut[r+r*t.rows] = r
		}
	case ShapeLowerTriangular:
		for i := range lut {
			lut[i] = -1
		}
		idx := t.rows
		for r := 1; r < t.rows; r++ {
			for c := 0; c < r; c++ {
				lut[r+c*t.rows] = idx
				idx++
			}
		}
		for r := 0; r < t.rows; r++ {
			lut[r+r*t.rows] = r
		}
	}
	return lut
}
