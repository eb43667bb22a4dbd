package dip

import "errors"

// Sentinel errors returned by image operations. Callers test with errors.Is;
// operations wrap these with context via fmt.Errorf and %w. A failed
// operation never leaves the image half-modified.
var (
	ErrNotForged                 = errors.New("image is not forged")
	ErrDimensionalityMismatch    = errors.New("dimensionalities don't match")
	ErrIllegalDimension          = errors.New("illegal dimension")
	ErrWrongArrayLength          = errors.New("array parameter has the wrong length")
	ErrArrayEmpty                = errors.New("array parameter is empty")
	ErrSizesDontMatch            = errors.New("sizes don't match")
	ErrTensorElementsDontMatch   = errors.New("number of tensor elements doesn't match")
	ErrDataTypeNotSupported      = errors.New("data type not supported")
	ErrDimensionalityNotSupported = errors.New("dimensionality not supported")
	ErrInvalidParameter          = errors.New("parameter value not valid")
	ErrDimensionNotExpanded      = errors.New("dimension is not an expanded singleton")
	ErrImageNotScalar            = errors.New("image is not scalar")
	ErrProtected                 = errors.New("image is protected")
	ErrNotImplemented            = errors.New("functionality not implemented")
)
