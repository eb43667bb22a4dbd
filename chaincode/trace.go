package chaincode

import (
	"fmt"

	"github.com/gabkdlly/diplib/dip"
)

// Trace follows the boundary of the object containing start in a 2-D scalar
// image, clockwise, and returns its chain code. Nonzero samples are object.
// Connectivity 1 yields a 4-connected code, connectivity 2 an 8-connected one.
// The start pixel must be an object pixel whose northern neighbor is
// background, such as the first object pixel in scan order.
func Trace(img *dip.Image, start Point, connectivity int) (ChainCode, error) {
	if !img.IsForged() {
		return ChainCode{}, dip.ErrNotForged
	}
	if !img.IsScalar() {
		return ChainCode{}, dip.ErrImageNotScalar
	}
	if img.Dimensionality() != 2 {
		return ChainCode{}, fmt.Errorf("boundary tracing is 2-D only: %w", dip.ErrDimensionalityNotSupported)
	}
	if connectivity != 1 && connectivity != 2 {
		return ChainCode{}, fmt.Errorf("connectivity %d: %w", connectivity, dip.ErrInvalidParameter)
	}
	sizes := img.Sizes()
	object := func(p Point) bool {
		return p.X >= 0 && p.X < sizes[0] && p.Y >= 0 && p.Y < sizes[1] &&
			img.At(p.X, p.Y).Float(0) != 0
	}
	if !object(start) {
		return ChainCode{}, fmt.Errorf("start %v is not an object pixel: %w", start, dip.ErrInvalidParameter)
	}
	cc := ChainCode{
		Start:        start,
		Is8Connected: connectivity == 2,
		ObjectID:     int(img.At(start.X, start.Y).Float(0)),
	}
	onBorder := func(p Point) bool {
		return p.X == 0 || p.Y == 0 || p.X == sizes[0]-1 || p.Y == sizes[1]-1
	}
	if cc.Is8Connected {
		trace8(&cc, object, onBorder)
	} else {
		trace4(&cc, object, onBorder)
	}
	return cc, nil
}

// trace8 walks the boundary taking the rightmost available turn: candidate
// directions start two steps counterclockwise from the previous one and sweep
// clockwise. The walk ends when it is back at the start pixel about to repeat
// its first step.
func trace8(cc *ChainCode, object func(Point) bool, onBorder func(Point) bool) {
	pos := cc.Start
	prev := 6 // entry from the north, for a start pixel with background above
	for {
		found := -1
		for i := 0; i < 8; i++ {
			dir := (prev + 2 - i + 8) % 8
			if object(pos.add(Deltas8[dir])) {
				found = dir
				break
			}
		}
		if found < 0 {
			return // isolated pixel
		}
		if len(cc.Codes) > 0 && pos == cc.Start && found == cc.Codes[0].Direction() {
			return
		}
		pos = pos.add(Deltas8[found])
		cc.push(NewCode(found, onBorder(pos)))
		prev = found
	}
}

func trace4(cc *ChainCode, object func(Point) bool, onBorder func(Point) bool) {
	pos := cc.Start
	prev := 3
	for {
		found := -1
		for _, dir := range [4]int{(prev + 1) % 4, prev, (prev + 3) % 4, (prev + 2) % 4} {
			if object(pos.add(Deltas4[dir])) {
				found = dir
				break
			}
		}
		if found < 0 {
			return
		}
		if len(cc.Codes) > 0 && pos == cc.Start && found == cc.Codes[0].Direction() {
			return
		}
		pos = pos.add(Deltas4[found])
		cc.push(NewCode(found, onBorder(pos)))
		prev = found
	}
}
