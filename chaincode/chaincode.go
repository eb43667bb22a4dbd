// Package chaincode represents object boundaries as Freeman chain codes:
// sequences of 4- or 8-connected unit steps with a start coordinate. It traces
// boundaries in binary images, converts between connectivities, offsets a
// boundary outward by half a pixel, and reconstructs sub-pixel polygons.
package chaincode

import "errors"

var (
	ErrNot8Connected = errors.New("chain code is not 8-connected")
	ErrDegenerate    = errors.New("chain code with a single step does not describe a closed boundary")
)

// Code is one step of a chain code: the low 3 bits hold the direction, bit 3
// flags steps that run along the image border.
type Code uint8

const borderFlag Code = 8

// NewCode returns a step with the given direction (taken modulo 8) and border
// flag.
func NewCode(direction int, border bool) Code {
	c := Code(direction & 7)
	if border {
		c |= borderFlag
	}
	return c
}

func (c Code) Direction() int { return int(c & 7) }
func (c Code) IsBorder() bool { return c&borderFlag != 0 }
func (c Code) IsEven() bool   { return c&1 == 0 }

// Point is an integer pixel coordinate, x along the first image dimension.
type Point struct {
	X, Y int
}

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Deltas8 maps an 8-connected direction code to its unit step. Code 0 points
// along positive x; codes rotate counterclockwise (y points down).
var Deltas8 = [8]Point{{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// Deltas4 maps a 4-connected direction code to its unit step.
var Deltas4 = [4]Point{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}

// ChainCode is a closed object boundary: the start pixel and the direction
// codes that walk the boundary clockwise (in image orientation, y down). An
// empty code list is a single-pixel object.
type ChainCode struct {
	Codes        []Code
	Start        Point
	Is8Connected bool
	ObjectID     int
}

func (cc *ChainCode) push(c Code) { cc.Codes = append(cc.Codes, c) }

// Length returns the number of steps in the chain code.
func (cc ChainCode) Length() int { return len(cc.Codes) }

// ConvertTo8Connected rewrites a 4-connected chain code into the 8-connected
// code of the same boundary: pairs of steps that turn left (next = cur+1 mod
// 4) merge into one diagonal step, every other step doubles into its even
// 8-connected equivalent. The merge wraps across the sequence end; boundary
// tracing never produces the wrapping pair, but codes from other sources may.
func (cc ChainCode) ConvertTo8Connected() ChainCode {
	if cc.Is8Connected {
		return cc
	}
	out := ChainCode{Start: cc.Start, Is8Connected: true, ObjectID: cc.ObjectID}
	if len(cc.Codes) < 3 {
		for _, c := range cc.Codes {
			out.push(NewCode(c.Direction()*2, c.IsBorder()))
		}
		return out
	}
	cur := cc.Codes[len(cc.Codes)-1]
	skipLast := false
	ii := 0
	if (cur.Direction()+1)%4 == cc.Codes[0].Direction() {
		// The last and first step merge: the diagonal replaces both, and the
		// start moves back along the last step.
		out.push(NewCode(cur.Direction()*2+1, false))
		out.Start = out.Start.sub(Deltas4[cur.Direction()])
		skipLast = true
		ii++
	}
	for ; ii < len(cc.Codes)-1; ii++ {
		cur = cc.Codes[ii]
		next := cc.Codes[ii+1]
		if (cur.Direction()+1)%4 == next.Direction() {
			// A diagonal cannot run along the image edge.
			out.push(NewCode(cur.Direction()*2+1, false))
			ii++
		} else {
			out.push(NewCode(cur.Direction()*2, cur.IsBorder()))
		}
	}
	if ii < len(cc.Codes) && !skipLast {
		cur = cc.Codes[ii]
		out.push(NewCode(cur.Direction()*2, cur.IsBorder()))
	}
	return out
}

// Offset shifts an 8-connected chain code one half pixel outward, producing
// the chain code of the object dilated with the unit diamond. Each step emits
// one to three codes depending on how far the boundary turns right, read off
// the signed direction change modulo 8.
func (cc ChainCode) Offset() (ChainCode, error) {
	if !cc.Is8Connected {
		return ChainCode{}, ErrNot8Connected
	}
	if len(cc.Codes) == 0 {
		return ChainCode{}, ErrDegenerate
	}
	out := ChainCode{Is8Connected: true, ObjectID: cc.ObjectID}
	last := cc.Codes[len(cc.Codes)-1]
	prev := last.Direction()
	shift := 3
	if last.IsEven() {
		shift = 2
	}
	out.Start = cc.Start.add(Deltas8[(prev+shift)%8])
	for _, code := range cc.Codes {
		v := code.Direction()
		n := (v - prev + 8) % 8
		if code.IsEven() {
			switch n {
			case 4, 5:
				out.push(NewCode(v+3, code.IsBorder()))
				fallthrough
			case 6, 7:
				out.push(NewCode(v+1, code.IsBorder()))
				fallthrough
			case 0, 1:
				out.push(code)
			}
		} else {
			switch n {
			case 4:
				out.push(NewCode(v+4, code.IsBorder()))
				fallthrough
			case 5, 6:
				out.push(NewCode(v+2, code.IsBorder()))
				fallthrough
			case 7, 0:
				out.push(code)
			}
		}
		prev = v
	}
	return out, nil
}
