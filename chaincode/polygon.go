package chaincode

import "math"

// Vertex is a sub-pixel coordinate.
type Vertex struct {
	X, Y float64
}

func (v Vertex) add(p Vertex) Vertex { return Vertex{v.X + p.X, v.Y + p.Y} }

// Polygon is a closed sequence of vertices, wound the same way as the chain
// code it came from.
type Polygon struct {
	Vertices []Vertex
}

// Area returns the signed area enclosed by the polygon. With the clockwise
// winding produced by Trace the area comes out positive.
func (p Polygon) Area() float64 {
	if len(p.Vertices) < 3 {
		return 0
	}
	sum := 0.0
	prev := p.Vertices[len(p.Vertices)-1]
	for _, v := range p.Vertices {
		sum += prev.X*v.Y - v.X*prev.Y
		prev = v
	}
	return sum / 2
}

// Perimeter returns the length of the polygon's boundary.
func (p Polygon) Perimeter() float64 {
	if len(p.Vertices) < 2 {
		return 0
	}
	sum := 0.0
	prev := p.Vertices[len(p.Vertices)-1]
	for _, v := range p.Vertices {
		sum += math.Hypot(v.X-prev.X, v.Y-prev.Y)
		prev = v
	}
	return sum
}

// Midpoints of the four pixel edges, indexed by half the even direction code
// pointing along that edge's outward normal.
var edgeMidpoints = [4]Vertex{{0, -0.5}, {-0.5, 0}, {0, 0.5}, {0.5, 0}}

// Polygon converts the chain code to a polygon through the midpoints of the
// pixel edges that face outward. Per step, the number of quadrant transitions
// between the previous and current direction determines how many corner
// vertices to insert before advancing. The vertices trace the object's
// sub-pixel outline; area and perimeter measured on it are less biased than
// pixel counting.
func (cc ChainCode) Polygon() (Polygon, error) {
	if len(cc.Codes) == 1 {
		return Polygon{}, ErrDegenerate
	}
	c8 := cc
	if !cc.Is8Connected {
		c8 = cc.ConvertTo8Connected()
	}
	pos := Vertex{float64(c8.Start.X), float64(c8.Start.Y)}
	var poly Polygon
	if len(c8.Codes) == 0 {
		// A single pixel: its four edge midpoints.
		poly.Vertices = []Vertex{
			edgeMidpoints[0].add(pos),
			edgeMidpoints[3].add(pos),
			edgeMidpoints[2].add(pos),
			edgeMidpoints[1].add(pos),
		}
		return poly, nil
	}
	m := c8.Codes[len(c8.Codes)-1].Direction()
	for _, code := range c8.Codes {
		n := code.Direction()
		k := ((m + 1) / 2) % 4
		l := n / 2
		if l < k {
			l += 4
		}
		l -= k
		poly.Vertices = append(poly.Vertices, edgeMidpoints[k].add(pos))
		if l != 0 {
			k = (k + 3) % 4
			poly.Vertices = append(poly.Vertices, edgeMidpoints[k].add(pos))
			if l <= 2 {
				k = (k + 3) % 4
				poly.Vertices = append(poly.Vertices, edgeMidpoints[k].add(pos))
				if l == 1 {
					// Only reachable when the boundary reverses, n == m+4.
					k = (k + 3) % 4
					poly.Vertices = append(poly.Vertices, edgeMidpoints[k].add(pos))
				}
			}
		}
		d := Deltas8[n]
		pos.X += float64(d.X)
		pos.Y += float64(d.Y)
		m = n
	}
	return poly, nil
}
