package collapsible

import (
	"math"
	"strconv"
)

// Point is a position in tree coordinates: X runs along the breadth of the
// tree (vertical on screen) and Y along its depth (horizontal on screen).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func lerp(a, b, t float64) float64 { return a*(1-t) + b*t }

func (p Point) lerp(q Point, t float64) Point {
	return Point{X: lerp(p.X, q.X, t), Y: lerp(p.Y, q.Y, t)}
}

// LinkPath returns the SVG path of a horizontal cubic Bezier link from s to d:
//
//	M sy,sx C my,sx my,dx dy,dx
//
// where my is the midpoint of sy and dy. Coordinates are rounded to two
// decimals.
func LinkPath(s, d Point) string {
	my := (s.Y + d.Y) / 2
	return "M" + num(s.Y) + "," + num(s.X) +
		" C" + num(my) + "," + num(s.X) +
		" " + num(my) + "," + num(d.X) +
		" " + num(d.Y) + "," + num(d.X)
}

func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalise -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
