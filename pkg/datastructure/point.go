package datastructure

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point. position in simulator space (x, y, z).
type Point = r3.Vector

func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// EuclideanDistance. straight-line distance between two positions.
func EuclideanDistance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// ProjectPointToSegment returns the point of segment ab closest to p and its distance to p.
func ProjectPointToSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a)
	lenSq := ab.Norm2()
	if lenSq == 0 {
		return a, p.Sub(a).Norm()
	}

	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))

	projection := a.Add(ab.Mul(t))
	return projection, p.Sub(projection).Norm()
}
