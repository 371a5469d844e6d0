// Package geom provides the float32 2D vector type shared by the distance
// field, the raymarcher and the renderer.
package geom

import "github.com/chewxy/math32"

// Point represents a 2D point (or vector) in world space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * k.
func (p Point) Scale(k float32) Point {
	return Point{p.X * k, p.Y * k}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Len returns the Euclidean length of p.
func (p Point) Len() float32 {
	return math32.Hypot(p.X, p.Y)
}

// Abs returns p with both components made non-negative.
func (p Point) Abs() Point {
	return Point{math32.Abs(p.X), math32.Abs(p.Y)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{math32.Max(p.X, q.X), math32.Max(p.Y, q.Y)}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{math32.Min(p.X, q.X), math32.Min(p.Y, q.Y)}
}

// Normalize returns the unit vector pointing along p. ok is false when p has
// zero length or a non-finite component.
func (p Point) Normalize() (unit Point, ok bool) {
	if !p.IsFinite() {
		return Point{}, false
	}
	l := p.Len()
	if l == 0 {
		return Point{}, false
	}
	return Point{p.X / l, p.Y / l}, true
}

// Angle returns the polar angle of p in [0, 2π).
func (p Point) Angle() float32 {
	a := math32.Atan2(p.Y, p.X)
	if a < 0 {
		a += 2 * math32.Pi
	}
	if a >= 2*math32.Pi {
		a = 0
	}
	return a
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return !math32.IsNaN(p.X) && !math32.IsNaN(p.Y) &&
		!math32.IsInf(p.X, 0) && !math32.IsInf(p.Y, 0)
}

// Clamp constrains p to the box [lo, hi].
func (p Point) Clamp(lo, hi Point) Point {
	return Point{clamp(p.X, lo.X, hi.X), clamp(p.Y, lo.Y, hi.Y)}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float32 {
	return b.Sub(a).Len()
}

// FromAngle returns the unit vector at angle radians.
func FromAngle(angle float32) Point {
	s, c := math32.Sincos(angle)
	return Point{c, s}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
