// Package shadows builds per-light visibility polygons by casting a fixed fan
// of rays through the raymarcher.
package shadows

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/march"
)

// ErrTooFewRays is returned when a fan cannot enclose an area.
var ErrTooFewRays = errors.New("visibility fan needs at least 3 rays")

// Polygon is a star-shaped visibility polygon. Vertex i lies along ray i of
// the builder's direction table.
type Polygon []geom.Point

// Builder casts the same direction table from every light. The table is
// computed once and shared across lights and frames.
type Builder struct {
	marcher *march.Marcher
	dirs    []geom.Point
	bounds  geom.Point
}

// NewBuilder precomputes rays unit directions evenly spaced over a full turn,
// starting at angle 0 and increasing counter-clockwise in world coordinates.
func NewBuilder(marcher *march.Marcher, rays int) (*Builder, error) {
	if marcher == nil {
		return nil, errors.New("nil marcher")
	}
	if rays < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRays, rays)
	}

	dirs := make([]geom.Point, rays)
	for i := range dirs {
		angle := 2 * math.Pi * float64(i) / float64(rays)
		dirs[i] = geom.Pt(float32(math.Cos(angle)), float32(math.Sin(angle)))
	}

	return &Builder{
		marcher: marcher,
		dirs:    dirs,
		bounds:  marcher.Cache().Bounds(),
	}, nil
}

// Rays returns the number of rays, and so vertices, per polygon.
func (b *Builder) Rays() int {
	return len(b.dirs)
}

// Directions returns a copy of the direction table.
func (b *Builder) Directions() []geom.Point {
	out := make([]geom.Point, len(b.dirs))
	copy(out, b.dirs)
	return out
}

// Build returns the visibility polygon seen from origin.
func (b *Builder) Build(origin geom.Point) Polygon {
	return b.BuildInto(nil, origin)
}

// BuildInto is Build writing into dst's storage, growing it only when its
// capacity is short.
func (b *Builder) BuildInto(dst Polygon, origin geom.Point) Polygon {
	dst = dst[:0]
	for _, dir := range b.dirs {
		hit := b.marcher.MarchUnit(origin, dir)
		dst = append(dst, b.vertex(origin, dir, hit))
	}
	return dst
}

// Trace marches every ray from origin in table order and passes each vertex
// along with the march result to fn.
func (b *Builder) Trace(origin geom.Point, fn func(i int, vertex geom.Point, hit march.RayHit)) {
	for i, dir := range b.dirs {
		hit := b.marcher.MarchUnit(origin, dir)
		fn(i, b.vertex(origin, dir, hit), hit)
	}
}

func (b *Builder) vertex(origin, dir geom.Point, hit march.RayHit) geom.Point {
	if hit.Hit {
		return hit.Position
	}
	return exitPoint(origin, dir, b.bounds)
}

// exitPoint returns where the ray from origin along dir leaves the box
// [0, hi.X] x [0, hi.Y].
func exitPoint(origin, dir, hi geom.Point) geom.Point {
	t := math32.Inf(1)
	if dir.X > 0 {
		t = math32.Min(t, (hi.X-origin.X)/dir.X)
	} else if dir.X < 0 {
		t = math32.Min(t, -origin.X/dir.X)
	}
	if dir.Y > 0 {
		t = math32.Min(t, (hi.Y-origin.Y)/dir.Y)
	} else if dir.Y < 0 {
		t = math32.Min(t, -origin.Y/dir.Y)
	}
	if t < 0 || math32.IsInf(t, 0) {
		t = 0
	}
	return origin.Add(dir.Scale(t)).Clamp(geom.Point{}, hi)
}
