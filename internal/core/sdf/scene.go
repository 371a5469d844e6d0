package sdf

import (
	"errors"
	"fmt"

	"chosenoffset.com/sdflight/internal/core/geom"
)

// Sentinel is the distance reported when no shape bounds a query point.
const Sentinel float32 = 10000

var (
	// ErrSceneSealed is returned when adding to a scene a cache was built from.
	ErrSceneSealed = errors.New("scene is sealed")
	// ErrInvalidShape is returned for shapes with degenerate parameters.
	ErrInvalidShape = errors.New("invalid shape")
)

// ShapeRef is a stable index into a Scene.
type ShapeRef int

// NoShape marks the absence of a shape.
const NoShape ShapeRef = -1

// Valid reports whether r refers to a shape.
func (r ShapeRef) Valid() bool {
	return r >= 0
}

// Scene is an ordered collection of shapes. Order only matters for which
// shape is reported as nearest on exact ties.
type Scene struct {
	shapes []Shape
	sealed bool
}

// NewScene creates a scene holding the given shapes in order.
func NewScene(shapes ...Shape) (*Scene, error) {
	s := &Scene{shapes: make([]Shape, 0, len(shapes))}
	for _, shape := range shapes {
		if _, err := s.Add(shape); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a shape and returns its reference.
func (s *Scene) Add(shape Shape) (ShapeRef, error) {
	if s.sealed {
		return NoShape, ErrSceneSealed
	}
	if err := shape.Validate(); err != nil {
		return NoShape, err
	}
	s.shapes = append(s.shapes, shape)
	return ShapeRef(len(s.shapes) - 1), nil
}

// Len returns the number of shapes.
func (s *Scene) Len() int {
	return len(s.shapes)
}

// Shape returns the shape for ref.
func (s *Scene) Shape(ref ShapeRef) (Shape, bool) {
	if ref < 0 || int(ref) >= len(s.shapes) {
		return Shape{}, false
	}
	return s.shapes[ref], true
}

// Shapes returns a copy of the shapes in scene order.
func (s *Scene) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Seal freezes the scene. Distance field caches seal the scene they are
// built from so cached values cannot go stale.
func (s *Scene) Seal() {
	s.sealed = true
}

// Sealed reports whether the scene rejects further additions.
func (s *Scene) Sealed() bool {
	return s.sealed
}

// Clone returns an unsealed copy of the scene.
func (s *Scene) Clone() *Scene {
	return &Scene{shapes: s.Shapes()}
}

// NearestDistance returns the minimum signed distance from p to any shape and
// the shape that produced it. The scan stops at the first non-positive value,
// so once p is inside geometry the reported shape is any one containing it,
// not necessarily the deepest. An empty scene yields (Sentinel, NoShape).
func (s *Scene) NearestDistance(p geom.Point) (float32, ShapeRef) {
	best := Sentinel
	ref := NoShape
	for i := range s.shapes {
		d := s.shapes[i].Distance(p)
		if d < best {
			best = d
			ref = ShapeRef(i)
			if best <= 0 {
				break
			}
		}
	}
	return best, ref
}

// DistanceTo evaluates a single shape exactly. ref must be valid.
func (s *Scene) DistanceTo(ref ShapeRef, p geom.Point) float32 {
	return s.shapes[ref].Distance(p)
}

func (s *Scene) String() string {
	return fmt.Sprintf("Scene{%d shapes, sealed=%t}", len(s.shapes), s.sealed)
}
