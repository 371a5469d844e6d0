// Package sdf models scene obstacles as signed distance functions.
//
// A Shape is a closed tagged variant dispatched by Distance. Every variant
// returns a conservative lower bound on the distance to its surface so the
// raymarcher can step by the returned value without tunnelling.
package sdf

import (
	"fmt"

	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/geom"
)

// Kind identifies the Shape variant.
type Kind uint8

const (
	KindCircle Kind = iota
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is an immutable obstacle. Radius is used by circles, HalfExtent by
// axis-aligned rectangles.
type Shape struct {
	Kind       Kind
	Center     geom.Point
	Radius     float32
	HalfExtent geom.Point
}

// NewCircle creates a circle of the given radius.
func NewCircle(center geom.Point, radius float32) Shape {
	return Shape{Kind: KindCircle, Center: center, Radius: radius}
}

// NewRectangle creates an axis-aligned rectangle centered on center.
func NewRectangle(center, halfExtent geom.Point) Shape {
	return Shape{Kind: KindRectangle, Center: center, HalfExtent: halfExtent}
}

// Distance returns the signed distance from p to the shape's surface:
// negative inside, zero on the boundary, positive outside.
func (s Shape) Distance(p geom.Point) float32 {
	switch s.Kind {
	case KindRectangle:
		d := p.Sub(s.Center).Abs().Sub(s.HalfExtent)
		outside := d.Max(geom.Point{}).Len()
		inside := math32.Min(math32.Max(d.X, d.Y), 0)
		return outside + inside
	default:
		return p.Sub(s.Center).Len() - s.Radius
	}
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() (lo, hi geom.Point) {
	ext := s.HalfExtent
	if s.Kind == KindCircle {
		ext = geom.Pt(s.Radius, s.Radius)
	}
	return s.Center.Sub(ext), s.Center.Add(ext)
}

// WithCenter returns a copy of s moved to center.
func (s Shape) WithCenter(center geom.Point) Shape {
	s.Center = center
	return s
}

// Validate reports whether the shape's parameters describe a non-empty,
// finite region.
func (s Shape) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: %s center %v is not finite", ErrInvalidShape, s.Kind, s.Center)
	}
	switch s.Kind {
	case KindCircle:
		if !(s.Radius > 0) || math32.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: circle radius %v must be positive", ErrInvalidShape, s.Radius)
		}
	case KindRectangle:
		if !s.HalfExtent.IsFinite() || !(s.HalfExtent.X > 0) || !(s.HalfExtent.Y > 0) {
			return fmt.Errorf("%w: rectangle half extent %v must be positive", ErrInvalidShape, s.HalfExtent)
		}
	default:
		return fmt.Errorf("%w: unknown %s", ErrInvalidShape, s.Kind)
	}
	return nil
}
