// Package march sphere-traces rays through a distance field cache.
package march

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/field"
	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

// DefaultRefineCells is the width, in cache cells, of the band above the hit
// threshold in which the interpolated distance is cross-checked against the
// nearest shape's exact distance.
const DefaultRefineCells float32 = 1.5

var (
	// ErrDegenerateDirection is returned for zero-length or non-finite directions.
	ErrDegenerateDirection = errors.New("degenerate march direction")
	ErrInvalidThreshold    = errors.New("hit threshold must be positive")
	ErrInvalidSteps        = errors.New("max steps must be positive")
	ErrInvalidOption       = errors.New("invalid marcher option")
)

// State is the terminal state of a march.
type State uint8

const (
	Marching State = iota
	Hit
	Exhausted
	OutOfBounds
)

func (s State) String() string {
	switch s {
	case Marching:
		return "marching"
	case Hit:
		return "hit"
	case Exhausted:
		return "exhausted"
	case OutOfBounds:
		return "out of bounds"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// RayHit is the outcome of a single march. Shape is sdf.NoShape unless Hit.
type RayHit struct {
	Position    geom.Point
	Shape       sdf.ShapeRef
	Accumulated float32
	Steps       int
	State       State
	Hit         bool
}

// Marcher steps rays through a cache. It holds no per-ray state and may be
// shared by any number of sequential callers.
type Marcher struct {
	cache       *field.Cache
	scene       *sdf.Scene
	threshold   float32
	maxSteps    int
	maxDistance float32
	refineCells float32
	refineBand  float32
}

// Option configures a Marcher.
type Option func(*Marcher)

// WithMaxDistance stops a march once it has travelled d world units. Zero
// disables the cap; maxSteps always applies.
func WithMaxDistance(d float32) Option {
	return func(m *Marcher) {
		m.maxDistance = d
	}
}

// WithRefineCells sets the exact re-evaluation band in cache cells.
func WithRefineCells(cells float32) Option {
	return func(m *Marcher) {
		m.refineCells = cells
	}
}

// New creates a marcher over cache. threshold is the distance at or below
// which a surface counts as struck.
func New(cache *field.Cache, threshold float32, maxSteps int, opts ...Option) (*Marcher, error) {
	if cache == nil {
		return nil, fmt.Errorf("%w: nil cache", ErrInvalidOption)
	}
	if !(threshold > 0) || math32.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSteps, maxSteps)
	}

	m := &Marcher{
		cache:       cache,
		scene:       cache.Scene(),
		threshold:   threshold,
		maxSteps:    maxSteps,
		refineCells: DefaultRefineCells,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !(m.maxDistance >= 0) || math32.IsInf(m.maxDistance, 0) {
		return nil, fmt.Errorf("%w: max distance %v", ErrInvalidOption, m.maxDistance)
	}
	if !(m.refineCells >= 0) || math32.IsInf(m.refineCells, 0) {
		return nil, fmt.Errorf("%w: refine cells %v", ErrInvalidOption, m.refineCells)
	}
	m.refineBand = threshold + m.refineCells*cache.CellSize()
	return m, nil
}

// Cache returns the cache the marcher samples.
func (m *Marcher) Cache() *field.Cache {
	return m.cache
}

// Threshold returns the hit threshold.
func (m *Marcher) Threshold() float32 {
	return m.threshold
}

// MaxSteps returns the step budget per ray.
func (m *Marcher) MaxSteps() int {
	return m.maxSteps
}

// March normalizes direction and marches from origin.
func (m *Marcher) March(origin, direction geom.Point) (RayHit, error) {
	dir, ok := direction.Normalize()
	if !ok {
		return RayHit{Position: origin, Shape: sdf.NoShape}, fmt.Errorf("%w: (%v, %v)", ErrDegenerateDirection, direction.X, direction.Y)
	}
	return m.MarchUnit(origin, dir), nil
}

// MarchUnit marches along dir, which must already be unit length.
func (m *Marcher) MarchUnit(origin, dir geom.Point) RayHit {
	pos := origin
	var acc float32

	for steps := 0; steps < m.maxSteps; steps++ {
		if !m.cache.Contains(pos) {
			return RayHit{Position: pos, Shape: sdf.NoShape, Accumulated: acc, Steps: steps, State: OutOfBounds}
		}

		d := m.cache.Sample(pos)
		ref := sdf.NoShape
		// Bilinear blending smears the surface by up to a cell, so near it the
		// nearest shape is evaluated exactly.
		if d <= m.refineBand {
			ref = m.cache.NearestAt(pos)
			if ref.Valid() {
				d = math32.Min(d, m.scene.DistanceTo(ref, pos))
			}
		}

		if d <= m.threshold {
			return RayHit{Position: pos, Shape: ref, Accumulated: acc, Steps: steps, State: Hit, Hit: true}
		}

		if m.maxDistance > 0 && acc+d >= m.maxDistance {
			pos = pos.Add(dir.Scale(m.maxDistance - acc))
			return RayHit{Position: pos, Shape: sdf.NoShape, Accumulated: m.maxDistance, Steps: steps + 1, State: Exhausted}
		}

		pos = pos.Add(dir.Scale(d))
		acc += d
	}

	state := Exhausted
	if !m.cache.Contains(pos) {
		state = OutOfBounds
	}
	return RayHit{Position: pos, Shape: sdf.NoShape, Accumulated: acc, Steps: m.maxSteps, State: state}
}
