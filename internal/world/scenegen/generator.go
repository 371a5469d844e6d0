// Package scenegen authors scenes by seeded random placement of shapes.
package scenegen

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

// maxAttempts bounds how often a rejected shape is re-rolled.
const maxAttempts = 64

var ErrInvalidConfig = errors.New("invalid scene generator config")

// GeneratorConfig holds configuration for scene generation
type GeneratorConfig struct {
	Width      float32    // Domain width; shapes stay fully inside it
	Height     float32    // Domain height
	Circles    int        // Number of circles to place
	Rectangles int        // Number of rectangles to place
	MinSize    float32    // Minimum circle radius / rectangle half extent
	MaxSize    float32    // Maximum circle radius / rectangle half extent
	Spawn      geom.Point // Kept clear of shapes
	Clearance  float32    // Free distance required around Spawn (0 = none)
	Seed       int64      // Random seed (0 = use current time)
}

// Generator places shapes at random
type Generator struct {
	config GeneratorConfig
	seed   int64
	rng    *rand.Rand
}

// NewGenerator creates a new scene generator
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if !(config.Width > 0) || !(config.Height > 0) {
		return nil, fmt.Errorf("%w: domain %vx%v", ErrInvalidConfig, config.Width, config.Height)
	}
	if config.Circles < 0 || config.Rectangles < 0 {
		return nil, fmt.Errorf("%w: negative shape count", ErrInvalidConfig)
	}
	if !(config.MinSize > 0) || config.MaxSize < config.MinSize {
		return nil, fmt.Errorf("%w: size range [%v, %v]", ErrInvalidConfig, config.MinSize, config.MaxSize)
	}
	if 2*config.MaxSize >= config.Width || 2*config.MaxSize >= config.Height {
		return nil, fmt.Errorf("%w: shapes up to %v do not fit a %vx%v domain", ErrInvalidConfig, config.MaxSize, config.Width, config.Height)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		config: config,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Seed returns the seed in use, so a scene can be reproduced.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSpawn moves the point later scenes keep clear of shapes.
func (g *Generator) SetSpawn(p geom.Point) {
	g.config.Spawn = p
}

// Generate creates a new scene. Successive calls continue the same random
// sequence and so produce different scenes.
func (g *Generator) Generate() (*sdf.Scene, error) {
	scene, err := sdf.NewScene()
	if err != nil {
		return nil, err
	}

	// Circles first, then rectangles
	for i := 0; i < g.config.Circles; i++ {
		if err := g.place(scene, g.randomCircle); err != nil {
			return nil, err
		}
	}
	for i := 0; i < g.config.Rectangles; i++ {
		if err := g.place(scene, g.randomRectangle); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

// place adds one shape, re-rolling while it crowds the spawn point. A shape
// that still crowds it after maxAttempts is dropped.
func (g *Generator) place(scene *sdf.Scene, roll func() sdf.Shape) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		shape := roll()
		if g.config.Clearance > 0 && shape.Distance(g.config.Spawn) < g.config.Clearance {
			continue
		}
		if _, err := scene.Add(shape); err != nil {
			return fmt.Errorf("failed to add generated %s: %w", shape.Kind, err)
		}
		return nil
	}
	return nil
}

func (g *Generator) randomCircle() sdf.Shape {
	r := g.size()
	return sdf.NewCircle(g.center(geom.Pt(r, r)), r)
}

func (g *Generator) randomRectangle() sdf.Shape {
	he := geom.Pt(g.size(), g.size())
	return sdf.NewRectangle(g.center(he), he)
}

// size returns a value in [MinSize, MaxSize).
func (g *Generator) size() float32 {
	span := g.config.MaxSize - g.config.MinSize
	return g.config.MinSize + g.rng.Float32()*span
}

// center returns a position keeping a shape of the given half extent inside
// the domain.
func (g *Generator) center(he geom.Point) geom.Point {
	x := he.X + g.rng.Float32()*(g.config.Width-2*he.X)
	y := he.Y + g.rng.Float32()*(g.config.Height-2*he.Y)
	return geom.Pt(x, y)
}
