package game

import (
	"fmt"
	"log"
	"time"

	"chosenoffset.com/sdflight/internal/core/field"
	"chosenoffset.com/sdflight/internal/core/march"
	"chosenoffset.com/sdflight/internal/core/sdf"
	"chosenoffset.com/sdflight/internal/core/shadows"
	"chosenoffset.com/sdflight/internal/simulation"
)

// World bundles a scene with everything built from it. It is replaced as a
// whole when the scene changes.
type World struct {
	Scene      *sdf.Scene
	Cache      *field.Cache
	Marcher    *march.Marcher
	Visibility *shadows.Builder
	BuildTime  time.Duration
}

// NewWorld builds the distance field for scene and the marcher and
// visibility builder over it. The scene is sealed.
func NewWorld(cfg *simulation.Config, scene *sdf.Scene) (*World, error) {
	start := time.Now()
	cache, err := field.BuildParallel(scene, cfg.Domain.Width, cfg.Domain.Height, cfg.Cache.Precision, cfg.Cache.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance field: %w", err)
	}
	elapsed := time.Since(start)

	marcher, err := march.New(cache, cfg.Marching.HitThreshold, cfg.Marching.MaxSteps,
		march.WithMaxDistance(cfg.Marching.MaxDistance),
		march.WithRefineCells(cfg.Marching.RefineCells),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create marcher: %w", err)
	}

	visibility, err := shadows.NewBuilder(marcher, cfg.Marching.Rays)
	if err != nil {
		return nil, fmt.Errorf("failed to create visibility builder: %w", err)
	}

	gw, gh := cache.GridSize()
	log.Printf("Built %dx%d distance field for %d shapes in %v (%d workers)",
		gw, gh, scene.Len(), elapsed, max(cfg.Cache.Workers, 1))

	return &World{
		Scene:      scene,
		Cache:      cache,
		Marcher:    marcher,
		Visibility: visibility,
		BuildTime:  elapsed,
	}, nil
}
