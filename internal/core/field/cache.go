// Package field precomputes a scene's distance field on a regular grid and
// answers fractional distance queries by bilinear interpolation.
package field

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

var (
	// ErrOutOfDomain is returned when a query falls outside the built grid.
	ErrOutOfDomain = errors.New("point outside distance field domain")
	// ErrInvalidDomain is returned for non-positive domains or precisions.
	ErrInvalidDomain = errors.New("invalid distance field domain")
)

// Cache holds, per grid point, the scene's minimum distance and the index of
// the shape that produced it. Grid point (i, j) samples world position
// (i/precision, j/precision).
type Cache struct {
	scene     *sdf.Scene
	width     float32
	height    float32
	precision float32
	gridW     int
	gridH     int
	maxX      float32 // largest queryable grid coordinate, gridW-1
	maxY      float32
	dist      []float32
	nearest   []sdf.ShapeRef
}

// Build evaluates scene on every grid point covering [0,width) x [0,height)
// at precision cells per world unit. The scene is sealed.
func Build(scene *sdf.Scene, width, height, precision float32) (*Cache, error) {
	c, err := newCache(scene, width, height, precision)
	if err != nil {
		return nil, err
	}
	c.fillRows(0, c.gridH)
	return c, nil
}

func newCache(scene *sdf.Scene, width, height, precision float32) (*Cache, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalidDomain)
	}
	if !(width > 0) || !(height > 0) || !(precision > 0) ||
		math32.IsInf(width, 0) || math32.IsInf(height, 0) || math32.IsInf(precision, 0) {
		return nil, fmt.Errorf("%w: width=%v height=%v precision=%v", ErrInvalidDomain, width, height, precision)
	}
	gridW := int(math32.Ceil(width * precision))
	gridH := int(math32.Ceil(height * precision))
	if gridW < 2 || gridH < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d is too small to interpolate", ErrInvalidDomain, gridW, gridH)
	}
	scene.Seal()
	return &Cache{
		scene:     scene,
		width:     width,
		height:    height,
		precision: precision,
		gridW:     gridW,
		gridH:     gridH,
		maxX:      float32(gridW - 1),
		maxY:      float32(gridH - 1),
		dist:      make([]float32, gridW*gridH),
		nearest:   make([]sdf.ShapeRef, gridW*gridH),
	}, nil
}

// fillRows evaluates grid rows [y0, y1). Rows are disjoint between callers.
func (c *Cache) fillRows(y0, y1 int) {
	for gy := y0; gy < y1; gy++ {
		row := gy * c.gridW
		wy := float32(gy) / c.precision
		for gx := 0; gx < c.gridW; gx++ {
			d, ref := c.scene.NearestDistance(geom.Pt(float32(gx)/c.precision, wy))
			c.dist[row+gx] = d
			c.nearest[row+gx] = ref
		}
	}
}

// Scene returns the scene the cache was built from.
func (c *Cache) Scene() *sdf.Scene {
	return c.scene
}

// Precision returns the number of grid cells per world unit.
func (c *Cache) Precision() float32 {
	return c.precision
}

// GridSize returns the grid dimensions in cells.
func (c *Cache) GridSize() (width, height int) {
	return c.gridW, c.gridH
}

// Domain returns the world size the cache was built for.
func (c *Cache) Domain() (width, height float32) {
	return c.width, c.height
}

// Bounds returns the largest world coordinate that can be queried. The
// queryable region is [0, Bounds().X] x [0, Bounds().Y].
func (c *Cache) Bounds() geom.Point {
	return geom.Pt(c.maxX/c.precision, c.maxY/c.precision)
}

// CellSize returns the world-space size of one grid cell.
func (c *Cache) CellSize() float32 {
	return 1 / c.precision
}

// Contains reports whether p lies inside the interpolable grid.
func (c *Cache) Contains(p geom.Point) bool {
	gx := p.X * c.precision
	gy := p.Y * c.precision
	return gx >= 0 && gy >= 0 && gx <= c.maxX && gy <= c.maxY
}

// Query returns the bilinearly interpolated distance at p.
func (c *Cache) Query(p geom.Point) (float32, error) {
	if !c.Contains(p) {
		return 0, fmt.Errorf("%w: (%v, %v) outside [0, %v] x [0, %v]",
			ErrOutOfDomain, p.X, p.Y, c.maxX/c.precision, c.maxY/c.precision)
	}
	return c.Sample(p), nil
}

// NearestShape returns the shape stored at the floor-floor grid cell of p.
// It is not interpolated; near a boundary that cell is within one cell of
// the true surface.
func (c *Cache) NearestShape(p geom.Point) (sdf.ShapeRef, error) {
	if !c.Contains(p) {
		return sdf.NoShape, fmt.Errorf("%w: (%v, %v)", ErrOutOfDomain, p.X, p.Y)
	}
	return c.NearestAt(p), nil
}

// At returns the stored value of grid point (gx, gy).
func (c *Cache) At(gx, gy int) (float32, sdf.ShapeRef) {
	i := gy*c.gridW + gx
	return c.dist[i], c.nearest[i]
}

// Sample interpolates without bounds checking. It is the raymarcher's inner
// loop form; callers check Contains first.
func (c *Cache) Sample(p geom.Point) float32 {
	gx := p.X * c.precision
	gy := p.Y * c.precision

	fx0 := math32.Floor(gx)
	fy0 := math32.Floor(gy)
	x0 := int(fx0)
	y0 := int(fy0)
	x1 := int(math32.Ceil(gx))
	y1 := int(math32.Ceil(gy))
	fx := gx - fx0
	fy := gy - fy0

	r0 := y0 * c.gridW
	r1 := y1 * c.gridW
	v00 := c.dist[r0+x0]
	v10 := c.dist[r0+x1]
	v01 := c.dist[r1+x0]
	v11 := c.dist[r1+x1]

	v0 := v00*(1-fx) + v10*fx
	v1 := v01*(1-fx) + v11*fx
	return v0*(1-fy) + v1*fy
}

// NearestAt is the unchecked form of NearestShape.
func (c *Cache) NearestAt(p geom.Point) sdf.ShapeRef {
	x0 := int(p.X * c.precision)
	y0 := int(p.Y * c.precision)
	return c.nearest[y0*c.gridW+x0]
}
