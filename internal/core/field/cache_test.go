package field

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

func testScene(t *testing.T) *sdf.Scene {
	t.Helper()
	scene, err := sdf.NewScene(
		sdf.NewCircle(geom.Pt(20, 20), 6),
		sdf.NewRectangle(geom.Pt(45, 30), geom.Pt(8, 5)),
		sdf.NewCircle(geom.Pt(10, 45), 4),
	)
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	return scene
}

func TestBuildGridSize(t *testing.T) {
	c, err := Build(testScene(t), 64, 48, 0.5)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	w, h := c.GridSize()
	if w != 32 || h != 24 {
		t.Errorf("Expected grid 32x24, got %dx%d", w, h)
	}
	if b := c.Bounds(); b != geom.Pt(62, 46) {
		t.Errorf("Expected bounds (62, 46), got %v", b)
	}
	if c.CellSize() != 2 {
		t.Errorf("Expected cell size 2, got %v", c.CellSize())
	}
	if !c.Scene().Sealed() {
		t.Error("Expected Build to seal the scene")
	}
}

func TestQueryMatchesSceneAtGridPoints(t *testing.T) {
	for _, precision := range []float32{1, 0.5, 2} {
		scene := testScene(t)
		c, err := Build(scene, 64, 56, precision)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		w, h := c.GridSize()
		for gy := 0; gy < h; gy++ {
			for gx := 0; gx < w; gx++ {
				p := geom.Pt(float32(gx)/precision, float32(gy)/precision)
				want, wantRef := scene.NearestDistance(p)
				got, err := c.Query(p)
				if err != nil {
					t.Fatalf("Query(%v) failed: %v", p, err)
				}
				if got != want {
					t.Fatalf("precision %v: Query(%v) = %v, expected exactly %v", precision, p, got, want)
				}
				ref, err := c.NearestShape(p)
				if err != nil {
					t.Fatalf("NearestShape(%v) failed: %v", p, err)
				}
				if ref != wantRef {
					t.Fatalf("precision %v: NearestShape(%v) = %v, expected %v", precision, p, ref, wantRef)
				}
			}
		}
	}
}

func TestQueryInterpolatesBilinearly(t *testing.T) {
	scene := testScene(t)
	c, err := Build(scene, 64, 56, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	p := geom.Pt(30.25, 12.75)
	v00, _ := c.At(30, 12)
	v10, _ := c.At(31, 12)
	v01, _ := c.At(30, 13)
	v11, _ := c.At(31, 13)
	fx, fy := float32(0.25), float32(0.75)
	want := (v00*(1-fx)+v10*fx)*(1-fy) + (v01*(1-fx)+v11*fx)*fy

	got, err := c.Query(p)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if math32.Abs(got-want) > 1e-4 {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// A distance field is 1-Lipschitz, so the interpolated value stays within
	// a cell diagonal of the exact one.
	exact, _ := scene.NearestDistance(p)
	if math32.Abs(got-exact) > math32.Sqrt2 {
		t.Errorf("Interpolated %v too far from exact %v", got, exact)
	}
}

func TestQueryOutOfDomain(t *testing.T) {
	c, err := Build(testScene(t), 64, 48, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	outside := []geom.Point{
		geom.Pt(-0.01, 10), geom.Pt(10, -1), geom.Pt(63.5, 10), geom.Pt(10, 47.01), geom.Pt(100, 100),
	}
	for _, p := range outside {
		if _, err := c.Query(p); !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("Query(%v): expected ErrOutOfDomain, got %v", p, err)
		}
		if _, err := c.NearestShape(p); !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("NearestShape(%v): expected ErrOutOfDomain, got %v", p, err)
		}
		if c.Contains(p) {
			t.Errorf("Expected Contains(%v) to be false", p)
		}
	}

	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(63, 47), geom.Pt(62.9, 0.1)} {
		if _, err := c.Query(p); err != nil {
			t.Errorf("Query(%v): expected success, got %v", p, err)
		}
	}
}

func TestNearestShapeUsesFloorCell(t *testing.T) {
	scene, err := sdf.NewScene(
		sdf.NewCircle(geom.Pt(2, 5), 1),
		sdf.NewCircle(geom.Pt(8, 5), 1),
	)
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	c, err := Build(scene, 10, 10, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// x = 4.9 floors to grid x = 4, nearer the first circle.
	ref, err := c.NearestShape(geom.Pt(4.9, 5.9))
	if err != nil {
		t.Fatalf("NearestShape failed: %v", err)
	}
	if ref != 0 {
		t.Errorf("Expected floor cell's shape 0, got %v", ref)
	}
	ref, err = c.NearestShape(geom.Pt(5.1, 5))
	if err != nil {
		t.Fatalf("NearestShape failed: %v", err)
	}
	// Grid x = 5 is equidistant; the first shape wins the tie.
	if ref != 0 {
		t.Errorf("Expected tie at grid x=5 to report shape 0, got %v", ref)
	}
	ref, _ = c.NearestShape(geom.Pt(6.99, 5))
	if ref != 1 {
		t.Errorf("Expected shape 1 at grid x=6, got %v", ref)
	}
}

func TestEmptySceneCache(t *testing.T) {
	scene, _ := sdf.NewScene()
	c, err := Build(scene, 16, 16, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	d, err := c.Query(geom.Pt(7.5, 3.25))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if d != sdf.Sentinel {
		t.Errorf("Expected sentinel %v, got %v", sdf.Sentinel, d)
	}
	if ref, _ := c.NearestShape(geom.Pt(1, 1)); ref != sdf.NoShape {
		t.Errorf("Expected NoShape, got %v", ref)
	}
}

func TestBuildRejectsInvalidDomain(t *testing.T) {
	scene, _ := sdf.NewScene()
	tests := []struct {
		name                     string
		width, height, precision float32
	}{
		{"zero width", 0, 10, 1},
		{"negative height", 10, -1, 1},
		{"zero precision", 10, 10, 0},
		{"infinite width", math32.Inf(1), 10, 1},
		{"single cell", 1, 1, 1},
	}
	for _, tt := range tests {
		if _, err := Build(scene, tt.width, tt.height, tt.precision); !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("%s: expected ErrInvalidDomain, got %v", tt.name, err)
		}
	}
	if _, err := Build(nil, 10, 10, 1); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("nil scene: expected ErrInvalidDomain, got %v", err)
	}
}

func TestBuildParallelMatchesBuild(t *testing.T) {
	seq, err := Build(testScene(t), 80, 70, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, workers := range []int{1, 2, 4, 7} {
		par, err := BuildParallel(testScene(t), 80, 70, 1, workers)
		if err != nil {
			t.Fatalf("BuildParallel(%d) failed: %v", workers, err)
		}
		w, h := seq.GridSize()
		pw, ph := par.GridSize()
		if w != pw || h != ph {
			t.Fatalf("Expected grid %dx%d, got %dx%d", w, h, pw, ph)
		}
		for gy := 0; gy < h; gy++ {
			for gx := 0; gx < w; gx++ {
				d1, r1 := seq.At(gx, gy)
				d2, r2 := par.At(gx, gy)
				if d1 != d2 || r1 != r2 {
					t.Fatalf("workers=%d: cell (%d, %d) = (%v, %v), expected (%v, %v)", workers, gx, gy, d2, r2, d1, r1)
				}
			}
		}
	}
}

func TestBuildParallelValidates(t *testing.T) {
	if _, err := BuildParallel(testScene(t), -1, 10, 1, 4); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("Expected ErrInvalidDomain, got %v", err)
	}
}
