package shadows

import (
	"github.com/chewxy/math32"

	"chosenoffset.com/sdflight/internal/core/geom"
)

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point geom.Point, polygon []geom.Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Area returns the unsigned area enclosed by the polygon (shoelace formula).
func Area(polygon []geom.Point) float32 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float32
	j := len(polygon) - 1
	for i := range polygon {
		sum += polygon[j].X*polygon[i].Y - polygon[i].X*polygon[j].Y
		j = i
	}
	return math32.Abs(sum) / 2
}
