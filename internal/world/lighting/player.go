package lighting

import (
	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

// Player is the controllable entity. It carries a light and an optional body.
// The body is drawn and collides with the scene but is not part of it, so it
// never shadows its own light.
type Player struct {
	Light *Light
	Body  *sdf.Shape
	Speed float32 // World units per second
}

// NewPlayer creates a player at pos. bodyRadius <= 0 leaves it without a body.
func NewPlayer(pos geom.Point, light Light, bodyRadius, speed float32) *Player {
	light.Position = pos
	p := &Player{Light: &light, Speed: speed}
	if bodyRadius > 0 {
		body := sdf.NewCircle(pos, bodyRadius)
		p.Body = &body
	}
	return p
}

// Position returns the player's world position.
func (p *Player) Position() geom.Point {
	return p.Light.Position
}

// MoveTo places the player, its light and its body at pos.
func (p *Player) MoveTo(pos geom.Point) {
	p.Light.Position = pos
	if p.Body != nil {
		p.Body.Center = pos
	}
}

// Extent returns how far the body reaches from the player's position.
func (p *Player) Extent() float32 {
	if p.Body == nil {
		return 0
	}
	if p.Body.Kind == sdf.KindRectangle {
		return p.Body.HalfExtent.Len()
	}
	return p.Body.Radius
}

// Fits reports whether the body can stand at pos without overlapping the scene.
func (p *Player) Fits(scene *sdf.Scene, pos geom.Point) bool {
	if p.Body == nil {
		return true
	}
	d, _ := scene.NearestDistance(pos)
	return d >= p.Extent()
}

// Step moves the player by delta, kept inside [lo, hi] and out of the scene's
// shapes. Blocked moves slide along whichever axis is still free. A player
// that already overlaps the scene may take any move that gains distance from
// it, so it can walk out. It reports whether the player moved.
func (p *Player) Step(scene *sdf.Scene, delta, lo, hi geom.Point) bool {
	if delta == (geom.Point{}) {
		return false
	}
	from := p.Position()
	inset := geom.Pt(p.Extent(), p.Extent())
	lo, hi = lo.Add(inset), hi.Sub(inset)

	stuck := !p.Fits(scene, from)
	fromDist, _ := scene.NearestDistance(from)

	candidates := []geom.Point{
		from.Add(delta),
		from.Add(geom.Pt(delta.X, 0)),
		from.Add(geom.Pt(0, delta.Y)),
	}
	for _, to := range candidates {
		to = to.Clamp(lo, hi)
		if to == from {
			continue
		}
		if p.Fits(scene, to) {
			p.MoveTo(to)
			return true
		}
		if stuck {
			if d, _ := scene.NearestDistance(to); d > fromDist {
				p.MoveTo(to)
				return true
			}
		}
	}
	return false
}
