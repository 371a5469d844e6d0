package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/march"
	"chosenoffset.com/sdflight/internal/core/sdf"
	"chosenoffset.com/sdflight/internal/core/shadows"
	"chosenoffset.com/sdflight/internal/render"
)

var (
	bodyOutline = color.NRGBA{40, 40, 40, 255}
	textColor   = color.NRGBA{255, 255, 255, 255}
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure the light layer exists and is the right size
	if g.LightLayer == nil || needsResize(g.LightLayer, w, h) {
		if g.LightLayer != nil {
			g.LightLayer.Dispose()
		}
		g.LightLayer = g.Renderer.NewImage(w, h)
	}

	// Step 1: Background
	screen.Fill(g.background)

	// Step 2: One visibility polygon per light, composited over the background
	g.LightLayer.Clear()
	g.drawLights(g.LightLayer)
	screen.DrawImage(g.LightLayer, nil)

	// Step 3: Occluders, the player's body and light markers on top
	g.drawShapes(screen)
	g.drawPlayer(screen)
	g.drawLightMarkers(screen)

	// Step 4: UI
	g.drawUI(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// drawLights builds and fills the visibility polygon of every active light.
func (g *Game) drawLights(dst render.Image) {
	lights := g.LightingManager.GetAllLights()
	for len(g.polygons) < len(lights) {
		g.polygons = append(g.polygons, nil)
	}
	g.litPolygons = len(lights)

	g.Stats.Frames++
	g.Stats.Lights += len(lights)
	for i, light := range lights {
		poly := g.polygons[i][:0]
		g.World.Visibility.Trace(light.Position, func(_ int, vertex geom.Point, hit march.RayHit) {
			poly = append(poly, vertex)
			g.Stats.Add(hit)
		})
		g.polygons[i] = poly
		g.Renderer.FillPolygon(dst, poly, light.FillColor())
	}
}

func (g *Game) drawShapes(dst render.Image) {
	for _, s := range g.World.Scene.Shapes() {
		switch s.Kind {
		case sdf.KindRectangle:
			lo, _ := s.Bounds()
			g.Renderer.FillRect(dst, lo.X, lo.Y, 2*s.HalfExtent.X, 2*s.HalfExtent.Y, g.shapeColor)
		default:
			g.Renderer.FillCircle(dst, s.Center.X, s.Center.Y, s.Radius, g.shapeColor)
		}
	}
}

func (g *Game) drawPlayer(dst render.Image) {
	body := g.Player.Body
	if body == nil {
		return
	}
	g.Renderer.FillCircle(dst, body.Center.X, body.Center.Y, body.Radius, g.Player.Light.Color)
	g.Renderer.StrokeCircle(dst, body.Center.X, body.Center.Y, body.Radius, 1.5, bodyOutline)
}

func (g *Game) drawLightMarkers(dst render.Image) {
	for _, light := range g.LightingManager.GetAllLights() {
		if light.Radius <= 0 {
			continue
		}
		c := light.Color
		c.A = 255
		g.Renderer.FillCircle(dst, light.Position.X, light.Position.Y, light.Radius, c)
	}
}

func (g *Game) drawUI(screen render.Image) {
	w, h := screen.Size()
	if g.ShowDebug {
		g.HUD.SetScreenSize(w, h)
		g.HUD.Draw(g.Renderer, screen, g.debugLines())
	}

	// Messages stack along the bottom edge, newest last
	for i, msg := range g.Messages {
		_, lh := g.Renderer.MeasureText(msg.Text, 1)
		my := h - (len(g.Messages)-i)*lh - 4
		g.Renderer.DrawText(screen, msg.Text, 4, my, textColor, 1)
	}
}

func (g *Game) debugLines() []string {
	gw, gh := g.World.Cache.GridSize()
	s := g.LastStats
	pos := g.Player.Position()
	seed := "fixed"
	if g.Generator != nil {
		seed = fmt.Sprintf("%d", g.Generator.Seed())
	}
	cx, cy := g.InputMgr.GetCursorPosition()
	lit, area := g.litAt(geom.Pt(float32(cx), float32(cy)))
	return []string{
		fmt.Sprintf("FPS: %.1f", g.Clock.FPS()),
		fmt.Sprintf("Shapes: %d  Grid: %dx%d  Build: %v", g.World.Scene.Len(), gw, gh, g.World.BuildTime),
		fmt.Sprintf("Rays/light: %d  Hit: %.1f%%  Steps/ray: %.2f", g.World.Visibility.Rays(), 100*s.HitRatio(), s.MeanSteps()),
		fmt.Sprintf("Player: (%.0f, %.0f)  Light: %t", pos.X, pos.Y, g.LightingManager.IsPlayerLightOn()),
		fmt.Sprintf("Lit area: %.0f  Cursor lit: %t", area, lit),
		fmt.Sprintf("Seed: %s", seed),
		"WASD move  L light  R regenerate  C clear  F debug  Click place/remove light",
	}
}

// litAt reports whether p lies in any polygon of the last frame, and the
// first polygon's area.
func (g *Game) litAt(p geom.Point) (lit bool, area float32) {
	for i, poly := range g.polygons[:g.litPolygons] {
		if i == 0 {
			area = shadows.Area(poly)
		}
		if !lit && shadows.PointInPolygon(p, poly) {
			lit = true
		}
	}
	return lit, area
}
