// Package game drives frames: input and movement in Update, visibility
// polygons and drawing in Draw.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
	"chosenoffset.com/sdflight/internal/core/shadows"
	"chosenoffset.com/sdflight/internal/render"
	"chosenoffset.com/sdflight/internal/simulation"
	"chosenoffset.com/sdflight/internal/ui/hud"
	"chosenoffset.com/sdflight/internal/world/lighting"
	"chosenoffset.com/sdflight/internal/world/scenegen"
)

// Options holds what New needs to assemble a game.
type Options struct {
	Config    *simulation.Config
	Scene     *sdf.Scene           // Initial scene; generated when nil
	Generator *scenegen.Generator // Source of new scenes on regenerate; may be nil
	Renderer  render.Renderer
	Input     render.InputManager
	Clock     render.Clock
}

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Config       *simulation.Config
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Clock        render.Clock

	World           *World
	Generator       *scenegen.Generator
	LightingManager *lighting.Manager
	Player          *lighting.Player

	// Per-frame buffers, one polygon per light; the first litPolygons are current
	polygons    []shadows.Polygon
	litPolygons int
	LightLayer  render.Image

	background color.NRGBA
	shapeColor color.NRGBA

	// UI state
	HUD       *hud.HUD
	Messages  []Message
	ShowDebug bool

	// Stats
	Stats        FrameStats
	LastStats    FrameStats
	statsElapsed float64
	FrameCount   int
}

// New creates a game from opts, generating the first scene if none is given.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scene := opts.Scene
	if scene == nil {
		if opts.Generator == nil {
			return nil, errors.New("either a scene or a generator is required")
		}
		var err error
		scene, err = opts.Generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate scene: %w", err)
		}
	}

	world, err := NewWorld(cfg, scene)
	if err != nil {
		return nil, err
	}

	playerColor := simulation.ParseColorOr(cfg.Player.Color, color.NRGBA{255, 255, 255, 255})
	player := lighting.NewPlayer(
		geom.Pt(cfg.Player.X, cfg.Player.Y),
		lighting.Light{Brightness: cfg.Player.Brightness, Radius: cfg.Render.LightRadius, Color: playerColor},
		cfg.Player.BodyRadius,
		cfg.Player.Speed,
	)

	lights := lighting.NewManager()
	lights.SetPlayer(player)
	lights.EnablePlayerLight(cfg.Player.LightOn)
	for _, lc := range cfg.Lights {
		lights.AddLight(lighting.Light{
			Position:   geom.Pt(lc.X, lc.Y),
			Brightness: lc.Brightness,
			Radius:     cfg.Render.LightRadius,
			Color:      simulation.ParseColorOr(lc.Color, color.NRGBA{255, 255, 255, 255}),
		})
	}

	return &Game{
		ScreenWidth:     int(cfg.Domain.Width),
		ScreenHeight:    int(cfg.Domain.Height),
		Config:          cfg,
		Renderer:        opts.Renderer,
		InputMgr:        opts.Input,
		Clock:           opts.Clock,
		World:           world,
		Generator:       opts.Generator,
		LightingManager: lights,
		Player:          player,
		background:      simulation.ParseColorOr(cfg.Render.Background, color.NRGBA{255, 150, 31, 255}),
		shapeColor:      simulation.ParseColorOr(cfg.Render.ShapeColor, color.NRGBA{0, 0, 0, 255}),
		HUD:             hud.New(&cfg.Render.HUD, int(cfg.Domain.Width), int(cfg.Domain.Height)),
		ShowDebug:       cfg.Render.Debug,
	}, nil
}

// Update handles game logic updates.
func (g *Game) Update() error {
	dt := g.Clock.Delta()

	// Update message timers
	g.updateMessages(dt)

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrQuit
	}

	g.movePlayer(dt)

	// Toggle player light with L key
	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		if g.LightingManager.TogglePlayerLight() {
			g.ShowMessage("Light source activated")
		} else {
			g.ShowMessage("Light source deactivated")
		}
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyF) {
		g.ShowDebug = !g.ShowDebug
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyC) {
		g.LightingManager.ClearLights()
		g.ShowMessage("Placed lights cleared")
	}

	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		g.placeLight()
	}
	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonRight) {
		g.removeLight()
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyR) {
		if err := g.Regenerate(); err != nil {
			// A failed rebuild keeps the current world.
			g.ShowMessage(fmt.Sprintf("Regenerate failed: %v", err))
		}
	}

	g.updateStats(dt)
	g.FrameCount++
	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// movePlayer applies WASD / arrow movement scaled by the frame time.
func (g *Game) movePlayer(dt float64) {
	var dir geom.Point
	if g.InputMgr.IsKeyPressed(render.KeyW) || g.InputMgr.IsKeyPressed(render.KeyUp) {
		dir.Y--
	}
	if g.InputMgr.IsKeyPressed(render.KeyS) || g.InputMgr.IsKeyPressed(render.KeyDown) {
		dir.Y++
	}
	if g.InputMgr.IsKeyPressed(render.KeyA) || g.InputMgr.IsKeyPressed(render.KeyLeft) {
		dir.X--
	}
	if g.InputMgr.IsKeyPressed(render.KeyD) || g.InputMgr.IsKeyPressed(render.KeyRight) {
		dir.X++
	}

	unit, ok := dir.Normalize()
	if !ok {
		return
	}
	delta := unit.Scale(g.Player.Speed * float32(dt))
	g.Player.Step(g.World.Scene, delta, geom.Point{}, g.World.Cache.Bounds())
}

// placeLight adds a fixed light at the cursor.
func (g *Game) placeLight() {
	x, y := g.InputMgr.GetCursorPosition()
	pos := geom.Pt(float32(x), float32(y))
	if !g.World.Cache.Contains(pos) {
		return
	}
	c := g.Player.Light.Color
	g.LightingManager.AddLight(lighting.Light{
		Position:   pos,
		Brightness: g.Player.Light.Brightness * 0.6,
		Radius:     g.Config.Render.LightRadius,
		Color:      c,
	})
	g.ShowMessage(fmt.Sprintf("Light placed at (%d, %d)", x, y))
}

// removeLight removes the placed light under the cursor, if any.
func (g *Game) removeLight() {
	x, y := g.InputMgr.GetCursorPosition()
	pick := max(g.Config.Render.LightRadius, 1) * 2
	if light := g.LightingManager.LightAt(geom.Pt(float32(x), float32(y)), pick); light != nil {
		g.LightingManager.RemoveLight(light)
		g.ShowMessage(fmt.Sprintf("Light removed at (%.0f, %.0f)", light.Position.X, light.Position.Y))
	}
}

// Regenerate replaces the scene and rebuilds the distance field. Without a
// generator the current shapes are rebuilt into a fresh cache.
func (g *Game) Regenerate() error {
	var scene *sdf.Scene
	if g.Generator != nil {
		// Keep the new layout clear of where the player stands now
		g.Generator.SetSpawn(g.Player.Position())
		var err error
		scene, err = g.Generator.Generate()
		if err != nil {
			return err
		}
	} else {
		scene = g.World.Scene.Clone()
	}

	world, err := NewWorld(g.Config, scene)
	if err != nil {
		return err
	}
	g.World = world

	// Only a clearance smaller than the body leaves it overlapping; Step lets
	// it walk out.
	if !g.Player.Fits(scene, g.Player.Position()) {
		g.ShowMessage("Player is inside geometry; move away to get free")
	}
	g.ShowMessage(fmt.Sprintf("Scene regenerated: %d shapes", scene.Len()))
	return nil
}

// updateStats logs ray statistics every StatsInterval seconds.
func (g *Game) updateStats(dt float64) {
	interval := g.Config.Render.StatsInterval
	if interval <= 0 {
		return
	}
	g.statsElapsed += dt
	if g.statsElapsed < interval {
		return
	}

	s := g.Stats
	log.Printf("frames=%d fps=%.1f rays/frame=%d hit=%.1f%% steps/ray=%.2f exhausted=%d out=%d",
		s.Frames, g.Clock.FPS(), perFrame(s.Rays, s.Frames), 100*s.HitRatio(), s.MeanSteps(), s.Exhausted, s.OutOfBounds)
	g.LastStats = s
	g.Stats = FrameStats{}
	g.statsElapsed = 0
}

func perFrame(n, frames int) int {
	if frames == 0 {
		return 0
	}
	return n / frames
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})

	log.Printf("Message: %s", text)
}
