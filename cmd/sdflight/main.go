package main

import (
	"flag"
	"log"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/game"
	ebitenrender "chosenoffset.com/sdflight/internal/render/ebiten"
	"chosenoffset.com/sdflight/internal/simulation"
	"chosenoffset.com/sdflight/internal/world/scenegen"
)

var (
	// Path to a JSON config; a missing file runs with defaults.
	configFlag = flag.String("config", "sdflight.json", "path to the JSON config file")

	// Overrides applied on top of the loaded config when set.
	seedFlag    = flag.Int64("seed", 0, "scene seed (0 = keep config value)")
	workersFlag = flag.Int("workers", 0, "distance field build workers (0 = keep config value)")
	raysFlag    = flag.Int("rays", 0, "rays per light (0 = keep config value)")
	titleFlag   = flag.String("title", "", "window title (empty = keep config value)")
	debugFlag   = flag.Bool("debug", false, "start with the debug overlay shown")
)

func main() {
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seedFlag != 0 {
		cfg.Scene.Seed = *seedFlag
	}
	if *workersFlag > 0 {
		cfg.Cache.Workers = *workersFlag
	}
	if *raysFlag > 0 {
		cfg.Marching.Rays = *raysFlag
	}
	if *titleFlag != "" {
		cfg.Render.Title = *titleFlag
	}
	if *debugFlag {
		cfg.Render.Debug = true
	}

	generator, err := scenegen.NewGenerator(scenegen.GeneratorConfig{
		Width:      cfg.Domain.Width,
		Height:     cfg.Domain.Height,
		Circles:    cfg.Scene.Circles,
		Rectangles: cfg.Scene.Rectangles,
		MinSize:    cfg.Scene.MinSize,
		MaxSize:    cfg.Scene.MaxSize,
		Spawn:      geom.Pt(cfg.Player.X, cfg.Player.Y),
		Clearance:  cfg.Scene.SpawnClearance,
		Seed:       cfg.Scene.Seed,
	})
	if err != nil {
		log.Fatalf("Failed to create scene generator: %v", err)
	}
	log.Printf("Scene seed: %d", generator.Seed())

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	clock := ebitenrender.NewClock()
	engine := ebitenrender.NewEngine()

	g, err := game.New(game.Options{
		Config:    cfg,
		Generator: generator,
		Renderer:  renderer,
		Input:     inputMgr,
		Clock:     clock,
	})
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(g.ScreenWidth, g.ScreenHeight)
	engine.SetWindowTitle(cfg.Render.Title)
	engine.SetWindowResizable(false)

	log.Println("Starting game...")
	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
