// Package simulation provides the construction-time configuration: the domain,
// the distance field cache, ray marching, scene generation, the player and
// the window. It is loaded from a JSON file so runs can be tuned without a
// rebuild.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"

	"chosenoffset.com/sdflight/internal/ui/hud"
	"github.com/chewxy/math32"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings for a run
type Config struct {
	Domain   DomainConfig   `json:"domain"`
	Cache    CacheConfig    `json:"cache"`
	Marching MarchingConfig `json:"marching"`
	Scene    SceneConfig    `json:"scene"`
	Player   PlayerConfig   `json:"player"`
	Lights   []LightConfig  `json:"lights"`
	Render   RenderConfig   `json:"render"`
}

// DomainConfig is the world size in world units (one unit per pixel)
type DomainConfig struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// CacheConfig controls the distance field grid
type CacheConfig struct {
	Precision float32 `json:"precision"` // Grid cells per world unit
	Workers   int     `json:"workers"`   // Build workers (<= 1 = build on the main goroutine)
}

// MarchingConfig controls the raymarcher and the visibility fan
type MarchingConfig struct {
	Rays         int     `json:"rays"`          // Directions per light
	HitThreshold float32 `json:"hit_threshold"` // Distance counted as a surface hit
	MaxSteps     int     `json:"max_steps"`     // Step budget per ray
	MaxDistance  float32 `json:"max_distance"`  // Travel cap per ray (0 = none)
	RefineCells  float32 `json:"refine_cells"`  // Exact re-evaluation band in cells
}

// SceneConfig controls random scene generation
type SceneConfig struct {
	Seed           int64   `json:"seed"` // 0 = use current time
	Circles        int     `json:"circles"`
	Rectangles     int     `json:"rectangles"`
	MinSize        float32 `json:"min_size"`
	MaxSize        float32 `json:"max_size"`
	SpawnClearance float32 `json:"spawn_clearance"` // Free distance kept around the player spawn
}

// PlayerConfig describes the player and its light
type PlayerConfig struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Speed      float32 `json:"speed"`       // World units per second
	BodyRadius float32 `json:"body_radius"` // 0 = no body
	Brightness float32 `json:"brightness"`
	Color      string  `json:"color"` // Hex "RRGGBB" or "RRGGBBAA"
	LightOn    bool    `json:"light_on"`
}

// LightConfig describes a fixed light
type LightConfig struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Brightness float32 `json:"brightness"`
	Color      string  `json:"color"`
}

// RenderConfig controls the window and colours
type RenderConfig struct {
	Title         string     `json:"title"`
	Background    string     `json:"background"`
	ShapeColor    string     `json:"shape_color"`
	LightRadius   float32    `json:"light_radius"`   // Marker radius drawn at each light
	StatsInterval float64    `json:"stats_interval"` // Seconds between frame stat logs (0 = off)
	Debug         bool       `json:"debug"`          // Start with the debug overlay shown
	HUD           hud.Config `json:"hud"`            // Debug overlay panel
}

// DefaultConfig returns the defaults: an 800x600 window lit from its centre
// by 720 rays.
func DefaultConfig() *Config {
	return &Config{
		Domain: DomainConfig{
			Width:  800,
			Height: 600,
		},
		Cache: CacheConfig{
			Precision: 1,
			Workers:   1,
		},
		Marching: MarchingConfig{
			Rays:         720,
			HitThreshold: 0.1,
			MaxSteps:     64,
			MaxDistance:  0,
			RefineCells:  1.5,
		},
		Scene: SceneConfig{
			Seed:           0,
			Circles:        5,
			Rectangles:     2,
			MinSize:        20,
			MaxSize:        50,
			SpawnClearance: 40,
		},
		Player: PlayerConfig{
			X:          400,
			Y:          300,
			Speed:      200,
			BodyRadius: 6,
			Brightness: 0.85,
			Color:      "fff5c8",
			LightOn:    true,
		},
		Render: RenderConfig{
			Title:         "SDF Light",
			Background:    "ff961f",
			ShapeColor:    "000000",
			LightRadius:   4,
			StatsInterval: 5,
			HUD:           *hud.DefaultConfig(),
		},
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values the core packages would reject, so a bad file
// fails with the offending key named.
func (c *Config) Validate() error {
	switch {
	case !(c.Domain.Width > 0) || !(c.Domain.Height > 0):
		return fmt.Errorf("%w: domain must be positive, got %vx%v", ErrInvalidConfig, c.Domain.Width, c.Domain.Height)
	case !(c.Cache.Precision > 0):
		return fmt.Errorf("%w: cache.precision must be positive, got %v", ErrInvalidConfig, c.Cache.Precision)
	case c.Marching.Rays < 3:
		return fmt.Errorf("%w: marching.rays must be at least 3, got %d", ErrInvalidConfig, c.Marching.Rays)
	case !(c.Marching.HitThreshold > 0):
		return fmt.Errorf("%w: marching.hit_threshold must be positive, got %v", ErrInvalidConfig, c.Marching.HitThreshold)
	case c.Marching.MaxSteps <= 0:
		return fmt.Errorf("%w: marching.max_steps must be positive, got %d", ErrInvalidConfig, c.Marching.MaxSteps)
	case c.Marching.MaxDistance < 0:
		return fmt.Errorf("%w: marching.max_distance must not be negative, got %v", ErrInvalidConfig, c.Marching.MaxDistance)
	case c.Marching.RefineCells < 0:
		return fmt.Errorf("%w: marching.refine_cells must not be negative, got %v", ErrInvalidConfig, c.Marching.RefineCells)
	case c.Scene.Circles < 0 || c.Scene.Rectangles < 0:
		return fmt.Errorf("%w: scene shape counts must not be negative", ErrInvalidConfig)
	case !c.inDomain(c.Player.X, c.Player.Y):
		return fmt.Errorf("%w: player start (%v, %v) outside the domain", ErrInvalidConfig, c.Player.X, c.Player.Y)
	case c.Player.Speed < 0:
		return fmt.Errorf("%w: player.speed must not be negative, got %v", ErrInvalidConfig, c.Player.Speed)
	case !hud.ValidPosition(c.Render.HUD.Position):
		return fmt.Errorf("%w: render.hud.position %q is not a screen corner", ErrInvalidConfig, c.Render.HUD.Position)
	}

	for i, l := range c.Lights {
		if !c.inDomain(l.X, l.Y) {
			return fmt.Errorf("%w: lights[%d] at (%v, %v) outside the domain", ErrInvalidConfig, i, l.X, l.Y)
		}
	}

	colors := map[string]string{
		"player.color":       c.Player.Color,
		"render.background":  c.Render.Background,
		"render.shape_color": c.Render.ShapeColor,
	}
	for i, l := range c.Lights {
		colors[fmt.Sprintf("lights[%d].color", i)] = l.Color
	}
	for key, value := range colors {
		if _, err := ParseColor(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
		}
	}
	return nil
}

// inDomain reports whether (x, y) lies in the area the distance field
// covers: the last grid sample sits at (ceil(w*p)-1)/p, short of the width
// whenever w*p is a whole number.
func (c *Config) inDomain(x, y float32) bool {
	p := c.Cache.Precision
	maxX := (math32.Ceil(c.Domain.Width*p) - 1) / p
	maxY := (math32.Ceil(c.Domain.Height*p) - 1) / p
	return x >= 0 && y >= 0 && x <= maxX && y <= maxY
}

// ParseColor parses a hex colour of the form "RRGGBB" or "RRGGBBAA". An empty
// string is opaque white.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{255, 255, 255, 255}, nil
	}
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint8
	a := uint8(255)
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("failed to parse colour %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("failed to parse colour %q: %w", s, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("colour %q must have 6 or 8 hex digits", s)
	}
	return color.NRGBA{r, g, b, a}, nil
}

// ParseColorOr is ParseColor returning fallback for malformed input.
func ParseColorOr(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
