package simulation

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if cfg.Domain.Width != 800 || cfg.Domain.Height != 600 {
		t.Errorf("Expected 800x600 domain, got %vx%v", cfg.Domain.Width, cfg.Domain.Height)
	}
	if cfg.Marching.Rays != 720 {
		t.Errorf("Expected 720 rays, got %d", cfg.Marching.Rays)
	}
	if cfg.Marching.HitThreshold != 0.1 {
		t.Errorf("Expected hit threshold 0.1, got %v", cfg.Marching.HitThreshold)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.Marching.MaxSteps != DefaultConfig().Marching.MaxSteps {
		t.Errorf("Expected default max steps, got %d", cfg.Marching.MaxSteps)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"cache": {"precision": 0.5, "workers": 4},
		"marching": {"rays": 360},
		"lights": [{"x": 100, "y": 120, "brightness": 0.5, "color": "80c0ff"}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Cache.Precision != 0.5 || cfg.Cache.Workers != 4 {
		t.Errorf("Expected cache overrides, got %+v", cfg.Cache)
	}
	if cfg.Marching.Rays != 360 {
		t.Errorf("Expected 360 rays, got %d", cfg.Marching.Rays)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Marching.HitThreshold != 0.1 || cfg.Domain.Width != 800 {
		t.Errorf("Expected untouched keys to keep defaults, got %+v %+v", cfg.Marching, cfg.Domain)
	}
	if len(cfg.Lights) != 1 || cfg.Lights[0].X != 100 {
		t.Errorf("Expected one light at x=100, got %+v", cfg.Lights)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.json")
	os.WriteFile(malformed, []byte(`{"marching": `), 0o644)
	if _, err := LoadConfig(malformed); err == nil {
		t.Error("Expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"marching": {"rays": 2}}`), 0o644)
	if _, err := LoadConfig(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Domain.Width = 0 }},
		{"zero precision", func(c *Config) { c.Cache.Precision = 0 }},
		{"too few rays", func(c *Config) { c.Marching.Rays = 2 }},
		{"zero threshold", func(c *Config) { c.Marching.HitThreshold = 0 }},
		{"zero steps", func(c *Config) { c.Marching.MaxSteps = 0 }},
		{"negative distance", func(c *Config) { c.Marching.MaxDistance = -1 }},
		{"negative refine", func(c *Config) { c.Marching.RefineCells = -1 }},
		{"negative circles", func(c *Config) { c.Scene.Circles = -1 }},
		{"player outside", func(c *Config) { c.Player.X = 900 }},
		{"player on far edge", func(c *Config) { c.Player.X = c.Domain.Width }},
		{"player on bottom edge", func(c *Config) { c.Player.Y = c.Domain.Height }},
		{"player NaN", func(c *Config) { c.Player.X = math32.NaN() }},
		{"light outside", func(c *Config) { c.Lights = []LightConfig{{X: 800, Y: 10}} }},
		{"light negative", func(c *Config) { c.Lights = []LightConfig{{X: 10, Y: -1}} }},
		{"negative speed", func(c *Config) { c.Player.Speed = -5 }},
		{"bad colour", func(c *Config) { c.Render.Background = "orange" }},
		{"bad light colour", func(c *Config) { c.Lights = []LightConfig{{Color: "12345"}} }},
		{"bad hud position", func(c *Config) { c.Render.HUD.Position = "centre" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestValidateLastSample(t *testing.T) {
	tests := []struct {
		precision float32
		x         float32
		valid     bool
	}{
		{1, 799, true},
		{1, 799.5, false},
		{2, 799.5, true},
		{2, 799.75, false},
		{0.5, 798, true},
		{0.5, 799, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Cache.Precision = tt.precision
		cfg.Player.X = tt.x
		cfg.Lights = []LightConfig{{X: tt.x, Y: 10}}
		err := cfg.Validate()
		if tt.valid && err != nil {
			t.Errorf("Precision %v, x %v: expected valid, got %v", tt.precision, tt.x, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Precision %v, x %v: expected ErrInvalidConfig, got %v", tt.precision, tt.x, err)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"ff961f", color.NRGBA{255, 150, 31, 255}},
		{"#000000", color.NRGBA{0, 0, 0, 255}},
		{"fff5c880", color.NRGBA{255, 245, 200, 128}},
		{"", color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"fff", "gggggg", "1234567"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}

	fallback := color.NRGBA{1, 2, 3, 4}
	if got := ParseColorOr("nope", fallback); got != fallback {
		t.Errorf("Expected fallback, got %v", got)
	}
}
