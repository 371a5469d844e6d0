package lighting

import (
	"image/color"
	"testing"

	"chosenoffset.com/sdflight/internal/core/geom"
	"chosenoffset.com/sdflight/internal/core/sdf"
)

var warm = color.NRGBA{255, 240, 200, 200}

func TestFillColorScalesAlpha(t *testing.T) {
	tests := []struct {
		brightness float32
		alpha      uint8
	}{
		{1, 200},
		{0.5, 100},
		{0, 0},
		{2, 200},
		{-1, 0},
	}
	for _, tt := range tests {
		c := Light{Brightness: tt.brightness, Color: warm}.FillColor()
		if c.A != tt.alpha {
			t.Errorf("Brightness %v: expected alpha %d, got %d", tt.brightness, tt.alpha, c.A)
		}
		if c.R != warm.R || c.G != warm.G || c.B != warm.B {
			t.Errorf("Expected colour channels to be unchanged, got %v", c)
		}
	}
}

func TestManagerLights(t *testing.T) {
	m := NewManager()
	if !m.IsPlayerLightOn() {
		t.Error("Expected player light to start on")
	}
	if got := len(m.GetAllLights()); got != 0 {
		t.Errorf("Expected no lights without a player, got %d", got)
	}

	p := NewPlayer(geom.Pt(10, 20), Light{Brightness: 1, Color: warm}, 5, 100)
	m.SetPlayer(p)
	lamp := m.AddLight(Light{Position: geom.Pt(50, 50), Brightness: 0.5})
	m.AddLight(Light{Position: geom.Pt(70, 70), Brightness: 0.5})

	lights := m.GetAllLights()
	if len(lights) != 3 {
		t.Fatalf("Expected 3 lights, got %d", len(lights))
	}
	if lights[0].Position != geom.Pt(10, 20) {
		t.Errorf("Expected player light first, got %v", lights[0].Position)
	}

	if m.TogglePlayerLight() {
		t.Error("Expected toggle to turn the light off")
	}
	lights = m.GetAllLights()
	if len(lights) != 2 || lights[0].Position != geom.Pt(50, 50) {
		t.Errorf("Expected only fixed lights, got %v", lights)
	}

	lamp.Position = geom.Pt(55, 55)
	if got := m.GetAllLights()[0].Position; got != geom.Pt(55, 55) {
		t.Errorf("Expected light update to be visible, got %v", got)
	}

	if !m.RemoveLight(lamp) || m.RemoveLight(lamp) {
		t.Error("Expected light to be removed exactly once")
	}
	m.ClearLights()
	m.EnablePlayerLight(true)
	if got := len(m.GetAllLights()); got != 1 {
		t.Errorf("Expected just the player light, got %d", got)
	}
}

func TestLightAt(t *testing.T) {
	m := NewManager()
	m.SetPlayer(NewPlayer(geom.Pt(0, 0), Light{}, 0, 10))
	near := m.AddLight(Light{Position: geom.Pt(10, 0)})
	far := m.AddLight(Light{Position: geom.Pt(16, 0)})

	if got := m.LightAt(geom.Pt(12, 0), 5); got != near {
		t.Errorf("Expected the light at (10, 0), got %v", got)
	}
	if got := m.LightAt(geom.Pt(15, 0), 5); got != far {
		t.Errorf("Expected the light at (16, 0), got %v", got)
	}
	if got := m.LightAt(geom.Pt(0, 0), 5); got != nil {
		t.Errorf("Expected no placed light near the player, got %v", got)
	}
}

func TestPlayerMoveToCarriesLightAndBody(t *testing.T) {
	p := NewPlayer(geom.Pt(1, 1), Light{}, 4, 10)
	p.MoveTo(geom.Pt(30, 40))
	if p.Light.Position != geom.Pt(30, 40) || p.Body.Center != geom.Pt(30, 40) {
		t.Errorf("Expected light and body at (30, 40), got %v and %v", p.Light.Position, p.Body.Center)
	}

	bodiless := NewPlayer(geom.Pt(1, 1), Light{}, 0, 10)
	if bodiless.Body != nil || bodiless.Extent() != 0 {
		t.Error("Expected no body for zero radius")
	}
	bodiless.MoveTo(geom.Pt(2, 2))
	if bodiless.Position() != geom.Pt(2, 2) {
		t.Errorf("Expected (2, 2), got %v", bodiless.Position())
	}
}

func TestPlayerStep(t *testing.T) {
	scene, err := sdf.NewScene(sdf.NewRectangle(geom.Pt(50, 50), geom.Pt(10, 10)))
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	lo, hi := geom.Pt(0, 0), geom.Pt(100, 100)

	p := NewPlayer(geom.Pt(20, 50), Light{}, 5, 100)
	if !p.Step(scene, geom.Pt(10, 0), lo, hi) {
		t.Fatal("Expected free move to succeed")
	}
	if p.Position() != geom.Pt(30, 50) {
		t.Errorf("Expected (30, 50), got %v", p.Position())
	}

	// The box face is at x = 40; a body of radius 5 cannot pass x = 35.
	if p.Step(scene, geom.Pt(10, 0), lo, hi) {
		t.Errorf("Expected move into the box to be blocked, now at %v", p.Position())
	}

	// Diagonal into the box slides along y.
	if !p.Step(scene, geom.Pt(10, 5), lo, hi) {
		t.Fatal("Expected diagonal move to slide")
	}
	if p.Position() != geom.Pt(30, 55) {
		t.Errorf("Expected slide to (30, 55), got %v", p.Position())
	}

	// Bounds are inset by the body radius.
	p.MoveTo(geom.Pt(10, 10))
	p.Step(scene, geom.Pt(-50, -50), lo, hi)
	if p.Position() != geom.Pt(5, 5) {
		t.Errorf("Expected clamp to (5, 5), got %v", p.Position())
	}

	if p.Step(scene, geom.Point{}, lo, hi) {
		t.Error("Expected zero move to report no movement")
	}
}

func TestPlayerStepOutOfShape(t *testing.T) {
	scene, err := sdf.NewScene(sdf.NewRectangle(geom.Pt(50, 50), geom.Pt(10, 10)))
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	lo, hi := geom.Pt(0, 0), geom.Pt(100, 100)

	// 5 inside the right face of the box.
	p := NewPlayer(geom.Pt(55, 50), Light{}, 5, 100)
	if p.Fits(scene, p.Position()) {
		t.Fatal("Expected the player to start overlapping the box")
	}

	// Deeper in is refused.
	if p.Step(scene, geom.Pt(-3, 0), lo, hi) {
		t.Errorf("Expected move deeper into the box to be blocked, now at %v", p.Position())
	}

	// Outward moves are taken until the body is clear.
	want := []geom.Point{geom.Pt(58, 50), geom.Pt(61, 50), geom.Pt(64, 50), geom.Pt(67, 50)}
	for i, w := range want {
		if !p.Step(scene, geom.Pt(3, 0), lo, hi) {
			t.Fatalf("Step %d: expected outward move to succeed from %v", i, p.Position())
		}
		if p.Position() != w {
			t.Errorf("Step %d: expected %v, got %v", i, w, p.Position())
		}
	}
	if !p.Fits(scene, p.Position()) {
		t.Errorf("Expected the player to fit at %v", p.Position())
	}

	// Once free, the box blocks again.
	if p.Step(scene, geom.Pt(-3, 0), lo, hi) {
		t.Errorf("Expected move back into the box to be blocked, now at %v", p.Position())
	}
}
