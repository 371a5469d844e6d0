// Package lighting holds the light sources and the player entity that carries
// one. Lights are query origins for visibility polygons; they never occlude.
package lighting

import (
	"image/color"

	"chosenoffset.com/sdflight/internal/core/geom"
)

// Light represents a single point light in the world
type Light struct {
	Position   geom.Point  // World position
	Brightness float32     // 0.0 to 1.0, scales the lit area's opacity
	Radius     float32     // Radius of the marker drawn at the light (in pixels)
	Color      color.NRGBA // Light color
}

// FillColor returns the colour used to fill the light's visibility polygon.
func (l Light) FillColor() color.NRGBA {
	c := l.Color
	b := l.Brightness
	if b < 0 {
		b = 0
	} else if b > 1 {
		b = 1
	}
	c.A = uint8(float32(c.A) * b)
	return c
}

// Manager handles all light sources in the scene
type Manager struct {
	lights        []*Light
	player        *Player
	playerLightOn bool
}

// NewManager creates a new lighting manager
func NewManager() *Manager {
	return &Manager{
		lights:        make([]*Light, 0),
		playerLightOn: true,
	}
}

// SetPlayer attaches the player whose light follows it around.
func (m *Manager) SetPlayer(p *Player) {
	m.player = p
}

// Player returns the attached player, or nil.
func (m *Manager) Player() *Player {
	return m.player
}

// EnablePlayerLight turns on/off the player's light source
func (m *Manager) EnablePlayerLight(enabled bool) {
	m.playerLightOn = enabled
}

// TogglePlayerLight flips the player's light and returns the new state.
func (m *Manager) TogglePlayerLight() bool {
	m.playerLightOn = !m.playerLightOn
	return m.playerLightOn
}

// IsPlayerLightOn returns whether the player's light is currently on
func (m *Manager) IsPlayerLightOn() bool {
	return m.playerLightOn
}

// AddLight adds a fixed light and returns it for later updates.
func (m *Manager) AddLight(l Light) *Light {
	light := &l
	m.lights = append(m.lights, light)
	return light
}

// RemoveLight removes a fixed light. It reports whether the light was found.
func (m *Manager) RemoveLight(l *Light) bool {
	for i, light := range m.lights {
		if light == l {
			m.lights = append(m.lights[:i], m.lights[i+1:]...)
			return true
		}
	}
	return false
}

// LightAt returns the placed light closest to pos within radius, or nil.
// The player's light is never returned.
func (m *Manager) LightAt(pos geom.Point, radius float32) *Light {
	var best *Light
	bestDist := radius
	for _, light := range m.lights {
		if d := geom.Distance(light.Position, pos); d <= bestDist {
			best, bestDist = light, d
		}
	}
	return best
}

// ClearLights removes all fixed lights. The player's light is kept.
func (m *Manager) ClearLights() {
	m.lights = m.lights[:0]
}

// GetAllLights returns all active light sources, the player's first.
func (m *Manager) GetAllLights() []Light {
	lights := make([]Light, 0, len(m.lights)+1)

	if m.playerLightOn && m.player != nil && m.player.Light != nil {
		lights = append(lights, *m.player.Light)
	}

	for _, light := range m.lights {
		lights = append(lights, *light)
	}

	return lights
}
