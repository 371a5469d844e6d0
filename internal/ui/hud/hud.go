// Package hud draws a text panel pinned to a screen corner, used for the
// debug overlay.
package hud

import (
	"image/color"

	"chosenoffset.com/sdflight/internal/render"
)

// Corner positions accepted by Config.Position.
const (
	TopLeft     = "top-left"
	TopRight    = "top-right"
	BottomLeft  = "bottom-left"
	BottomRight = "bottom-right"
)

// Config defines where and how the panel is drawn
type Config struct {
	Position string  `json:"position"` // One of the corner constants; empty = top-left
	Opacity  float64 `json:"opacity"`  // Background opacity (0-1)
}

// DefaultConfig returns a sensible default HUD configuration
func DefaultConfig() *Config {
	return &Config{
		Position: TopLeft,
		Opacity:  0.7,
	}
}

// ValidPosition reports whether pos names a corner.
func ValidPosition(pos string) bool {
	switch pos {
	case "", TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

const (
	padding = 10 // Screen edge to panel
	inset   = 8  // Panel edge to text
)

var textColor = color.RGBA{255, 255, 200, 255}

// HUD manages the heads-up display
type HUD struct {
	config       *Config
	screenWidth  int
	screenHeight int

	// Layout of the last drawn panel
	panelWidth  int
	panelHeight int
}

// New creates a new HUD with the given configuration
func New(config *Config, screenWidth, screenHeight int) *HUD {
	if config == nil {
		config = DefaultConfig()
	}
	return &HUD{
		config:       config,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// SetScreenSize updates the screen dimensions
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// PanelSize returns the size of the last drawn panel.
func (h *HUD) PanelSize() (width, height int) {
	return h.panelWidth, h.panelHeight
}

// Draw renders lines in a panel sized to fit them. Nothing is drawn for no lines.
func (h *HUD) Draw(r render.Renderer, screen render.Image, lines []string) {
	if len(lines) == 0 {
		return
	}

	h.panelWidth, h.panelHeight = h.measure(r, lines)
	x, y := h.calculatePosition()
	h.drawPanel(r, screen, x, y)

	currentY := y + inset
	for _, line := range lines {
		r.DrawText(screen, line, x+inset, currentY, textColor, 1)
		_, lh := r.MeasureText(line, 1)
		currentY += lh
	}
}

func (h *HUD) measure(r render.Renderer, lines []string) (width, height int) {
	for _, line := range lines {
		w, lh := r.MeasureText(line, 1)
		width = max(width, w)
		height += lh
	}
	return width + 2*inset, height + 2*inset
}

// calculatePosition returns the top-left corner of the HUD panel
func (h *HUD) calculatePosition() (int, int) {
	switch h.config.Position {
	case TopRight:
		return h.screenWidth - h.panelWidth - padding, padding
	case BottomLeft:
		return padding, h.screenHeight - h.panelHeight - padding
	case BottomRight:
		return h.screenWidth - h.panelWidth - padding, h.screenHeight - h.panelHeight - padding
	default: // top-left
		return padding, padding
	}
}

// drawPanel draws the semi-transparent background panel with a one pixel border
func (h *HUD) drawPanel(r render.Renderer, screen render.Image, x, y int) {
	alpha := uint8(min(max(h.config.Opacity, 0), 1) * 255)
	fx, fy := float32(x), float32(y)
	w, ht := float32(h.panelWidth), float32(h.panelHeight)

	r.FillRect(screen, fx, fy, w, ht, color.NRGBA{20, 20, 30, alpha})

	border := color.NRGBA{60, 60, 80, alpha}
	r.FillRect(screen, fx, fy, w, 1, border)
	r.FillRect(screen, fx, fy+ht-1, w, 1, border)
	r.FillRect(screen, fx, fy, 1, ht, border)
	r.FillRect(screen, fx+w-1, fy, 1, ht, border)
}
