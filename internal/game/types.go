package game

import (
	"chosenoffset.com/sdflight/internal/core/march"
)

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// FrameStats accumulates ray outcomes between stat reports.
type FrameStats struct {
	Frames      int
	Lights      int
	Rays        int
	Hits        int
	Exhausted   int
	OutOfBounds int
	Steps       int
}

// Add records one ray.
func (s *FrameStats) Add(hit march.RayHit) {
	s.Rays++
	s.Steps += hit.Steps
	switch hit.State {
	case march.Hit:
		s.Hits++
	case march.Exhausted:
		s.Exhausted++
	case march.OutOfBounds:
		s.OutOfBounds++
	}
}

// HitRatio returns the fraction of rays that struck a shape.
func (s FrameStats) HitRatio() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Rays)
}

// MeanSteps returns the average number of march steps per ray.
func (s FrameStats) MeanSteps() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Steps) / float64(s.Rays)
}
