package swipe

import (
	"math"
	"time"
)

// Gesture constants.
const (
	// SwipeThreshold is the horizontal distance a drag must exceed to count.
	SwipeThreshold = 100.0
	// RotationFactor converts horizontal offset into degrees of tilt.
	RotationFactor = 0.1

	ExitDistance = 1000.0
	ExitRotation = 30.0
	ExitDuration = 300 * time.Millisecond
	ExitEasing   = "ease-out"
)

// Direction is the outcome of a swipe.
type Direction int

const (
	Reject Direction = -1
	Accept Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "none"
	}
}

// Transform is the visual offset of the top card.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Rotate     float64
}

// Exit describes the animation that carries a resolved card off screen.
type Exit struct {
	Direction Direction
	Transform Transform
	Duration  time.Duration
	Easing    string
}

// ExitFor builds the exit animation for dir, keeping the card's vertical offset.
func ExitFor(dir Direction, translateY float64) Exit {
	sign := float64(dir)
	return Exit{
		Direction: dir,
		Transform: Transform{
			TranslateX: sign * ExitDistance,
			TranslateY: translateY,
			Rotate:     sign * ExitRotation,
		},
		Duration: ExitDuration,
		Easing:   ExitEasing,
	}
}

// DragSession tracks one pointer gesture from press to release.
type DragSession struct {
	startX, startY float64
	dx, dy         float64
}

// NewDragSession starts a gesture at (x, y).
func NewDragSession(x, y float64) *DragSession {
	return &DragSession{startX: x, startY: y}
}

// Move updates the pointer position.
func (d *DragSession) Move(x, y float64) {
	d.dx = x - d.startX
	d.dy = y - d.startY
}

// Transform is the card offset for the current pointer position.
func (d *DragSession) Transform() Transform {
	return Transform{
		TranslateX: d.dx,
		TranslateY: d.dy,
		Rotate:     d.dx * RotationFactor,
	}
}

// Resolve reports the swipe direction on release. Only a horizontal offset
// strictly beyond SwipeThreshold resolves; anything else, NaN included,
// snaps back.
func (d *DragSession) Resolve() (Direction, bool) {
	if !(math.Abs(d.dx) > SwipeThreshold) {
		return 0, false
	}
	if d.dx > 0 {
		return Accept, true
	}
	return Reject, true
}
