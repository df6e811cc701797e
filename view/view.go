// Package view holds the pan/zoom state of the viewer and tracks whether the
// displayed frame is stale.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
)

const (
	ZoomStep = 1.25
	MinZoom  = 0.01
	// Beyond this the double precision uniforms run out of bits.
	MaxZoom = 1e13

	DefaultIterations = 256
	MinIterations     = 16
	MaxIterations     = 1 << 16
)

// DefaultPos centres the main cardioid.
var DefaultPos = mgl64.Vec2{0.5, 0}

type State struct {
	Pos        mgl64.Vec2
	Zoom       float64
	Width      int
	Height     int
	Iterations uint32

	dirty bool
}

// New returns the default view for a drawable of the given size. The first
// frame is always drawn.
func New(width, height int) *State {
	s := &State{
		Width:  width,
		Height: height,
	}
	s.Reset()
	return s
}

// Reset restores the default position, zoom and iteration limit.
func (s *State) Reset() {
	s.Pos = DefaultPos
	s.Zoom = 1
	s.Iterations = DefaultIterations
	s.dirty = true
}

// UnitsPerPixel is the distance in the complex plane between adjacent pixels.
func (s *State) UnitsPerPixel() float64 {
	short := min(s.Width, s.Height)
	if short <= 0 {
		return 0
	}
	return programs.BaseSpan / (float64(short) * s.Zoom)
}

// Plane maps a window pixel (origin bottom left) to the complex plane.
func (s *State) Plane(x, y float64) complex128 {
	u := s.UnitsPerPixel()
	return complex(
		(x-float64(s.Width)/2)*u-s.Pos[0],
		(y-float64(s.Height)/2)*u-s.Pos[1],
	)
}

// Drag pans by a mouse movement of dx, dy window pixels, y growing
// downwards, keeping the point under the cursor fixed.
func (s *State) Drag(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	u := s.UnitsPerPixel()
	s.Pos[0] += dx * u
	s.Pos[1] -= dy * u
	s.dirty = true
}

// Scroll zooms in for positive y and out for negative y.
func (s *State) Scroll(y float64) {
	zoom := s.Zoom
	switch {
	case y > 0:
		zoom *= ZoomStep
	case y < 0:
		zoom /= ZoomStep
	default:
		return
	}

	zoom = math.Max(MinZoom, math.Min(MaxZoom, zoom))
	if zoom == s.Zoom {
		return
	}
	s.Zoom = zoom
	s.dirty = true
}

// Resize records a new drawable size. Sizes of minimised windows are ignored.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.Width && height == s.Height {
		return
	}
	s.Width, s.Height = width, height
	s.dirty = true
}

// ScaleIterations multiplies the iteration limit by factor, clamped to
// [MinIterations, MaxIterations].
func (s *State) ScaleIterations(factor float64) {
	it := math.Round(float64(s.Iterations) * factor)
	it = math.Max(MinIterations, math.Min(MaxIterations, it))
	if uint32(it) == s.Iterations {
		return
	}
	s.Iterations = uint32(it)
	s.dirty = true
}

// Refresh marks the frame stale, e.g. after the window was exposed.
func (s *State) Refresh() {
	s.dirty = true
}

func (s *State) Dirty() bool {
	return s.dirty
}

// TakeDirty reports whether a redraw is due and clears the flag.
func (s *State) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// Uniforms builds the shader inputs for the current view.
func (s *State) Uniforms(pallet [programs.Colours]mgl32.Vec3) programs.Uniforms {
	return programs.Uniforms{
		Pos:          s.Pos,
		Zoom:         s.Zoom,
		Size:         [2]int32{int32(s.Width), int32(s.Height)},
		Iterations:   s.Iterations,
		ColourPallet: pallet,
	}
}
