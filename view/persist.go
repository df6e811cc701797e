package view

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
)

var ErrInvalidView = errors.New("invalid view")

// Save writes the view to path so it can be restored with Load.
func (s *State) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(f).Encode(s)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("saving view to %v: %w", path, err)
	}
	return nil
}

// Load replaces the position, zoom and iteration limit with those saved in
// path. The drawable size is kept. A missing file yields an error matching
// os.ErrNotExist and leaves the state untouched.
func (s *State) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var saved State
	if err := gob.NewDecoder(f).Decode(&saved); err != nil {
		return fmt.Errorf("loading view from %v: %w", path, err)
	}
	if err := saved.validate(); err != nil {
		return fmt.Errorf("loading view from %v: %w", path, err)
	}

	s.Pos = saved.Pos
	s.Zoom = saved.Zoom
	s.Iterations = saved.Iterations
	s.dirty = true
	return nil
}

// validate checks a decoded view against the limits Scroll and
// ScaleIterations keep.
func (s *State) validate() error {
	for _, f := range [...]float64{s.Pos[0], s.Pos[1], s.Zoom} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: position %v zoom %v not finite", ErrInvalidView, s.Pos, s.Zoom)
		}
	}
	if s.Zoom < MinZoom || s.Zoom > MaxZoom {
		return fmt.Errorf("%w: zoom %v outside [%v, %v]", ErrInvalidView, s.Zoom, MinZoom, MaxZoom)
	}
	if s.Iterations < MinIterations || s.Iterations > MaxIterations {
		return fmt.Errorf("%w: iterations %v outside [%v, %v]", ErrInvalidView, s.Iterations, MinIterations, MaxIterations)
	}
	return nil
}
