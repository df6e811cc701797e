package view

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
)

func near(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) < 1e-9 && math.Abs(imag(a)-imag(b)) < 1e-9
}

func TestNewIsDirty(t *testing.T) {
	s := New(800, 600)
	if !s.TakeDirty() {
		t.Fatal("new state is not dirty")
	}
	if s.TakeDirty() {
		t.Fatal("TakeDirty did not clear the flag")
	}
	if s.Plane(400, 300) != complex(-0.5, 0) {
		t.Errorf("default centre = %v", s.Plane(400, 300))
	}
}

func TestDragKeepsPointUnderCursor(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()

	// window y grows downward, GL y grows upward
	x, y := 250.0, 100.0
	before := s.Plane(x, 600-y)

	s.Drag(30, -12)
	if !s.TakeDirty() {
		t.Fatal("drag did not dirty the state")
	}

	after := s.Plane(x+30, 600-(y-12))
	if !near(before, after) {
		t.Errorf("point moved from %v to %v", before, after)
	}
}

func TestDragZeroIsClean(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()
	s.Drag(0, 0)
	if s.Dirty() {
		t.Error("zero drag dirtied the state")
	}
}

func TestScroll(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()

	s.Scroll(1)
	if s.Zoom != ZoomStep || !s.TakeDirty() {
		t.Errorf("scroll up: zoom = %v", s.Zoom)
	}

	s.Scroll(-1)
	s.Scroll(-1)
	if math.Abs(s.Zoom-1/ZoomStep) > 1e-12 || !s.TakeDirty() {
		t.Errorf("scroll down: zoom = %v", s.Zoom)
	}

	s.Scroll(0)
	if s.Dirty() {
		t.Error("zero scroll dirtied the state")
	}
}

func TestScrollClamps(t *testing.T) {
	s := New(800, 600)
	s.Zoom = MaxZoom
	s.TakeDirty()

	s.Scroll(1)
	if s.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want %v", s.Zoom, MaxZoom)
	}
	if s.Dirty() {
		t.Error("clamped scroll dirtied the state")
	}

	s.Zoom = MinZoom * 1.1
	s.Scroll(-1)
	if s.Zoom != MinZoom {
		t.Errorf("zoom = %v, want %v", s.Zoom, MinZoom)
	}
}

func TestResize(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()

	s.Resize(800, 600)
	if s.Dirty() {
		t.Error("same size dirtied the state")
	}

	s.Resize(0, 0)
	if s.Dirty() || s.Width != 800 {
		t.Error("minimised window changed the state")
	}

	s.Resize(1024, 768)
	if !s.TakeDirty() || s.Width != 1024 || s.Height != 768 {
		t.Errorf("resize: %vx%v", s.Width, s.Height)
	}
}

func TestRefreshAndReset(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()
	s.Refresh()
	if !s.TakeDirty() {
		t.Error("Refresh did not dirty the state")
	}

	s.Drag(10, 10)
	s.Scroll(1)
	s.Reset()
	if s.Pos != DefaultPos || s.Zoom != 1 || s.Iterations != DefaultIterations || !s.Dirty() {
		t.Errorf("Reset() left %+v", s)
	}
}

func TestScaleIterations(t *testing.T) {
	s := New(800, 600)
	s.TakeDirty()

	s.ScaleIterations(2)
	if s.Iterations != 2*DefaultIterations || !s.TakeDirty() {
		t.Errorf("iterations = %v", s.Iterations)
	}

	s.Iterations = MinIterations
	s.ScaleIterations(0.5)
	if s.Iterations != MinIterations || s.Dirty() {
		t.Errorf("iterations below minimum: %v", s.Iterations)
	}

	s.Iterations = MaxIterations
	s.ScaleIterations(2)
	if s.Iterations != MaxIterations {
		t.Errorf("iterations above maximum: %v", s.Iterations)
	}
}

func TestUniformsMatchPlane(t *testing.T) {
	s := New(640, 480)
	s.Drag(17, -5)
	s.Scroll(1)

	u := s.Uniforms(programs.DefaultPallet)
	if u.Size != [2]int32{640, 480} || u.Iterations != s.Iterations {
		t.Fatalf("Uniforms() = %+v", u)
	}

	got := u.Plane(mgl64.Vec2{100 - 320, 50 - 240})
	if want := s.Plane(100, 50); !near(got, want) {
		t.Errorf("uniform plane %v, view plane %v", got, want)
	}
}

func TestPointer(t *testing.T) {
	var p Pointer
	if _, _, ok := p.Move(5, 5); ok {
		t.Fatal("Move reported a drag with the button up")
	}

	p.Press(10, 10)
	dx, dy, ok := p.Move(15, 7)
	if !ok || dx != 5 || dy != -3 {
		t.Errorf("Move() = %v, %v, %v", dx, dy, ok)
	}
	dx, dy, _ = p.Move(15, 8)
	if dx != 0 || dy != 1 {
		t.Errorf("second Move() = %v, %v", dx, dy)
	}

	p.Release()
	if p.Down() {
		t.Error("pointer still down after Release")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.gob")

	s := New(800, 600)
	s.Drag(40, 40)
	s.Scroll(1)
	s.ScaleIterations(2)
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded := New(1024, 768)
	loaded.TakeDirty()
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Pos != s.Pos || loaded.Zoom != s.Zoom || loaded.Iterations != s.Iterations {
		t.Errorf("loaded %+v, saved %+v", loaded, s)
	}
	if loaded.Width != 1024 || !loaded.Dirty() {
		t.Errorf("Load changed the size or left the state clean: %+v", loaded)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(800, 600)
	err := s.Load(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
	if s.Pos != DefaultPos {
		t.Error("failed Load changed the state")
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage")
	if err := os.WriteFile(path, []byte("not gob"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(800, 600).Load(path); err == nil {
		t.Error("Load accepted garbage")
	}
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"nan zoom", State{Zoom: math.NaN(), Iterations: DefaultIterations}},
		{"inf zoom", State{Zoom: math.Inf(1), Iterations: DefaultIterations}},
		{"nan position", State{Pos: mgl64.Vec2{math.NaN(), 0}, Zoom: 1, Iterations: DefaultIterations}},
		{"zoom above max", State{Zoom: 1e300, Iterations: DefaultIterations}},
		{"zoom below min", State{Zoom: MinZoom / 2, Iterations: DefaultIterations}},
		{"huge iterations", State{Zoom: 1, Iterations: math.MaxUint32}},
		{"too few iterations", State{Zoom: 1, Iterations: MinIterations - 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "view.gob")
			if err := tt.state.Save(path); err != nil {
				t.Fatal(err)
			}

			s := New(800, 600)
			s.TakeDirty()
			err := s.Load(path)
			if !errors.Is(err, ErrInvalidView) {
				t.Fatalf("Load() = %v, want ErrInvalidView", err)
			}
			if s.Pos != DefaultPos || s.Zoom != 1 || s.Iterations != DefaultIterations || s.Dirty() {
				t.Errorf("rejected Load changed the state: %+v", s)
			}

			s.Scroll(1)
			if s.Zoom != ZoomStep {
				t.Errorf("zoom after scroll = %v, want %v", s.Zoom, ZoomStep)
			}
		})
	}
}
