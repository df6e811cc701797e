package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/glerror"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/render"
	"github.com/stewi1014/glmandel/view"
)

type action int

const (
	actionNone action = iota
	actionQuit
	actionReset
	actionSave
	actionNextProgram
	actionMoreIterations
	actionFewerIterations
)

// frameRenderer is the part of render.Renderer the viewer drives.
type frameRenderer interface {
	Draw(programs.Uniforms)
	Load(programs.Program) error
	Delete()
}

// Viewer is the toolkit independent part of a window: the view state, the
// renderer and image export. Apart from Export it must only be used from the
// thread owning the GL context.
type Viewer struct {
	cfg      Config
	state    *view.State
	pointer  view.Pointer
	renderer frameRenderer
	program  int

	// iterations is the configured limit, restored by actionReset.
	iterations uint32
	checkGL    func() error

	exportCtx    context.Context
	cancelExport context.CancelFunc
	exports      sync.WaitGroup
}

func NewViewer(cfg Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		state:   view.New(cfg.Width, cfg.Height),
		program: programs.Index(cfg.Program),

		iterations: uint32(cfg.Iterations),
		checkGL:    glerror.Check,
	}
	if v.program < 0 {
		return nil, fmt.Errorf("unknown program %q", cfg.Program)
	}
	v.state.Iterations = v.iterations

	if cfg.StateFile != "" {
		err := v.state.Load(cfg.StateFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			log.Printf("restored view from %v", cfg.StateFile)
		}
	}

	v.exportCtx, v.cancelExport = context.WithCancel(context.Background())
	return v, nil
}

// Init creates the GPU resources. The GL context must be current.
func (v *Viewer) Init() error {
	if v.cfg.Debug {
		glerror.EnableDebugOutput()
	}

	r, err := render.New(programs.GetProgram(v.program))
	if err != nil {
		return err
	}
	v.renderer = r

	return v.checkGL()
}

func (v *Viewer) Program() programs.Program {
	return programs.GetProgram(v.program)
}

func (v *Viewer) Uniforms() programs.Uniforms {
	return v.state.Uniforms(programs.DefaultPallet)
}

// Frame draws when the view changed since the last frame, presents the
// frame with swap and checks for GL errors.
func (v *Viewer) Frame(swap func()) error {
	if !v.state.TakeDirty() {
		return nil
	}

	v.renderer.Draw(v.Uniforms())
	swap()

	return v.checkGL()
}

// Do applies a keyboard action. It returns true when the viewer should
// close. actionSave is left to the window.
func (v *Viewer) Do(a action) (quit bool) {
	switch a {
	case actionQuit:
		return true
	case actionReset:
		v.state.Reset()
		v.state.Iterations = v.iterations
	case actionNextProgram:
		v.nextProgram()
	case actionMoreIterations:
		v.state.ScaleIterations(2)
	case actionFewerIterations:
		v.state.ScaleIterations(0.5)
	}
	return false
}

func (v *Viewer) nextProgram() {
	next := (v.program + 1) % programs.NumPrograms()
	if next == v.program {
		return
	}

	if err := v.renderer.Load(programs.GetProgram(next)); err != nil {
		log.Println(err)
		return
	}
	v.program = next
	v.state.Refresh()
	log.Printf("showing %v", v.Program().Name)
}

// Drag pans by a cursor movement given in framebuffer pixels.
func (v *Viewer) Drag(x, y float64) {
	if dx, dy, ok := v.pointer.Move(x, y); ok {
		v.state.Drag(dx, dy)
	}
}

// DefaultExportPath names a new image in the output directory.
func (v *Viewer) DefaultExportPath() string {
	name := fmt.Sprintf("%v-%v.png", v.Program().Name, time.Now().Format("20060102-150405"))
	return filepath.Join(v.cfg.OutDir, name)
}

// ExportDir is the absolute output directory. GTK file choosers ignore
// relative folders.
func (v *Viewer) ExportDir() string {
	dir, err := filepath.Abs(v.cfg.OutDir)
	if err != nil {
		log.Println(err)
		return v.cfg.OutDir
	}
	return dir
}

// Export renders the current view to path in the background. done is called
// from the export goroutine.
func (v *Viewer) Export(path string, report export.Reporter, done func(error)) {
	program := v.Program()
	uniforms := v.Uniforms()
	opts := v.cfg.exportOptions(v.state.Width, v.state.Height)

	v.exports.Add(1)
	go func() {
		defer v.exports.Done()

		ctx, cancel := context.WithCancelCause(v.exportCtx)
		defer cancel(nil)
		defer CatchPanicToContext(cancel)

		err := export.Save(ctx, path, program, uniforms, opts, report)
		if err == nil {
			log.Printf("saved %v", path)
		}
		done(err)
	}()
}

// Close cancels unfinished exports, saves the view and releases GPU
// resources.
func (v *Viewer) Close() error {
	v.cancelExport()
	v.exports.Wait()

	var errs []error
	if v.cfg.StateFile != "" {
		errs = append(errs, v.state.Save(v.cfg.StateFile))
	}
	if v.renderer != nil {
		v.renderer.Delete()
		v.renderer = nil
		errs = append(errs, v.checkGL())
	}

	return errors.Join(errs...)
}
