package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func gtkMain(ctx context.Context, cfg Config) error {
	gtk.Init(nil)
	app, err := gtk.ApplicationNew("com.github.stewi1014.glmandel", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	viewer, err := NewViewer(cfg)
	if err != nil {
		return err
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		renderWindow, err := NewRenderWindow(app, viewer, appQuit)
		if err != nil {
			appQuit(err)
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle("GLMandel")
		renderWindow.SetDefaultSize(cfg.Width, cfg.Height)
		renderWindow.ShowAll()
	})

	stop := context.AfterFunc(appContext, func() {
		glib.IdleAdd(app.Quit)
	})
	defer stop()

	app.Run(nil)
	return context.Cause(appContext)
}

// RenderWindow shows a Viewer in a GTK GLArea.
type RenderWindow struct {
	*gtk.ApplicationWindow
	gla    *gtk.GLArea
	viewer *Viewer
	quit   context.CancelCauseFunc
}

func NewRenderWindow(
	app *gtk.Application,
	viewer *Viewer,
	quit context.CancelCauseFunc,
) (*RenderWindow, error) {
	var err error
	w := &RenderWindow{
		viewer: viewer,
		quit:   quit,
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationWindowNew: %w", err)
	}

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.GLAreaNew: %w", err)
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.BUTTON1_MOTION_MASK) |
			int(gdk.SCROLL_MASK),
	)
	w.gla.Connect("resize", w.resize)
	w.gla.Connect("scroll-event", w.scroll)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("motion-notify-event", w.motion)
	w.Connect("key-press-event", w.key)

	w.Add(w.gla)

	return w, nil
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	err := gl.Init()
	if err != nil {
		w.quit(fmt.Errorf("gl.Init: %w", err))
		return
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	if err := w.viewer.Init(); err != nil {
		w.quit(err)
	}
}

// glaRender is called by GTK whenever the area needs a frame, so the frame
// is always stale here.
func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	if w.viewer.renderer == nil {
		return false
	}

	w.viewer.state.Refresh()
	if err := w.viewer.Frame(func() {}); err != nil {
		w.quit(err)
	}
	return true
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	gla.MakeCurrent()
	if err := w.viewer.Close(); err != nil {
		log.Println(err)
	}
}

// queueIfDirty requests a frame only when input changed the view.
func (w *RenderWindow) queueIfDirty() {
	if w.viewer.state.Dirty() {
		w.gla.QueueRender()
	}
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	w.viewer.state.Resize(width, height)
	w.queueIfDirty()
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	if button.Button() != gdk.BUTTON_PRIMARY {
		return
	}

	scale := float64(gla.GetScaleFactor())
	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		w.viewer.pointer.Press(button.X()*scale, button.Y()*scale)
	case gdk.EVENT_BUTTON_RELEASE:
		w.viewer.pointer.Release()
	}
}

func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) {
	motion := gdk.EventMotionNewFromEvent(event)
	x, y := motion.MotionVal()

	scale := float64(gla.GetScaleFactor())
	w.viewer.Drag(x*scale, y*scale)
	w.queueIfDirty()
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	scroll := gdk.EventScrollNewFromEvent(event)

	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		w.viewer.state.Scroll(1)
	case gdk.SCROLL_DOWN:
		w.viewer.state.Scroll(-1)
	}
	w.queueIfDirty()
}

func (w *RenderWindow) key(win *gtk.ApplicationWindow, event *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(event)

	a := gtkAction(key.KeyVal())
	switch a {
	case actionNone:
		return false
	case actionSave:
		w.save()
	default:
		// switching programs compiles shaders
		w.gla.MakeCurrent()
		if w.viewer.Do(a) {
			w.Destroy()
			return true
		}
	}

	w.queueIfDirty()
	return true
}

func (w *RenderWindow) save() {
	path, ok := ChooseSaveFile(w.ApplicationWindow, w.viewer.ExportDir(), filepath.Base(w.viewer.DefaultExportPath()))
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(w.viewer.exportCtx)
	progress, err := NewProgressDialog(ctx, w.ApplicationWindow, "Save Image", "Saving "+path, cancel)
	if err != nil {
		cancel()
		NewErrorDialog(w.ApplicationWindow, "Saving "+path, err)
		return
	}
	progress.ShowAll()

	w.viewer.Export(path, func(stage string, p func() float64) {
		progress.AddProgressSupplier(stage, p)
	}, func(err error) {
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Println(err)
			glib.IdleAdd(func() {
				NewErrorDialog(w.ApplicationWindow, fmt.Sprintf("Saving %v as %v", w.viewer.Program().Name, path), err)
			})
		}
	})
}

func gtkAction(keyval uint) action {
	switch keyval {
	case gdk.KEY_Escape:
		return actionQuit
	case gdk.KEY_r, gdk.KEY_R:
		return actionReset
	case gdk.KEY_s, gdk.KEY_S:
		return actionSave
	case gdk.KEY_Tab:
		return actionNextProgram
	case gdk.KEY_Up:
		return actionMoreIterations
	case gdk.KEY_Down:
		return actionFewerIterations
	}
	return actionNone
}
