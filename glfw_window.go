package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func glfwMain(ctx context.Context, cfg Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	viewer, err := NewViewer(cfg)
	if err != nil {
		return err
	}

	w, err := NewGLFWWindow(viewer, cfg.Width, cfg.Height, cfg.Debug)
	if err != nil {
		return err
	}
	defer w.Destroy()

	return w.Run(ctx)
}

// GLFWWindow shows a Viewer in a GLFW window.
type GLFWWindow struct {
	*glfw.Window
	viewer *Viewer
}

func NewGLFWWindow(viewer *Viewer, width, height int, debug bool) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)
	if debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(
		width,
		height,
		"GLMandel",
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &GLFWWindow{
		Window: window,
		viewer: viewer,
	}

	w.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	if err := viewer.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	viewer.state.Resize(w.GetFramebufferSize())

	w.SetFramebufferSizeCallback(w.resize)
	w.SetRefreshCallback(w.refresh)
	w.SetCursorPosCallback(w.cursorPos)
	w.SetMouseButtonCallback(w.mouseButton)
	w.SetScrollCallback(w.scroll)
	w.SetKeyCallback(w.key)

	return w, nil
}

// Run redraws on state changes until the window is closed or ctx is done.
func (w *GLFWWindow) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, glfw.PostEmptyEvent)
	defer stop()

	var err error
	for !w.ShouldClose() && ctx.Err() == nil {
		err = w.viewer.Frame(w.SwapBuffers)
		if err != nil {
			break
		}
		glfw.WaitEvents()
	}

	if cerr := w.viewer.Close(); err == nil {
		err = cerr
	}
	return err
}

// framebufferScale converts cursor coordinates to framebuffer pixels.
func (w *GLFWWindow) framebufferScale() (float64, float64) {
	fbWidth, fbHeight := w.GetFramebufferSize()
	width, height := w.GetSize()
	if width == 0 || height == 0 {
		return 1, 1
	}
	return float64(fbWidth) / float64(width), float64(fbHeight) / float64(height)
}

func (w *GLFWWindow) resize(_ *glfw.Window, width, height int) {
	w.viewer.state.Resize(width, height)
}

func (w *GLFWWindow) refresh(_ *glfw.Window) {
	w.viewer.state.Refresh()
}

func (w *GLFWWindow) cursorPos(_ *glfw.Window, x, y float64) {
	sx, sy := w.framebufferScale()
	w.viewer.Drag(x*sx, y*sy)
}

func (w *GLFWWindow) mouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	switch action {
	case glfw.Press:
		x, y := w.GetCursorPos()
		sx, sy := w.framebufferScale()
		w.viewer.pointer.Press(x*sx, y*sy)
	case glfw.Release:
		w.viewer.pointer.Release()
	}
}

func (w *GLFWWindow) scroll(_ *glfw.Window, _, yoff float64) {
	w.viewer.state.Scroll(yoff)
}

func (w *GLFWWindow) key(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}

	a := glfwAction(key)
	if action == glfw.Repeat && a != actionMoreIterations && a != actionFewerIterations {
		return
	}

	switch a {
	case actionSave:
		path := w.viewer.DefaultExportPath()
		ctx, cancel := context.WithCancel(w.viewer.exportCtx)
		w.viewer.Export(path, logProgress(ctx, path), func(err error) {
			cancel()
			if err != nil {
				log.Printf("saving %v: %v", path, err)
			}
		})
	default:
		if w.viewer.Do(a) {
			w.SetShouldClose(true)
		}
	}
}

func glfwAction(key glfw.Key) action {
	switch key {
	case glfw.KeyEscape:
		return actionQuit
	case glfw.KeyR:
		return actionReset
	case glfw.KeyS:
		return actionSave
	case glfw.KeyTab:
		return actionNextProgram
	case glfw.KeyUp:
		return actionMoreIterations
	case glfw.KeyDown:
		return actionFewerIterations
	}
	return actionNone
}
