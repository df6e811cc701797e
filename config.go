package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/view"
)

const (
	backendGLFW = "glfw"
	backendGTK  = "gtk"
)

type Config struct {
	Backend    string
	Width      int
	Height     int
	Program    string
	Iterations uint
	Debug      bool

	// StateFile is loaded on start when it exists and written on exit.
	StateFile string

	// OutDir receives images saved from the GLFW window.
	OutDir string

	// Render names an image to render without opening a window.
	Render      string
	Antialias   float64
	Multithread bool
}

func parseConfig(name string, args []string, output io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Backend, "backend", backendGLFW, "window `toolkit` (glfw, gtk)")
	fs.IntVar(&cfg.Width, "width", 800, "window or image width in pixels")
	fs.IntVar(&cfg.Height, "height", 600, "window or image height in pixels")
	fs.StringVar(&cfg.Program, "program", "mandelbrot", "fractal `name` ("+strings.Join(programs.Names(), ", ")+")")
	fs.UintVar(&cfg.Iterations, "iterations", view.DefaultIterations, "iteration limit")
	fs.BoolVar(&cfg.Debug, "debug", false, "log OpenGL debug messages")
	fs.StringVar(&cfg.StateFile, "state", "", "`file` to restore the view from and save it to on exit")
	fs.StringVar(&cfg.OutDir, "out", ".", "`directory` for images saved with the S key")
	fs.StringVar(&cfg.Render, "render", "", "render to `file` (.png, .jpg, .bmp, .tiff) without opening a window")
	fs.Float64Var(&cfg.Antialias, "antialias", 0, "supersampling distance in pixels for saved images, 0 disables")
	fs.BoolVar(&cfg.Multithread, "multithread", true, "render saved images in parallel")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments %v", fs.Args())
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error

	if c.Backend != backendGLFW && c.Backend != backendGTK {
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %vx%v", c.Width, c.Height))
	}
	if programs.Index(c.Program) < 0 {
		errs = append(errs, fmt.Errorf("unknown program %q", c.Program))
	}
	if c.Iterations < view.MinIterations || c.Iterations > view.MaxIterations {
		errs = append(errs, fmt.Errorf("iterations must be between %v and %v", view.MinIterations, view.MaxIterations))
	}
	if c.Antialias < 0 {
		errs = append(errs, fmt.Errorf("negative antialias distance %v", c.Antialias))
	}

	return errors.Join(errs...)
}

func (c Config) exportOptions(width, height int) export.Options {
	return export.Options{
		Width:       width,
		Height:      height,
		Antialias:   c.Antialias,
		Multithread: c.Multithread,
	}
}
