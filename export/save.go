package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stewi1014/glmandel/programs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("unknown image format")

type Options struct {
	Width, Height int
	// Antialias is the sample distance in pixels; 0 disables it.
	Antialias   float64
	Multithread bool
}

// Reporter is told about each stage of an export together with a function
// returning its progress in [0, 1]. It may be nil.
type Reporter func(stage string, progress func() float64)

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Save renders program on the CPU and writes it to path, choosing the encoder
// from the file extension. A partially written file is removed when rendering
// fails or ctx is cancelled.
func Save(
	ctx context.Context,
	path string,
	program programs.Program,
	uniforms programs.Uniforms,
	opts Options,
	report Reporter,
) (err error) {
	if report == nil {
		report = func(string, func() float64) {}
	}

	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	img, err := program.GetImage(uniforms, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	if opts.Antialias > 0 {
		img = AntiAlias9x(img, opts.Antialias)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	out := ToImage(img)
	if opts.Multithread {
		report("Rendering to Buffer", WrapWithProgress(&out))
		buff := BufferImage(out)
		if err = buff.Buffer(ctx); err != nil {
			return err
		}
		out = buff
	}

	report("Encoding "+strings.TrimPrefix(strings.ToUpper(filepath.Ext(path)), "."), WrapWithProgress(&out))
	if err = encode(&ctxWriter{ctx: ctx, w: file}, out); err != nil {
		return err
	}

	return ctx.Err()
}

// ctxWriter fails writes once ctx is done, aborting an encode in progress.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (c *ctxWriter) Write(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.w.Write(p)
}
