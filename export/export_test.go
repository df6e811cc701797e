package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testUniforms() programs.Uniforms {
	return programs.Uniforms{
		Pos:          mgl64.Vec2{0.5, 0},
		Zoom:         1,
		Iterations:   64,
		ColourPallet: programs.DefaultPallet,
	}
}

// quadrants is white where x > 0 and y > 0, black elsewhere.
type quadrants struct{ bounds image.Rectangle }

func (q quadrants) Bounds() image.Rectangle { return q.bounds }

func (q quadrants) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	if pos[0] > 0 && pos[1] > 0 {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{}
}

func TestToImageFlipsRows(t *testing.T) {
	img := ToImage(quadrants{image.Rect(-2, -2, 2, 2)})

	if b := img.Bounds(); b != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Bounds() = %v", b)
	}

	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	black := color.NRGBA{0, 0, 0, 0xff}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{3, 0, white}, // top right
		{3, 3, black}, // bottom right
		{0, 0, black}, // top left
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestAntiAlias9x(t *testing.T) {
	img := AntiAlias9x(quadrants{image.Rect(-2, -2, 2, 2)}, 1)

	// at (0.5, 0.5) the samples at x or y = -0.5 are black, 4 of 9 are white
	got := img.GetPixel(mgl64.Vec2{0.5, 0.5})
	if want := float32(4) / 9; mgl32.Abs(got[0]-want) > 1e-6 {
		t.Errorf("GetPixel() = %v, want %v", got[0], want)
	}
}

func TestBufferMatchesSource(t *testing.T) {
	p, _ := programs.Lookup("mandelbrot")
	src, err := p.GetImage(testUniforms(), 123, 45)
	if err != nil {
		t.Fatal(err)
	}
	img := ToImage(src)

	buff := BufferImage(img)
	if err := buff.Buffer(context.Background()); err != nil {
		t.Fatal(err)
	}

	for x := 0; x < 123; x += 7 {
		for y := 0; y < 45; y += 5 {
			if buff.At(x, y) != img.At(x, y) {
				t.Fatalf("At(%v, %v) = %v, want %v", x, y, buff.At(x, y), img.At(x, y))
			}
		}
	}
}

func TestBufferCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buff := BufferImage(ToImage(quadrants{image.Rect(-100, -100, 100, 100)}))
	if err := buff.Buffer(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Buffer() = %v, want context.Canceled", err)
	}
}

func TestProgress(t *testing.T) {
	var img image.Image = ToImage(quadrants{image.Rect(-1, -1, 1, 1)})
	progress := WrapWithProgress(&img)

	if progress() != 0 {
		t.Fatalf("progress before reading = %v", progress())
	}
	img.At(0, 0)
	img.At(1, 0)
	if progress() != 0.5 {
		t.Errorf("progress = %v, want 0.5", progress())
	}
}

func TestSave(t *testing.T) {
	p, _ := programs.Lookup("mandelbrot")
	dir := t.TempDir()

	tests := []struct {
		name   string
		opts   Options
		decode func(f *os.File) (image.Image, error)
	}{
		{"out.png", Options{Width: 32, Height: 24}, func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{"out.bmp", Options{Width: 32, Height: 24, Multithread: true}, func(f *os.File) (image.Image, error) { return bmp.Decode(f) }},
		{"out.tiff", Options{Width: 32, Height: 24, Antialias: 0.5}, func(f *os.File) (image.Image, error) { return tiff.Decode(f) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)

			var stages []string
			report := func(stage string, progress func() float64) {
				stages = append(stages, stage)
			}

			if err := Save(context.Background(), path, p, testUniforms(), tt.opts, report); err != nil {
				t.Fatal(err)
			}
			if len(stages) == 0 {
				t.Error("no progress reported")
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			img, err := tt.decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
				t.Errorf("decoded bounds = %v", b)
			}
		})
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	p, _ := programs.Lookup("mandelbrot")
	path := filepath.Join(t.TempDir(), "out.xyz")

	err := Save(context.Background(), path, p, testUniforms(), Options{Width: 4, Height: 4}, nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Save() = %v, want ErrUnknownFormat", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file created for an unknown format")
	}
}

func TestSaveCancelledRemovesFile(t *testing.T) {
	p, _ := programs.Lookup("mandelbrot")
	path := filepath.Join(t.TempDir(), "out.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Save(ctx, path, p, testUniforms(), Options{Width: 64, Height: 64, Multithread: true}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Save() = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial file left behind")
	}
}
