// Package export renders fractal programs on the CPU and encodes the result
// to image files.
package export

import (
	"context"
	"image"
	"image/color"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
)

func WrapWithProgress(img *image.Image) func() float64 {
	p := &ProgressImage{
		Image: *img,
	}

	*img = p
	return p.Progress
}

// ProgressImage counts the pixels read from it. It is safe for concurrent
// use.
type ProgressImage struct {
	image.Image
	count atomic.Int64
}

func (i *ProgressImage) At(x, y int) color.Color {
	i.count.Add(1)
	return i.Image.At(x, y)
}

func (i *ProgressImage) Progress() float64 {
	end := i.Bounds().Dx() * i.Bounds().Dy()
	if end == 0 {
		return 1
	}
	return float64(i.count.Load()) / float64(end)
}

func (i *ProgressImage) Opaque() bool {
	return true
}

// AntiAlias9x samples 9 positions for each sampled position,
// returning the average colour.
//
// antialias is the number of pixels apart the sampled locations are.
func AntiAlias9x(img programs.Image, antialias float64) programs.Image {
	if antialias == 0 {
		log.Println("image uselessly antialiased with distance of 0")
	}

	return &antialias9xImage{
		Image:  img,
		offset: antialias,
	}
}

type antialias9xImage struct {
	programs.Image
	offset float64
}

func (i *antialias9xImage) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	avg := mgl32.Vec3{}
	for _, dx := range [3]float64{-i.offset, 0, i.offset} {
		for _, dy := range [3]float64{-i.offset, 0, i.offset} {
			avg = avg.Add(i.Image.GetPixel(mgl64.Vec2{pos[0] + dx, pos[1] + dy}))
		}
	}
	return avg.Mul(1 / float32(9))
}

// bandHeight is the number of rows a Buffer worker renders at a time.
const bandHeight = 16

func BufferImage(img image.Image) *BufferedImage {
	return &BufferedImage{
		Image: img,
	}
}

// BufferedImage holds a fully rendered NRGBA copy of an image, placed at the
// origin. At is only valid after Buffer returned nil.
type BufferedImage struct {
	image.Image
	pix *image.NRGBA
}

func (b *BufferedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *BufferedImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *BufferedImage) At(x, y int) color.Color {
	return b.pix.NRGBAAt(x, y)
}

// Buffer renders the wrapped image with one worker per CPU, each taking
// bands of rows until the image is done or ctx is cancelled.
func (b *BufferedImage) Buffer(ctx context.Context) error {
	src := b.Image.Bounds()
	b.pix = image.NewNRGBA(b.Bounds())

	bands := make(chan int)
	go func() {
		defer close(bands)
		for y := 0; y < src.Dy(); y += bandHeight {
			select {
			case bands <- y:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for n := runtime.GOMAXPROCS(0); n > 0; n-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for top := range bands {
				bottom := min(top+bandHeight, src.Dy())
				for y := top; y < bottom; y++ {
					if ctx.Err() != nil {
						return
					}
					for x := 0; x < src.Dx(); x++ {
						c := color.NRGBAModel.Convert(b.Image.At(src.Min.X+x, src.Min.Y+y))
						b.pix.SetNRGBA(x, y, c.(color.NRGBA))
					}
				}
			}
		}()
	}

	wg.Wait()

	return ctx.Err()
}

func (i *BufferedImage) Opaque() bool {
	return true
}

// ToImage samples img at pixel centres. Image rows grow downward while the
// program's y axis points up, so rows are flipped.
func ToImage(img programs.Image) image.Image {
	b := img.Bounds()
	return &imageImage{
		Image:  img,
		bounds: image.Rect(0, 0, b.Dx(), b.Dy()),
	}
}

type imageImage struct {
	programs.Image
	bounds image.Rectangle
}

func (i *imageImage) Bounds() image.Rectangle {
	return i.bounds
}

func (i *imageImage) At(x, y int) color.Color {
	w, h := float64(i.bounds.Dx()), float64(i.bounds.Dy())

	c := i.GetPixel(mgl64.Vec2{
		float64(x) + 0.5 - w/2,
		h/2 - float64(y) - 0.5,
	})

	return color.NRGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 0xff,
	}
}

func channel(v float32) uint8 {
	v = mgl32.Clamp(v, 0, 1)
	return uint8(v*255 + 0.5)
}

func (i *imageImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *imageImage) Opaque() bool {
	return true
}
