package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")
	ErrDuplicateProgram    = errors.New("program already registered")
	ErrInvalidSize         = errors.New("image size must be positive")
)

var (
	NullColour = mgl32.Vec3{0.1, 0.1, 0.1}
)

//go:embed shaders/default.vert
var defaultVertexShader string

func NumPrograms() int {
	return len(programs)
}

func GetProgram(i int) Program {
	return programs[i]
}

// Lookup finds a registered program by name.
func Lookup(name string) (Program, bool) {
	for _, p := range programs {
		if p.Name == name {
			return p, true
		}
	}
	return Program{}, false
}

// Index returns the registry position of the named program, or -1.
func Index(name string) int {
	for i, p := range programs {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func Names() []string {
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}

func NewProgram(p Program) error {
	if _, ok := Lookup(p.Name); ok {
		return fmt.Errorf("%w: %v", ErrDuplicateProgram, p.Name)
	}
	programs = append(programs, p)
	return nil
}

// mustRegister adds a built in program. Names are fixed at compile time, so
// a duplicate is a programming error.
func mustRegister(p Program) {
	if err := NewProgram(p); err != nil {
		panic(err)
	}
}

var programs []Program

// PixelFunc computes the colour of the pixel at pos, measured in pixels from
// the centre of the viewport with y pointing up. It mirrors the fragment
// shader of the same program.
type PixelFunc func(uniforms Uniforms, pos mgl64.Vec2) mgl32.Vec3

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

func (p *Program) GetImage(uniforms Uniforms, width, height int) (Image, error) {
	if p.GetPixel == nil {
		return nil, ErrNoCPUImplementation
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}

	uniforms.Size = [2]int32{int32(width), int32(height)}

	return &programImage{
		uniforms: uniforms,
		bounds: image.Rect(
			-width/2,
			-height/2,
			width-width/2,
			height-height/2,
		),
		pixelFunc: p.GetPixel,
	}, nil
}

type Image interface {
	GetPixel(mgl64.Vec2) mgl32.Vec3
	Bounds() image.Rectangle
}

type programImage struct {
	uniforms  Uniforms
	bounds    image.Rectangle
	pixelFunc PixelFunc
}

func (i *programImage) GetPixel(pos mgl64.Vec2) mgl32.Vec3 {
	return i.pixelFunc(i.uniforms, pos)
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}
