package programs

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Colours is the palette length. The fragment shaders declare
// palette[Colours].
const Colours = 16

// BaseSpan is the width of the complex plane covered by the shorter side of
// the viewport at zoom 1.
const BaseSpan = 3.0

// Uniforms are uploaded to the fragment shader before every draw. The
// uniform tag names the GLSL uniform a field is written to.
type Uniforms struct {
	Pos          mgl64.Vec2          `uniform:"pos"`
	Zoom         float64             `uniform:"zoom"`
	Size         [2]int32            `uniform:"size"`
	Iterations   uint32              `uniform:"iterations"`
	ColourPallet [Colours]mgl32.Vec3 `uniform:"palette"`
}

// UnitsPerPixel is the distance in the complex plane between two adjacent
// pixels.
func (u Uniforms) UnitsPerPixel() float64 {
	short := u.Size[0]
	if u.Size[1] < short {
		short = u.Size[1]
	}
	if short <= 0 || u.Zoom <= 0 {
		return 0
	}
	return BaseSpan / (float64(short) * u.Zoom)
}

// Plane maps a centre-relative pixel position to the complex plane.
func (u Uniforms) Plane(pos mgl64.Vec2) complex128 {
	c := pos.Mul(u.UnitsPerPixel()).Sub(u.Pos)
	return complex(c[0], c[1])
}

func (u Uniforms) colour(iterations uint32) mgl32.Vec3 {
	if iterations >= u.Iterations {
		return NullColour
	}
	return u.ColourPallet[iterations%Colours]
}

// DefaultPallet is a cosine gradient sampled at Colours points.
var DefaultPallet = cosinePallet(
	mgl32.Vec3{0.5, 0.5, 0.5},
	mgl32.Vec3{0.5, 0.5, 0.5},
	mgl32.Vec3{1, 1, 1},
	mgl32.Vec3{0.0, 0.1, 0.2},
)

func cosinePallet(a, b, c, d mgl32.Vec3) (pallet [Colours]mgl32.Vec3) {
	for i := range pallet {
		t := float64(i) / Colours
		for j := 0; j < 3; j++ {
			pallet[i][j] = a[j] + b[j]*float32(math.Cos(2*math.Pi*(float64(c[j])*t+float64(d[j]))))
		}
	}
	return
}
