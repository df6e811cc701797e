package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/julia.frag
var juliaFragment string

// must match k in julia.frag
const juliaConstant = complex(-0.835, 0.2321)

func init() {
	mustRegister(Program{
		Name:           "julia",
		VertexShader:   defaultVertexShader,
		FragmentShader: juliaFragment,
		GetPixel: func(uniforms Uniforms, pos mgl64.Vec2) mgl32.Vec3 {
			z := uniforms.Plane(pos)

			iterations := uint32(0)
			for ; iterations < uniforms.Iterations; iterations++ {
				if real(z)*real(z)+imag(z)*imag(z) > 4 {
					break
				}
				z = z*z + juliaConstant
			}

			return uniforms.colour(iterations)
		},
	})
}
