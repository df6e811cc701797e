package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

func init() {
	mustRegister(Program{
		Name:           "mandelbrot",
		VertexShader:   defaultVertexShader,
		FragmentShader: mandelbrotFragment,
		GetPixel: func(uniforms Uniforms, pos mgl64.Vec2) mgl32.Vec3 {
			c := uniforms.Plane(pos)

			var z complex128
			iterations := uint32(0)
			for ; iterations < uniforms.Iterations; iterations++ {
				if real(z)*real(z)+imag(z)*imag(z) > 4 {
					break
				}
				z = z*z + c
			}

			return uniforms.colour(iterations)
		},
	})
}
