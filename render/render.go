// Package render draws a fractal program onto a full-screen quad.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/shader"
)

// Two triangles covering clip space.
var quad = []float32{
	-1, -1,
	1, -1,
	1, 1,
	1, 1,
	-1, 1,
	-1, -1,
}

type Renderer struct {
	vao uint32
	vbo uint32

	program  *shader.Program
	current  programs.Program
	uniforms []boundUniform
}

// New uploads the quad and loads program. The GL context must be current.
func New(program programs.Program) (*Renderer, error) {
	r := &Renderer{}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	if err := r.Load(program); err != nil {
		r.Delete()
		return nil, err
	}

	return r, nil
}

// Load compiles and links program and makes it current. On failure the
// previously loaded program stays in use.
func (r *Renderer) Load(program programs.Program) error {
	p, err := shader.FromVertFrag(program.VertexShader, program.FragmentShader)
	if err != nil {
		return fmt.Errorf("loading %v: %w", program.Name, err)
	}

	vert := p.AttribLocation("vert")
	if vert < 0 {
		p.Delete()
		return fmt.Errorf("loading %v: vertex shader has no vert attribute", program.Name)
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(uint32(vert))
	gl.VertexAttribPointerWithOffset(uint32(vert), 2, gl.FLOAT, false, 2*4, 0)

	if r.program != nil {
		r.program.Delete()
	}
	r.program = p
	r.current = program
	r.uniforms = bindUniforms(p.UniformLocation)

	return nil
}

// Program returns the currently loaded program.
func (r *Renderer) Program() programs.Program {
	return r.current
}

// Draw renders one frame with the given uniforms. Size doubles as the
// viewport.
func (r *Renderer) Draw(u programs.Uniforms) {
	gl.Viewport(0, 0, u.Size[0], u.Size[1])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.program.Use()
	loadUniforms(r.uniforms, &u)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quad)/2))
}

// Delete releases the program, buffer and vertex array.
func (r *Renderer) Delete() {
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}
