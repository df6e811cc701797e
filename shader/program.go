package shader

import "github.com/go-gl/gl/v4.6-core/gl"

type Program struct {
	id        uint32
	locations map[string]int32
}

func (p *Program) ID() uint32 { return p.id }

func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// UniformLocation returns the location of the named uniform, or -1 when the
// program has no such active uniform. Lookups are cached.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}

	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *Program) AttribLocation(name string) int32 {
	return gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
}

func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
