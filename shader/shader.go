// Package shader compiles and links GLSL programs, reporting the driver's
// info logs as errors.
//
// All functions need a current GL context on the calling thread.
package shader

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stewi1014/glmandel/glerror"
)

var ErrUnknownStage = errors.New("unknown shader stage")

// Stage is a GL shader type such as gl.VERTEX_SHADER.
type Stage uint32

const (
	Vertex         Stage = gl.VERTEX_SHADER
	Fragment       Stage = gl.FRAGMENT_SHADER
	Geometry       Stage = gl.GEOMETRY_SHADER
	Compute        Stage = gl.COMPUTE_SHADER
	TessControl    Stage = gl.TESS_CONTROL_SHADER
	TessEvaluation Stage = gl.TESS_EVALUATION_SHADER
)

func (s Stage) Valid() bool {
	switch s {
	case Vertex, Fragment, Geometry, Compute, TessControl, TessEvaluation:
		return true
	}
	return false
}

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "Vertex"
	case Fragment:
		return "Fragment"
	case Geometry:
		return "Geometry"
	case Compute:
		return "Compute"
	case TessControl:
		return "TessControl"
	case TessEvaluation:
		return "TessEvaluation"
	}
	return fmt.Sprintf("Stage(%#x)", uint32(s))
}

type Source struct {
	Stage Stage
	Code  string
}

type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v shader failed to compile: %v", e.Stage, e.Log)
}

type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %v", e.Log)
}

// Unit is a single compiled shader stage.
type Unit struct {
	id    uint32
	stage Stage
}

func (u *Unit) Stage() Stage { return u.stage }

func (u *Unit) Delete() {
	if u.id != 0 {
		gl.DeleteShader(u.id)
		u.id = 0
	}
}

// Compile compiles a single stage. A non-empty info log is logged even when
// compilation succeeds.
func Compile(src Source) (*Unit, error) {
	if !src.Stage.Valid() {
		return nil, fmt.Errorf("%w %v", ErrUnknownStage, src.Stage)
	}

	code := src.Code
	if !strings.HasSuffix(code, "\x00") {
		code += "\x00"
	}
	defer runtime.KeepAlive(code)
	cstring, free := gl.Strs(code)
	defer free()

	id := gl.CreateShader(uint32(src.Stage))
	gl.ShaderSource(id, 1, cstring, nil)
	gl.CompileShader(id)

	info := infoLog(id, gl.GetShaderiv, gl.GetShaderInfoLog)
	if info != "" {
		log.Printf("%v shader info:\n%v", src.Stage, info)
	}

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		// pending GL errors are only logged; the compile error is returned
		_ = glerror.Check()
		gl.DeleteShader(id)
		return nil, &CompileError{Stage: src.Stage, Log: info}
	}

	return &Unit{id: id, stage: src.Stage}, nil
}

// Link links the units into a program. Units are detached afterwards and may
// be deleted by the caller.
func Link(units ...*Unit) (*Program, error) {
	id := gl.CreateProgram()
	for _, u := range units {
		gl.AttachShader(id, u.id)
	}
	gl.LinkProgram(id)
	for _, u := range units {
		gl.DetachShader(id, u.id)
	}

	info := infoLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
	if info != "" {
		log.Printf("shader program info:\n%v", info)
	}

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.DeleteProgram(id)
		return nil, &LinkError{Log: info}
	}

	return &Program{
		id:        id,
		locations: make(map[string]int32),
	}, nil
}

// FromSources compiles every source and links them into one program.
func FromSources(sources ...Source) (*Program, error) {
	units := make([]*Unit, 0, len(sources))
	defer func() {
		for _, u := range units {
			u.Delete()
		}
	}()

	for _, src := range sources {
		u, err := Compile(src)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return Link(units...)
}

func FromVertFrag(vert, frag string) (*Program, error) {
	return FromSources(
		Source{Stage: Vertex, Code: vert},
		Source{Stage: Fragment, Code: frag},
	)
}

type ivFunc func(id, pname uint32, params *int32)
type logFunc func(id uint32, bufSize int32, length *int32, infoLog *uint8)

// infoLog fetches a shader or program info log, without the trailing NUL and
// line breaks.
func infoLog(id uint32, iv ivFunc, getLog logFunc) string {
	var size int32
	iv(id, gl.INFO_LOG_LENGTH, &size)
	if size <= 0 {
		return ""
	}

	buf := make([]byte, size)
	var length int32
	getLog(id, size, &length, &buf[0])
	if length < 0 || length > size {
		length = size
	}

	return strings.TrimRight(string(buf[:length]), "\x00\r\n")
}
