package render

import (
	"log"
	"reflect"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/programs"
)

var uniformsType = reflect.TypeOf(programs.Uniforms{})

type boundUniform struct {
	field    int
	name     string
	location int32
}

// uniformNames lists the uniform tag of every tagged field in t.
func uniformNames(t reflect.Type) map[int]string {
	names := make(map[int]string)
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("uniform"); name != "" {
			names[i] = name
		}
	}
	return names
}

// bindUniforms resolves the location of every tagged field. Uniforms the
// program optimised away are skipped.
func bindUniforms(locate func(name string) int32) []boundUniform {
	var bound []boundUniform
	for i, name := range uniformNames(uniformsType) {
		loc := locate(name)
		if loc < 0 {
			log.Printf("uniform %v is not used by the program", name)
			continue
		}
		bound = append(bound, boundUniform{field: i, name: name, location: loc})
	}
	return bound
}

func loadUniforms(bound []boundUniform, u *programs.Uniforms) {
	v := reflect.ValueOf(u).Elem()
	for _, b := range bound {
		f := v.Field(b.field)
		if !setUniform(b.location, f) {
			log.Printf("unsupported uniform type %v for %v", f.Type(), b.name)
		}
	}
}

func setUniform(loc int32, f reflect.Value) bool {
	ptr := f.Addr().UnsafePointer()
	count := int32(1)

SwitchElem:
	switch f.Type() {
	case reflect.TypeOf(mgl32.Vec2{}):
		gl.Uniform2fv(loc, count, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Vec3{}):
		gl.Uniform3fv(loc, count, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Vec4{}):
		gl.Uniform4fv(loc, count, (*float32)(ptr))
	case reflect.TypeOf(mgl64.Vec2{}):
		gl.Uniform2dv(loc, count, (*float64)(ptr))
	case reflect.TypeOf(mgl64.Vec3{}):
		gl.Uniform3dv(loc, count, (*float64)(ptr))
	case reflect.TypeOf([2]int32{}):
		gl.Uniform2iv(loc, count, (*int32)(ptr))
	case reflect.TypeOf(mgl32.Mat4{}):
		gl.UniformMatrix4fv(loc, count, false, (*float32)(ptr))
	case reflect.TypeOf(int32(0)):
		gl.Uniform1iv(loc, count, (*int32)(ptr))
	case reflect.TypeOf(uint32(0)):
		gl.Uniform1uiv(loc, count, (*uint32)(ptr))
	case reflect.TypeOf(float32(0)):
		gl.Uniform1fv(loc, count, (*float32)(ptr))
	case reflect.TypeOf(float64(0)):
		gl.Uniform1dv(loc, count, (*float64)(ptr))
	default:
		// arrays of a supported element type upload as GLSL arrays
		if f.Kind() == reflect.Array && count == 1 && f.Len() > 0 {
			count = int32(f.Len())
			f = f.Index(0)
			goto SwitchElem
		}
		return false
	}

	return true
}
