// Package glerror reports errors raised by the OpenGL driver.
package glerror

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// ErrGL is wrapped by every error returned from Check.
var ErrGL = errors.New("gl error")

// maxDrain bounds Drain. Without a current context some drivers keep
// returning the same error forever.
const maxDrain = 64

// String returns the name of a glGetError code.
func String(code uint32) string {
	switch code {
	case gl.NO_ERROR:
		return "GL_NO_ERROR"
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case gl.STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	default:
		return "Not a valid GLerror"
	}
}

// Error is a code returned by glGetError.
type Error uint32

func (e Error) Error() string {
	return String(uint32(e))
}

func (e Error) Unwrap() error {
	return ErrGL
}

// Drain calls get until it reports GL_NO_ERROR and returns everything it saw.
func Drain(get func() uint32) []Error {
	var errs []Error
	for i := 0; i < maxDrain; i++ {
		code := get()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, Error(code))
	}
	return errs
}

// Check drains the GL error queue of the current context, logging each error.
func Check() error {
	return check(gl.GetError)
}

func check(get func() uint32) error {
	pending := Drain(get)
	if len(pending) == 0 {
		return nil
	}

	errs := make([]error, len(pending))
	for i, e := range pending {
		log.Printf("GL error: %v", e)
		errs[i] = e
	}

	return fmt.Errorf("expected no GL errors: %w", errors.Join(errs...))
}
