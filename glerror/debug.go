package glerror

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// EnableDebugOutput installs DebugMessage as the KHR_debug callback.
// It needs a current 4.3+ context.
func EnableDebugOutput() {
	gl.DebugMessageCallback(DebugMessage, nil)
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
}

func DebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	log.Printf("%v(%v): %v; %v\n",
		debugSource(source),
		debugSeverity(severity),
		debugType(gltype),
		message,
	)
}

func debugSeverity(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "notification"
	}
	return "unknown"
}

func debugSource(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "application"
	case gl.DEBUG_SOURCE_OTHER:
		return "other"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "windowSystem"
	}
	return "unknownSource"
}

func debugType(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecatedBehavior"
	case gl.DEBUG_TYPE_MARKER:
		return "marker"
	case gl.DEBUG_TYPE_OTHER:
		return "other"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "popGroup"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "pushGroup"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefinedBehavior"
	}
	return "unknownType"
}
