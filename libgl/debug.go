package libgl

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type LabeledGlObject interface {
	SetDebugLabel(label string)
}

func setObjectLabel(namespace, id uint32, label string) {
	if label == "" {
		return
	}
	bytes := []byte(label)
	gl.ObjectLabel(namespace, id, int32(len(bytes)), (*uint8)(unsafe.Pointer(&bytes[0])))
}

// EnableDebugOutput routes driver messages to the standard logger.
// Notifications are dropped unless verbose is set.
func EnableDebugOutput(verbose bool) {
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		if severity == gl.DEBUG_SEVERITY_NOTIFICATION && !verbose {
			return
		}
		log.Printf("GL %v %v (%d): %v\n", debugSeverityName(severity), debugTypeName(gltype), id, message)
	}, nil)
}

// PushDebugGroup annotates the following commands in tools like RenderDoc.
// Every call must be paired with PopDebugGroup.
func PushDebugGroup(name string) {
	gl.PushDebugGroup(gl.DEBUG_SOURCE_APPLICATION, 0, -1, gl.Str(name+"\x00"))
}

func PopDebugGroup() {
	gl.PopDebugGroup()
}

func debugSeverityName(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	}
	return "note"
}

func debugTypeName(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecated"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefined behavior"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	}
	return "other"
}
