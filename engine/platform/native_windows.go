package platform

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandle(w *glfw.Window) uintptr {
	return uintptr(unsafe.Pointer(w.GetWin32Window()))
}
