//go:build !windows

package d3d11

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
)

// NewNative is only available on windows.
func NewNative(hwnd uintptr, opts NativeOptions) (*Backend, error) {
	return nil, fmt.Errorf("%w: Direct3D 11 requires windows", core.ErrBackendUnavailable)
}
