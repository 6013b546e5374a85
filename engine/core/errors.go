package core

import (
	"errors"
)

var (
	ErrInvalidHandle       = errors.New("invalid or stale handle")
	ErrUnsupportedFormat   = errors.New("texture format not supported by backend")
	ErrLimitExceeded       = errors.New("backend limit exceeded")
	ErrUpdateOutOfRange    = errors.New("update exceeds destination size")
	ErrNotDynamic          = errors.New("resource was not created as dynamic")
	ErrShaderCompile       = errors.New("shader compilation failed")
	ErrShaderLink          = errors.New("shader program link failed")
	ErrMissingShaderSource = errors.New("no shader source for the active dialect")
	ErrDeviceLost          = errors.New("graphics device lost")
	ErrBackendUnavailable  = errors.New("render backend unavailable on this surface")
	ErrNotInFrame          = errors.New("draw command issued outside Begin/End")
	ErrPresent             = errors.New("present failed")
)
