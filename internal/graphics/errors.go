package graphics

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferAllocation is returned when the device cannot allocate a buffer.
	// There is no fallback rendering path, callers should treat it as fatal.
	ErrBufferAllocation = errors.New("buffer allocation failed")
	// ErrNoActiveProgram is returned by Draw before any program was activated
	ErrNoActiveProgram = errors.New("no active program")
	// ErrInvalidLayout is returned for attribute layouts the uploader cannot express
	ErrInvalidLayout = errors.New("invalid attribute layout")
)

// CompileError carries the shader compiler log for one stage
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the program linker log
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
