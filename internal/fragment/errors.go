package fragment

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic means the buffer does not carry the FRAGMENT signature.
	ErrBadMagic = errors.New("fragment: bad magic")
	// ErrTextureIndex means a material binding names a texture the bank lacks.
	ErrTextureIndex = errors.New("fragment: texture index out of range")
	// ErrPaletteIndex means a material binding names a palette the bank lacks.
	ErrPaletteIndex = errors.New("fragment: palette index out of range")
)

// DecodeError locates a failure inside one decode pass.
type DecodeError struct {
	Stage  string // unwrap, header, relocate, bank, opcode 0xNN, ...
	Offset int    // byte offset of the record being processed
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("fragment: %s at 0x%X: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func stageErr(stage string, off int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Stage: stage, Offset: off, Err: err}
}
