package entity

import "errors"

var (
	// ErrInvalidArgument is returned for parameters rejected before the decoder is spawned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDecodeStart means the decoder could not be launched or produced no frames before failing.
	ErrDecodeStart = errors.New("decoder failed to start")
	// ErrStream means the decoder failed after some frames were already delivered.
	ErrStream = errors.New("decoder stream failed")
)
