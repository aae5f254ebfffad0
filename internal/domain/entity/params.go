package entity

import (
	"fmt"
	"strings"
)

// Params holds the immutable settings for one decoding run.
type Params struct {
	Filename  string
	Bits      int
	Threshold int
	Top       int
	Bottom    int
}

// Validate rejects parameters that would never reach the decoder.
// Bits that are not a multiple of 4 are accepted; the trailing samples are ignored.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Filename) == "" {
		return fmt.Errorf("%w: missing input file", ErrInvalidArgument)
	}
	if p.Bits <= 0 {
		return fmt.Errorf("%w: bits must be positive, got %d", ErrInvalidArgument, p.Bits)
	}
	if p.CropHeight() <= 0 {
		return fmt.Errorf("%w: bottom (%d) must be greater than top (%d)", ErrInvalidArgument, p.Bottom, p.Top)
	}
	return nil
}

func (p Params) CropHeight() int {
	return p.Bottom - p.Top
}

// CodeLength is the number of hex digits in every code produced with these params.
func (p Params) CodeLength() int {
	return p.Bits / 4
}
