package entity

import "strconv"

// Frame is one decoded row of gray samples. It is only valid until the next read.
type Frame []byte

// Transition is a frame whose code differs from the previously emitted one.
type Transition struct {
	Index int
	Code  string
}

func (t Transition) String() string {
	return strconv.Itoa(t.Index) + " " + t.Code
}
