package port

import "context"

type VideoInfo struct {
	Width    int
	Height   int
	Duration float64
}

type VideoProber interface {
	Probe(ctx context.Context, videoPath string) (*VideoInfo, error)
}
