package port

import (
	"context"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
)

// FrameSource yields fixed-size frames until io.EOF. The returned slice may be
// reused by the next call.
type FrameSource interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// FrameSourceOpener starts a new FrameSource for one run.
type FrameSourceOpener interface {
	Open(ctx context.Context, params entity.Params) (FrameSource, error)
}
