package port

import (
	"context"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
)

type TransitionSink interface {
	Emit(ctx context.Context, t entity.Transition) error
}
