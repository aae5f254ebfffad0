package output

import (
	"context"
	"fmt"
	"io"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
)

// LineWriter prints one "<index> <code>" line per transition as soon as it is emitted.
type LineWriter struct {
	w io.Writer
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

func (lw *LineWriter) Emit(_ context.Context, t entity.Transition) error {
	if _, err := fmt.Fprintf(lw.w, "%d %s\n", t.Index, t.Code); err != nil {
		return fmt.Errorf("write transition: %w", err)
	}
	return nil
}
