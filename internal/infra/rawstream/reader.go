package rawstream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
)

// ReaderSource cuts a byte stream into frames of frameSize bytes.
// A short final frame is treated as end of stream.
type ReaderSource struct {
	r      io.Reader
	buf    []byte
	closer io.Closer
}

func NewReaderSource(r io.Reader, frameSize int) (*ReaderSource, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: frame size must be positive, got %d", entity.ErrInvalidArgument, frameSize)
	}
	s := &ReaderSource{r: r, buf: make([]byte, frameSize)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

func (s *ReaderSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err := io.ReadFull(s.r, s.buf)
	switch {
	case err == nil:
		return s.buf, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("%w: read frame: %v", entity.ErrStream, err)
	}
}

func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
