package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
	"github.com/fiapx/fiapx-barcode-reader/internal/domain/port"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/rawstream"
	"go.uber.org/zap"
)

type SourceConfig struct {
	Binary   string
	LogLevel string
	// Stderr receives ffmpeg diagnostics untouched. Defaults to os.Stderr.
	Stderr io.Writer
}

// Opener launches one ffmpeg process per run that crops, scales and emits gray rows on stdout.
type Opener struct {
	cfg    SourceConfig
	logger *zap.Logger
}

func NewOpener(cfg SourceConfig, logger *zap.Logger) *Opener {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Opener{cfg: cfg, logger: logger}
}

func (o *Opener) Open(ctx context.Context, params entity.Params) (port.FrameSource, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	args := buildArgs(params, o.cfg.LogLevel)
	cmd := exec.CommandContext(ctx, o.cfg.Binary, args...)
	cmd.Stderr = o.cfg.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", entity.ErrDecodeStart, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", entity.ErrDecodeStart, o.cfg.Binary, err)
	}

	frames, err := rawstream.NewReaderSource(stdout, params.Bits)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	o.logger.Debug("ffmpeg started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args),
	)

	return &Source{cmd: cmd, frames: frames, logger: o.logger}, nil
}

func buildArgs(params entity.Params, logLevel string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", logLevel,
		"-nostdin",
		"-i", params.Filename,
		"-vf", fmt.Sprintf("crop=h=%d:y=%d,scale=%d:1", params.CropHeight(), params.Top, params.Bits),
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	}
}

// Source is a running ffmpeg process viewed as a FrameSource.
type Source struct {
	cmd    *exec.Cmd
	frames *rawstream.ReaderSource
	logger *zap.Logger

	read int
	eof  bool

	closeOnce sync.Once
	closeErr  error
}

func (s *Source) Next(ctx context.Context) ([]byte, error) {
	frame, err := s.frames.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.eof = true
		}
		return nil, err
	}
	s.read++
	return frame, nil
}

// Close reaps the process. If the stream was not read to the end the process is
// killed first and its exit status ignored. Otherwise a failed exit is reported as
// ErrDecodeStart when no frame was produced, or ErrStream after partial output.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		if !s.eof {
			_ = s.cmd.Process.Kill()
			_ = s.cmd.Wait()
			return
		}

		err := s.cmd.Wait()
		if err == nil {
			s.logger.Debug("ffmpeg exited", zap.Int("frames", s.read))
			return
		}
		if s.read == 0 {
			s.closeErr = fmt.Errorf("%w: ffmpeg exited without output: %v", entity.ErrDecodeStart, err)
			return
		}
		s.closeErr = fmt.Errorf("%w: ffmpeg exited after %d frames: %v", entity.ErrStream, s.read, err)
	})
	return s.closeErr
}

// FramesRead reports how many complete frames were delivered.
func (s *Source) FramesRead() int {
	return s.read
}
