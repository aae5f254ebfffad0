package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
	"github.com/fiapx/fiapx-barcode-reader/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildArgs(t *testing.T) {
	params := entity.Params{Filename: "in.mp4", Bits: 960, Threshold: 100, Top: 1320, Bottom: 1367}

	args := buildArgs(params, "error")

	assert.Equal(t, []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", "in.mp4",
		"-vf", "crop=h=47:y=1320,scale=960:1",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	}, args)
}

func TestOpenRejectsBadCropBeforeSpawn(t *testing.T) {
	opener := NewOpener(SourceConfig{Binary: "/nonexistent/ffmpeg"}, zap.NewNop())

	_, err := opener.Open(context.Background(), entity.Params{Filename: "in.mp4", Bits: 8, Top: 10, Bottom: 4})

	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestOpenMissingBinary(t *testing.T) {
	opener := NewOpener(SourceConfig{Binary: "/nonexistent/ffmpeg"}, zap.NewNop())

	_, err := opener.Open(context.Background(), entity.Params{Filename: "in.mp4", Bits: 8, Top: 0, Bottom: 4})

	assert.ErrorIs(t, err, entity.ErrDecodeStart)
}

// fakeDecoder writes a script that ignores its arguments, prints the given octal
// escaped bytes and exits with code.
func fakeDecoder(t *testing.T, payload string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script decoder requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	script := "#!/bin/sh\nprintf '" + payload + "'\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func readAll(t *testing.T, src port.FrameSource) [][]byte {
	t.Helper()
	var frames [][]byte
	for {
		f, err := src.Next(context.Background())
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, append([]byte(nil), f...))
	}
}

func TestSourceCleanExit(t *testing.T) {
	bin := fakeDecoder(t, `\310\310\310\310\000\000\000\000\001`, 0)
	opener := NewOpener(SourceConfig{Binary: bin, Stderr: io.Discard}, zap.NewNop())

	src, err := opener.Open(context.Background(), entity.Params{Filename: "x", Bits: 4, Top: 0, Bottom: 1})
	require.NoError(t, err)

	frames := readAll(t, src)
	assert.Equal(t, [][]byte{{200, 200, 200, 200}, {0, 0, 0, 0}}, frames)
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())
}

func TestSourceFailureAfterOutputIsStreamError(t *testing.T) {
	bin := fakeDecoder(t, `\310\310\310\310`, 1)
	opener := NewOpener(SourceConfig{Binary: bin, Stderr: io.Discard}, zap.NewNop())

	src, err := opener.Open(context.Background(), entity.Params{Filename: "x", Bits: 4, Top: 0, Bottom: 1})
	require.NoError(t, err)

	assert.Len(t, readAll(t, src), 1)
	err = src.Close()
	assert.ErrorIs(t, err, entity.ErrStream)
}

func TestSourceFailureWithoutOutputIsDecodeStartError(t *testing.T) {
	bin := fakeDecoder(t, ``, 1)
	opener := NewOpener(SourceConfig{Binary: bin, Stderr: io.Discard}, zap.NewNop())

	src, err := opener.Open(context.Background(), entity.Params{Filename: "x", Bits: 4, Top: 0, Bottom: 1})
	require.NoError(t, err)

	assert.Empty(t, readAll(t, src))
	assert.ErrorIs(t, src.Close(), entity.ErrDecodeStart)
}

func TestSourceCloseBeforeEOFReapsProcess(t *testing.T) {
	bin := fakeDecoder(t, `\310\310\310\310\310\310\310\310`, 0)
	opener := NewOpener(SourceConfig{Binary: bin, Stderr: io.Discard}, zap.NewNop())

	src, err := opener.Open(context.Background(), entity.Params{Filename: "x", Bits: 4, Top: 0, Bottom: 1})
	require.NoError(t, err)

	_, err = src.Next(context.Background())
	require.NoError(t, err)
	assert.NoError(t, src.Close())
	assert.NotNil(t, src.(*Source).cmd.ProcessState)
}

func TestSourceRealVideo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found on PATH")
	}

	dir := t.TempDir()
	video := filepath.Join(dir, "white.mkv")
	gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=c=white:size=64x32:rate=5:duration=1",
		"-c:v", "ffv1", video)
	out, err := gen.CombinedOutput()
	require.NoError(t, err, string(out))

	var stderr bytes.Buffer
	opener := NewOpener(SourceConfig{Stderr: &stderr}, zap.NewNop())
	src, err := opener.Open(context.Background(), entity.Params{Filename: video, Bits: 16, Top: 8, Bottom: 16})
	require.NoError(t, err)

	frames := readAll(t, src)
	require.NoError(t, src.Close(), stderr.String())
	require.NotEmpty(t, frames)
	for _, f := range frames {
		assert.Len(t, f, 16)
		for _, b := range f {
			assert.GreaterOrEqual(t, b, byte(200))
		}
	}
}

func TestSourceRealVideoMissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found on PATH")
	}

	opener := NewOpener(SourceConfig{Stderr: io.Discard}, zap.NewNop())
	src, err := opener.Open(context.Background(), entity.Params{
		Filename: filepath.Join(t.TempDir(), "missing.mp4"), Bits: 8, Top: 0, Bottom: 1,
	})
	require.NoError(t, err)

	assert.Empty(t, readAll(t, src))
	assert.ErrorIs(t, src.Close(), entity.ErrDecodeStart)
}
