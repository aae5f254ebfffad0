package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/port"
)

type Prober struct {
	binary string
}

func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) Probe(ctx context.Context, videoPath string) (*port.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "json",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (*port.VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	info := &port.VideoInfo{
		Width:  out.Streams[0].Width,
		Height: out.Streams[0].Height,
	}
	if d := strings.TrimSpace(out.Format.Duration); d != "" && d != "N/A" {
		duration, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration: %w", err)
		}
		info.Duration = duration
	}
	return info, nil
}
