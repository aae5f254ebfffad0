package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. The Reader* fields only provide defaults
// for the command-line flags.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	FFmpegBin      string `env:"FFMPEG_BIN"      envDefault:"ffmpeg"`
	FFprobeBin     string `env:"FFPROBE_BIN"     envDefault:"ffprobe"`
	FFmpegLogLevel string `env:"FFMPEG_LOGLEVEL" envDefault:"error"`
	Probe          bool   `env:"READER_PROBE"    envDefault:"true"`

	ReaderBits      int `env:"READER_BITS"      envDefault:"960"`
	ReaderThreshold int `env:"READER_THRESHOLD" envDefault:"100"`
	ReaderTop       int `env:"READER_TOP"       envDefault:"1320"`
	ReaderBottom    int `env:"READER_BOTTOM"    envDefault:"1367"`

	MetricsPort    int    `env:"METRICS_PORT"    envDefault:"0"`
	JaegerEndpoint string `env:"JAEGER_ENDPOINT" envDefault:""`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}
