package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
	"github.com/fiapx/fiapx-barcode-reader/internal/domain/port"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/config"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/ffmpeg"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/metrics"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/output"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/tracing"
	"github.com/fiapx/fiapx-barcode-reader/internal/usecase"
	"github.com/fiapx/fiapx-barcode-reader/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "reader: load config: %v\n", err)
		return exitUsage
	}

	params, err := parseArgs(args, cfg, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "reader: init logger: %v\n", err)
		return exitUsage
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.JaegerEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
		}
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	metrics.StartMetricsServer(metricsCtx, cfg.MetricsPort, log)

	var prober port.VideoProber
	if cfg.Probe {
		prober = ffmpeg.NewProber(cfg.FFprobeBin)
	}
	opener := ffmpeg.NewOpener(ffmpeg.SourceConfig{
		Binary:   cfg.FFmpegBin,
		LogLevel: cfg.FFmpegLogLevel,
		Stderr:   stderr,
	}, log)

	uc := usecase.NewDecodeBarcodeUseCase(opener, output.NewLineWriter(stdout), prober, log)
	if _, err := uc.Execute(ctx, params); err != nil {
		if errors.Is(err, entity.ErrInvalidArgument) {
			fmt.Fprintf(stderr, "reader: %v\n", err)
			return exitUsage
		}
		return exitFailure
	}
	return exitOK
}

func parseArgs(args []string, cfg *config.Config, stderr io.Writer) (entity.Params, error) {
	fs := pflag.NewFlagSet("reader", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	var params entity.Params
	fs.IntVarP(&params.Bits, "bits", "B", cfg.ReaderBits, "samples per row, one bit each (BITS/4 hex digits per code)")
	fs.IntVarP(&params.Threshold, "threshold", "T", cfg.ReaderThreshold, "brightness LEVEL at or above which a sample is 1")
	fs.IntVarP(&params.Top, "top", "t", cfg.ReaderTop, "first pixel row Y of the crop band")
	fs.IntVarP(&params.Bottom, "bottom", "b", cfg.ReaderBottom, "pixel row Y just below the crop band")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: reader FILE [-B BITS] [-T LEVEL] [-t Y] [-b Y]\n\n")
		fmt.Fprintf(stderr, "Prints \"<frame> <hex code>\" each time the barcode in the band changes.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return params, err
	}
	switch fs.NArg() {
	case 1:
		params.Filename = fs.Arg(0)
	case 0:
		fmt.Fprintf(stderr, "reader: missing FILE argument\n")
		fs.Usage()
		return params, fmt.Errorf("%w: missing FILE argument", entity.ErrInvalidArgument)
	default:
		fmt.Fprintf(stderr, "reader: unexpected arguments: %v\n", fs.Args()[1:])
		fs.Usage()
		return params, fmt.Errorf("%w: unexpected arguments", entity.ErrInvalidArgument)
	}
	return params, nil
}
