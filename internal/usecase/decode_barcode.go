package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fiapx/fiapx-barcode-reader/internal/domain/barcode"
	"github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"
	"github.com/fiapx/fiapx-barcode-reader/internal/domain/port"
	"github.com/fiapx/fiapx-barcode-reader/internal/infra/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type DecodeBarcodeUseCase struct {
	opener port.FrameSourceOpener
	sink   port.TransitionSink
	prober port.VideoProber
	logger *zap.Logger
}

// Result summarises a run. It is returned even when the run fails.
type Result struct {
	RunID       uuid.UUID
	Frames      int
	Transitions int
	Elapsed     time.Duration
}

// NewDecodeBarcodeUseCase wires a run. prober may be nil to skip the source probe.
func NewDecodeBarcodeUseCase(
	opener port.FrameSourceOpener,
	sink port.TransitionSink,
	prober port.VideoProber,
	logger *zap.Logger,
) *DecodeBarcodeUseCase {
	return &DecodeBarcodeUseCase{
		opener: opener,
		sink:   sink,
		prober: prober,
		logger: logger,
	}
}

func (uc *DecodeBarcodeUseCase) Execute(ctx context.Context, params entity.Params) (*Result, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "DecodeBarcodeUseCase.Execute")
	defer span.End()

	start := time.Now()
	res := &Result{RunID: uuid.New()}
	span.SetAttributes(
		attribute.String("run.id", res.RunID.String()),
		attribute.String("video.file", params.Filename),
		attribute.Int("decode.bits", params.Bits),
		attribute.Int("decode.threshold", params.Threshold),
		attribute.Int("crop.top", params.Top),
		attribute.Int("crop.bottom", params.Bottom),
	)

	log := uc.logger.With(zap.String("run_id", res.RunID.String()), zap.String("file", params.Filename))

	err := uc.run(ctx, params, res, log)
	res.Elapsed = time.Since(start)
	metrics.DecodeDuration.Observe(res.Elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("decode.frames", res.Frames),
		attribute.Int("decode.transitions", res.Transitions),
	)

	if err != nil {
		metrics.RunsTotal.WithLabelValues(outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("decode failed",
			zap.Error(err),
			zap.Int("frames", res.Frames),
			zap.Int("transitions", res.Transitions),
		)
		return res, err
	}

	metrics.RunsTotal.WithLabelValues("completed").Inc()
	log.Info("decode completed",
		zap.Int("frames", res.Frames),
		zap.Int("transitions", res.Transitions),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (uc *DecodeBarcodeUseCase) run(ctx context.Context, params entity.Params, res *Result, log *zap.Logger) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.Bits%barcode.DefaultGroupSize != 0 {
		log.Warn("bits is not a multiple of 4, trailing samples are ignored",
			zap.Int("bits", params.Bits),
			zap.Int("code_length", params.CodeLength()),
		)
	}

	uc.probe(ctx, params, log)

	src, err := uc.opener.Open(ctx, params)
	if err != nil {
		return err
	}

	loopErr := uc.consume(ctx, src, params, res)
	closeErr := src.Close()
	if loopErr != nil {
		if closeErr != nil {
			log.Debug("decoder close after failure", zap.Error(closeErr))
		}
		return loopErr
	}
	return closeErr
}

func (uc *DecodeBarcodeUseCase) consume(ctx context.Context, src port.FrameSource, params entity.Params, res *Result) error {
	dec := barcode.NewDecoder(barcode.NewBitExtractor(params.Threshold))
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		tr, changed := dec.Feed(frame)
		res.Frames = dec.Frames()
		metrics.FramesReadTotal.Inc()
		if !changed {
			continue
		}
		if err := uc.sink.Emit(ctx, tr); err != nil {
			return err
		}
		res.Transitions++
		metrics.TransitionsTotal.Inc()
	}
}

// probe only warns: the decoder decides what an oversized band or sample count means.
func (uc *DecodeBarcodeUseCase) probe(ctx context.Context, params entity.Params, log *zap.Logger) {
	if uc.prober == nil {
		return
	}
	info, err := uc.prober.Probe(ctx, params.Filename)
	if err != nil {
		log.Warn("could not probe video", zap.Error(err))
		return
	}

	log.Debug("video probed",
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Float64("duration", info.Duration),
	)
	if info.Height > 0 && params.Bottom > info.Height {
		log.Warn("crop band extends past the video height",
			zap.Int("bottom", params.Bottom),
			zap.Int("height", info.Height),
		)
	}
	if info.Width > 0 && params.Bits > info.Width {
		log.Warn("more samples requested than the video is wide",
			zap.Int("bits", params.Bits),
			zap.Int("width", info.Width),
		)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, entity.ErrDecodeStart):
		return "start_failed"
	case errors.Is(err, entity.ErrStream):
		return "stream_failed"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "failed"
	}
}
