package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barcode_runs_total",
		Help: "Total number of decode runs, by outcome",
	}, []string{"status"})

	DecodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barcode_decode_duration_seconds",
		Help:    "Wall time of a decode run",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	})

	FramesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barcode_frames_read_total",
		Help: "Total number of frames read from the decoder",
	})

	TransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barcode_transitions_total",
		Help: "Total number of code transitions emitted",
	})
)
