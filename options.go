package multiview

import "math"

type options struct {
	logger      *Logger
	parallelism int
	maxCost     float64
}

func defaultOptions() *options {
	return &options{
		logger:      NoopLogger(),
		parallelism: 1,
		maxCost:     math.Inf(1),
	}
}

// Option configures the reconstruction pipeline.
type Option func(*options)

// WithLogger configures the logger used by the pipeline.
//
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallelism configures the number of workers used to triangulate
// matched pairs concurrently. Values <= 1 keep the pipeline serial.
// Output order is unaffected.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMaxCost configures a gate on the epipolar consistency cost: a
// matched pair whose cost exceeds the gate is dropped instead of
// triangulated. The default is +Inf (no gating).
func WithMaxCost(c float64) Option {
	return func(o *options) {
		o.maxCost = c
	}
}
