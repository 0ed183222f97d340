package dimension

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/san-kum/evtdim/internal/logging"
	"github.com/san-kum/evtdim/internal/progress"
)

// Option configures an estimation run.
type Option func(*options)

type options struct {
	persistence  bool
	showProgress bool
	sink         progress.Sink
	workers      int
	logger       *zap.Logger
}

func newOptions(opts []Option) options {
	o := options{persistence: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithComputePersistence toggles the extremal index. When off every θ is NaN.
// Default true.
func WithComputePersistence(on bool) Option {
	return func(o *options) { o.persistence = on }
}

// WithShowProgress prints a point counter to stderr unless a sink is set
// with WithProgress.
func WithShowProgress(on bool) Option {
	return func(o *options) { o.showProgress = on }
}

// WithProgress reports every finished point to s. s is called from all
// workers concurrently.
func WithProgress(s progress.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithWorkers sets the pool size. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger overrides the logger taken from the context.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func (o options) log(ctx context.Context) *zap.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logging.FromContext(ctx)
}

func (o options) progress(total int) progress.Sink {
	switch {
	case o.sink != nil:
		return o.sink
	case o.showProgress:
		return progress.NewCounter(total, progress.Text(os.Stderr, "points"))
	}
	return progress.Nop{}
}
