package dimension

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
)

// Result holds one (Δ, θ) pair per point, in point order.
type Result struct {
	Dims   []float64
	Thetas []float64
}

// MeanDim is the dimension estimate for the whole set.
func (r *Result) MeanDim() float64 {
	return stat.Mean(r.Dims, nil)
}

// MeanTheta averages the finite extremal indices. It is NaN when
// persistence was not computed.
func (r *Result) MeanTheta() float64 {
	sum, n := 0.0, 0
	for _, th := range r.Thetas {
		if !math.IsNaN(th) {
			sum += th
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// PointError reports the point whose estimation aborted a batch.
type PointError struct {
	Index int
	Err   error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %d: %v", e.Index, e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}

// DimsPersistences estimates (Δ, θ) for every point of X.
//
// Points are split across a fixed pool of workers, each owning one Worker
// for its lifetime. The first estimation error stops the pool and is
// returned as a *PointError; no partial result is returned.
func DimsPersistences(ctx context.Context, X *dynamo.StateSpaceSet, typ evt.Extraction, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if err := checkInput(X, typ); err != nil {
		return nil, err
	}

	n := X.Len()
	log := o.log(ctx).With(zap.Stringer("extraction", typ), zap.Int("points", n))
	sink := o.progress(n)
	res := &Result{
		Dims:   make([]float64, n),
		Thetas: make([]float64, n),
	}

	start := time.Now()
	log.Debug("estimating local dimensions", zap.Bool("persistence", o.persistence), zap.Int("workers", o.workers))

	err := dynamo.ForEach(ctx, n, o.workers,
		func() *Worker { return NewWorker(n) },
		func(_ context.Context, w *Worker, j int) error {
			est, err := w.Evaluate(X, j, typ, o.persistence)
			if err != nil {
				return &PointError{Index: j, Err: err}
			}
			res.Dims[j] = est.Dim
			res.Thetas[j] = est.Theta
			sink.Advance()
			return nil
		})
	if err != nil {
		log.Error("estimation failed", zap.Error(err))
		return nil, err
	}

	log.Info("estimated local dimensions",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("mean_dim", res.MeanDim()),
	)
	return res, nil
}
