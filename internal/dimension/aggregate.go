package dimension

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
)

// Dims returns the local dimensions of every point of X without
// computing persistences.
func Dims(ctx context.Context, X *dynamo.StateSpaceSet, typ evt.Extraction, opts ...Option) ([]float64, error) {
	res, err := DimsPersistences(ctx, X, typ, append(opts[:len(opts):len(opts)], WithComputePersistence(false))...)
	if err != nil {
		return nil, err
	}
	return res.Dims, nil
}

// Dim is the mean local dimension of X.
func Dim(ctx context.Context, X *dynamo.StateSpaceSet, typ evt.Extraction, opts ...Option) (float64, error) {
	res, err := DimsPersistences(ctx, X, typ, append(opts[:len(opts):len(opts)], WithComputePersistence(false))...)
	if err != nil {
		return 0, err
	}
	return res.MeanDim(), nil
}

// DimsPersistencesProbability is DimsPersistences with
// evt.Exceedances{P: p, Estimator: evt.EstimatorExp}.
//
// Deprecated: pass an explicit evt.Extraction to DimsPersistences.
func DimsPersistencesProbability(ctx context.Context, X *dynamo.StateSpaceSet, p float64, opts ...Option) (*Result, error) {
	newOptions(opts).log(ctx).Warn(
		"a bare quantile probability is deprecated, pass evt.Exceedances explicitly",
		zap.Float64("p", p),
		zap.String("estimator", evt.EstimatorExp),
	)
	return DimsPersistences(ctx, X, evt.Exceedances{P: p, Estimator: evt.EstimatorExp}, opts...)
}
