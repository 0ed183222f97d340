package evt

import (
	"fmt"
	"math"
	"strings"
)

// Estimate is the outcome of one tail fit.
type Estimate struct {
	// Dim is the local dimension Δ.
	Dim float64
	// Theta is the extremal index θ, NaN when persistence was not requested.
	Theta float64
}

// Extraction is a tail-estimation strategy. Implementations turn a
// log-distance observable into (Δ, θ); callers never switch on the
// concrete type.
type Extraction interface {
	// Validate reports configuration errors before any estimation.
	Validate() error
	// Estimate fits the tail of g. s may be nil.
	Estimate(g []float64, s *Scratch, persistence bool) (Estimate, error)
	String() string
}

// Exceedances fits a GPD to the values of g above its P-quantile.
type Exceedances struct {
	P         float64
	Estimator string
}

func (e Exceedances) Validate() error {
	if err := checkProbability(e.P); err != nil {
		return err
	}
	return checkEstimator(e.Estimator, gpdEstimators)
}

func (e Exceedances) Estimate(g []float64, s *Scratch, persistence bool) (Estimate, error) {
	s = orNew(s, len(g))

	sel, err := SelectExceedances(g, e.P, s)
	if err != nil {
		return Estimate{}, err
	}
	fit, err := FitGPD(sel.Values, e.Estimator)
	if err != nil {
		return Estimate{}, fmt.Errorf("%d exceedances over %v: %w", len(sel.Values), sel.Threshold, err)
	}

	est := Estimate{Dim: fit.Dimension(), Theta: math.NaN()}
	if persistence {
		est.Theta, err = SuevegesThreshold(g, e.P, sel.Threshold)
		if err != nil {
			return Estimate{}, err
		}
	}
	return est, nil
}

func (e Exceedances) String() string {
	return fmt.Sprintf("Exceedances(p=%g, estimator=%s)", e.P, e.Estimator)
}

// BlockMaxima fits a GEV to the maxima of contiguous blocks of g.
//
// Persistence uses the Süveges estimator at p = 1 - 1/BlockSize, the level
// exceeded on average once per block (blocks of size 1 use p = 0.5).
type BlockMaxima struct {
	BlockSize int
	Estimator string
}

func (b BlockMaxima) Validate() error {
	if b.BlockSize < 1 {
		return &ConfigError{Field: "blocksize", Value: b.BlockSize, Err: ErrInvalidBlockSize}
	}
	return checkEstimator(b.Estimator, gevEstimators)
}

func (b BlockMaxima) Estimate(g []float64, s *Scratch, persistence bool) (Estimate, error) {
	s = orNew(s, len(g))

	maxima, err := BlockMaximaSample(g, b.BlockSize, s.valueBuffer(len(g)/max(b.BlockSize, 1)))
	if err != nil {
		return Estimate{}, err
	}
	fit, err := FitGEV(maxima, b.Estimator)
	if err != nil {
		return Estimate{}, fmt.Errorf("%d block maxima: %w", len(maxima), err)
	}

	est := Estimate{Dim: fit.Dimension(), Theta: math.NaN()}
	if persistence {
		p := b.persistenceProbability()
		u := quantileSorted(s.sortedCopy(g), p)
		est.Theta, err = SuevegesThreshold(g, p, u)
		if err != nil {
			return Estimate{}, err
		}
	}
	return est, nil
}

func (b BlockMaxima) persistenceProbability() float64 {
	if b.BlockSize < 2 {
		return 0.5
	}
	return 1 - 1/float64(b.BlockSize)
}

func (b BlockMaxima) String() string {
	return fmt.Sprintf("BlockMaxima(blocksize=%d, estimator=%s)", b.BlockSize, b.Estimator)
}

// Extraction kinds accepted by [NewExtraction].
const (
	KindExceedances = "exceedances"
	KindBlockMaxima = "blockmaxima"
)

// NewExtraction builds and validates an extraction from loose configuration
// values, as found in config files and command-line flags.
func NewExtraction(kind string, p float64, blockSize int, estimator string) (Extraction, error) {
	var ex Extraction
	switch strings.ReplaceAll(strings.ToLower(kind), "_", "") {
	case KindExceedances:
		if estimator == "" {
			estimator = EstimatorExp
		}
		ex = Exceedances{P: p, Estimator: estimator}
	case KindBlockMaxima:
		if estimator == "" {
			estimator = EstimatorMoments
		}
		ex = BlockMaxima{BlockSize: blockSize, Estimator: estimator}
	default:
		return nil, &ConfigError{Field: "extraction", Value: kind, Err: ErrUnknownExtraction}
	}

	if err := ex.Validate(); err != nil {
		return nil, err
	}
	return ex, nil
}
