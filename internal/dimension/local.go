package dimension

import (
	"fmt"
	"math"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
)

// LogDistances fills dst with -log‖x_i − ζ‖ for every point of X except
// index skip and returns it. Points that coincide with ζ have no finite
// observable and are left out. Pass skip < 0 to keep every point.
func LogDistances(dst []float64, X *dynamo.StateSpaceSet, zeta dynamo.State, skip int) []float64 {
	dst = dst[:0]
	for i := 0; i < X.Len(); i++ {
		if i == skip {
			continue
		}
		d := dynamo.Distance(X.At(i), zeta)
		if d == 0 {
			continue
		}
		dst = append(dst, -math.Log(d))
	}
	return dst
}

// Worker owns the buffers for estimating one point at a time. A worker must
// not be shared between goroutines.
type Worker struct {
	g       []float64
	scratch *evt.Scratch
}

// NewWorker returns a worker sized for sets of n points.
func NewWorker(n int) *Worker {
	return &Worker{
		g:       make([]float64, 0, n),
		scratch: evt.NewScratch(n),
	}
}

// Evaluate estimates (Δ, θ) for point j of X.
func (w *Worker) Evaluate(X *dynamo.StateSpaceSet, j int, typ evt.Extraction, persistence bool) (evt.Estimate, error) {
	return w.evaluate(X, X.At(j), j, typ, persistence)
}

func (w *Worker) evaluate(X *dynamo.StateSpaceSet, zeta dynamo.State, skip int, typ evt.Extraction, persistence bool) (evt.Estimate, error) {
	w.g = LogDistances(w.g, X, zeta, skip)
	return typ.Estimate(w.g, w.scratch, persistence)
}

// LocalDimPersistence estimates (Δ, θ) at an arbitrary reference point ζ.
// If ζ is a member of X it is excluded from its own observable.
func LocalDimPersistence(X *dynamo.StateSpaceSet, zeta dynamo.State, typ evt.Extraction, opts ...Option) (evt.Estimate, error) {
	o := newOptions(opts)
	if err := checkInput(X, typ); err != nil {
		return evt.Estimate{}, err
	}
	if len(zeta) != X.Dim() {
		return evt.Estimate{}, fmt.Errorf("reference point has dimension %d, set has %d: %w", len(zeta), X.Dim(), dynamo.ErrDimensionMismatch)
	}
	return NewWorker(X.Len()).evaluate(X, zeta, X.Index(zeta), typ, o.persistence)
}

// LocalFromLogDistances estimates (Δ, θ) from a precomputed observable.
func LocalFromLogDistances(g []float64, typ evt.Extraction, opts ...Option) (evt.Estimate, error) {
	o := newOptions(opts)
	if err := validate(typ); err != nil {
		return evt.Estimate{}, err
	}
	return typ.Estimate(g, nil, o.persistence)
}

func validate(typ evt.Extraction) error {
	if typ == nil {
		return &evt.ConfigError{Field: "extraction", Value: nil, Err: evt.ErrUnknownExtraction}
	}
	return typ.Validate()
}

func checkInput(X *dynamo.StateSpaceSet, typ evt.Extraction) error {
	if err := validate(typ); err != nil {
		return err
	}
	if X == nil || X.Len() < 2 {
		return dynamo.ErrEmptySet
	}
	return nil
}
