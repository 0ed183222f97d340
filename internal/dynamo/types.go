package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Distance is the Euclidean distance between two states of equal dimension.
func Distance(a, b State) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// StateSpaceSet is an ordered collection of points sharing one dimension.
// It is read-only once built.
type StateSpaceSet struct {
	points []State
	dim    int
}

// NewStateSpaceSet copies points into a new set. All points must have the
// same non-zero dimension and finite coordinates.
func NewStateSpaceSet(points []State) (*StateSpaceSet, error) {
	if len(points) == 0 {
		return nil, ErrEmptySet
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, fmt.Errorf("point 0: %w", ErrDimensionMismatch)
	}

	owned := make([]State, len(points))
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("point %d has dimension %d, want %d: %w", i, len(p), dim, ErrDimensionMismatch)
		}
		if !p.IsValid() {
			return nil, fmt.Errorf("point %d: %w", i, ErrInvalidState)
		}
		owned[i] = p.Clone()
	}
	return &StateSpaceSet{points: owned, dim: dim}, nil
}

// FromRows builds a set from a row-major matrix.
func FromRows(rows [][]float64) (*StateSpaceSet, error) {
	points := make([]State, len(rows))
	for i, r := range rows {
		points[i] = State(r)
	}
	return NewStateSpaceSet(points)
}

func (s *StateSpaceSet) Len() int { return len(s.points) }
func (s *StateSpaceSet) Dim() int { return s.dim }

// At returns point i. The returned slice must not be modified.
func (s *StateSpaceSet) At(i int) State { return s.points[i] }

// Index returns the position of the first point exactly equal to p, or -1.
func (s *StateSpaceSet) Index(p State) int {
	for i, q := range s.points {
		if q.Equal(p) {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the points as a row-major matrix.
func (s *StateSpaceSet) Rows() [][]float64 {
	rows := make([][]float64, len(s.points))
	for i, p := range s.points {
		rows[i] = p.Clone()
	}
	return rows
}

// System is a continuous-time flow.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Map is a discrete-time dynamical system.
type Map interface {
	Next(x State) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config controls how a trajectory is sampled into a set.
type Config struct {
	Dt            float64
	Samples       int
	Transient     float64
	Stride        int
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Samples:       2000,
		Transient:     50.0,
		Stride:        5,
		Tolerance:     1e-6,
		MaxDt:         0.1,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
