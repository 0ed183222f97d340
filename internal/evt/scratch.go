package evt

import "sort"

// Scratch holds the buffers one estimation needs. It is not safe for
// concurrent use; give each worker its own.
type Scratch struct {
	sorted []float64
	values []float64
}

// NewScratch returns buffers sized for observables of length n.
func NewScratch(n int) *Scratch {
	s := &Scratch{}
	s.ensure(n)
	return s
}

func (s *Scratch) ensure(n int) {
	if cap(s.sorted) < n {
		s.sorted = make([]float64, n)
		s.values = make([]float64, n)
	}
}

func (s *Scratch) sortedCopy(x []float64) []float64 {
	s.ensure(len(x))
	sorted := s.sorted[:len(x)]
	copy(sorted, x)
	sort.Float64s(sorted)
	return sorted
}

func (s *Scratch) valueBuffer(n int) []float64 {
	s.ensure(n)
	return s.values[:0]
}

func orNew(s *Scratch, n int) *Scratch {
	if s == nil {
		return NewScratch(n)
	}
	return s
}
