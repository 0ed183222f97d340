package physics

import (
	"fmt"

	"github.com/san-kum/evtdim/internal/dynamo"
)

// Henon is the Hénon map. With the classic a=1.4, b=0.3 its attractor has
// a dimension close to 1.26.
type Henon struct{ a, b float64 }

func NewHenon() *Henon         { return &Henon{1.4, 0.3} }
func (h *Henon) StateDim() int { return 2 }

func (h *Henon) Next(s dynamo.State) dynamo.State {
	return dynamo.State{1 - h.a*s[0]*s[0] + s[1], h.b * s[0]}
}
func (h *Henon) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1} }
func (h *Henon) GetParams() map[string]float64 {
	return map[string]float64{"a": h.a, "b": h.b}
}
func (h *Henon) SetParam(n string, v float64) error {
	switch n {
	case "a":
		h.a = v
	case "b":
		h.b = v
	default:
		return fmt.Errorf("henon has no parameter %q: %w", n, dynamo.ErrParameterBounds)
	}
	return nil
}
