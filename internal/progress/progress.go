// Package progress reports completed work units from concurrent workers.
package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Sink receives one Advance call per completed unit of work. Implementations
// must be safe for concurrent use.
type Sink interface {
	Advance()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Advance() {}

// Func adapts a function to a Sink. The function itself must be safe for
// concurrent use.
type Func func()

func (f Func) Advance() { f() }

// Counter counts completed units and calls Render at most every Step units
// and once on completion. Render calls are serialised.
type Counter struct {
	total  int64
	step   int64
	done   atomic.Int64
	mu     sync.Mutex
	render func(done, total int)
}

// NewCounter returns a counter over total units that renders roughly a
// hundred times over the whole run.
func NewCounter(total int, render func(done, total int)) *Counter {
	step := int64(total / 100)
	if step < 1 {
		step = 1
	}
	return &Counter{total: int64(total), step: step, render: render}
}

func (c *Counter) Advance() {
	n := c.done.Add(1)
	if c.render == nil || (n%c.step != 0 && n != c.total) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render(int(n), int(c.total))
}

// Done returns the number of completed units.
func (c *Counter) Done() int {
	return int(c.done.Load())
}

// Multi fans each Advance out to every sink.
type Multi []Sink

func (m Multi) Advance() {
	for _, s := range m {
		s.Advance()
	}
}

// Join combines sinks, dropping nils. It returns Nop when nothing is left.
func Join(sinks ...Sink) Sink {
	var out Multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	}
	return out
}

// Text returns a render function that redraws "label done/total" on one
// line of w.
func Text(w io.Writer, label string) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\r%s %d/%d", label, done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
