package progress

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Concurrent(t *testing.T) {
	var renders []int
	c := NewCounter(1000, func(done, total int) {
		assert.Equal(t, 1000, total)
		renders = append(renders, done)
	})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 125; i++ {
				c.Advance()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, c.Done())
	assert.Len(t, renders, 100)
	assert.Contains(t, renders, 1000)
}

func TestCounter_SmallTotal(t *testing.T) {
	calls := 0
	c := NewCounter(3, func(int, int) { calls++ })
	for i := 0; i < 3; i++ {
		c.Advance()
	}
	assert.Equal(t, 3, calls)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, Nop{}, Join())
	assert.Equal(t, Nop{}, Join(nil, nil))

	var a, b atomic.Int32
	fa := Func(func() { a.Add(1) })
	fb := Func(func() { b.Add(1) })

	single := Join(nil, fa)
	single.Advance()
	assert.Equal(t, int32(1), a.Load())

	both := Join(fa, nil, fb)
	both.Advance()
	assert.Equal(t, int32(2), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestText(t *testing.T) {
	var buf strings.Builder
	render := Text(&buf, "points")
	render(1, 2)
	render(2, 2)
	assert.Equal(t, "\rpoints 1/2\rpoints 2/2\n", buf.String())
}
