package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockStartsAtZero(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.current())
}

func TestClockResumes(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(42), c.Next(), "resumes after the last recorded seq")
}

func TestClockConcurrent(t *testing.T) {
	c := NewClock()
	const workers, calls = 50, 100

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*calls)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				seq := c.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*calls, "no seq handed out twice")
	assert.Equal(t, int64(workers*calls), c.current())
}
