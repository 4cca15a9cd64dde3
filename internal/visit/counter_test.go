package visit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

func TestCounter_Drain(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c := NewCounter()

		assert.Empty(t, c.Drain())
	})

	t.Run("counts every record", func(t *testing.T) {
		c := NewCounter()

		for i := 0; i < 7; i++ {
			c.Record("link1")
		}
		c.Record("link2")

		assert.Equal(t, 2, c.Pending())
		assert.ElementsMatch(t, []entity.VisitCount{
			{LinkID: "link1", Count: 7},
			{LinkID: "link2", Count: 1},
		}, c.Drain())
	})

	t.Run("second drain is empty", func(t *testing.T) {
		c := NewCounter()

		c.Record("link1")
		c.Drain()

		assert.Empty(t, c.Drain())
		assert.Zero(t, c.Pending())
	})

	t.Run("records after drain go to next snapshot", func(t *testing.T) {
		c := NewCounter()

		c.Record("link1")
		c.Drain()
		c.Record("link1")
		c.Record("link1")

		assert.Equal(t, []entity.VisitCount{{LinkID: "link1", Count: 2}}, c.Drain())
	})
}

func TestCounter_ConcurrentRecord(t *testing.T) {
	const (
		workers = 16
		perWork = 1000
	)

	c := NewCounter()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWork; j++ {
				c.Record("hot")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []entity.VisitCount{{LinkID: "hot", Count: workers * perWork}}, c.Drain())
}

func TestCounter_ConcurrentDrain(t *testing.T) {
	const (
		workers = 8
		perWork = 2000
	)

	c := NewCounter()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)

	done := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			select {
			case <-done:
				return
			default:
			}
			for _, vc := range c.Drain() {
				mu.Lock()
				total += vc.Count
				mu.Unlock()
			}
		}
	}()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWork; j++ {
				c.Record("hot")
			}
		}()
	}
	wg.Wait()
	close(done)
	<-drained

	for _, vc := range c.Drain() {
		total += vc.Count
	}

	assert.Equal(t, int64(workers*perWork), total)
}
