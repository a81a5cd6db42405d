package fortune

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("serializes holders of the same key", func(t *testing.T) {
		km := newKeyedMutex()

		const n = 50
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := km.Lock("a")
				defer unlock()
				counter++
			}()
		}
		wg.Wait()

		assert.Equal(t, n, counter)
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		km := newKeyedMutex()

		unlockA := km.Lock("a")
		done := make(chan struct{})
		go func() {
			unlockB := km.Lock("b")
			unlockB()
			close(done)
		}()
		<-done
		unlockA()
	})

	t.Run("entries are dropped after the last release", func(t *testing.T) {
		km := newKeyedMutex()

		unlock := km.Lock("a")
		km.mu.Lock()
		assert.Len(t, km.locks, 1)
		km.mu.Unlock()

		unlock()
		km.mu.Lock()
		assert.Empty(t, km.locks)
		km.mu.Unlock()
	})
}
