package fortune

import "sync"

// keyedMutex serializes critical sections per key. The orchestration
// service locks on (user, kind) around the cache-check-then-generate
// sequence so two racing requests cannot both miss the cache and spend two
// quota units on the same reuse key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the key's lock is held and returns the release func.
// Entries are dropped once the last holder releases, so the map stays
// bounded by the number of in-flight requests.
func (m *keyedMutex) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}
