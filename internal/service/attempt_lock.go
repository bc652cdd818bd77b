package service

import "sync"

// attemptLocks serializes state-machine transitions per attempt id while
// letting transitions on different attempts run in parallel. Entries are
// reference-counted so the map does not grow with the attempt table.
type attemptLocks struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAttemptLocks() *attemptLocks {
	return &attemptLocks{entries: make(map[uint]*lockEntry)}
}

func (l *attemptLocks) lock(id uint) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *attemptLocks) unlock(id uint) {
	l.mu.Lock()
	e := l.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
