package billing

import (
	"slices"
	"sync"
)

// keyedLocker hands out one mutex per key. Invoice generation locks the
// aggregation key so two concurrent attempts for the same period cannot
// both pass the duplicate check (the database unique index on the
// period key is the backstop for multi-instance deployments), and claim
// submission locks each dossier id so overlapping bundles cannot
// interleave.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) mutex(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// lock acquires the mutex for key and returns its release func.
func (l *keyedLocker) lock(key string) func() {
	m := l.mutex(key)
	m.Lock()
	return m.Unlock
}

// lockAll acquires the mutexes for every distinct key in sorted order,
// so callers locking overlapping key sets cannot deadlock. The returned
// func releases them in reverse order.
func (l *keyedLocker) lockAll(keys []string) func() {
	sorted := append([]string(nil), keys...)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, key := range sorted {
		m := l.mutex(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
