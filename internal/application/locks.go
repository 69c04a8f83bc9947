package application

import "sync"

// lockSet serializes storage access per logical resource.
//
// Acquisition order is namespace -> users (sorted) and comments -> user.
// Nothing acquires comments or namespace while holding a user lock.
type lockSet struct {
	namespace sync.Mutex
	comments  sync.Mutex

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

func newLockSet() *lockSet {
	return &lockSet{users: make(map[string]*sync.Mutex)}
}

func (l *lockSet) user(name string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.users[name]
	if !ok {
		m = &sync.Mutex{}
		l.users[name] = m
	}
	return m
}

func (l *lockSet) lockUser(name string) func() {
	m := l.user(name)
	m.Lock()
	return m.Unlock
}

// lockUsers locks two distinct users in a stable order.
func (l *lockSet) lockUsers(a, b string) func() {
	if a == b {
		return l.lockUser(a)
	}
	if b < a {
		a, b = b, a
	}
	ua := l.lockUser(a)
	ub := l.lockUser(b)
	return func() {
		ub()
		ua()
	}
}
