package application

import "sync"

// tokenIndex maps every issued token to its owner so authentication does not
// scan all users. It only narrows the lookup: the owner's metadata decides.
type tokenIndex struct {
	mu     sync.RWMutex
	owners map[string]string
}

func newTokenIndex() *tokenIndex {
	return &tokenIndex{owners: make(map[string]string)}
}

func (x *tokenIndex) lookup(token string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	u, ok := x.owners[token]
	return u, ok
}

func (x *tokenIndex) add(token, username string) {
	x.mu.Lock()
	x.owners[token] = username
	x.mu.Unlock()
}

func (x *tokenIndex) remove(tokens ...string) {
	x.mu.Lock()
	for _, t := range tokens {
		delete(x.owners, t)
	}
	x.mu.Unlock()
}

// replace drops old tokens and registers token for username in one step.
func (x *tokenIndex) replace(old []string, token, username string) {
	x.mu.Lock()
	for _, t := range old {
		delete(x.owners, t)
	}
	x.owners[token] = username
	x.mu.Unlock()
}

func (x *tokenIndex) size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.owners)
}
