package server

import "sync"

// registry maps registered usernames to their live connections. It is the
// only shared mutable state outside the store and is guarded by one mutex.
type registry struct {
	mu    sync.Mutex
	conns map[string]*client
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]*client)}
}

func (r *registry) register(username string, c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[username] = c
}

func (r *registry) lookup(username string) (*client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[username]
	return c, ok
}

// dropConn removes every registration pointing at c and returns the
// usernames that were dropped.
func (r *registry) dropConn(c *client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dropped []string
	for username, conn := range r.conns {
		if conn == c {
			delete(r.conns, username)
			dropped = append(dropped, username)
		}
	}
	return dropped
}
