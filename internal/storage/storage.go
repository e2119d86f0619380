package storage

// Scope selects how long an entry lives
type Scope int

const (
	// ScopeLocal entries persist across sessions
	ScopeLocal Scope = iota
	// ScopeSession entries are dropped when the browser or terminal session ends
	ScopeSession
)

func (s Scope) String() string {
	if s == ScopeSession {
		return "session"
	}
	return "local"
}

// Store is a string key/value store. Implementations never fail: backend
// errors are logged as warnings and the operation becomes a no-op.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Noop is used when no backing context is available
type Noop struct{}

func (Noop) Get(string) (string, bool) { return "", false }
func (Noop) Set(string, string) {}
func (Noop) Remove(string) {}
