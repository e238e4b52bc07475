package cluster

import "sync"

// Session is a close-once proxy around a borrowed cluster handle. The first
// Close forwards to the cache's release; every later Close on the same
// Session is a guaranteed no-op. This guards the shared reference count
// against the classic double-close of a borrowed handle.
type Session struct {
	conn    Conn
	release func() error
	once    sync.Once
}

// Conn returns the shared live handle. The handle stays valid until Close;
// callers must not retain it past the session.
func (s *Session) Conn() Conn { return s.conn }

// Endpoints reports the live topology of the underlying handle.
func (s *Session) Endpoints() []Endpoint { return s.conn.Endpoints() }

// Close releases the session's reference. Only the first call has effect;
// subsequent calls return nil.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() { err = s.release() })
	return err
}
