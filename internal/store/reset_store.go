// Package store holds short-lived password-reset sessions keyed by email.
// The interface is small on purpose so the in-memory implementation can be
// swapped for Redis or a table without touching the service layer.
package store

import (
	"sync"
	"time"
)

// ResetSession tracks one password-reset flow from OTP request to consume.
// Only the bcrypt hash of the OTP is kept.
type ResetSession struct {
	Email       string
	OTPHash     string
	ExpiresAt   time.Time
	Attempts    int
	ResetToken  string
	Verified    bool
	AccountKind string // "student" or "admin"
}

type ResetStore interface {
	Put(email string, s ResetSession)
	Get(email string) (ResetSession, bool)
	Delete(email string)
	// FindByToken scans live sessions for a matching reset token. O(n) over
	// the current session population, which stays tiny (10-minute TTL).
	FindByToken(token string) (ResetSession, bool)
	Close()
}

// expiredGrace is how long past expiry a session survives before the sweep
// removes it. Expired sessions are still wanted briefly so verify can answer
// "expired" instead of "not found".
const expiredGrace = 5 * time.Minute

type MemoryResetStore struct {
	mu       sync.RWMutex
	sessions map[string]ResetSession
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryResetStore starts the periodic sweep goroutine immediately.
// Close stops it.
func NewMemoryResetStore(sweepEvery time.Duration) *MemoryResetStore {
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	s := &MemoryResetStore{
		sessions: make(map[string]ResetSession),
		stop:     make(chan struct{}),
	}
	go s.sweepLoop(sweepEvery)
	return s
}

func (s *MemoryResetStore) Put(email string, sess ResetSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[email] = sess
}

func (s *MemoryResetStore) Get(email string) (ResetSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[email]
	return sess, ok
}

func (s *MemoryResetStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, email)
}

func (s *MemoryResetStore) FindByToken(token string) (ResetSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ResetToken == token {
			return sess, true
		}
	}
	return ResetSession{}, false
}

func (s *MemoryResetStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryResetStore) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			s.sweep(now)
		}
	}
}

func (s *MemoryResetStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, sess := range s.sessions {
		if now.After(sess.ExpiresAt.Add(expiredGrace)) {
			delete(s.sessions, email)
		}
	}
}
