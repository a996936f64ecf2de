package store

import (
	"testing"
	"time"
)

func newTestStore() *MemoryResetStore {
	s := NewMemoryResetStore(time.Hour) // sweep interval irrelevant, called directly
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	if _, ok := s.Get("a@example.com"); ok {
		t.Fatal("Get on empty store returned a session")
	}

	sess := ResetSession{
		Email:       "a@example.com",
		OTPHash:     "hash",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		ResetToken:  "tok-1",
		AccountKind: "student",
	}
	s.Put("a@example.com", sess)

	got, ok := s.Get("a@example.com")
	if !ok || got.ResetToken != "tok-1" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	s.Delete("a@example.com")
	if _, ok := s.Get("a@example.com"); ok {
		t.Fatal("session still present after Delete")
	}
}

func TestFindByToken(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	s.Put("a@example.com", ResetSession{Email: "a@example.com", ResetToken: "tok-a"})
	s.Put("b@example.com", ResetSession{Email: "b@example.com", ResetToken: "tok-b"})

	got, ok := s.FindByToken("tok-b")
	if !ok || got.Email != "b@example.com" {
		t.Fatalf("FindByToken = %+v, %v", got, ok)
	}
	if _, ok := s.FindByToken("tok-missing"); ok {
		t.Fatal("FindByToken matched a missing token")
	}
}

func TestSweepKeepsGracePeriod(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	now := time.Now()
	// expired 1 minute ago: inside grace, verify still wants to see it
	s.Put("fresh@example.com", ResetSession{ExpiresAt: now.Add(-time.Minute)})
	// expired 10 minutes ago: past grace, gone
	s.Put("stale@example.com", ResetSession{ExpiresAt: now.Add(-10 * time.Minute)})

	s.sweep(now)

	if _, ok := s.Get("fresh@example.com"); !ok {
		t.Fatal("sweep removed a session inside the grace period")
	}
	if _, ok := s.Get("stale@example.com"); ok {
		t.Fatal("sweep kept a session past the grace period")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestStore()
	s.Close()
	s.Close() // must not panic
}
