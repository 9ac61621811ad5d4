// Package session is the in-memory representation of who is logged in as
// whom: the user, the active organization, and the organization list. It is
// distinct from the underlying credential — the credstore holds tokens, this
// holds identity.
//
// The store is an explicit dependency injected at construction, not an
// ambient global. Consumers read atomic snapshots or subscribe to changes;
// no mutation is ever observable half-applied.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rankwise/dashboard/pkg/credstore"
)

// ErrInvalidOrganization reports a SwitchOrganization call with an
// organization outside the session's organization list. That is a
// programming error in the caller: the value must come from the current
// list.
var ErrInvalidOrganization = errors.New("session: organization not in session")

// Snapshot is one atomic view of the session. Authenticated is derived from
// User, never stored independently.
type Snapshot struct {
	User          *User          `json:"user"`
	Organization  *Organization  `json:"organization"`
	Organizations []Organization `json:"organizations"`
	Authenticated bool           `json:"isAuthenticated"`
	Loading       bool           `json:"isLoading"`
}

// Store holds the session and notifies subscribers on every mutation.
// Mutations funnel through Login, Logout, SwitchOrganization and SetLoading;
// nothing else writes.
type Store struct {
	mu    sync.RWMutex
	creds credstore.Store

	user  *User
	org   *Organization
	orgs  []Organization
	loading bool

	nextSub uint64
	subs    map[uint64]chan Snapshot
}

// subscriberBuffer bounds how many snapshots a subscriber can lag behind.
// A slower subscriber misses intermediate snapshots, never torn ones.
const subscriberBuffer = 16

// New returns an empty, loading session bound to the credential store it
// clears on logout.
func New(creds credstore.Store) *Store {
	s := &Store{
		creds: creds,
		subs:  make(map[uint64]chan Snapshot),
	}
	s.loading = true
	return s
}

// Login sets the user, active organization and organization list in one
// atomic update and clears the loading flag. It is the single entry point
// after a credential exchange or a successful bootstrap.
func (s *Store) Login(user User, org Organization, orgs []Organization) {
	s.mu.Lock()
	u := user
	o := org
	s.user = &u
	s.org = &o
	s.orgs = append([]Organization(nil), orgs...)
	s.loading = false
	s.publishLocked()
	s.mu.Unlock()
}

// Logout clears the credential store (both views) and every session field.
// Calling it while already logged out is a no-op for the session and an
// idempotent clear for the credential store.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.creds.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.org = nil
	s.orgs = nil
	s.loading = false
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

// SwitchOrganization replaces the active organization pointer. The
// organization must come from the session's current list; the list itself is
// not refetched.
func (s *Store) SwitchOrganization(org Organization) error {
	s.mu.Lock()
	found := false
	for _, o := range s.orgs {
		if o.ID == org.ID {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrInvalidOrganization
	}
	o := org
	s.org = &o
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

// SetLoading governs the initial-bootstrap state: true from process start
// until the first login, logout, or bootstrap failure resolves.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.publishLocked()
	s.mu.Unlock()
}

// Snapshot returns the current session as one atomic value.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers for snapshot notifications. The returned cancel
// function must be called to release the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Authenticated: s.user != nil,
		Loading:       s.loading,
		Organizations: append([]Organization(nil), s.orgs...),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.org != nil {
		o := *s.org
		snap.Organization = &o
	}
	return snap
}

// publishLocked fans the current snapshot out to subscribers. Callers hold
// the write lock, which is what keeps notifications in mutation order.
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is not keeping up; it can always call Snapshot().
		}
	}
}
