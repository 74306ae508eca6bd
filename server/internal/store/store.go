package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// ErrNotFound is returned for an unknown or evicted session id.
var ErrNotFound = errors.New("store: session not found")

// Session is one user's live set of brewing controls.
type Session struct {
	ID        string               `json:"id"`
	Params    types.BrewParameters `json:"params"`
	Locale    flavor.Locale        `json:"locale"`
	CreatedAt time.Time            `json:"created_at"`
	// UpdatedAt is the last time Params changed.
	UpdatedAt time.Time `json:"updated_at"`
	// LastSeen is the last time the session was read or written; eviction
	// is based on it.
	LastSeen time.Time `json:"last_seen"`
}

// Store is a thread-safe in-memory session store keyed by a random UUID.
// A background goroutine (Run) periodically evicts sessions that have not
// been touched within the configured TTL.
type Store struct {
	mu       sync.RWMutex
	data     map[string]*Session
	defaults types.BrewParameters
	ttl      time.Duration
	now      func() time.Time // injectable for deterministic tests
	newID    func() string
}

// New creates a Store with the given TTL. A TTL <= 0 disables eviction.
func New(ttl time.Duration, defaults types.BrewParameters) *Store {
	return &Store{
		data:     make(map[string]*Session),
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Create starts a session from the current defaults.
func (s *Store) Create(loc flavor.Locale) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{
		ID:        s.newID(),
		Params:    s.defaults,
		Locale:    loc,
		CreatedAt: now,
		UpdatedAt: now,
		LastSeen:  now,
	}
	s.data[sess.ID] = sess
	return *sess
}

// Get returns the session and refreshes its LastSeen time.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.LastSeen = s.now()
	return *sess, nil
}

// Patch overlays pp onto the session's parameters. The result is validated
// first; an invalid patch leaves the session unchanged and returns an error
// wrapping types.ErrInvalidParameter.
func (s *Store) Patch(id string, pp types.ParamPatch) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := pp.Apply(sess.Params)
	if err := next.Validate(); err != nil {
		return Session{}, err
	}
	now := s.now()
	if next != sess.Params {
		sess.Params = next
		sess.UpdatedAt = now
	}
	sess.LastSeen = now
	return *sess, nil
}

// Reset restores the session's parameters to the current defaults.
func (s *Store) Reset(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	now := s.now()
	sess.Params = s.defaults
	sess.UpdatedAt = now
	sess.LastSeen = now
	return *sess, nil
}

// Update is a combined change applied by Apply as one step.
type Update struct {
	// Reset starts from the current defaults instead of the session's params.
	Reset bool
	// Locale replaces the session's locale when non-empty.
	Locale flavor.Locale
	// Patch is overlaid after the optional reset.
	Patch types.ParamPatch
}

// Apply performs u under a single lock. The resulting parameters are
// validated before anything is written, so a rejected update leaves the
// session exactly as it was, including its locale.
func (s *Store) Apply(id string, u Update) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	base := sess.Params
	if u.Reset {
		base = s.defaults
	}
	next := u.Patch.Apply(base)
	if err := next.Validate(); err != nil {
		return Session{}, err
	}
	now := s.now()
	if next != sess.Params || u.Reset {
		sess.Params = next
		sess.UpdatedAt = now
	}
	if u.Locale != "" {
		sess.Locale = u.Locale
	}
	sess.LastSeen = now
	return *sess, nil
}

// Delete removes the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.data, id)
	return nil
}

// List returns every session, oldest first. Sessions idle past the TTL
// that have not yet been evicted are excluded.
func (s *Store) List() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.data))
	for _, sess := range s.data {
		if s.live(sess, s.now()) {
			out = append(out, *sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Count returns the total number of sessions currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Defaults returns the parameter set new and reset sessions receive.
func (s *Store) Defaults() types.BrewParameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// SetDefaults replaces the defaults used by future Create and Reset calls.
// Existing sessions keep their parameters.
func (s *Store) SetDefaults(p types.BrewParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaults = p
	s.mu.Unlock()
	return nil
}

func (s *Store) live(sess *Session, now time.Time) bool {
	if s.ttl <= 0 {
		return true
	}
	return sess.LastSeen.After(now.Add(-s.ttl))
}

// Evict removes sessions whose LastSeen is older than now minus TTL.
// It returns the number of sessions removed.
func (s *Store) Evict(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.data {
		if !s.live(sess, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL interval
// (minimum 1 second) so sessions are evicted promptly. Run blocks until ctx is
// cancelled, or returns at once when eviction is disabled.
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted idle sessions", "count", n)
			}
		}
	}
}
