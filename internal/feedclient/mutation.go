// internal/feedclient/mutation.go
package feedclient

import (
	"errors"

	"github.com/parishapps/parishfeed/internal/app/projection"
)

// MutationState tracks one optimistic mutation's lifecycle.
type MutationState int

const (
	StateIdle MutationState = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled back"
	}
	return "unknown"
}

var (
	ErrMutationActive   = errors.New("a mutation is already pending for this feed")
	ErrMutationInactive = errors.New("no pending mutation for this feed")
)

// Mutation is one optimistic change against a View: the tentative state
// is shown immediately, then replaced by the server's committed view or
// rolled back to the last known-good snapshot on failure.
type Mutation struct {
	view     *View
	feedID   string
	state    MutationState
	snapshot projection.FeedView
	existed  bool
}

// StartMutation applies a tentative change to one feed and returns the
// pending mutation. The change function edits a copy; the original is
// kept for rollback.
func (v *View) StartMutation(feedID string, change func(*projection.FeedView)) (*Mutation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pending[feedID] {
		return nil, ErrMutationActive
	}
	v.pending[feedID] = true

	prev, existed := v.items[feedID]
	m := &Mutation{
		view:     v,
		feedID:   feedID,
		state:    StatePending,
		snapshot: prev,
		existed:  existed,
	}

	tentative := prev
	change(&tentative)
	tentative.ID = feedID
	v.items[feedID] = tentative
	return m, nil
}

// State returns the mutation's current lifecycle state.
func (m *Mutation) State() MutationState { return m.state }

// Commit replaces the tentative state with the server's authoritative
// view of the feed.
func (m *Mutation) Commit(authoritative projection.FeedView) error {
	if m.state != StatePending {
		return ErrMutationInactive
	}
	m.view.mu.Lock()
	defer m.view.mu.Unlock()

	m.view.recompute(&authoritative)
	m.view.items[m.feedID] = authoritative
	delete(m.view.pending, m.feedID)
	m.state = StateCommitted
	return nil
}

// CommitDelete confirms a tentative delete: the feed is gone for good.
func (m *Mutation) CommitDelete() error {
	if m.state != StatePending {
		return ErrMutationInactive
	}
	m.view.mu.Lock()
	defer m.view.mu.Unlock()

	delete(m.view.items, m.feedID)
	delete(m.view.pending, m.feedID)
	m.state = StateCommitted
	return nil
}

// Rollback restores the last known-good state after a rejected mutation.
func (m *Mutation) Rollback() error {
	if m.state != StatePending {
		return ErrMutationInactive
	}
	m.view.mu.Lock()
	defer m.view.mu.Unlock()

	if m.existed {
		m.view.items[m.feedID] = m.snapshot
	} else {
		delete(m.view.items, m.feedID)
	}
	delete(m.view.pending, m.feedID)
	m.state = StateRolledBack
	return nil
}
