package grouping

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// fakeTx is an in-memory storage.EventTx holding matches for a single event.
type fakeTx struct {
	matches []*models.Match
	groups  []*models.Group
}

func (f *fakeTx) LockEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	return &models.Event{ID: eventID}, nil
}

func (f *fakeTx) UpsertRating(ctx context.Context, userID string, eventID int64, d models.Decision) (*models.Decision, error) {
	return nil, nil
}

func (f *fakeTx) BumpPopularity(ctx context.Context, eventID int64) error { return nil }

func (f *fakeTx) HasPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error) {
	for _, m := range f.matches {
		if m.EventID == eventID && m.UserID == userID && m.Pending() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTx) InsertPendingMatch(ctx context.Context, match *models.Match) error {
	f.matches = append(f.matches, match)
	return nil
}

func (f *fakeTx) WithdrawPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error) {
	return false, nil
}

func (f *fakeTx) CountPendingMatches(ctx context.Context, eventID int64) (int, error) {
	n := 0
	for _, m := range f.matches {
		if m.EventID == eventID && m.Pending() {
			n++
		}
	}
	return n, nil
}

func (f *fakeTx) CountGroups(ctx context.Context, eventID int64) (int, error) {
	return len(f.groups), nil
}

func (f *fakeTx) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = fmt.Sprintf("g%d", len(f.groups)+1)
	f.groups = append(f.groups, group)
	return nil
}

func (f *fakeTx) AssignPendingMatches(ctx context.Context, eventID int64, groupID string) (int, error) {
	n := 0
	for _, m := range f.matches {
		if m.EventID == eventID && m.Pending() {
			m.GroupID = groupID
			n++
		}
	}
	return n, nil
}

// scriptedTransactor returns the scripted errors in order, then nil.
type scriptedTransactor struct {
	errs  []error
	calls int
}

func (s *scriptedTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.EventTx) error) error {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return fn(ctx, &fakeTx{})
}

func addPending(tx *fakeTx, eventID int64, users ...string) {
	for _, u := range users {
		tx.matches = append(tx.matches, &models.Match{EventID: eventID, UserID: u})
	}
}

func TestMaybeFormGroup(t *testing.T) {
	ctx := context.Background()
	event := &models.Event{ID: 7, Name: "Jazz Night"}

	tests := []struct {
		name        string
		threshold   int
		pending     []string
		wantFormed  bool
		wantMembers int
	}{
		{"below threshold", 3, []string{"alice", "bob"}, false, 0},
		{"at threshold", 2, []string{"alice", "bob"}, true, 2},
		{"above threshold takes everyone", 2, []string{"alice", "bob", "carol"}, true, 3},
		{"single user never forms", 2, []string{"alice"}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(nil, Config{Threshold: tt.threshold}, nil)
			tx := &fakeTx{}
			addPending(tx, event.ID, tt.pending...)

			formation, err := engine.MaybeFormGroup(ctx, tx, event)
			if err != nil {
				t.Fatalf("MaybeFormGroup failed: %v", err)
			}
			if formation.Formed != tt.wantFormed {
				t.Fatalf("formed: expected %v, got %v", tt.wantFormed, formation.Formed)
			}
			if formation.Members != tt.wantMembers {
				t.Errorf("members: expected %d, got %d", tt.wantMembers, formation.Members)
			}
			if !tt.wantFormed {
				return
			}
			if formation.Group.Name != "Jazz Night #1" {
				t.Errorf("name: expected 'Jazz Night #1', got '%s'", formation.Group.Name)
			}
			for _, m := range tx.matches {
				if m.GroupID != formation.Group.ID {
					t.Errorf("match for %s: expected group %s, got %q", m.UserID, formation.Group.ID, m.GroupID)
				}
			}
		})
	}
}

func TestMaybeFormGroupKeepsEarlierGroups(t *testing.T) {
	ctx := context.Background()
	event := &models.Event{ID: 7, Name: "Jazz Night"}
	engine := NewEngine(nil, Config{Threshold: 2}, nil)
	tx := &fakeTx{}

	addPending(tx, event.ID, "alice", "bob")
	first, err := engine.MaybeFormGroup(ctx, tx, event)
	if err != nil || !first.Formed {
		t.Fatalf("first formation failed: %+v, %v", first, err)
	}

	addPending(tx, event.ID, "carol", "dave")
	second, err := engine.MaybeFormGroup(ctx, tx, event)
	if err != nil || !second.Formed {
		t.Fatalf("second formation failed: %+v, %v", second, err)
	}

	if second.Group.Name != "Jazz Night #2" {
		t.Errorf("name: expected 'Jazz Night #2', got '%s'", second.Group.Name)
	}
	for _, m := range tx.matches[:2] {
		if m.GroupID != first.Group.ID {
			t.Errorf("match for %s moved from %s to %s", m.UserID, first.Group.ID, m.GroupID)
		}
	}
}

func TestNewEngineClampsThreshold(t *testing.T) {
	engine := NewEngine(nil, Config{Threshold: 1}, nil)
	if engine.Threshold() != MinThreshold {
		t.Errorf("threshold: expected %d, got %d", MinThreshold, engine.Threshold())
	}
}

func TestAtomically(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Threshold: 2, MaxRetries: 3, RetryInterval: time.Millisecond}

	t.Run("retries conflicts then succeeds", func(t *testing.T) {
		store := &scriptedTransactor{errs: []error{storage.ErrConflict, storage.ErrConflict}}
		engine := NewEngine(store, cfg, nil)

		ran := 0
		err := engine.Atomically(ctx, func(ctx context.Context, tx storage.EventTx) error {
			ran++
			return nil
		})
		if err != nil {
			t.Fatalf("Atomically failed: %v", err)
		}
		if store.calls != 3 {
			t.Errorf("calls: expected 3, got %d", store.calls)
		}
		if ran != 1 {
			t.Errorf("fn runs: expected 1, got %d", ran)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		conflicts := make([]error, 10)
		for i := range conflicts {
			conflicts[i] = fmt.Errorf("busy: %w", storage.ErrConflict)
		}
		store := &scriptedTransactor{errs: conflicts}
		engine := NewEngine(store, cfg, nil)

		err := engine.Atomically(ctx, func(ctx context.Context, tx storage.EventTx) error { return nil })
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if store.calls != cfg.MaxRetries+1 {
			t.Errorf("calls: expected %d, got %d", cfg.MaxRetries+1, store.calls)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		store := &scriptedTransactor{errs: []error{storage.ErrNotFound}}
		engine := NewEngine(store, cfg, nil)

		err := engine.Atomically(ctx, func(ctx context.Context, tx storage.EventTx) error { return nil })
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if store.calls != 1 {
			t.Errorf("calls: expected 1, got %d", store.calls)
		}
	})
}
