package swipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
	"github.com/kcruz3/bubbl/internal/storage/sqlite"
)

type fixture struct {
	store  *sqlite.SQLiteStore
	intake *Intake
	event  *models.Event
}

func setup(t *testing.T, threshold int, policy Policy, users ...string) *fixture {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "bubbl-swipe-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range users {
		if err := store.CreateUser(ctx, models.NewUser(u, u, u+"@example.com", "hash")); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", u, err)
		}
	}

	event := &models.Event{Name: "Jazz Night", Location: "Chicago, IL"}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	engine := grouping.NewEngine(store, grouping.Config{
		Threshold:     threshold,
		MaxRetries:    5,
		RetryInterval: 5 * time.Millisecond,
	}, nil)

	return &fixture{store: store, intake: NewIntake(engine, policy, nil), event: event}
}

func (f *fixture) popularity(t *testing.T) int64 {
	t.Helper()
	event, err := f.store.GetEvent(context.Background(), f.event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	return event.Popularity
}

func (f *fixture) pending(t *testing.T) []string {
	t.Helper()
	matches, err := f.store.ListMatches(context.Background(), f.event.ID)
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	var users []string
	for _, m := range matches {
		if m.Pending() {
			users = append(users, m.UserID)
		}
	}
	return users
}

func containsAll(have []string, want ...string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func TestRecordDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("first yes waits, second yes forms a group", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy(), "alice", "bob")

		first, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		if err != nil {
			t.Fatalf("alice swipe failed: %v", err)
		}
		if first.Grouped {
			t.Fatal("expected no group after the first yes")
		}

		second, err := f.intake.RecordDecision(ctx, "bob", f.event.ID, models.DecisionYes)
		if err != nil {
			t.Fatalf("bob swipe failed: %v", err)
		}
		if !second.Grouped || second.Group == nil {
			t.Fatal("expected a group after the second yes")
		}
		if second.Members != 2 {
			t.Errorf("members: expected 2, got %d", second.Members)
		}

		members, err := f.store.ListMembers(ctx, second.Group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members, got %v", members)
		}

		if got := f.popularity(t); got != 2 {
			t.Errorf("popularity: expected 2, got %d", got)
		}
	})

	t.Run("concurrent pair forms one group and the next yes starts a new pool", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy(), "ana", "ben", "cal")

		var wg sync.WaitGroup
		results := make([]*Result, 2)
		errs := make([]error, 2)
		for i, u := range []string{"ana", "ben"} {
			wg.Add(1)
			go func(i int, user string) {
				defer wg.Done()
				results[i], errs[i] = f.intake.RecordDecision(ctx, user, f.event.ID, models.DecisionYes)
			}(i, u)
		}
		wg.Wait()
		for i, err := range errs {
			if err != nil {
				t.Fatalf("swipe %d failed: %v", i, err)
			}
		}

		var formed *Result
		for _, r := range results {
			if r.Grouped {
				if formed != nil {
					t.Fatal("expected exactly one call to form a group")
				}
				formed = r
			}
		}
		if formed == nil {
			t.Fatal("expected one call to form a group")
		}

		members, err := f.store.ListMembers(ctx, formed.Group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 || !containsAll(members, "ana", "ben") {
			t.Errorf("members: expected ana and ben, got %v", members)
		}

		third, err := f.intake.RecordDecision(ctx, "cal", f.event.ID, models.DecisionYes)
		if err != nil {
			t.Fatalf("cal swipe failed: %v", err)
		}
		if third.Grouped || third.AlreadyPending {
			t.Errorf("expected cal to wait alone, got %+v", third)
		}
		if pending := f.pending(t); len(pending) != 1 || pending[0] != "cal" {
			t.Errorf("pending: expected [cal], got %v", pending)
		}
	})

	t.Run("repeat yes while pending", func(t *testing.T) {
		f := setup(t, 3, DefaultPolicy(), "alice")

		if _, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes); err != nil {
			t.Fatalf("first swipe failed: %v", err)
		}
		result, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		if err != nil {
			t.Fatalf("second swipe failed: %v", err)
		}
		if !result.AlreadyPending {
			t.Error("expected AlreadyPending")
		}

		if pending := f.pending(t); len(pending) != 1 || pending[0] != "alice" {
			t.Errorf("pending: expected [alice], got %v", pending)
		}
		if got := f.popularity(t); got != 2 {
			t.Errorf("popularity: expected 2 with repeat counting, got %d", got)
		}
	})

	t.Run("repeat yes counted once when configured", func(t *testing.T) {
		f := setup(t, 3, Policy{CountRepeatYes: false}, "alice")

		for i := 0; i < 3; i++ {
			if _, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes); err != nil {
				t.Fatalf("swipe %d failed: %v", i, err)
			}
		}
		if got := f.popularity(t); got != 1 {
			t.Errorf("popularity: expected 1, got %d", got)
		}
	})

	t.Run("no records a rating without a match", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy(), "alice")

		result, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionNo)
		if err != nil {
			t.Fatalf("swipe failed: %v", err)
		}
		if result.Grouped || result.AlreadyPending {
			t.Errorf("unexpected result: %+v", result)
		}

		rating, err := f.store.GetRating(ctx, "alice", f.event.ID)
		if err != nil {
			t.Fatalf("GetRating failed: %v", err)
		}
		if rating.Decision != models.DecisionNo {
			t.Errorf("decision: expected no, got %v", rating.Decision)
		}
		matches, _ := f.store.ListMatches(ctx, f.event.ID)
		if len(matches) != 0 {
			t.Errorf("expected no matches, got %d", len(matches))
		}
		if got := f.popularity(t); got != 0 {
			t.Errorf("popularity: expected 0, got %d", got)
		}
	})

	t.Run("no after yes keeps the pending match by default", func(t *testing.T) {
		f := setup(t, 3, DefaultPolicy(), "alice")

		f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		result, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionNo)
		if err != nil {
			t.Fatalf("swipe failed: %v", err)
		}
		if result.Withdrawn {
			t.Error("expected pending match to be kept")
		}

		matches, _ := f.store.ListMatches(ctx, f.event.ID)
		if len(matches) != 1 {
			t.Errorf("expected 1 pending match, got %d", len(matches))
		}
	})

	t.Run("no after yes withdraws when configured", func(t *testing.T) {
		f := setup(t, 3, Policy{RetractOnNo: true, CountRepeatYes: true}, "alice")

		f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		result, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionNo)
		if err != nil {
			t.Fatalf("swipe failed: %v", err)
		}
		if !result.Withdrawn {
			t.Error("expected pending match to be withdrawn")
		}

		matches, _ := f.store.ListMatches(ctx, f.event.ID)
		if len(matches) != 0 {
			t.Errorf("expected no matches, got %d", len(matches))
		}
	})

	t.Run("grouped user can wait for the next group", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy(), "alice", "bob", "carol")

		f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		formed, _ := f.intake.RecordDecision(ctx, "bob", f.event.ID, models.DecisionYes)
		if !formed.Grouped {
			t.Fatal("expected first group")
		}

		again, err := f.intake.RecordDecision(ctx, "alice", f.event.ID, models.DecisionYes)
		if err != nil {
			t.Fatalf("swipe failed: %v", err)
		}
		if again.AlreadyPending || again.Grouped {
			t.Errorf("expected a fresh pending match, got %+v", again)
		}

		next, _ := f.intake.RecordDecision(ctx, "carol", f.event.ID, models.DecisionYes)
		if !next.Grouped || next.Group.ID == formed.Group.ID {
			t.Fatalf("expected a second, distinct group: %+v", next)
		}
		if next.Group.Name != "Jazz Night #2" {
			t.Errorf("name: expected 'Jazz Night #2', got '%s'", next.Group.Name)
		}

		first, _ := f.store.ListMembers(ctx, formed.Group.ID)
		if len(first) != 2 {
			t.Errorf("first group changed: %v", first)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy(), "alice")

		_, err := f.intake.RecordDecision(ctx, "alice", f.event.ID+100, models.DecisionYes)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing user is unauthenticated", func(t *testing.T) {
		f := setup(t, 2, DefaultPolicy())

		_, err := f.intake.RecordDecision(ctx, "", f.event.ID, models.DecisionYes)
		if !errors.Is(err, auth.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestConcurrentSwipesNeverDoubleGroup(t *testing.T) {
	tests := []struct {
		name      string
		swipers   int
		threshold int
	}{
		{name: "pairs", swipers: 11, threshold: 2},
		{name: "triples", swipers: 10, threshold: 3},
		{name: "exact multiple", swipers: 12, threshold: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := make([]string, tt.swipers)
			for i := range users {
				users[i] = fmt.Sprintf("user%02d", i)
			}
			f := setup(t, tt.threshold, DefaultPolicy(), users...)
			ctx := context.Background()

			var wg sync.WaitGroup
			errs := make(chan error, tt.swipers)
			for _, u := range users {
				wg.Add(1)
				go func(user string) {
					defer wg.Done()
					if _, err := f.intake.RecordDecision(ctx, user, f.event.ID, models.DecisionYes); err != nil {
						errs <- fmt.Errorf("%s: %w", user, err)
					}
				}(u)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Errorf("swipe failed: %v", err)
			}

			matches, err := f.store.ListMatches(ctx, f.event.ID)
			if err != nil {
				t.Fatalf("ListMatches failed: %v", err)
			}
			if len(matches) != tt.swipers {
				t.Fatalf("expected %d matches, got %d", tt.swipers, len(matches))
			}

			seen := make(map[string]bool)
			groupSizes := make(map[string]int)
			pending := 0
			for _, m := range matches {
				if seen[m.UserID] {
					t.Errorf("user %s has more than one match", m.UserID)
				}
				seen[m.UserID] = true
				if m.Pending() {
					pending++
					continue
				}
				groupSizes[m.GroupID]++
			}

			if want := tt.swipers / tt.threshold; len(groupSizes) != want {
				t.Errorf("groups: expected %d, got %d (%v)", want, len(groupSizes), groupSizes)
			}
			for id, size := range groupSizes {
				if size != tt.threshold {
					t.Errorf("group %s has %d members, expected exactly %d", id, size, tt.threshold)
				}
			}
			if want := tt.swipers % tt.threshold; pending != want {
				t.Errorf("pending: expected %d, got %d", want, pending)
			}
			if got := f.popularity(t); got != int64(tt.swipers) {
				t.Errorf("popularity: expected %d, got %d", tt.swipers, got)
			}
		})
	}
}
