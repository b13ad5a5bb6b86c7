package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kcruz3/bubbl/internal/models"
)

// fakeSource serves fixed data. RandomEventIDs returns the first limit IDs of random.
type fakeSource struct {
	interests map[string][]models.Interest
	similar   map[string][]models.SimilarUser
	liked     map[string][]int64
	events    map[int64]*models.Event
	random    []int64
	err       error
}

func (f *fakeSource) ListInterests(ctx context.Context, userID string) ([]models.Interest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.interests[userID], nil
}

func (f *fakeSource) SimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error) {
	users := f.similar[userID]
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeSource) LikedEventIDs(ctx context.Context, userIDs []string) ([]int64, error) {
	var ids []int64
	for _, u := range userIDs {
		ids = append(ids, f.liked[u]...)
	}
	return ids, nil
}

func (f *fakeSource) SearchEvents(ctx context.Context, keyword string, limit int) ([]int64, error) {
	var ids []int64
	kw := strings.ToLower(keyword)
	for id := int64(1); id <= int64(len(f.events))+100 && len(ids) < limit; id++ {
		e, ok := f.events[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name), kw) || strings.Contains(strings.ToLower(e.Description), kw) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeSource) RandomEventIDs(ctx context.Context, limit int) ([]int64, error) {
	if len(f.random) > limit {
		return f.random[:limit], nil
	}
	return f.random, nil
}

func (f *fakeSource) GetEvents(ctx context.Context, ids []int64) (map[int64]*models.Event, error) {
	out := make(map[int64]*models.Event)
	for _, id := range ids {
		if e, ok := f.events[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func catalog(n int) map[int64]*models.Event {
	events := make(map[int64]*models.Event, n)
	for i := 1; i <= n; i++ {
		events[int64(i)] = &models.Event{ID: int64(i), Name: fmt.Sprintf("Event %d", i)}
	}
	return events
}

func TestRank(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		weights Weights
		want    []Candidate
	}{
		{
			name:    "empty",
			signals: Signals{},
			weights: DefaultWeights(),
			want:    []Candidate{},
		},
		{
			name: "all signals add up",
			signals: Signals{
				Liked:   []int64{7},
				Content: []int64{7},
				Random:  []int64{7, 12},
			},
			weights: DefaultWeights(),
			want: []Candidate{
				{EventID: 7, Score: 6, Collaborative: true, Content: true, Exploration: true},
				{EventID: 12, Score: 1, Exploration: true},
			},
		},
		{
			name: "duplicates within a signal count once",
			signals: Signals{
				Content: []int64{3, 3, 3},
			},
			weights: DefaultWeights(),
			want: []Candidate{
				{EventID: 3, Score: 2, Content: true},
			},
		},
		{
			name: "ties broken by event ID",
			signals: Signals{
				Random: []int64{9, 4, 6},
			},
			weights: DefaultWeights(),
			want: []Candidate{
				{EventID: 4, Score: 1, Exploration: true},
				{EventID: 6, Score: 1, Exploration: true},
				{EventID: 9, Score: 1, Exploration: true},
			},
		},
		{
			name: "custom weights reorder",
			signals: Signals{
				Liked:   []int64{1},
				Content: []int64{2},
			},
			weights: Weights{Collaborative: 1, Content: 5, Exploration: 0},
			want: []Candidate{
				{EventID: 2, Score: 5, Content: true},
				{EventID: 1, Score: 1, Collaborative: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.signals, tt.weights)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d candidates, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("cold start returns random events", func(t *testing.T) {
		random := make([]int64, 30)
		for i := range random {
			random[i] = int64(i + 1)
		}
		source := &fakeSource{events: catalog(30), random: random}
		scorer := NewScorer(source, DefaultConfig(), nil)

		recs, err := scorer.Recommend(ctx, "newbie")
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(recs) != 20 {
			t.Fatalf("expected 20 events, got %d", len(recs))
		}
		seen := make(map[int64]bool)
		for _, r := range recs {
			if seen[r.Event.ID] {
				t.Errorf("duplicate event %d", r.Event.ID)
			}
			seen[r.Event.ID] = true
			if r.Score != 0 {
				t.Errorf("cold start events are unscored, got %v", r.Score)
			}
		}
	})

	t.Run("blends liked, content and random", func(t *testing.T) {
		events := catalog(15)
		events[7].Name = "Jazz Night"
		events[3].Description = "smooth JAZZ brunch"

		source := &fakeSource{
			interests: map[string][]models.Interest{
				"alice": {{ID: 1, Name: "jazz"}},
			},
			similar: map[string][]models.SimilarUser{
				"alice": {{UserID: "bob", Shared: 1}},
			},
			liked:  map[string][]int64{"bob": {7, 10}},
			events: events,
			random: []int64{7, 12},
		}
		scorer := NewScorer(source, DefaultConfig(), nil)

		recs, err := scorer.Recommend(ctx, "alice")
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}

		want := []struct {
			id    int64
			score float64
		}{
			{7, 6},  // liked + content + random
			{10, 3}, // liked
			{3, 2},  // content
			{12, 1}, // random
		}
		if len(recs) != len(want) {
			t.Fatalf("expected %d recommendations, got %d", len(want), len(recs))
		}
		for i, w := range want {
			if recs[i].Event.ID != w.id || recs[i].Score != w.score {
				t.Errorf("rank %d: expected event %d score %v, got event %d score %v",
					i, w.id, w.score, recs[i].Event.ID, recs[i].Score)
			}
		}
	})

	t.Run("jazz listener ranks liked and matching events above exploration", func(t *testing.T) {
		events := catalog(15)
		events[12].Description = "late-night jazz quartet"

		source := &fakeSource{
			interests: map[string][]models.Interest{
				"dana": {{ID: 1, Name: "jazz"}},
			},
			similar: map[string][]models.SimilarUser{
				"dana": {{UserID: "eli", Shared: 1}},
			},
			liked:  map[string][]int64{"eli": {7}},
			events: events,
			random: []int64{2, 5},
		}
		scorer := NewScorer(source, DefaultConfig(), nil)

		recs, err := scorer.Recommend(ctx, "dana")
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(recs) != 4 {
			t.Fatalf("expected 4 recommendations, got %d", len(recs))
		}
		if recs[0].Event.ID != 7 || recs[0].Score != 3 {
			t.Errorf("rank 0: expected event 7 score 3, got event %d score %v", recs[0].Event.ID, recs[0].Score)
		}
		if recs[1].Event.ID != 12 || recs[1].Score != 2 {
			t.Errorf("rank 1: expected event 12 score 2, got event %d score %v", recs[1].Event.ID, recs[1].Score)
		}
		for _, r := range recs[2:] {
			if r.Score != 1 {
				t.Errorf("exploration event %d: expected score 1, got %v", r.Event.ID, r.Score)
			}
		}
	})

	t.Run("no neighbors and no content leaves only exploration", func(t *testing.T) {
		source := &fakeSource{
			interests: map[string][]models.Interest{
				"alice": {{ID: 1, Name: "curling"}},
			},
			events: catalog(5),
			random: []int64{5, 2, 4},
		}
		scorer := NewScorer(source, DefaultConfig(), nil)

		recs, err := scorer.Recommend(ctx, "alice")
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("expected 3 recommendations, got %d", len(recs))
		}
		for i, id := range []int64{2, 4, 5} {
			if recs[i].Event.ID != id || recs[i].Score != 1 {
				t.Errorf("rank %d: expected event %d score 1, got event %d score %v",
					i, id, recs[i].Event.ID, recs[i].Score)
			}
		}
	})

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		source := &fakeSource{
			interests: map[string][]models.Interest{"alice": {{ID: 1, Name: "event"}}},
			events:    catalog(10),
			random:    []int64{3, 1, 2},
		}
		scorer := NewScorer(source, DefaultConfig(), nil)

		first, _ := scorer.Recommend(ctx, "alice")
		second, _ := scorer.Recommend(ctx, "alice")
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Event.ID != second[i].Event.ID {
				t.Errorf("rank %d differs: %d vs %d", i, first[i].Event.ID, second[i].Event.ID)
			}
		}
	})

	t.Run("source errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		scorer := NewScorer(&fakeSource{err: boom}, DefaultConfig(), nil)

		if _, err := scorer.Recommend(ctx, "alice"); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Weights: DefaultWeights()}.withDefaults()
	if cfg.Limits != DefaultLimits() {
		t.Errorf("limits: expected %+v, got %+v", DefaultLimits(), cfg.Limits)
	}
}
