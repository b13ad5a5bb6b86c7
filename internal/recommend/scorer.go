// Package recommend ranks events for a user by blending what similar users
// liked, keyword overlap with the user's interests, and random exploration.
//
// The scorer is stateless: every call reads the stores afresh and nothing is
// cached, so a Scorer is safe for concurrent use.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/kcruz3/bubbl/internal/metrics"
	"github.com/kcruz3/bubbl/internal/models"
)

// Source is the read-only data the scorer needs.
type Source interface {
	ListInterests(ctx context.Context, userID string) ([]models.Interest, error)
	SimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error)
	LikedEventIDs(ctx context.Context, userIDs []string) ([]int64, error)
	SearchEvents(ctx context.Context, keyword string, limit int) ([]int64, error)
	RandomEventIDs(ctx context.Context, limit int) ([]int64, error)
	GetEvents(ctx context.Context, ids []int64) (map[int64]*models.Event, error)
}

// Candidate is an event ID with its blended score and contributing signals.
type Candidate struct {
	EventID       int64
	Score         float64
	Collaborative bool
	Content       bool
	Exploration   bool
}

// Recommendation is a ranked event.
type Recommendation struct {
	Event *models.Event
	Candidate
}

// Signals holds the three candidate sets for one user.
type Signals struct {
	Liked   []int64
	Content []int64
	Random  []int64
}

// Scorer produces ranked recommendations.
type Scorer struct {
	source Source
	cfg    Config
	logger *slog.Logger
}

// NewScorer creates a scorer reading from source.
func NewScorer(source Source, cfg Config, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{source: source, cfg: cfg.withDefaults(), logger: logger}
}

// Recommend returns ranked events for userID.
//
// A user with no interests gets a random sample of events, unscored. Otherwise
// candidates come from similar users' likes, interest keyword matches and a
// random pool, and are ordered by blended score descending with ties broken by
// event ID ascending.
func (s *Scorer) Recommend(ctx context.Context, userID string) ([]Recommendation, error) {
	start := time.Now()

	interests, err := s.source.ListInterests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}

	if len(interests) == 0 {
		defer metrics.ObserveRecommend("cold_start", start)
		return s.coldStart(ctx)
	}
	defer metrics.ObserveRecommend("hybrid", start)

	signals, err := s.gather(ctx, userID, interests)
	if err != nil {
		return nil, err
	}

	ranked := Rank(signals, s.cfg.Weights)
	if len(ranked) == 0 {
		return []Recommendation{}, nil
	}

	ids := make([]int64, len(ranked))
	for i, c := range ranked {
		ids[i] = c.EventID
	}
	events, err := s.source.GetEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, c := range ranked {
		// An event deleted between candidate selection and load is skipped
		if event, ok := events[c.EventID]; ok {
			recs = append(recs, Recommendation{Event: event, Candidate: c})
		}
	}

	s.logger.Debug("Recommendations scored",
		"user_id", userID,
		"liked", len(signals.Liked),
		"content", len(signals.Content),
		"random", len(signals.Random),
		"results", len(recs),
	)

	return recs, nil
}

func (s *Scorer) coldStart(ctx context.Context) ([]Recommendation, error) {
	ids, err := s.source.RandomEventIDs(ctx, s.cfg.Limits.ColdStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sample events: %w", err)
	}
	events, err := s.source.GetEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	recs := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		if event, ok := events[id]; ok {
			recs = append(recs, Recommendation{Event: event, Candidate: Candidate{EventID: id}})
		}
	}
	return recs, nil
}

func (s *Scorer) gather(ctx context.Context, userID string, interests []models.Interest) (Signals, error) {
	var signals Signals

	similar, err := s.source.SimilarUsers(ctx, userID, s.cfg.Limits.SimilarUsers)
	if err != nil {
		return signals, fmt.Errorf("failed to find similar users: %w", err)
	}
	if len(similar) > 0 {
		neighbors := make([]string, len(similar))
		for i, u := range similar {
			neighbors[i] = u.UserID
		}
		if signals.Liked, err = s.source.LikedEventIDs(ctx, neighbors); err != nil {
			return signals, fmt.Errorf("failed to load liked events: %w", err)
		}
	}

	for _, interest := range interests {
		ids, err := s.source.SearchEvents(ctx, interest.Name, s.cfg.Limits.PerKeyword)
		if err != nil {
			return signals, fmt.Errorf("failed to search events for %q: %w", interest.Name, err)
		}
		signals.Content = append(signals.Content, ids...)
	}

	if signals.Random, err = s.source.RandomEventIDs(ctx, s.cfg.Limits.Exploration); err != nil {
		return signals, fmt.Errorf("failed to sample events: %w", err)
	}

	return signals, nil
}

// Rank merges the candidate sets and orders them by weighted score.
// Each signal contributes its weight at most once per event, however many
// times the event appears in that set.
func Rank(signals Signals, weights Weights) []Candidate {
	byID := make(map[int64]*Candidate)
	get := func(id int64) *Candidate {
		c, ok := byID[id]
		if !ok {
			c = &Candidate{EventID: id}
			byID[id] = c
		}
		return c
	}

	for _, id := range signals.Liked {
		get(id).Collaborative = true
	}
	for _, id := range signals.Content {
		get(id).Content = true
	}
	for _, id := range signals.Random {
		get(id).Exploration = true
	}

	ranked := make([]Candidate, 0, len(byID))
	for _, c := range byID {
		if c.Collaborative {
			c.Score += weights.Collaborative
		}
		if c.Content {
			c.Score += weights.Content
		}
		if c.Exploration {
			c.Score += weights.Exploration
		}
		ranked = append(ranked, *c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].EventID < ranked[j].EventID
	})

	return ranked
}
