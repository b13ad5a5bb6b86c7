package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/validation"
	"github.com/kcruz3/bubbl/pkg/api"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

// EventStore is what EventService reads besides the scorer.
type EventStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListEventsByLocation(ctx context.Context, location string) ([]*models.Event, error)
}

// EventService implements the Connect EventService.
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	scorer *recommend.Scorer
	store  EventStore
	logger *slog.Logger
}

// NewEventService creates an EventService.
func NewEventService(scorer *recommend.Scorer, store EventStore, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{scorer: scorer, store: store, logger: logger}
}

// Recommend returns the caller's ranked event feed.
func (s *EventService) Recommend(ctx context.Context, req *connect.Request[api.RecommendRequest]) (*connect.Response[api.RecommendResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connectError(auth.ErrUnauthenticated)
	}

	recs, err := s.scorer.Recommend(ctx, userID)
	if err != nil {
		s.logger.Error("Recommend failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	events := make([]*api.RecommendedEvent, len(recs))
	for i, r := range recs {
		events[i] = &api.RecommendedEvent{
			Event:         toAPIEvent(r.Event),
			Score:         r.Score,
			Collaborative: r.Collaborative,
			Content:       r.Content,
			Exploration:   r.Exploration,
		}
	}

	s.logger.Info("Recommend successful", "user_id", userID, "events", len(events))
	return connect.NewResponse(&api.RecommendResponse{Events: events}), nil
}

// ListLocalEvents lists events in the requested city, or in the caller's
// registered city when none is given.
func (s *EventService) ListLocalEvents(ctx context.Context, req *connect.Request[api.ListLocalEventsRequest]) (*connect.Response[api.ListLocalEventsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connectError(auth.ErrUnauthenticated)
	}
	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	location := models.NormalizeLocation(req.Msg.City, req.Msg.State)
	if req.Msg.City == "" {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, connectError(err)
		}
		location = user.Location
	}

	var events []*models.Event
	if location != "" {
		var err error
		events, err = s.store.ListEventsByLocation(ctx, location)
		if err != nil {
			s.logger.Error("ListLocalEvents failed", "location", location, "error", err)
			return nil, connectError(err)
		}
	}

	return connect.NewResponse(&api.ListLocalEventsResponse{
		Location: location,
		Events:   toAPIEvents(events),
	}), nil
}
