package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/metrics"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/swipe"
	"github.com/kcruz3/bubbl/internal/validation"
	"github.com/kcruz3/bubbl/pkg/api"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

const waitingMessage = "Hang tight, we're waiting to match you to a group!"

// SwipeService implements the Connect SwipeService.
type SwipeService struct {
	apiconnect.UnimplementedSwipeServiceHandler
	intake *swipe.Intake
	logger *slog.Logger
}

// NewSwipeService creates a SwipeService recording decisions through intake.
func NewSwipeService(intake *swipe.Intake, logger *slog.Logger) *SwipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwipeService{intake: intake, logger: logger}
}

// Swipe records the caller's decision on an event and reports whether it
// completed a group.
func (s *SwipeService) Swipe(ctx context.Context, req *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error) {
	userID := middleware.GetUserID(ctx)

	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	decision, ok := models.ParseDecision(req.Msg.Choice)
	if !ok {
		metrics.RecordRepairedChoice()
		s.logger.Warn("Unrecognized choice treated as no",
			"user_id", userID,
			"event_id", req.Msg.EventID,
			"choice", strings.TrimSpace(req.Msg.Choice),
		)
	}

	result, err := s.intake.RecordDecision(ctx, userID, req.Msg.EventID, decision)
	if err != nil {
		s.logger.Warn("Swipe failed", "user_id", userID, "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.SwipeResponse{
		Status:         "ok",
		Choice:         result.Decision.String(),
		GroupCreated:   result.Grouped,
		AlreadyWaiting: result.AlreadyPending,
	}
	if result.Grouped {
		resp.GroupID = result.Group.ID
	}
	if result.AlreadyPending {
		resp.Message = waitingMessage
	}

	s.logger.Debug("Swipe recorded",
		"user_id", userID,
		"event_id", req.Msg.EventID,
		"choice", resp.Choice,
		"group_created", resp.GroupCreated,
	)
	return connect.NewResponse(resp), nil
}
