package service

import (
	"context"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/chat"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/validation"
	"github.com/kcruz3/bubbl/pkg/api"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	chat   *chat.Service
	logger *slog.Logger
}

// NewGroupService creates a new GroupService backed by the chat service.
func NewGroupService(chat *chat.Service, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{chat: chat, logger: logger}
}

// GetGroup retrieves a group page: the group, its event and its members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connectError(auth.ErrUnauthenticated)
	}
	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	detail, err := s.chat.GroupDetail(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:    toAPIGroup(detail.Group),
		Event:    toAPIEvent(detail.Event),
		Members:  detail.Members,
		IsMember: slices.Contains(detail.Members, userID),
	}), nil
}

// ListMyGroups lists the groups the caller belongs to.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)

	summaries, err := s.chat.GroupsFor(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	groups := make([]*api.GroupSummary, len(summaries))
	for i, g := range summaries {
		groups[i] = &api.GroupSummary{
			GroupID:   g.GroupID,
			GroupName: g.GroupName,
			EventID:   g.EventID,
			EventName: g.EventName,
			CreatedAt: g.CreatedAt,
		}
	}

	s.logger.Info("ListMyGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: groups}), nil
}

// ListMembers returns the usernames in a group.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, connectError(auth.ErrUnauthenticated)
	}
	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	members, err := s.chat.MembersOf(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: members}), nil
}

// SendMessage posts to a group's chat. Only members may post.
func (s *GroupService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	userID := middleware.GetUserID(ctx)
	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	msg, err := s.chat.AppendMessage(ctx, req.Msg.GroupID, userID, req.Msg.Body)
	if err != nil {
		s.logger.Warn("SendMessage failed", "group_id", req.Msg.GroupID, "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SendMessageResponse{Message: toAPIMessage(msg)}), nil
}

// ListMessages returns a group's chat, optionally only messages after SinceID.
func (s *GroupService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	if middleware.GetUserID(ctx) == "" {
		return nil, connectError(auth.ErrUnauthenticated)
	}
	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	msgs, err := s.chat.ListMessages(ctx, req.Msg.GroupID, req.Msg.SinceID)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]*api.Message, len(msgs))
	for i, m := range msgs {
		out[i] = toAPIMessage(m)
	}
	return connect.NewResponse(&api.ListMessagesResponse{Messages: out}), nil
}
