// Package chat provides group membership lookups and the per-group message log.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/metrics"
	"github.com/kcruz3/bubbl/internal/models"
)

// MaxMessageLength is the longest message body kept, in characters.
// Longer bodies are truncated.
const MaxMessageLength = 300

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrNotMember    = errors.New("not a member of this group")
)

// Store is the storage the chat service reads and writes.
type Store interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListMembers(ctx context.Context, groupID string) ([]string, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error)
	AppendMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, groupID string, sinceID int64) ([]*models.Message, error)
}

// Service implements membership and messaging.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a chat service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// MembersOf returns the usernames in a group.
func (s *Service) MembersOf(ctx context.Context, groupID string) ([]string, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// GroupDetail returns a group with its event and members.
func (s *Service) GroupDetail(ctx context.Context, groupID string) (*models.GroupDetail, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, group.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event for group %s: %w", groupID, err)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &models.GroupDetail{Group: group, Event: event, Members: members}, nil
}

// GroupsFor returns the groups a user belongs to.
func (s *Service) GroupsFor(ctx context.Context, userID string) ([]*models.GroupSummary, error) {
	if userID == "" {
		return nil, auth.ErrUnauthenticated
	}
	return s.store.ListGroupsForUser(ctx, userID)
}

// AppendMessage posts a message to a group on behalf of sender.
// The body is trimmed and truncated to MaxMessageLength characters.
func (s *Service) AppendMessage(ctx context.Context, groupID, sender, body string) (*models.Message, error) {
	if sender == "" {
		return nil, auth.ErrUnauthenticated
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	body = truncate(body, MaxMessageLength)

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.store.IsMember(ctx, groupID, sender)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	msg := &models.Message{GroupID: groupID, Sender: sender, Body: body}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	metrics.RecordMessage()
	s.logger.Debug("Message appended", "group_id", groupID, "sender", sender, "message_id", msg.ID)

	return msg, nil
}

// ListMessages returns a group's messages newer than sinceID, in arrival order.
// A sinceID of zero returns the whole log.
func (s *Service) ListMessages(ctx context.Context, groupID string, sinceID int64) ([]*models.Message, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if sinceID < 0 {
		sinceID = 0
	}
	return s.store.ListMessages(ctx, groupID, sinceID)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
