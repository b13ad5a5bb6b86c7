// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/kcruz3/bubbl/internal/models"
)

var (
	// ErrNotFound is returned when a referenced user, event or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique key (username, email) is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict is returned when a transaction lost a race with a concurrent
	// writer (busy database, serialization failure, deadlock). Callers may retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user.
	// Returns ErrAlreadyExists if the username or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by username.
	// Returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email address.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// InterestStore maps users to interests.
type InterestStore interface {
	// AddUserInterest links a user to the named interest, creating the interest
	// if needed. Linking twice is a no-op. No RPC edits interests; this is the
	// seeding hook for fixtures and admin tooling.
	AddUserInterest(ctx context.Context, userID, name string) error

	// ListInterests returns the user's interests ordered by name.
	ListInterests(ctx context.Context, userID string) ([]models.Interest, error)

	// SimilarUsers returns other users sharing at least one interest with userID,
	// ordered by shared count descending then username ascending.
	SimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error)
}

// EventCatalog reads the event catalog.
type EventCatalog interface {
	// CreateEvent inserts an event and assigns its ID. Used by the bulk loader.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID.
	// Returns ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, id int64) (*models.Event, error)

	// GetEvents retrieves events by ID. Missing IDs are omitted.
	GetEvents(ctx context.Context, ids []int64) (map[int64]*models.Event, error)

	// ListEventsByLocation returns events at a normalized "City, ST" location.
	ListEventsByLocation(ctx context.Context, location string) ([]*models.Event, error)

	// SearchEvents returns up to limit IDs of events whose name or description
	// contains keyword, case-insensitively.
	SearchEvents(ctx context.Context, keyword string, limit int) ([]int64, error)

	// RandomEventIDs returns up to limit distinct event IDs chosen uniformly at random.
	RandomEventIDs(ctx context.Context, limit int) ([]int64, error)
}

// RatingStore reads decisions.
type RatingStore interface {
	// GetRating returns the user's decision on an event.
	// Returns ErrNotFound if the user never rated the event.
	// Read-back hook for tests and admin tooling; the RPC surface never needs it.
	GetRating(ctx context.Context, userID string, eventID int64) (*models.Rating, error)

	// LikedEventIDs returns the distinct events any of the given users rated yes.
	LikedEventIDs(ctx context.Context, userIDs []string) ([]int64, error)
}

// GroupStore reads groups and matches.
type GroupStore interface {
	// GetGroup retrieves a group by ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListMembers returns the usernames whose matches belong to the group.
	ListMembers(ctx context.Context, groupID string) ([]string, error)

	// IsMember reports whether userID has a match in the group.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// ListGroupsForUser returns the groups the user belongs to, oldest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error)

	// ListMatches returns every match (pending or grouped) for an event.
	// Read-back hook for tests and admin tooling; the RPC surface never needs it.
	ListMatches(ctx context.Context, eventID int64) ([]*models.Match, error)
}

// MessageStore persists group chat.
type MessageStore interface {
	// AppendMessage inserts a message and assigns its ID.
	AppendMessage(ctx context.Context, msg *models.Message) error

	// ListMessages returns messages of a group with ID greater than sinceID,
	// in arrival order.
	ListMessages(ctx context.Context, groupID string, sinceID int64) ([]*models.Message, error)
}

// EventTx is the unit of work for one decision on one event.
// All methods run inside a single transaction; nothing is visible to other
// callers until the enclosing WithinTx returns nil.
type EventTx interface {
	// LockEvent loads the event and, where the backend supports it, locks its row
	// until the transaction ends so that group formation for the event is serialized.
	// Returns ErrNotFound if the event does not exist.
	LockEvent(ctx context.Context, eventID int64) (*models.Event, error)

	// UpsertRating sets the user's decision on the event and returns the previous
	// decision, if any.
	UpsertRating(ctx context.Context, userID string, eventID int64, d models.Decision) (prev *models.Decision, err error)

	// BumpPopularity increments the event's popularity by one.
	BumpPopularity(ctx context.Context, eventID int64) error

	// HasPendingMatch reports whether the user has a pending match for the event.
	HasPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error)

	// InsertPendingMatch records a pending match.
	InsertPendingMatch(ctx context.Context, match *models.Match) error

	// WithdrawPendingMatch deletes the user's pending match for the event, if any.
	WithdrawPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error)

	// CountPendingMatches counts matches for the event that have no group.
	CountPendingMatches(ctx context.Context, eventID int64) (int, error)

	// CountGroups counts groups already formed for the event.
	CountGroups(ctx context.Context, eventID int64) (int, error)

	// CreateGroup inserts a group.
	CreateGroup(ctx context.Context, group *models.Group) error

	// AssignPendingMatches attaches every pending match of the event to the group
	// and returns how many were attached. Matches that already have a group are
	// never touched.
	AssignPendingMatches(ctx context.Context, eventID int64, groupID string) (int, error)
}

// Transactor runs a function inside a storage transaction.
type Transactor interface {
	// WithinTx begins a transaction, calls fn, and commits if fn returns nil.
	// The transaction is rolled back on any error. Conflicts with concurrent
	// writers are reported as ErrConflict.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx EventTx) error) error
}

// Store is the complete storage backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	InterestStore
	EventCatalog
	RatingStore
	GroupStore
	MessageStore
	Transactor

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
