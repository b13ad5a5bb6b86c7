package models

// Match records one user's "yes" on an event.
// A match with an empty GroupID is pending. Once GroupID is set it never changes.
type Match struct {
	// ID is the unique identifier for the match (UUID format).
	ID string

	EventID int64
	UserID  string

	// GroupID is empty while the match is pending.
	GroupID string

	// CreatedAt is the Unix timestamp when the user swiped yes.
	CreatedAt int64
}

// Pending reports whether the match is still waiting for a group.
func (m *Match) Pending() bool {
	return m.GroupID == ""
}

// Group is a set of users carved out together for one event.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	EventID int64

	// Name is derived at creation from the event name and a per-event ordinal
	// (e.g., "Jazz Night #2").
	Name string

	// CreatedAt is the Unix timestamp when the group was formed.
	CreatedAt int64
}

// GroupSummary is a row of a user's "my groups" listing.
type GroupSummary struct {
	GroupID   string
	GroupName string
	EventID   int64
	EventName string
	CreatedAt int64
}

// GroupDetail bundles everything shown on a group page.
type GroupDetail struct {
	Group   *Group
	Event   *Event
	Members []string
}

// Message is a chat line inside a group.
type Message struct {
	// ID increases monotonically in arrival order. Clients poll with since_id.
	ID      int64
	GroupID string
	Sender  string
	Body    string

	// CreatedAt is the Unix timestamp assigned by the server.
	CreatedAt int64
}
