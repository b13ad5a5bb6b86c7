package api

type Group struct {
	ID        string `json:"id"`
	EventID   int64  `json:"event_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type GroupSummary struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
	CreatedAt int64  `json:"created_at"`
}

type Message struct {
	ID        int64  `json:"id"`
	GroupID   string `json:"group_id"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group   *Group   `json:"group"`
	Event   *Event   `json:"event"`
	Members []string `json:"members"`

	// IsMember reports whether the caller belongs to the group and may post.
	IsMember bool `json:"is_member"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

type ListMembersRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListMembersResponse struct {
	Members []string `json:"members"`
}

type SendMessageRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	Body    string `json:"body"`
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

// ListMessagesRequest polls a group's chat. Only messages with an ID greater
// than SinceID are returned.
type ListMessagesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	SinceID int64  `json:"since_id" validate:"gte=0"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}
