package api

// SwipeRequest records a yes/no on an event. Choice is free text; anything
// that is not recognizably "yes" counts as "no". An EventID naming no event,
// zero and negatives included, fails with NotFound.
type SwipeRequest struct {
	EventID int64  `json:"event_id"`
	Choice  string `json:"choice"`
}

// SwipeResponse tells the client whether its swipe completed a group.
type SwipeResponse struct {
	Status string `json:"status"`

	// Choice is the decision as recorded: "yes" or "no".
	Choice string `json:"choice"`

	GroupCreated bool   `json:"group_created"`
	GroupID      string `json:"group_id,omitempty"`

	// AlreadyWaiting is set when the user already had a pending match.
	AlreadyWaiting bool   `json:"already_waiting"`
	Message        string `json:"message,omitempty"`
}
