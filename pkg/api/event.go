package api

type Event struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Location    string `json:"location,omitempty"`
	Link        string `json:"link,omitempty"`
	Popularity  int64  `json:"popularity"`
}

type RecommendRequest struct{}

// RecommendedEvent is one ranked event and the signals that put it there.
type RecommendedEvent struct {
	Event         *Event  `json:"event"`
	Score         float64 `json:"score"`
	Collaborative bool    `json:"collaborative,omitempty"`
	Content       bool    `json:"content,omitempty"`
	Exploration   bool    `json:"exploration,omitempty"`
}

type RecommendResponse struct {
	Events []*RecommendedEvent `json:"events"`
}

// ListLocalEventsRequest lists events in a city. An empty city uses the
// caller's registered location.
type ListLocalEventsRequest struct {
	City  string `json:"city,omitempty" validate:"max=100"`
	State string `json:"state,omitempty" validate:"max=50"`
}

type ListLocalEventsResponse struct {
	Location string   `json:"location"`
	Events   []*Event `json:"events"`
}
