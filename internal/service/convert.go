package service

import (
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		Username:    u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Location:    u.Location,
		Age:         u.Age,
		Gender:      u.Gender,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIEvent(e *models.Event) *api.Event {
	if e == nil {
		return nil
	}
	return &api.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.VenueAddress,
		Location:    e.Location,
		Link:        e.Link,
		Popularity:  e.Popularity,
	}
}

func toAPIEvents(events []*models.Event) []*api.Event {
	out := make([]*api.Event, len(events))
	for i, e := range events {
		out[i] = toAPIEvent(e)
	}
	return out
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		EventID:   g.EventID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIMessage(m *models.Message) *api.Message {
	return &api.Message{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Sender:    m.Sender,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
