package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/pkg/api"
)

func TestRecommend(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	jazz := env.createEvent(t, "Jazz Night", "Chicago, IL")
	rock := env.createEvent(t, "Rock Show", "Chicago, IL")
	env.createEvent(t, "Poetry Slam", "Chicago, IL")

	t.Run("cold start", func(t *testing.T) {
		resp, err := env.events.Recommend(ctx, withToken(&api.RecommendRequest{}, alice))
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(resp.Msg.Events) != 3 {
			t.Fatalf("expected all 3 events, got %d", len(resp.Msg.Events))
		}
		for _, e := range resp.Msg.Events {
			if e.Score != 0 {
				t.Errorf("cold start events are unscored, got %v", e.Score)
			}
		}
	})

	t.Run("hybrid", func(t *testing.T) {
		for user, interest := range map[string]string{"alice": "jazz", "bob": "jazz"} {
			if err := env.store.AddUserInterest(ctx, user, interest); err != nil {
				t.Fatalf("AddUserInterest failed: %v", err)
			}
		}
		if _, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: rock.ID, Choice: "yes"}, bob)); err != nil {
			t.Fatalf("Swipe failed: %v", err)
		}

		resp, err := env.events.Recommend(ctx, withToken(&api.RecommendRequest{}, alice))
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if len(resp.Msg.Events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(resp.Msg.Events))
		}

		// Rock: liked by bob (3) + random (1). Jazz: content (2) + random (1).
		top := resp.Msg.Events[0]
		if top.Event.ID != rock.ID || top.Score != 4 || !top.Collaborative {
			t.Errorf("rank 0: expected rock with score 4, got %+v", top)
		}
		second := resp.Msg.Events[1]
		if second.Event.ID != jazz.ID || second.Score != 3 || !second.Content {
			t.Errorf("rank 1: expected jazz with score 3, got %+v", second)
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		_, err := env.events.Recommend(ctx, connect.NewRequest(&api.RecommendRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestListLocalEvents(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	env.createEvent(t, "Jazz Night", "Chicago, IL")
	env.createEvent(t, "Deep Dish Tour", "Chicago, IL")
	env.createEvent(t, "Broadway Revue", "New York, NY")

	resp, err := env.events.ListLocalEvents(ctx, withToken(&api.ListLocalEventsRequest{}, alice))
	if err != nil {
		t.Fatalf("ListLocalEvents failed: %v", err)
	}
	if resp.Msg.Location != "Chicago, IL" || len(resp.Msg.Events) != 2 {
		t.Errorf("expected 2 events in Chicago, IL, got %s / %d", resp.Msg.Location, len(resp.Msg.Events))
	}

	resp, err = env.events.ListLocalEvents(ctx, withToken(&api.ListLocalEventsRequest{City: "new york", State: "NY"}, alice))
	if err != nil {
		t.Fatalf("ListLocalEvents failed: %v", err)
	}
	if len(resp.Msg.Events) != 1 || resp.Msg.Events[0].Name != "Broadway Revue" {
		t.Errorf("unexpected New York events: %+v", resp.Msg.Events)
	}
}
