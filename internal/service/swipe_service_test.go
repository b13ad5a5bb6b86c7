package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/pkg/api"
)

func TestSwipeFormsGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	event := env.createEvent(t, "Jazz Night", "Chicago, IL")

	first, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: event.ID, Choice: "yes"}, alice))
	if err != nil {
		t.Fatalf("alice Swipe failed: %v", err)
	}
	if first.Msg.Status != "ok" || first.Msg.Choice != "yes" {
		t.Errorf("unexpected response: %+v", first.Msg)
	}
	if first.Msg.GroupCreated || first.Msg.GroupID != "" {
		t.Errorf("expected no group yet, got %+v", first.Msg)
	}

	second, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: event.ID, Choice: "YES"}, bob))
	if err != nil {
		t.Fatalf("bob Swipe failed: %v", err)
	}
	if !second.Msg.GroupCreated || second.Msg.GroupID == "" {
		t.Fatalf("expected a group, got %+v", second.Msg)
	}

	group, err := env.groups.GetGroup(ctx, withToken(&api.GetGroupRequest{GroupID: second.Msg.GroupID}, alice))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if group.Msg.Group.Name != "Jazz Night #1" {
		t.Errorf("name: expected 'Jazz Night #1', got '%s'", group.Msg.Group.Name)
	}
	if len(group.Msg.Members) != 2 || !group.Msg.IsMember {
		t.Errorf("unexpected membership: %+v", group.Msg)
	}
}

func TestSwipeAlreadyWaiting(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	event := env.createEvent(t, "Jazz Night", "Chicago, IL")

	if _, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: event.ID, Choice: "yes"}, alice)); err != nil {
		t.Fatalf("first Swipe failed: %v", err)
	}
	resp, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: event.ID, Choice: "yes"}, alice))
	if err != nil {
		t.Fatalf("second Swipe failed: %v", err)
	}
	if !resp.Msg.AlreadyWaiting || resp.Msg.Message == "" {
		t.Errorf("expected already_waiting with a message, got %+v", resp.Msg)
	}
}

func TestSwipeRepairsUnknownChoice(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	event := env.createEvent(t, "Jazz Night", "Chicago, IL")

	for _, choice := range []string{"maybe", ""} {
		resp, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: event.ID, Choice: choice}, alice))
		if err != nil {
			t.Fatalf("Swipe(%q) failed: %v", choice, err)
		}
		if resp.Msg.Choice != "no" {
			t.Errorf("choice %q: expected no, got %s", choice, resp.Msg.Choice)
		}
	}

	matches, _ := env.store.ListMatches(ctx, event.ID)
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSwipeErrors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	_, err := env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: 999, Choice: "yes"}, alice))
	assertCode(t, err, connect.CodeNotFound)

	for _, id := range []int64{0, -3} {
		_, err = env.swipe.Swipe(ctx, withToken(&api.SwipeRequest{EventID: id, Choice: "yes"}, alice))
		assertCode(t, err, connect.CodeNotFound)
	}

	_, err = env.swipe.Swipe(ctx, connect.NewRequest(&api.SwipeRequest{EventID: 1, Choice: "yes"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
