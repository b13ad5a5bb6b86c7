package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/chat"
	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/storage/sqlite"
	"github.com/kcruz3/bubbl/internal/swipe"
	"github.com/kcruz3/bubbl/pkg/api"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testEnv is a full server over a temp SQLite database with one client per service.
type testEnv struct {
	store  *sqlite.SQLiteStore
	auth   apiconnect.AuthServiceClient
	swipe  apiconnect.SwipeServiceClient
	events apiconnect.EventServiceClient
	groups apiconnect.GroupServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "bubbl-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	engine := grouping.NewEngine(store, grouping.DefaultConfig(), nil)
	routes := Routes(Deps{
		Users:         store,
		Events:        store,
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		JWT:           auth.NewJWTManager(testSecret, time.Hour),
		Intake:        swipe.NewIntake(engine, swipe.DefaultPolicy(), nil),
		Scorer:        recommend.NewScorer(store, recommend.DefaultConfig(), nil),
		Chat:          chat.NewService(store, nil),
	})

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Path, r.Handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:  store,
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		swipe:  apiconnect.NewSwipeServiceClient(http.DefaultClient, server.URL),
		events: apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		groups: apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
	}
}

// register signs up username in Chicago, IL and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username:    username,
		Password:    "password123",
		DisplayName: username,
		Email:       username + "@example.com",
		City:        "chicago",
		State:       "il",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return resp.Msg.Token
}

// createEvent inserts an event directly, as the catalog loader would.
func (e *testEnv) createEvent(t *testing.T, name, location string) *models.Event {
	t.Helper()
	event := &models.Event{Name: name, Location: location}
	if err := e.store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return event
}

// withToken wraps msg in a request carrying a bearer token.
func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got no error", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
