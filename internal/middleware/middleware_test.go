package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/pkg/api"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// whoami echoes the authenticated user in the Status field.
type whoami struct{}

func (whoami) Swipe(ctx context.Context, req *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error) {
	return connect.NewResponse(&api.SwipeResponse{Status: GetUserID(ctx)}), nil
}

func setupServer(t *testing.T, interceptors ...connect.Interceptor) apiconnect.SwipeServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSwipeServiceHandler(whoami{}, connect.WithInterceptors(interceptors...)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiconnect.NewSwipeServiceClient(http.DefaultClient, server.URL)
}

func swipe(ctx context.Context, client apiconnect.SwipeServiceClient, header string) (*connect.Response[api.SwipeResponse], error) {
	req := connect.NewRequest(&api.SwipeRequest{EventID: 1, Choice: "yes"})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return client.Swipe(ctx, req)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	client := setupServer(t, RequireAuth(jwtManager))
	ctx := context.Background()

	token, err := jwtManager.Issue(&models.User{ID: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		resp, err := swipe(ctx, client, "Bearer "+token)
		if err != nil {
			t.Fatalf("Swipe failed: %v", err)
		}
		if resp.Msg.Status != "alice" {
			t.Errorf("user: expected alice, got %q", resp.Msg.Status)
		}
	})

	other := auth.NewJWTManager("another-secret-another-secret-xx", time.Hour)
	forged, _ := other.Issue(&models.User{ID: "mallory"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := swipe(ctx, client, tt.header)
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Fatalf("expected CodeUnauthenticated, got %v", err)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(1, 2)

	if !limiter.Allow("alice") || !limiter.Allow("alice") {
		t.Fatal("expected the burst to be allowed")
	}
	if limiter.Allow("alice") {
		t.Error("expected third immediate call to be limited")
	}
	if !limiter.Allow("bob") {
		t.Error("expected a separate budget per caller")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("alice") {
			t.Fatalf("call %d limited with limiting disabled", i)
		}
	}
}

func TestRateLimiterInterceptor(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	limiter := NewRateLimiter(0.001, 1)
	client := setupServer(t, RequireAuth(jwtManager), limiter.Interceptor())
	ctx := context.Background()

	token, _ := jwtManager.Issue(&models.User{ID: "alice"})

	if _, err := swipe(ctx, client, "Bearer "+token); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	_, err := swipe(ctx, client, "Bearer "+token)
	if connect.CodeOf(err) != connect.CodeResourceExhausted {
		t.Fatalf("expected CodeResourceExhausted, got %v", err)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Message() != ErrRateLimited.Error() {
		t.Errorf("message: expected %q, got %q", ErrRateLimited.Error(), connectErr.Message())
	}
}

func TestIsClientError(t *testing.T) {
	if !isClientError(connect.CodeNotFound) {
		t.Error("NotFound should be a client error")
	}
	if isClientError(connect.CodeInternal) {
		t.Error("Internal should not be a client error")
	}
}

func TestRequireAuthPublicProcedures(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	client := setupServer(t, RequireAuth(jwtManager, apiconnect.SwipeServiceSwipeProcedure))

	resp, err := swipe(context.Background(), client, "")
	if err != nil {
		t.Fatalf("public procedure rejected: %v", err)
	}
	if resp.Msg.Status != "" {
		t.Errorf("expected no user on a public call, got %q", resp.Msg.Status)
	}
}
