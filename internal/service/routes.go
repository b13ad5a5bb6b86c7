package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/chat"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/storage"
	"github.com/kcruz3/bubbl/internal/swipe"
	"github.com/kcruz3/bubbl/pkg/api/apiconnect"
)

// Deps are the components the RPC services are built from.
type Deps struct {
	Users         storage.UserStore
	Events        EventStore
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Intake        *swipe.Intake
	Scorer        *recommend.Scorer
	Chat          *chat.Service

	// SwipeLimiter throttles SwipeService per user. Nil disables it.
	SwipeLimiter *middleware.RateLimiter

	Logger *slog.Logger
}

// Route is a Connect handler and the path prefix it serves.
type Route struct {
	Path    string
	Handler http.Handler
}

// publicProcedures can be called without a token.
var publicProcedures = []string{
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
}

// Routes builds every service with authentication and logging interceptors.
func Routes(d Deps) []Route {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authn := middleware.RequireAuth(d.JWT, publicProcedures...)
	logging := middleware.LoggingInterceptor(logger)
	common := connect.WithInterceptors(authn, logging)

	swipeInterceptors := []connect.Interceptor{authn, logging}
	if d.SwipeLimiter != nil {
		swipeInterceptors = append(swipeInterceptors, d.SwipeLimiter.Interceptor())
	}

	var routes []Route
	add := func(path string, h http.Handler) {
		routes = append(routes, Route{Path: path, Handler: h})
	}

	add(apiconnect.NewAuthServiceHandler(
		NewAuthService(d.Authenticator, d.JWT, d.Users, logger.With("service", "auth")), common))
	add(apiconnect.NewSwipeServiceHandler(
		NewSwipeService(d.Intake, logger.With("service", "swipe")),
		connect.WithInterceptors(swipeInterceptors...)))
	add(apiconnect.NewEventServiceHandler(
		NewEventService(d.Scorer, d.Events, logger.With("service", "event")), common))
	add(apiconnect.NewGroupServiceHandler(
		NewGroupService(d.Chat, logger.With("service", "group")), common))

	return routes
}
