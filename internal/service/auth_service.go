package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/storage"
	"github.com/kcruz3/bubbl/internal/validation"
	"github.com/kcruz3/bubbl/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "username", req.Msg.Username)

	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(err)
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Username:    req.Msg.Username,
		Password:    req.Msg.Password,
		DisplayName: req.Msg.DisplayName,
		Email:       req.Msg.Email,
		City:        req.Msg.City,
		State:       req.Msg.State,
		Age:         req.Msg.Age,
		Gender:      req.Msg.Gender,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, connectError(err)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "location", user.Location)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	if err := validation.ValidateStruct(req.Msg); err != nil {
		return nil, connectError(auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		return nil, connectError(auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connectError(auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetCurrentUser failed", "user_id", userID, "error", err)
		// A valid token for a deleted account is treated as no identity.
		return nil, connectError(auth.ErrUnauthenticated)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
