package auth

import (
	"context"

	"github.com/kcruz3/bubbl/internal/models"
)

// Registration carries the signup form.
type Registration struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	City        string
	State       string
	Age         int
	Gender      string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account from the signup form.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
