package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/chat"
	"github.com/kcruz3/bubbl/internal/storage"
	"github.com/kcruz3/bubbl/internal/validation"
)

var errInternal = errors.New("internal error")

// connectError maps domain errors to Connect codes. Unrecognized errors
// become CodeInternal and their text is not sent to the client.
func connectError(err error) error {
	var validationErr *validation.RequestValidationError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &validationErr),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, auth.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, chat.ErrNotMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrAlreadyExists),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeUnavailable, errors.New("service busy, please retry"))
	default:
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}
