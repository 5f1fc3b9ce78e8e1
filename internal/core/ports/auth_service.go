package ports

import (
	"context"

	"github.com/friendconnect/auth-service/internal/core/domain"
)

// RegisterInput carries the registration form data into the auth service.
// Profile holds the demo-dependent attributes (name, age, address, ...).
type RegisterInput struct {
	Username string
	Password string
	Profile  map[string]string
}

// AuthService orchestrates registration, login and logout.
type AuthService interface {
	// Register stores a new user with a hashed credential. It does not
	// authenticate; callers are expected to send the user to the login page.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login verifies credentials and returns a session token to be set as a
	// cookie. Unknown username and wrong password are indistinguishable: both
	// fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// Logout is idempotent and always succeeds; it only records the event.
	// The outstanding token stays cryptographically valid until expiry —
	// clearing the cookie is the caller's job.
	Logout(ctx context.Context, username string)
}
