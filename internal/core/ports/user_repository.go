package ports

import (
	"context"

	"github.com/friendconnect/auth-service/internal/core/domain"
)

// UserRepository abstracts user persistence. Insert must be atomic with
// respect to concurrent Find/Exists/Insert on the same username: two
// concurrent inserts of one username may never both succeed.
type UserRepository interface {
	// Find returns the stored user or domain.ErrUserNotFound.
	Find(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	// Insert stores a new user, returning domain.ErrUserExists when the
	// username is already taken. No hashing or validation happens here.
	Insert(ctx context.Context, user *domain.User) error
}
