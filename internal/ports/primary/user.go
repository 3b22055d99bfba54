package primary

import (
	"context"
	"time"

	"github.com/example/sentinel/internal/core/access"
)

// User is a user at the port boundary, without the password hash.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Role        access.Role
	Active      bool
	LastLogin   time.Time
	CreatedAt   time.Time
}

// AuthResult is a successful login.
type AuthResult struct {
	Token     string
	User      *User
	ExpiresAt time.Time
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Username    string
	Password    string
	DisplayName string
	Role        access.Role
	Active      bool
}

// UpdateUserRequest contains parameters for updating a user. An empty
// Password leaves the stored hash unchanged.
type UpdateUserRequest struct {
	ID          string
	DisplayName string
	Password    string
	Role        access.Role
	Active      bool
}

// UserService manages users and login sessions.
type UserService interface {
	// Login validates credentials and issues a signed session token.
	// Inactive users cannot log in.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Verify parses a session token and returns its user.
	Verify(ctx context.Context, token string) (*User, error)

	// Create adds a user. Requires users:create.
	Create(ctx context.Context, req CreateUserRequest) (*User, error)

	// Get retrieves one user. Requires users:read.
	Get(ctx context.Context, id string) (*User, error)

	// List retrieves all users. Requires users:read.
	List(ctx context.Context) ([]*User, error)

	// Update rewrites a user's display name, role, active flag, and
	// optionally password. Requires users:update.
	Update(ctx context.Context, req UpdateUserRequest) error

	// Delete removes a user. Requires users:delete.
	Delete(ctx context.Context, id string) error

	// ChangePassword verifies the current password before setting the
	// new one.
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
}
