package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/ports/secondary"
)

// sessionTTL is how long a login token stays valid.
const sessionTTL = 8 * time.Hour

// TokenSigner issues and parses login session tokens.
type TokenSigner interface {
	Sign(userID string, role access.Role, expiresAt time.Time) (string, error)
	// Parse returns the subject user id of a valid token.
	Parse(token string) (string, error)
}

// UserServiceImpl implements primary.UserService.
type UserServiceImpl struct {
	users  secondary.UserRepository
	signer TokenSigner
	now    func() time.Time
	newID  func(prefix string) string
}

// NewUserService creates a UserService with injected dependencies.
func NewUserService(users secondary.UserRepository, signer TokenSigner) *UserServiceImpl {
	return &UserServiceImpl{
		users:  users,
		signer: signer,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newID,
	}
}

func toUser(rec *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:          rec.ID,
		Username:    rec.Username,
		DisplayName: rec.DisplayName,
		Role:        rec.Role,
		Active:      rec.Active,
		LastLogin:   rec.LastLogin,
		CreatedAt:   rec.CreatedAt,
	}
}

// Login validates credentials and issues a signed session token.
func (s *UserServiceImpl) Login(ctx context.Context, username, password string) (*primary.AuthResult, error) {
	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NewUnauthorizedError("invalid username or password")
	}
	if bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		return nil, NewUnauthorizedError("invalid username or password")
	}
	if !rec.Active {
		return nil, NewForbiddenError("user account is deactivated")
	}

	now := s.now()
	expiresAt := now.Add(sessionTTL)
	token, err := s.signer.Sign(rec.ID, rec.Role, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	if err := s.users.UpdateLastLogin(ctx, rec.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}
	rec.LastLogin = now
	return &primary.AuthResult{Token: token, User: toUser(rec), ExpiresAt: expiresAt}, nil
}

// Verify parses a session token and returns its user. The role embedded
// in the token is ignored; the stored role is authoritative.
func (s *UserServiceImpl) Verify(ctx context.Context, token string) (*primary.User, error) {
	userID, err := s.signer.Parse(token)
	if err != nil {
		return nil, NewUnauthorizedError("invalid or expired session, log in again")
	}
	rec, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Active {
		return nil, NewUnauthorizedError("invalid or expired session, log in again")
	}
	return toUser(rec), nil
}

// Create adds a user.
func (s *UserServiceImpl) Create(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, NewInvalidError("username is required")
	}
	if req.Password == "" {
		return nil, NewInvalidError("password is required")
	}
	if !access.ValidRole(req.Role) {
		return nil, NewInvalidError(fmt.Sprintf("unknown role %q", req.Role))
	}
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError(fmt.Sprintf("username %q is already taken", req.Username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	rec := &secondary.UserRecord{
		ID:           s.newID("usr"),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       req.Active,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return toUser(rec), nil
}

func (s *UserServiceImpl) getRecord(ctx context.Context, id string) (*secondary.UserRecord, error) {
	rec, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	return rec, nil
}

// Get retrieves one user.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (*primary.User, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

// List retrieves all users.
func (s *UserServiceImpl) List(ctx context.Context) ([]*primary.User, error) {
	recs, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toUser(rec))
	}
	return out, nil
}

// Update rewrites the user's mutable fields.
func (s *UserServiceImpl) Update(ctx context.Context, req primary.UpdateUserRequest) error {
	if !access.ValidRole(req.Role) {
		return NewInvalidError(fmt.Sprintf("unknown role %q", req.Role))
	}
	rec, err := s.getRecord(ctx, req.ID)
	if err != nil {
		return err
	}

	rec.DisplayName = req.DisplayName
	rec.Role = req.Role
	rec.Active = req.Active
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		rec.PasswordHash = hash
	}
	if err := s.users.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a user.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.getRecord(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// ChangePassword verifies the current password before setting the new
// one.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if newPassword == "" {
		return NewInvalidError("new password is required")
	}
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(currentPassword)) != nil {
		return NewUnauthorizedError("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	rec.PasswordHash = hash
	if err := s.users.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
