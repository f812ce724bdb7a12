package auth

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"gudang/internal/core/apperror"
	"gudang/internal/core/appctx"
	"gudang/internal/core/id"
	"gudang/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 6,
	}
}

// Service provides authentication and user management.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
	}
}

// Login authenticates a user and returns an access token. Unknown
// username and wrong password produce the same error, so the response
// never confirms which usernames exist.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, user, nil
}

// CreateUserRequest for creating a user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser creates a new user. Admin only.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.userRepo.Exists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "username", req.Username)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Name, req.Username, string(passwordHash), req.Role)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user created",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	return user, nil
}

// UpdateUserRequest for updating a user. Empty password keeps the
// current one.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// UpdateUser updates a user's profile and optionally the password.
// Admin only.
func (s *Service) UpdateUser(ctx context.Context, userID id.ID, req UpdateUserRequest) (*User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != user.Username {
		exists, err := s.userRepo.Exists(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username exists: %w", err)
		}
		if exists {
			return nil, apperror.NewDuplicate("user", "username", req.Username)
		}
	}

	user.Name = req.Name
	user.Username = req.Username
	user.Role = req.Role

	if req.Password != "" {
		if len(req.Password) < s.config.PasswordMinLength {
			return nil, apperror.NewValidation(
				fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
			).WithDetail("field", "password")
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	logger.Info(ctx, "user updated", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// DeleteUser removes a user. Admin only; admins cannot delete
// themselves, so the system always keeps at least one admin.
func (s *Service) DeleteUser(ctx context.Context, userID id.ID) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	if current := appctx.GetUser(ctx); current != nil && current.UserID == userID.String() {
		return apperror.NewValidation("cannot delete your own account")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	logger.Info(ctx, "user deleted", "user_id", userID)
	return nil
}

// ListUsers returns all users sorted by name. Admin only.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// EnsureDefaultAdmin creates the bootstrap admin account when no users
// exist yet, so a fresh install is reachable.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := NewUser("Administrator", username, string(passwordHash), RoleAdmin)
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	logger.Warn(ctx, "default admin created, change the password",
		"username", username)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	if !appctx.GetUser(ctx).IsAdmin() {
		return apperror.NewForbidden("admin role required")
	}
	return nil
}
