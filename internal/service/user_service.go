package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/validator"

	"github.com/google/uuid"
)

type NotificationPreferencesUpdate struct {
	Email    *bool `json:"email"`
	LowStock *bool `json:"lowStock"`
	StockOut *bool `json:"stockOut"`
}

type PreferencesUpdate struct {
	Theme           *string                        `json:"theme" validate:"omitempty,oneof=light dark system"`
	Notifications   *NotificationPreferencesUpdate `json:"notifications"`
	DashboardLayout *string                        `json:"dashboardLayout" validate:"omitempty,oneof=default compact detailed"`
	Language        *string                        `json:"language" validate:"omitempty,min=2,max=10"`
}

// UpdateProfileRequest changes only the fields that are set. A new password
// needs the current one.
type UpdateProfileRequest struct {
	Username        *string            `json:"username" validate:"omitempty,username,max=50"`
	Email           *string            `json:"email" validate:"omitempty,email"`
	FirstName       *string            `json:"firstName" validate:"omitempty,max=100"`
	LastName        *string            `json:"lastName" validate:"omitempty,max=100"`
	Preferences     *PreferencesUpdate `json:"preferences"`
	CurrentPassword string             `json:"currentPassword"`
	Password        string             `json:"password"`
}

// ProfileUpdateFields are the JSON keys UpdateProfileRequest accepts.
var ProfileUpdateFields = map[string]bool{
	"username": true, "email": true, "firstName": true, "lastName": true,
	"preferences": true, "currentPassword": true, "password": true,
}

type UserService interface {
	GetProfile(ctx context.Context, actor auth.Principal) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, actor auth.Principal, req UpdateProfileRequest) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserResponse, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
}

type userService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
}

func NewUserService(users repository.UserRepository, tokens *jwt.Manager) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) GetProfile(ctx context.Context, actor auth.Principal) (*model.UserResponse, error) {
	return s.GetUserByID(ctx, actor.UserID)
}

// MergePreferences applies the set fields of upd on top of current.
func MergePreferences(current model.Preferences, upd *PreferencesUpdate) model.Preferences {
	if upd == nil {
		return current
	}
	if upd.Theme != nil {
		current.Theme = *upd.Theme
	}
	if upd.DashboardLayout != nil {
		current.DashboardLayout = *upd.DashboardLayout
	}
	if upd.Language != nil {
		current.Language = *upd.Language
	}
	if n := upd.Notifications; n != nil {
		if n.Email != nil {
			current.Notifications.Email = *n.Email
		}
		if n.LowStock != nil {
			current.Notifications.LowStock = *n.LowStock
		}
		if n.StockOut != nil {
			current.Notifications.StockOut = *n.StockOut
		}
	}
	return current
}

func (s *userService) UpdateProfile(ctx context.Context, actor auth.Principal, req UpdateProfileRequest) (*AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, passOrWrap("find user", notFound(err, ErrUserNotFound))
	}

	if req.Password != "" {
		if req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if !user.CheckPassword(req.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		if !validator.IsStrongPassword(req.Password) {
			return nil, apperror.Validation("password must be at least 8 characters and contain a letter, a number and a special character")
		}
		if err := user.SetPassword(req.Password); err != nil {
			return nil, internal("hash password", err)
		}
	}

	username, email := user.Username, user.Email
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if username != user.Username || email != user.Email {
		if err := checkUnique(ctx, s.users, user, username, email); err != nil {
			return nil, passOrWrap("check unique", err)
		}
	}
	user.Username = username
	user.Email = email
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.Preferences = MergePreferences(user.Preferences, req.Preferences)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, internal("update user", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, internal("generate token", err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, passOrWrap("find user", notFound(err, ErrUserNotFound))
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, passOrWrap("find user", notFound(err, ErrUserNotFound))
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ResetPassword sets a new password without the current one. Used by the
// operator CLI only.
func (s *userService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if !validator.IsStrongPassword(newPassword) {
		return apperror.Validation("password must be at least 8 characters and contain a letter, a number and a special character")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return passOrWrap("find user", notFound(err, ErrUserNotFound))
	}
	var hashed model.User
	if err := hashed.SetPassword(newPassword); err != nil {
		return internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		return passOrWrap("update password", notFound(err, ErrUserNotFound))
	}
	return nil
}
