package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/jwt"

	"github.com/sirupsen/logrus"
)

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,username,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password_strength"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, token string) (*AuthResponse, error)
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
	SeedAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *jwt.Manager, log logrus.FieldLogger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

func (s *authService) issue(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, internal("generate token", err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

// checkUnique reports which of username and email is already used by
// someone other than self.
func checkUnique(ctx context.Context, users repository.UserRepository, self *model.User, username, email string) error {
	if u, err := users.FindByUsername(ctx, username); err == nil && (self == nil || u.ID != self.ID) {
		return ErrUsernameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if u, err := users.FindByEmail(ctx, email); err == nil && (self == nil || u.ID != self.ID) {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := checkUnique(ctx, s.users, nil, req.Username, req.Email); err != nil {
		return nil, passOrWrap("register", err)
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        model.RoleUser,
		Preferences: model.DefaultPreferences(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, internal("hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, internal("create user", err)
	}

	s.log.WithField("username", user.Username).Info("user registered")
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(req.Identifier, "@") {
		user, err = s.users.FindByEmail(ctx, strings.ToLower(req.Identifier))
	} else {
		user, err = s.users.FindByUsername(ctx, req.Identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("find user", err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, internal("update last login", err)
	}

	return s.issue(user)
}

func (s *authService) RefreshToken(ctx context.Context, token string) (*AuthResponse, error) {
	principal, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, passOrWrap("refresh token", notFound(err, ErrInvalidToken))
	}
	return s.issue(user)
}

// Authenticate verifies token and checks that its user still exists. The
// role comes from the stored user so a demotion takes effect immediately.
func (s *authService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return auth.Principal{}, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Principal{}, ErrInvalidToken
		}
		return auth.Principal{}, internal("find user", err)
	}
	return auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// SeedAdmin creates an admin account unless the username is already taken.
func (s *authService) SeedAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	admin := &model.User{
		Username:    username,
		Email:       strings.ToLower(email),
		FirstName:   "System",
		LastName:    "Administrator",
		Role:        model.RoleAdmin,
		Preferences: model.DefaultPreferences(),
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.log.WithField("username", username).Info("admin user created")
	return nil
}
