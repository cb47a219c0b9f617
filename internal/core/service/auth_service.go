package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
	"github.com/gymcore/gym-api/internal/pkg/metrics"
)

const minPasswordLen = 8

// AuthService implements registration, login and self-service profile edits.
type AuthService struct {
	users   ports.UserRepository
	centers ports.CenterRepository
	tokens  ports.TokenService
	log     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, centers ports.CenterRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, centers: centers, tokens: tokens, log: log}
}

// Register creates a pending member account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, domain.Invalid("name and email are required")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	pub := user.Public()
	return &pub, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status == domain.StatusInactive {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrAccountInactive
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user.Public()}, nil
}

// Me returns the caller's authoritative account state.
func (s *AuthService) Me(ctx context.Context, caller domain.Identity) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile changes the caller's name and favorite center.
func (s *AuthService) UpdateProfile(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name cannot be empty")
		}
		user.Name = name
	}
	switch {
	case in.ClearFavorite:
		user.FavoriteCenterID = nil
	case in.FavoriteCenterID != nil:
		if _, err := s.centers.FindByID(ctx, *in.FavoriteCenterID); err != nil {
			return nil, err
		}
		fav := *in.FavoriteCenterID
		user.FavoriteCenterID = &fav
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", domain.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
