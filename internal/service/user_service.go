package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nft1025/task/internal/domain"
	"github.com/nft1025/task/internal/store"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// UserService handles registration and credential checks.
type UserService struct {
	store store.Store
	log   zerolog.Logger
}

func NewUserService(st store.Store, log zerolog.Logger) *UserService {
	return &UserService{store: st, log: log}
}

// Register creates a user. The username is stored lowercased and trimmed;
// uniqueness is case-insensitive.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < minUsernameLen {
		return domain.User{}, fmt.Errorf("%w: username must be at least %d characters", ErrValidation, minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	if _, exists, err := s.store.FindUser(ctx, username); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.log.Info().Str("username", user.Username).Msg("registered user")
	return user, nil
}

// Login checks the credentials against the stored user. Any mismatch,
// including an unknown username, is ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, ok, err := s.store.FindUser(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
