package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// Errors returned by Service.
var (
	ErrMissingCredentials = errors.New("please provide username and password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service registers users and issues session tokens.
type Service struct {
	DB     *sqlx.DB
	Secret string
	Expiry time.Duration
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	creds := model.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, ErrMissingCredentials
	}

	exists, err := store.UsernameExists(ctx, s.DB, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, s.DB, username, string(hash))
	if errors.Is(err, store.ErrConflict) {
		// Lost a race with a concurrent registration.
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed token. An unknown user
// and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	creds := model.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return "", ErrMissingCredentials
	}

	user, err := store.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return GenerateToken(s.Secret, user.ID, user.Username, s.Expiry)
}

// ChangePassword replaces a user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingCredentials
	}

	user, err := store.GetUser(ctx, s.DB, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return store.UpdateUserPassword(ctx, s.DB, userID, string(hash))
}
