package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/auth"
	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService registers users, checks credentials and resolves tokens.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Me returns the account behind userID, or ErrUnauthorized if it no longer exists.
	Me(ctx context.Context, userID string) (*model.User, error)
	// Verify checks a token and returns the user id it was issued for.
	Verify(token string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	signer *auth.Signer
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, signer *auth.Signer) AuthService {
	return &authService{users: users, signer: signer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if len(password) < auth.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &AuthResult{Token: s.signer.Issue(u.ID), User: u}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if auth.NeedsRehash(u.PasswordHash) {
		// A failed upgrade leaves the legacy hash in place; it still verifies.
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err == nil {
				u.PasswordHash = hash
			}
		}
	}
	return &AuthResult{Token: s.signer.Issue(u.ID), User: u}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	userID, err := s.signer.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return userID, nil
}
