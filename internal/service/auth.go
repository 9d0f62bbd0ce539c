package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// UserRepository is the persistence surface the auth service needs.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration and login.
type AuthService struct {
	repo   UserRepository
	tokens *auth.TokenIssuer
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates a new account with an argon2id-hashed credential.
// Returns ErrEmailTaken if the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credential and issues a bearer token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Me loads the account behind an authenticated request. A token whose
// account has since been deleted reads as ErrInvalidCredentials.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// validateEmail checks the address parses per RFC 5322.
func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
