package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmatoff/auth-api/internal/domain"
	"github.com/akmatoff/auth-api/internal/email"
	"github.com/akmatoff/auth-api/internal/repository"
)

// passwordHasher is the subset of auth.Hasher the usecase needs.
type passwordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}

// tokenIssuer is the subset of auth.TokenService the usecase needs.
type tokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenIssuer
	email  email.Sender
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenIssuer, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned after a successful signup or login.
type AuthResult struct {
	UserID string
	Email  string
	Name   string
	Token  string
}

// Signup creates the user if the email is free, hashes the password, and
// issues a token. A taken email yields domain.ErrEmailTaken; signup is not
// idempotent. The welcome email is best-effort and never fails the signup.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	_, err := u.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := u.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	subject := "Welcome to Auth API"
	body := fmt.Sprintf("<p>Hi %s, your account is ready.</p>", user.Name)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		u.logger.Error("send welcome email", "error", err)
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, Name: user.Name, Token: token}, nil
}

// Login verifies the password against the stored hash and issues a token.
// A wrong password yields domain.ErrInvalidCredentials; the store is never
// mutated, so login is idempotent.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, Name: user.Name, Token: token}, nil
}

// FindAll returns every user in the store's natural order. Password hashes
// stay in the domain object; the transport layer never serializes them.
func (u *AuthUsecase) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := u.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// FindByID returns the user's name, or domain.ErrUserNotFound.
func (u *AuthUsecase) FindByID(ctx context.Context, id string) (string, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	return user.Name, nil
}
