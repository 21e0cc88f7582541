package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	ProfileLink  *string
	CreatedAt    time.Time
}
