package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user: not found")
	ErrDuplicateEmail = errors.New("user: email already exists")
)

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	// SetToken stores the current bearer token; nil clears it.
	SetToken(ctx context.Context, id string, token *string) error
	// MarkVerified sets verify and clears the verification token.
	MarkVerified(ctx context.Context, id string) error
	SetAvatarURL(ctx context.Context, id, avatarURL string) error
}
