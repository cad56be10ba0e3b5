package contact

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("contact: not found")

type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id string) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
	// Update applies p to the contact and returns the stored result.
	Update(ctx context.Context, id string, p Patch) (*Contact, error)
	Delete(ctx context.Context, id string) error
}
