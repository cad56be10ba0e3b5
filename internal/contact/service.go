package contact

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/sudo-init-do/contactbook/internal/apperr"
	"github.com/sudo-init-do/contactbook/internal/validation"
)

const msgNotFound = "Not found"

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (s *Service) List(ctx context.Context) ([]Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return contacts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Contact, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Contact, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}
	c := &Contact{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// Update merges the supplied fields into the contact.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Contact, error) {
	if req.Empty() {
		return nil, apperr.Validation("missing fields")
	}
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}
	c, err := s.repo.Update(ctx, id, Patch{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		return nil, repoError(err)
	}
	return c, nil
}

func (s *Service) UpdateFavorite(ctx context.Context, id string, req FavoriteRequest) (*Contact, error) {
	if req.Favorite == nil {
		return nil, apperr.Validation("missing field favorite")
	}
	c, err := s.repo.Update(ctx, id, Patch{Favorite: req.Favorite})
	if err != nil {
		return nil, repoError(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err)
	}
	return nil
}

func repoError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	return apperr.Internal(err)
}
