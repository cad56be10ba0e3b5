package contact

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/apperr"
	"github.com/sudo-init-do/contactbook/internal/validation"
)

func newService(t *testing.T) *Service {
	t.Helper()
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)
	return NewService(repo, validation.New())
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		msg  string
	}{
		{"missing name", CreateRequest{Email: "a@b.com", Phone: "1"}, "missing required name field"},
		{"digits in name", CreateRequest{Name: "R2D2", Email: "a@b.com", Phone: "1"}, `"name" must contain only letters and spaces`},
		{"bad email", CreateRequest{Name: "Ann", Email: "nope", Phone: "1"}, `"email" must be a valid email`},
		{"missing phone", CreateRequest{Name: "Ann", Email: "a@b.com"}, "missing required phone field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, tt.msg, apperr.PublicMessage(err))
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Ann Lee", Email: "ann@example.com", Phone: "1"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, UpdateRequest{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "missing fields", apperr.PublicMessage(err))

	_, err = svc.Update(ctx, c.ID, UpdateRequest{Email: strPtr("bad")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Update(ctx, "unknown", UpdateRequest{Name: strPtr("Eve")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	updated, err := svc.Update(ctx, c.ID, UpdateRequest{Name: strPtr("Ann Smith")})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
}

func TestServiceFavoriteAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Ann", Email: "ann@example.com", Phone: "1"})
	require.NoError(t, err)

	_, err = svc.UpdateFavorite(ctx, c.ID, FavoriteRequest{})
	assert.Equal(t, "missing field favorite", apperr.PublicMessage(err))

	fav := true
	updated, err := svc.UpdateFavorite(ctx, c.ID, FavoriteRequest{Favorite: &fav})
	require.NoError(t, err)
	assert.True(t, updated.Favorite)

	_, err = svc.UpdateFavorite(ctx, "unknown", FavoriteRequest{Favorite: &fav})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, c.ID), apperr.KindNotFound))
}
